package workflow

import (
	"encoding/json"
	"fmt"
)

// State is the position of a task-creation workflow in its lifecycle.
type State string

const (
	// StateOpened: the form has been rendered with suggested defaults.
	StateOpened State = "opened"
	// StateUpdated: the form has been re-rendered in place at least once.
	StateUpdated State = "updated"
	// StateSubmitted: terminal; the draft was consumed.
	StateSubmitted State = "submitted"
)

// transitions is the allowed state graph: open -> update* -> submit.
var transitions = map[State][]State{
	StateOpened:  {StateUpdated, StateSubmitted},
	StateUpdated: {StateUpdated, StateSubmitted},
}

// CanAdvance reports whether the workflow may move from s to next.
func (s State) CanAdvance(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Correlation routes a workflow's outcome back to the conversation that
// started it. It is created when the workflow starts, carried through every
// intermediate step with its content unmodified (only State advances), and
// consumed at submission.
type Correlation struct {
	InvocationID string `json:"invocation_id"`
	ChannelID    string `json:"channel"`
	ReplyTo      string `json:"reply_to"` // thread timestamp for the confirmation
	ReactTo      string `json:"react_to"` // message timestamp for the reaction
	State        State  `json:"state"`
}

// Encode serializes the correlation for transport as opaque form metadata.
func (c Correlation) Encode() (string, error) {
	encoded, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode correlation: %w", err)
	}
	return string(encoded), nil
}

// DecodeCorrelation parses a correlation previously produced by Encode.
func DecodeCorrelation(metadata string) (Correlation, error) {
	var c Correlation
	if err := json.Unmarshal([]byte(metadata), &c); err != nil {
		return Correlation{}, fmt.Errorf("failed to decode correlation: %w", err)
	}
	return c, nil
}
