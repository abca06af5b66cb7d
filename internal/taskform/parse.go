package taskform

import (
	"strconv"

	"github.com/slack-go/slack"

	"github.com/prvrbot/internal/breezeway"
)

// Submission is the parsed result of a modal submit: the draft plus the
// display name of the chosen property for the confirmation message.
type Submission struct {
	Draft        breezeway.TaskDraft
	PropertyName string
}

// ParseSubmission extracts a task draft from the submitted view state. It
// does not validate completeness; the workflow coordinator owns that.
func ParseSubmission(view slack.View) Submission {
	// Flatten: every action id is unique across the form.
	values := map[string]slack.BlockAction{}
	if view.State != nil {
		for _, block := range view.State.Values {
			for actionID, action := range block {
				values[actionID] = action
			}
		}
	}

	var sub Submission
	if unit := values[ActionUnit]; unit.SelectedOption.Value != "" {
		sub.Draft.PropertyID, _ = strconv.Atoi(unit.SelectedOption.Value)
		if unit.SelectedOption.Text != nil {
			sub.PropertyName = unit.SelectedOption.Text.Text
		}
	}
	sub.Draft.Department = breezeway.Department(values[ActionDepartment].SelectedOption.Value)
	sub.Draft.Priority = breezeway.PriorityNormal
	sub.Draft.Title = values[ActionTitle].Value
	sub.Draft.Description = values[ActionDescription].Value
	sub.Draft.DueDate = values[ActionDueDate].SelectedDate

	for _, option := range values[ActionAssignees].SelectedOptions {
		if id, err := strconv.Atoi(option.Value); err == nil {
			sub.Draft.AssigneeIDs = append(sub.Draft.AssigneeIDs, id)
		}
	}

	return sub
}
