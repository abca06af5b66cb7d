// Package match scores free-text chat messages against property names so the
// task form can open with the most likely property pre-selected.
package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/prvrbot/internal/breezeway"
)

// ConfidenceThreshold is the weighted score a candidate must strictly exceed
// to be pre-selected in the form. At or below it, the user picks explicitly.
const ConfidenceThreshold = 65

// lengthWeight favors longer, more specific names over short substrings that
// coincidentally score high.
const lengthWeight = 0.007

// Result is the best-scoring property for an input text.
type Result struct {
	PropertyID int
	Name       string
	Score      float64
}

// Confident reports whether the score clears the pre-selection threshold.
func (r Result) Confident() bool {
	return r.Score > ConfidenceThreshold
}

// Best returns the highest-weighted match of text against the given
// properties. The weighted score is the partial fuzzy ratio of the lowered
// name against the lowered text, scaled by 1 + 0.007*len(name). Ties keep the
// first-seen candidate. ok is false when properties is empty or nothing
// scored above zero.
func Best(text string, properties []breezeway.Property) (Result, bool) {
	lowered := strings.ToLower(text)

	best := Result{}
	for _, p := range properties {
		weight := 1 + lengthWeight*float64(len(p.Name))
		score := float64(fuzzy.PartialRatio(strings.ToLower(p.Name), lowered)) * weight
		if score > best.Score {
			best = Result{PropertyID: p.ID, Name: p.Name, Score: score}
		}
	}

	return best, best.PropertyID != 0
}
