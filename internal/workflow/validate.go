package workflow

import (
	"fmt"
	"strings"

	"github.com/prvrbot/internal/breezeway"
	"github.com/prvrbot/internal/taskform"
)

// ValidationError reports an incomplete task draft at submission. Fields maps
// form block ids to user-facing messages for display on the modal.
type ValidationError struct {
	Missing []string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task draft incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// validate enforces the submission invariant: a draft is never submitted
// without a property, a department, and a title.
func validate(draft breezeway.TaskDraft) *ValidationError {
	verr := &ValidationError{Fields: map[string]string{}}

	if draft.PropertyID == 0 {
		verr.Missing = append(verr.Missing, "property")
		verr.Fields[taskform.BlockUnit] = "Select a property"
	}
	if draft.Department == "" {
		verr.Missing = append(verr.Missing, "department")
		verr.Fields[taskform.BlockDepartment] = "Select a department"
	}
	if strings.TrimSpace(draft.Title) == "" {
		verr.Missing = append(verr.Missing, "title")
		verr.Fields[taskform.BlockTitle] = "Enter a title"
	}

	if len(verr.Missing) == 0 {
		return nil
	}
	return verr
}
