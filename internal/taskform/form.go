// Package taskform renders and parses the Breezeway task modal.
package taskform

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/slack-go/slack"

	"github.com/prvrbot/internal/breezeway"
)

// CallbackID identifies the task modal across open/update/submit callbacks.
const CallbackID = "breezeway_task"

// Block and action identifiers used when parsing the view state.
const (
	BlockUnit        = "unit"
	BlockDepartment  = "department"
	BlockTitle       = "title"
	BlockDescription = "description"
	BlockDueDate     = "due_date"
	BlockAssignees   = "assignees"

	ActionUnit        = "unit"
	ActionDepartment  = "department"
	ActionTitle       = "title"
	ActionDescription = "description"
	ActionDueDate     = "due_date"
	ActionAssignees   = "assignees"
)

// Suggestion is a confident property match to pre-select. Zero value means no
// pre-selection: the user must choose explicitly.
type Suggestion struct {
	PropertyID int
	Name       string
}

// Params carries everything needed to render the modal.
type Params struct {
	Properties  []breezeway.Property
	People      []breezeway.Person
	Suggestion  Suggestion
	MessageText string // triggering message, becomes the initial description
	Today       string // initial due date, YYYY-MM-DD
	Metadata    string // opaque correlation payload
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

// departmentOptions is the fixed selector set. Breezeway calls the cleaning
// department "housekeeping" on the wire.
func departmentOptions() []*slack.OptionBlockObject {
	return []*slack.OptionBlockObject{
		slack.NewOptionBlockObject(string(breezeway.DepartmentHousekeeping), plainText("Cleaning"), nil),
		slack.NewOptionBlockObject(string(breezeway.DepartmentInspection), plainText("Inspection"), nil),
		slack.NewOptionBlockObject(string(breezeway.DepartmentMaintenance), plainText("Maintenance"), nil),
	}
}

func propertyOptions(properties []breezeway.Property) []*slack.OptionBlockObject {
	sorted := make([]breezeway.Property, len(properties))
	copy(sorted, properties)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	options := make([]*slack.OptionBlockObject, 0, len(sorted))
	for _, p := range sorted {
		options = append(options, slack.NewOptionBlockObject(strconv.Itoa(p.ID), plainText(p.Name), nil))
	}
	return options
}

// personLabel renders a person as "First L." for the assignee options.
func personLabel(p breezeway.Person) string {
	if p.LastName == "" {
		return p.FirstName
	}
	return fmt.Sprintf("%s %s.", p.FirstName, string([]rune(p.LastName)[0]))
}

func assigneeOptions(people []breezeway.Person) []*slack.OptionBlockObject {
	sorted := make([]breezeway.Person, len(people))
	copy(sorted, people)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FirstName < sorted[j].FirstName })

	options := make([]*slack.OptionBlockObject, 0, len(sorted))
	for _, p := range sorted {
		options = append(options, slack.NewOptionBlockObject(strconv.Itoa(p.ID), plainText(personLabel(p)), nil))
	}
	return options
}

func assigneesBlock(people []breezeway.Person) *slack.InputBlock {
	multi := slack.NewOptionsMultiSelectBlockElement(
		slack.MultiOptTypeStatic, plainText("Select options"), ActionAssignees, assigneeOptions(people)...)
	block := slack.NewInputBlock(BlockAssignees, plainText("Assignees"), nil, multi)
	block.Optional = true
	return block
}

// Build renders the task modal. The property select is pre-filled only when a
// confident suggestion exists; the department select always starts on
// Maintenance. Both selects live in input blocks so validation messages can
// render under them; the department block dispatches an action on change to
// drive the assignee refresh.
func Build(p Params) slack.ModalViewRequest {
	unitSelect := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic, plainText("Select Property"), ActionUnit, propertyOptions(p.Properties)...)
	if p.Suggestion.PropertyID != 0 {
		unitSelect.InitialOption = slack.NewOptionBlockObject(
			strconv.Itoa(p.Suggestion.PropertyID), plainText(p.Suggestion.Name), nil)
	}
	unitBlock := slack.NewInputBlock(BlockUnit, plainText("Property"), nil, unitSelect)
	unitBlock.Optional = true

	departmentSelect := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic, plainText("Select Department"), ActionDepartment, departmentOptions()...)
	departmentSelect.InitialOption = slack.NewOptionBlockObject(
		string(breezeway.DepartmentMaintenance), plainText("Maintenance"), nil)
	departmentBlock := slack.NewInputBlock(BlockDepartment, plainText("Department"), nil, departmentSelect)
	departmentBlock.DispatchAction = true

	titleInput := slack.NewPlainTextInputBlockElement(nil, ActionTitle)

	descriptionInput := slack.NewPlainTextInputBlockElement(nil, ActionDescription)
	descriptionInput.Multiline = true
	descriptionInput.InitialValue = p.MessageText

	datePicker := slack.NewDatePickerBlockElement(ActionDueDate)
	datePicker.Placeholder = plainText("Select a date")
	datePicker.InitialDate = p.Today

	blocks := slack.Blocks{BlockSet: []slack.Block{
		unitBlock,
		departmentBlock,
		slack.NewInputBlock(BlockTitle, plainText("Title"), nil, titleInput),
		slack.NewInputBlock(BlockDescription, plainText("Description"), nil, descriptionInput),
		slack.NewInputBlock(BlockDueDate, plainText("Due on"), nil, datePicker),
		assigneesBlock(p.People),
	}}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           plainText("New Breezeway task"),
		Submit:          plainText("Create"),
		Close:           plainText("Cancel"),
		Blocks:          blocks,
		CallbackID:      CallbackID,
		PrivateMetadata: p.Metadata,
	}
}

// RebuildAssignees re-renders an open modal with a fresh assignee list,
// preserving every other block and the opaque metadata so the modal identity
// and the user's entries survive the in-place update.
func RebuildAssignees(view slack.View, people []breezeway.Person) slack.ModalViewRequest {
	blocks := slack.Blocks{BlockSet: make([]slack.Block, len(view.Blocks.BlockSet))}
	copy(blocks.BlockSet, view.Blocks.BlockSet)

	for i, block := range blocks.BlockSet {
		if input, ok := block.(*slack.InputBlock); ok && input.BlockID == BlockAssignees {
			blocks.BlockSet[i] = assigneesBlock(people)
		}
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           view.Title,
		Submit:          view.Submit,
		Close:           view.Close,
		Blocks:          blocks,
		CallbackID:      view.CallbackID,
		PrivateMetadata: view.PrivateMetadata,
	}
}
