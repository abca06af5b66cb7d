package breezeway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Department is the Breezeway task department. The UI label for housekeeping
// is "Cleaning".
type Department string

const (
	DepartmentHousekeeping Department = "housekeeping"
	DepartmentInspection   Department = "inspection"
	DepartmentMaintenance  Department = "maintenance"
)

// Priority is the Breezeway task priority.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
	PriorityWatch  Priority = "watch"
)

// TaskDraft is the in-progress representation of a task before submission.
// It is built when the form opens, mutated as the user edits fields, and
// consumed by CreateTask. A draft must not be submitted without PropertyID
// and Department.
type TaskDraft struct {
	PropertyID  int
	Department  Department
	Priority    Priority
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD
	DueTime     string // HH:MM, optional
	AssigneeIDs []int
	TagIDs      []int
	TemplateID  int
}

// taskPayload is the fixed wire shape of the task creation endpoint.
type taskPayload struct {
	HomeID        string `json:"home_id"`
	Department    string `json:"type_department"`
	Priority      string `json:"type_priority"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	Assignments   []int  `json:"assignments"`
	TemplateID    *int   `json:"template_id"`
	Tags          []int  `json:"tags"`
}

func (d TaskDraft) payload() taskPayload {
	priority := d.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	assignments := d.AssigneeIDs
	if assignments == nil {
		assignments = []int{}
	}
	tags := d.TagIDs
	if tags == nil {
		tags = []int{}
	}
	var templateID *int
	if d.TemplateID != 0 {
		templateID = &d.TemplateID
	}

	return taskPayload{
		HomeID:        strconv.Itoa(d.PropertyID),
		Department:    string(d.Department),
		Priority:      string(priority),
		Name:          d.Title,
		Description:   d.Description,
		ScheduledDate: d.DueDate,
		ScheduledTime: d.DueTime,
		Assignments:   assignments,
		TemplateID:    templateID,
		Tags:          tags,
	}
}

// draft reverses payload; used to verify the wire shape is lossless.
func (p taskPayload) draft() (TaskDraft, error) {
	propertyID, err := strconv.Atoi(p.HomeID)
	if err != nil {
		return TaskDraft{}, fmt.Errorf("invalid home_id %q: %w", p.HomeID, err)
	}

	d := TaskDraft{
		PropertyID:  propertyID,
		Department:  Department(p.Department),
		Priority:    Priority(p.Priority),
		Title:       p.Name,
		Description: p.Description,
		DueDate:     p.ScheduledDate,
		DueTime:     p.ScheduledTime,
		AssigneeIDs: p.Assignments,
		TagIDs:      p.Tags,
	}
	if p.TemplateID != nil {
		d.TemplateID = *p.TemplateID
	}
	return d, nil
}

// Task is the created task as returned by the service.
type Task struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateTask submits a draft. The service answers 201 on success; anything
// else is an APIError. The draft is consumed: callers discard it afterwards.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*Task, error) {
	log.Info().Int("property_id", draft.PropertyID).Str("department", string(draft.Department)).Msg("Creating Breezeway task")

	body, err := c.do(ctx, http.MethodPost, "/public/inventory/v1/task/", draft.payload(), http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to decode task response: %w", err)
	}
	log.Info().Int("task_id", task.ID).Str("name", task.Name).Msg("Created Breezeway task")
	return &task, nil
}
