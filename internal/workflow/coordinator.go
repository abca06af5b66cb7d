// Package workflow drives the three-step task-creation interaction: open the
// form with suggested defaults, re-render dependent fields in place, and
// submit the draft to Breezeway, reporting the outcome back to the
// conversation that started it.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/prvrbot/internal/breezeway"
	"github.com/prvrbot/internal/match"
	"github.com/prvrbot/internal/taskform"
)

// reactionName is the marker added to the triggering message on success.
const reactionName = "breezeway"

// TaskService is the surface of the Breezeway client the workflow needs.
type TaskService interface {
	Properties(ctx context.Context) ([]breezeway.Property, error)
	People(ctx context.Context) ([]breezeway.Person, error)
	CreateTask(ctx context.Context, draft breezeway.TaskDraft) (*breezeway.Task, error)
	Authenticate(ctx context.Context) error
	TokenExpired() bool
	TaskURL(taskID int) string
}

// Notifier is the outbound chat surface. Failures are logged by the
// coordinator, never propagated to the user beyond the ephemeral-error path.
type Notifier interface {
	OpenModal(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	UpdateModal(ctx context.Context, viewID string, view slack.ModalViewRequest) error
	PostThread(ctx context.Context, channelID, threadTS, fallback string, blocks []slack.Block) error
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	AddReaction(ctx context.Context, channelID, timestamp, name string) error
}

// Trigger is the inbound "create task" action on a chat message.
type Trigger struct {
	TriggerID   string
	UserID      string
	ChannelID   string
	MessageText string
	MessageTS   string
	ThreadTS    string // set when the message already lives in a thread
}

// Submission is the inbound final form submit.
type Submission struct {
	UserID string
	View   slack.View
}

// Coordinator orchestrates the task-creation workflow. Concurrent workflow
// instances share nothing through it except the TaskService's session.
type Coordinator struct {
	tasks  TaskService
	notify Notifier
	now    func() time.Time
}

// New creates a Coordinator.
func New(tasks TaskService, notify Notifier) *Coordinator {
	return &Coordinator{tasks: tasks, notify: notify, now: time.Now}
}

// retryAuth runs call, and on an authentication failure re-authenticates and
// retries exactly once. Any other error passes through untouched.
func (c *Coordinator) retryAuth(ctx context.Context, call func() error) error {
	err := call()
	var authErr *breezeway.AuthenticationError
	if !errors.As(err, &authErr) {
		return err
	}
	if aerr := c.tasks.Authenticate(ctx); aerr != nil {
		return err
	}
	return call()
}

func (c *Coordinator) fetchProperties(ctx context.Context) ([]breezeway.Property, error) {
	var properties []breezeway.Property
	err := c.retryAuth(ctx, func() error {
		var err error
		properties, err = c.tasks.Properties(ctx)
		return err
	})
	return properties, err
}

func (c *Coordinator) fetchPeople(ctx context.Context) ([]breezeway.Person, error) {
	var people []breezeway.Person
	err := c.retryAuth(ctx, func() error {
		var err error
		people, err = c.tasks.People(ctx)
		return err
	})
	return people, err
}

// Start handles the flag action on a chat message: fetch properties and
// people, score the message text against property names, and open the form
// with the correlation attached. Failures are logged and surfaced to the
// triggering user as a short ephemeral message.
func (c *Coordinator) Start(ctx context.Context, trigger Trigger) {
	correlation := Correlation{
		InvocationID: uuid.NewString(),
		ChannelID:    trigger.ChannelID,
		ReplyTo:      trigger.MessageTS,
		ReactTo:      trigger.MessageTS,
		State:        StateOpened,
	}
	if trigger.ThreadTS != "" {
		correlation.ReplyTo = trigger.ThreadTS
	}
	logger := log.With().Str("invocation_id", correlation.InvocationID).Logger()

	if c.tasks.TokenExpired() {
		if err := c.tasks.Authenticate(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to refresh Breezeway session")
			c.ephemeral(ctx, trigger.ChannelID, trigger.UserID)
			return
		}
	}

	properties, err := c.fetchProperties(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch properties")
		c.ephemeral(ctx, trigger.ChannelID, trigger.UserID)
		return
	}
	people, err := c.fetchPeople(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch people")
		c.ephemeral(ctx, trigger.ChannelID, trigger.UserID)
		return
	}

	params := taskform.Params{
		Properties:  properties,
		People:      people,
		MessageText: trigger.MessageText,
		Today:       c.now().Format("2006-01-02"),
	}
	if result, ok := match.Best(trigger.MessageText, properties); ok && result.Confident() {
		logger.Info().Str("property", result.Name).Float64("score", result.Score).Msg("Confident property match")
		params.Suggestion = taskform.Suggestion{PropertyID: result.PropertyID, Name: result.Name}
	}

	metadata, err := correlation.Encode()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode correlation")
		return
	}
	params.Metadata = metadata

	if err := c.notify.OpenModal(ctx, trigger.TriggerID, taskform.Build(params)); err != nil {
		logger.Error().Err(err).Msg("Failed to open task modal")
	}
}

// DepartmentChanged handles the dependent-field change: re-fetch people and
// rebuild only the assignee options in place. The correlation content passes
// through unchanged; only its workflow state advances.
func (c *Coordinator) DepartmentChanged(ctx context.Context, view slack.View) {
	correlation, err := DecodeCorrelation(view.PrivateMetadata)
	if err != nil {
		log.Error().Err(err).Msg("Dropping form update with unreadable correlation")
		return
	}
	logger := log.With().Str("invocation_id", correlation.InvocationID).Logger()

	if !correlation.State.CanAdvance(StateUpdated) {
		logger.Warn().Str("state", string(correlation.State)).Msg("Ignoring form update in terminal state")
		return
	}
	correlation.State = StateUpdated

	people, err := c.fetchPeople(ctx)
	if err != nil {
		// The modal keeps its previous assignee list; nothing to tell the user.
		logger.Error().Err(err).Msg("Failed to re-fetch people for form update")
		return
	}

	metadata, err := correlation.Encode()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode correlation")
		return
	}
	view.PrivateMetadata = metadata

	if err := c.notify.UpdateModal(ctx, view.ID, taskform.RebuildAssignees(view, people)); err != nil {
		logger.Error().Err(err).Msg("Failed to update task modal")
	}
}

// Submit handles the final form submission. It returns field errors keyed by
// block id when the draft is incomplete so the modal can show them; any other
// outcome is terminal and reported into the originating conversation.
func (c *Coordinator) Submit(ctx context.Context, submission Submission) map[string]string {
	correlation, err := DecodeCorrelation(submission.View.PrivateMetadata)
	if err != nil {
		log.Error().Err(err).Msg("Dropping form submission with unreadable correlation")
		return nil
	}
	logger := log.With().Str("invocation_id", correlation.InvocationID).Logger()

	if !correlation.State.CanAdvance(StateSubmitted) {
		logger.Warn().Str("state", string(correlation.State)).Msg("Ignoring duplicate submission")
		return nil
	}
	correlation.State = StateSubmitted

	parsed := taskform.ParseSubmission(submission.View)
	if verr := validate(parsed.Draft); verr != nil {
		logger.Info().Strs("missing", verr.Missing).Msg("Rejecting incomplete task draft")
		return verr.Fields
	}

	var task *breezeway.Task
	err = c.retryAuth(ctx, func() error {
		var err error
		task, err = c.tasks.CreateTask(ctx, parsed.Draft)
		return err
	})
	if err != nil {
		var apiErr *breezeway.APIError
		if errors.As(err, &apiErr) {
			logger.Error().Int("status", apiErr.StatusCode).Str("body", apiErr.Body).Msg("Task creation rejected")
		} else {
			logger.Error().Err(err).Msg("Task creation failed")
		}
		c.ephemeral(ctx, correlation.ChannelID, submission.UserID)
		return nil
	}

	logger.Info().Int("task_id", task.ID).Msg("Task created")

	// Success from here on: a failed confirmation or reaction is logged, not
	// retried, and the created task stands.
	fallback := fmt.Sprintf("Project made\n%s", task.Name)
	blocks := confirmationBlocks(parsed.PropertyName, task.Name, c.tasks.TaskURL(task.ID))
	if err := c.notify.PostThread(ctx, correlation.ChannelID, correlation.ReplyTo, fallback, blocks); err != nil {
		logger.Error().Err(err).Msg("Failed to post confirmation message")
	}
	if err := c.notify.AddReaction(ctx, correlation.ChannelID, correlation.ReactTo, reactionName); err != nil {
		logger.Error().Err(err).Msg("Failed to add reaction marker")
	}
	return nil
}

func (c *Coordinator) ephemeral(ctx context.Context, channelID, userID string) {
	text := "Something went wrong. Please try again or make the project in Breezeway."
	if err := c.notify.PostEphemeral(ctx, channelID, userID, text); err != nil {
		log.Error().Err(err).Msg("Failed to post ephemeral error notice")
	}
}

// confirmationBlocks renders the threaded success message with a link to the
// created task.
func confirmationBlocks(propertyName, taskName, taskURL string) []slack.Block {
	text := slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("%s: %s", propertyName, taskName), false, false)
	button := slack.NewButtonBlockElement("none", "none",
		slack.NewTextBlockObject(slack.PlainTextType, "Open in Breezeway", false, false))
	button.URL = taskURL
	return []slack.Block{slack.NewSectionBlock(text, nil, slack.NewAccessory(button))}
}
