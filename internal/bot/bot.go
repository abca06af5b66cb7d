// Package bot is the Slack edge of PRVRbot: it pumps inbound events from
// socket mode or the HTTP endpoints, translates them into workflow triggers,
// and implements the outbound chat surface for the workflow coordinator.
package bot

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/prvrbot/internal/config"
	"github.com/prvrbot/internal/taskform"
	"github.com/prvrbot/internal/workflow"
)

// ShortcutCreateTask is the message-shortcut callback id that starts the
// task-creation workflow.
const ShortcutCreateTask = "create_breezeway_task"

// Bot routes Slack callbacks to the workflow coordinator.
type Bot struct {
	client      *slack.Client
	coordinator *workflow.Coordinator
	cfg         *config.Config
}

// New creates the bot around an already-configured Slack client.
func New(client *slack.Client, coordinator *workflow.Coordinator, cfg *config.Config) *Bot {
	return &Bot{client: client, coordinator: coordinator, cfg: cfg}
}

// RunSocketMode pumps events over a socket-mode connection until ctx ends.
// Each event is handled on its own goroutine; acks happen before the handler
// so slow Breezeway calls never trip Slack's 3 second deadline, except view
// submissions whose ack may carry field errors.
func (b *Bot) RunSocketMode(ctx context.Context) error {
	sm := socketmode.New(b.client)

	go func() {
		for evt := range sm.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				log.Info().Msg("Connecting to Slack in socket mode")
			case socketmode.EventTypeConnectionError:
				log.Error().Msg("Slack socket mode connection failed")
			case socketmode.EventTypeConnected:
				log.Info().Msg("Connected to Slack in socket mode")
			case socketmode.EventTypeEventsAPI:
				event, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				sm.Ack(*evt.Request)
				go b.HandleEvent(ctx, event)
			case socketmode.EventTypeInteractive:
				callback, ok := evt.Data.(slack.InteractionCallback)
				if !ok {
					continue
				}
				if callback.Type == slack.InteractionTypeViewSubmission {
					go func() {
						if fieldErrors := b.HandleInteraction(ctx, callback); len(fieldErrors) > 0 {
							sm.Ack(*evt.Request, slack.NewErrorsViewSubmissionResponse(fieldErrors))
						} else {
							sm.Ack(*evt.Request)
						}
					}()
					continue
				}
				sm.Ack(*evt.Request)
				go b.HandleInteraction(ctx, callback)
			}
		}
	}()

	return sm.RunContext(ctx)
}

// HandleInteraction routes shortcuts, block actions and view submissions. For
// view submissions it returns field errors (block id -> message) to be
// carried on the ack; everything else returns nil.
func (b *Bot) HandleInteraction(ctx context.Context, callback slack.InteractionCallback) map[string]string {
	switch callback.Type {
	case slack.InteractionTypeMessageAction:
		if callback.CallbackID != ShortcutCreateTask {
			return nil
		}
		if !b.cfg.Breezeway.Enabled {
			log.Info().Msg("Ignoring task shortcut: breezeway module disabled")
			return nil
		}
		b.coordinator.Start(ctx, workflow.Trigger{
			TriggerID:   callback.TriggerID,
			UserID:      callback.User.ID,
			ChannelID:   callback.Channel.ID,
			MessageText: callback.Message.Text,
			MessageTS:   callback.Message.Timestamp,
			ThreadTS:    callback.Message.ThreadTimestamp,
		})

	case slack.InteractionTypeBlockActions:
		for _, action := range callback.ActionCallback.BlockActions {
			if action.ActionID == taskform.ActionDepartment {
				b.coordinator.DepartmentChanged(ctx, callback.View)
			}
			// "unit" and "none" actions need nothing beyond the ack.
		}

	case slack.InteractionTypeViewSubmission:
		if callback.View.CallbackID != taskform.CallbackID {
			return nil
		}
		log.Info().Str("user", callback.User.Name).Msg("Received view submission")
		return b.coordinator.Submit(ctx, workflow.Submission{
			UserID: callback.User.ID,
			View:   callback.View,
		})
	}

	return nil
}
