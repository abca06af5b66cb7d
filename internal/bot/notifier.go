package bot

import (
	"context"

	"github.com/slack-go/slack"
)

// Notifier implements workflow.Notifier on the Slack web API. Each call is
// fire-and-forget from the workflow's point of view: errors are returned for
// logging, not surfaced to the user.
type Notifier struct {
	client *slack.Client
}

// NewNotifier wraps a Slack client for the workflow coordinator.
func NewNotifier(client *slack.Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) OpenModal(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	_, err := n.client.OpenViewContext(ctx, triggerID, view)
	return err
}

func (n *Notifier) UpdateModal(ctx context.Context, viewID string, view slack.ModalViewRequest) error {
	_, err := n.client.UpdateViewContext(ctx, view, "", "", viewID)
	return err
}

func (n *Notifier) PostThread(ctx context.Context, channelID, threadTS, fallback string, blocks []slack.Block) error {
	_, _, err := n.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionTS(threadTS),
		slack.MsgOptionBlocks(blocks...),
	)
	return err
}

func (n *Notifier) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := n.client.PostEphemeralContext(ctx, channelID, userID,
		slack.MsgOptionText(text, false),
	)
	return err
}

func (n *Notifier) AddReaction(ctx context.Context, channelID, timestamp, name string) error {
	return n.client.AddReactionContext(ctx, name, slack.NewRefToMessage(channelID, timestamp))
}
