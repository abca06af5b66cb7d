package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// HandleEvent routes Events API callbacks (home tab, team joins, DMs,
// reactions). Failures here are logged only; none of these paths reach the
// task workflow.
func (b *Bot) HandleEvent(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppHomeOpenedEvent:
		b.publishHomeTab(ctx, ev.User)
	case *slackevents.TeamJoinEvent:
		b.welcomeNewMember(ctx, ev)
	case *slackevents.MessageEvent:
		b.respondToMessage(ctx, ev)
	case *slackevents.ReactionAddedEvent:
		log.Debug().Str("user", ev.User).Str("reaction", ev.Reaction).Msg("Reaction added")
	case *slackevents.ReactionRemovedEvent:
		log.Debug().Str("user", ev.User).Str("reaction", ev.Reaction).Msg("Reaction removed")
	}
}

// welcomeNewMember asks new workspace members to introduce themselves in the
// configured channel.
func (b *Bot) welcomeNewMember(ctx context.Context, ev *slackevents.TeamJoinEvent) {
	if !b.cfg.Slack.Welcome.Enabled || ev.User.IsBot {
		return
	}

	log.Info().Str("user", ev.User.ID).Msg("New member joined")
	text := fmt.Sprintf("Welcome to the PRVR team, <@%s>! :tada: You can introduce yourself in this channel.", ev.User.ID)
	_, _, err := b.client.PostMessageContext(ctx, b.cfg.Slack.Welcome.Channel, slack.MsgOptionText(text, false))
	if err != nil {
		log.Error().Err(err).Msg("Failed to post welcome message")
	}
}

func (b *Bot) publishHomeTab(ctx context.Context, userID string) {
	view := slack.HomeTabViewRequest{
		Type:   slack.VTHomeTab,
		Blocks: homeBlocks(),
	}
	if _, err := b.client.PublishViewContext(ctx, userID, view, ""); err != nil {
		log.Error().Err(err).Str("user", userID).Msg("Error publishing home tab")
	}
}

func header(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

// homeBlocks is the static informational home screen.
func homeBlocks() slack.Blocks {
	return slack.Blocks{BlockSet: []slack.Block{
		header(":wave: Howdy! I'm PRVRbot"),
		header("What am I?"),
		slack.NewDividerBlock(),
		section("I am a project started by Anthony. I want to learn to aid people in day to day " +
			"tasks by providing information when prompted. In time, these passive abilities " +
			"may be able to turn into tasks that I can do without needing to be prompted."),
		header("What can I do right now?"),
		slack.NewDividerBlock(),
		section("Well, not much. I am still in my infancy, but here is a list of what I can " +
			"currently do...\n  - Automatically welcome new PRVR members in #general\n  - " +
			"Create Breezeway tasks from flagged messages\n  - " +
			"Tell you a dumb joke. Send me a DM saying \"joke\"."),
		header("What do I think I will do in the future?"),
		slack.NewDividerBlock(),
		section("- Generate weekly :key: lockout codes and hand them out as needed while " +
			"keeping a log of who had access to them.\n- Send alerts from :ear: " +
			"NoiseAware\n- Generate projects in :breezeway:Breezeway for things like low " +
			"batteries on doorknobs.\n- Notify the team about changes in the weather. " +
			":rain_cloud: Eg. Reminder to check pool cover pumps if it's going to rain.\n- " +
			"Sky is the limit."),
	}}
}
