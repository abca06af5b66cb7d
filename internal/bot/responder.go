package bot

import (
	"context"
	"math/rand"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

var (
	greetingPattern = regexp.MustCompile(`^([Hh]i)|([Hh]ello)|([Hh]owdy)|(:wave:)`)
	jokePattern     = regexp.MustCompile(`^[jJ]oke$`)
)

var greetings = []string{"Hi!", "Hello.", "Howdy!", ":wave:"}

// respondToMessage answers greetings and joke requests in direct messages.
// Anything else is logged at debug and ignored.
func (b *Bot) respondToMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	// Ignore our own and other bots' messages.
	if ev.BotID != "" || ev.User == "" {
		return
	}
	if ev.ChannelType != "im" {
		log.Debug().Str("channel", ev.Channel).Msg("Ignoring channel message")
		return
	}

	var reply string
	switch {
	case jokePattern.MatchString(ev.Text):
		reply = jokes[rand.Intn(len(jokes))]
	case greetingPattern.MatchString(ev.Text):
		reply = greetings[rand.Intn(len(greetings))]
	default:
		return
	}

	log.Info().Str("user", ev.User).Str("text", ev.Text).Msg("DM received")
	if _, _, err := b.client.PostMessageContext(ctx, ev.Channel, slack.MsgOptionText(reply, false)); err != nil {
		log.Error().Err(err).Msg("Failed to reply to DM")
	}
}
