package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/urfave/cli/v2"

	"github.com/prvrbot/internal/bot"
	"github.com/prvrbot/internal/breezeway"
	"github.com/prvrbot/internal/config"
	"github.com/prvrbot/internal/workflow"
)

// ServeCommand returns the CLI command that runs the bot
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the PRVRbot Slack bot",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the Slack HTTP endpoints (non socket mode)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cfg.Logging.Level)

	client := breezeway.New(breezeway.Config{
		ClientID:     cfg.Breezeway.ClientID,
		ClientSecret: cfg.Breezeway.ClientSecret,
		BaseURL:      cfg.Breezeway.URL,
		AppURL:       cfg.Breezeway.AppURL,
		CompanyID:    cfg.Breezeway.CompanyID,
	})

	// A bootstrap authentication failure is fatal: the bot must never come up
	// half-configured.
	if cfg.Breezeway.Enabled {
		if err := client.Authenticate(context.Background()); err != nil {
			return fmt.Errorf("breezeway startup authentication failed: %w", err)
		}
	}

	var slackOpts []slack.Option
	if cfg.Slack.AppToken != "" {
		slackOpts = append(slackOpts, slack.OptionAppLevelToken(cfg.Slack.AppToken))
	}
	api := slack.New(cfg.Slack.BotToken, slackOpts...)

	coordinator := workflow.New(client, bot.NewNotifier(api))
	b := bot.New(api, coordinator, cfg)

	if cfg.Slack.AppToken != "" {
		log.Info().Str("bot", cfg.Slack.Name).Msg("Starting in socket mode")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return b.RunSocketMode(ctx)
	}

	port := cfg.Server.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}
	log.Info().Str("bot", cfg.Slack.Name).Int("port", port).Msg("Starting HTTP endpoints")
	return bot.NewServer(b, port).Start()
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
}
