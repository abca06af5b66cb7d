package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Server serves the Slack HTTP surface for workspaces that do not use socket
// mode: the Events API callback, the interactivity callback, and a health
// check.
type Server struct {
	echo *echo.Echo
	bot  *Bot
	port int
}

// NewServer creates the HTTP server around a bot.
func NewServer(bot *Bot, port int) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	server := &Server{
		echo: e,
		bot:  bot,
		port: port,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	// Health check endpoint
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	s.echo.POST("/slack/events", s.eventsHandler)
	s.echo.POST("/slack/interactions", s.interactionsHandler)
}

// eventsHandler receives Events API callbacks, answering the URL verification
// challenge inline and dispatching everything else asynchronously.
func (s *Server) eventsHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse Slack event payload")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid event payload"})
	}

	if event.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid challenge payload"})
		}
		return c.String(http.StatusOK, challenge.Challenge)
	}

	go s.bot.HandleEvent(context.Background(), event)
	return c.NoContent(http.StatusOK)
}

// interactionsHandler receives shortcut/action/submission callbacks. View
// submissions are handled synchronously so validation errors can ride the
// response; everything else is acked immediately.
func (s *Server) interactionsHandler(c echo.Context) error {
	payload := c.FormValue("payload")

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		log.Error().Err(err).Msg("Failed to parse Slack interaction payload")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid interaction payload"})
	}

	if callback.Type == slack.InteractionTypeViewSubmission {
		if fieldErrors := s.bot.HandleInteraction(c.Request().Context(), callback); len(fieldErrors) > 0 {
			return c.JSON(http.StatusOK, slack.NewErrorsViewSubmissionResponse(fieldErrors))
		}
		return c.NoContent(http.StatusOK)
	}

	go s.bot.HandleInteraction(context.Background(), callback)
	return c.NoContent(http.StatusOK)
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins the HTTP server and blocks until interrupted.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
