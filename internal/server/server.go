// Package server provides the HTTP server for the stockyard API and
// dashboard.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockyardhq/stockyard/internal/server/cache"
	"github.com/stockyardhq/stockyard/internal/slackbot"
	"github.com/stockyardhq/stockyard/internal/store"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	store     *store.Store
	cache     *cache.Cache
	slack     *slackbot.Bot
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(st *store.Store, logger *zerolog.Logger, cfg Config) *Server {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	s := &Server{
		store:     st,
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}

	if cfg.SlackSigningSecret != "" {
		s.slack = slackbot.New(st, slackbot.Config{
			SigningSecret: cfg.SlackSigningSecret,
			BotToken:      cfg.SlackBotToken,
		}, logger)
		logger.Info().Msg("Slack endpoints enabled")
	}

	return s
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown releases server resources. The HTTP listener itself is owned by
// the caller.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	s.cache.Clear()
	return nil
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
