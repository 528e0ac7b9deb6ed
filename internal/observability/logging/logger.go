// Package logging provides structured logging with zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	TimeFormat string // RFC3339, Unix, etc.
}

// DefaultConfig returns sensible default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: time.RFC3339,
	}
}

// Init initializes the global zerolog logger.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Logger returns a new logger with common fields for the service.
func Logger() zerolog.Logger {
	return log.Logger
}

// WithSession returns a logger with session context. The pointer return
// lets callers chain level methods off the call expression directly.
func WithSession(sessionID string) *zerolog.Logger {
	l := log.With().
		Str("sessionId", sessionID).
		Logger()
	return &l
}

// WithTurn returns a logger with session and turn context.
func WithTurn(sessionID, stage string, turn int) *zerolog.Logger {
	l := log.With().
		Str("sessionId", sessionID).
		Str("stage", stage).
		Int("turn", turn).
		Logger()
	return &l
}

// WithUpstream returns a logger tagged with an upstream provider call.
func WithUpstream(sessionID, provider string) *zerolog.Logger {
	l := log.With().
		Str("sessionId", sessionID).
		Str("provider", provider).
		Logger()
	return &l
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) *zerolog.Logger {
	l := log.With().
		Str("component", component).
		Logger()
	return &l
}
