package app

import (
	"os"
	"strings"
	"time"

	"ai-interview-orchestrator/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg: cfg,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("component", "application").
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("AI Interview Orchestrator application created")
	return a
}

// setupLogger configures zerolog for the service.
func (a *Application) setupLogger() {
	logLevel := zerolog.InfoLevel // Default
	if parsedLevel, err := zerolog.ParseLevel(strings.ToLower(a.Cfg.Observability.LogLevel)); err == nil {
		logLevel = parsedLevel
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	if os.Getenv("ENV") == "dev" {
		a.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Str("service", "ai-interview-orchestrator").
			Str("component", "application").
			Logger()
	} else {
		a.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", "ai-interview-orchestrator").
			Str("component", "application").
			Logger()
	}

	log.Logger = a.Logger

	a.Logger.Info().
		Str("logLevel", logLevel.String()).
		Str("environment", os.Getenv("ENV")).
		Msg("Logger setup completed")
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start() error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("AI Interview Orchestrator starting")

	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	shutdownLogger.Info().Msg("AI Interview Orchestrator shutting down")
}
