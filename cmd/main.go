package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-interview-orchestrator/internal/api/ws"
	"ai-interview-orchestrator/internal/app"
	"ai-interview-orchestrator/internal/config"
	"ai-interview-orchestrator/internal/events"
	httpapi "ai-interview-orchestrator/internal/http"
	"ai-interview-orchestrator/internal/observability"
	"ai-interview-orchestrator/internal/service/interview"
	"ai-interview-orchestrator/internal/service/judge"
	judgegemini "ai-interview-orchestrator/internal/service/judge/gemini"
	judgemock "ai-interview-orchestrator/internal/service/judge/mock"
	"ai-interview-orchestrator/internal/service/llm"
	llmgemini "ai-interview-orchestrator/internal/service/llm/gemini"
	llmmock "ai-interview-orchestrator/internal/service/llm/mock"
	"ai-interview-orchestrator/internal/service/ranking"
	"ai-interview-orchestrator/internal/service/stt"
	sttgoogle "ai-interview-orchestrator/internal/service/stt/google"
	sttmock "ai-interview-orchestrator/internal/service/stt/mock"
	"ai-interview-orchestrator/internal/service/tts"
	"ai-interview-orchestrator/internal/service/tts/elevenlabs"
	ttsmock "ai-interview-orchestrator/internal/service/tts/mock"
	"ai-interview-orchestrator/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("Application start failed")
	}
	defer application.Shutdown()

	ctx := context.Background()

	generator, j, err := buildLLM(ctx, cfg)
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("LLM provider setup failed")
	}
	transcriber, err := buildSTT(ctx, cfg)
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("STT provider setup failed")
	}
	synthesizer := buildTTS(cfg)
	rank := buildRanking(cfg)

	// Kafka publisher with separate topics for turn and report events
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicTurns:   cfg.Kafka.TopicTurns,
		TopicReports: cfg.Kafka.TopicReports,
		Principal:    cfg.Service.Principal,
	})
	defer publisher.Close()

	svc := interview.NewService(
		store.NewMemoryStore(),
		generator,
		j,
		rank,
		publisher,
		interview.Options{
			HistoryWindow:       cfg.Interview.HistoryWindow,
			MaxInterviewerTurns: cfg.Interview.MaxInterviewerTurns,
			GenerationTimeout:   cfg.LLM.Timeout,
			JudgeTimeout:        cfg.LLM.Timeout,
		},
	)

	wsHandler := ws.NewHandler(svc, transcriber, synthesizer, ws.Options{
		STTTimeout: cfg.STT.Timeout,
		TTSTimeout: cfg.TTS.Timeout,
	})

	obsServer := observability.NewServer(cfg.Observability.Addr)
	obsServer.Start()

	server := &http.Server{
		Addr:        cfg.Service.Addr,
		Handler:     httpapi.NewRouter(application, svc, wsHandler),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		application.Logger.Info().Str("addr", cfg.Service.Addr).Msg("Interview orchestrator listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			application.Logger.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	application.Logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error().Err(err).Msg("Observability shutdown failed")
	}
}

func buildLLM(ctx context.Context, cfg *config.Config) (llm.Generator, judge.Judge, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		client, err := llmgemini.NewClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		return llmgemini.New(client, cfg.LLM.Model, cfg.LLM.Temperature),
			judgegemini.New(client, cfg.LLM.JudgeModel),
			nil
	default:
		return llmmock.New(), judgemock.New(), nil
	}
}

func buildSTT(ctx context.Context, cfg *config.Config) (stt.Transcriber, error) {
	switch cfg.STT.Provider {
	case "google":
		return sttgoogle.New(ctx, cfg.STT.LanguageCode, cfg.STT.SampleRateHz)
	default:
		return sttmock.New(), nil
	}
}

func buildTTS(cfg *config.Config) tts.Synthesizer {
	switch cfg.TTS.Provider {
	case "elevenlabs":
		return elevenlabs.New(cfg.TTS.BaseURL, cfg.TTS.VoiceID, cfg.TTS.Timeout)
	default:
		return ttsmock.New()
	}
}

func buildRanking(cfg *config.Config) ranking.Provider {
	if cfg.Ranking.BaseURL == "" {
		return ranking.NewStatic()
	}
	return ranking.NewClient(cfg.Ranking.BaseURL, cfg.Ranking.Timeout)
}
