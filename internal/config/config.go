// Package config loads service configuration from defaults, an optional
// YAML file, and environment variables.
package config

import "time"

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig       `koanf:"service"`
	Interview     InterviewConfig     `koanf:"interview"`
	LLM           LLMConfig           `koanf:"llm"`
	STT           STTConfig           `koanf:"stt"`
	TTS           TTSConfig           `koanf:"tts"`
	Ranking       RankingConfig       `koanf:"ranking"`
	Kafka         KafkaConfig         `koanf:"kafka"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// ServiceConfig holds the HTTP listener settings.
type ServiceConfig struct {
	Principal string `koanf:"principal"`
	Addr      string `koanf:"addr"`
}

// InterviewConfig holds conversation tuning knobs.
type InterviewConfig struct {
	// HistoryWindow is how many trailing transcript turns are included in
	// the generation context.
	HistoryWindow int `koanf:"history_window"`
	// MaxInterviewerTurns force-finishes a session that never reaches a
	// natural conclusion. 0 disables the cap.
	MaxInterviewerTurns int `koanf:"max_interviewer_turns"`
}

// LLMConfig holds generation and judging settings.
type LLMConfig struct {
	Provider    string        `koanf:"provider"` // gemini | mock
	Model       string        `koanf:"model"`
	JudgeModel  string        `koanf:"judge_model"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

// STTConfig holds speech-to-text settings.
type STTConfig struct {
	Provider     string        `koanf:"provider"` // google | mock
	LanguageCode string        `koanf:"language_code"`
	SampleRateHz int           `koanf:"sample_rate_hz"`
	Timeout      time.Duration `koanf:"timeout"`
}

// TTSConfig holds text-to-speech settings.
type TTSConfig struct {
	Provider string        `koanf:"provider"` // elevenlabs | mock
	VoiceID  string        `koanf:"voice_id"`
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// RankingConfig points at the CV ranking collaborator.
type RankingConfig struct {
	BaseURL string        `koanf:"base_url"` // empty: cv_score is treated as 0
	Timeout time.Duration `koanf:"timeout"`
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled      bool     `koanf:"enabled"`
	Brokers      []string `koanf:"brokers"`
	TopicTurns   string   `koanf:"topic_turns"`
	TopicReports string   `koanf:"topic_reports"`
}

// ObservabilityConfig holds the metrics listener and log settings.
type ObservabilityConfig struct {
	Addr     string `koanf:"addr"`
	LogLevel string `koanf:"log_level"`
}

// Default returns the baseline configuration before file and env layering.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Principal: "svc-interview-orchestrator",
			Addr:      ":8080",
		},
		Interview: InterviewConfig{
			HistoryWindow:       10,
			MaxInterviewerTurns: 15,
		},
		LLM: LLMConfig{
			Provider:    "mock",
			Model:       "gemini-2.0-flash",
			JudgeModel:  "gemini-2.0-flash",
			Temperature: 0.6,
			Timeout:     30 * time.Second,
		},
		STT: STTConfig{
			Provider:     "mock",
			LanguageCode: "en-US",
			SampleRateHz: 16000,
			Timeout:      15 * time.Second,
		},
		TTS: TTSConfig{
			Provider: "mock",
			VoiceID:  "21m00Tcm4TlvDq8ikWAM",
			BaseURL:  "https://api.elevenlabs.io",
			Timeout:  15 * time.Second,
		},
		Ranking: RankingConfig{
			Timeout: 10 * time.Second,
		},
		Kafka: KafkaConfig{
			Enabled:      false,
			TopicTurns:   "interview.turn.completed",
			TopicReports: "interview.report.final",
		},
		Observability: ObservabilityConfig{
			Addr:     ":9090",
			LogLevel: "info",
		},
	}
}
