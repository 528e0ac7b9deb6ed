package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if INTERVIEW_CONFIG is set
//  3. env (prefix INTERVIEW_, e.g. INTERVIEW_SERVICE.ADDR)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := os.Getenv("INTERVIEW_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// INTERVIEW_SERVICE.ADDR -> service.addr, INTERVIEW_KAFKA.ENABLED -> kafka.enabled
	envProvider := env.Provider("INTERVIEW_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "interview_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Service.Addr == "" {
		return errors.New("service.addr must not be empty")
	}
	if c.Interview.HistoryWindow < 1 {
		return errors.New("interview.history_window must be at least 1")
	}
	if c.LLM.Timeout <= 0 || c.STT.Timeout <= 0 || c.TTS.Timeout <= 0 {
		return errors.New("upstream timeouts must be positive")
	}
	switch c.LLM.Provider {
	case "gemini", "mock":
	default:
		return errors.New("llm.provider must be gemini or mock")
	}
	switch c.STT.Provider {
	case "google", "mock":
	default:
		return errors.New("stt.provider must be google or mock")
	}
	switch c.TTS.Provider {
	case "elevenlabs", "mock":
	default:
		return errors.New("tts.provider must be elevenlabs or mock")
	}
	return nil
}
