// Package elevenlabs provides an ElevenLabs Text-to-Speech adapter.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Adapter implements tts.Synthesizer against the ElevenLabs REST API.
type Adapter struct {
	httpClient *http.Client
	baseURL    string
	voiceID    string
	apiKey     string
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// New creates a new ElevenLabs TTS adapter.
// Requires ELEVENLABS_API_KEY environment variable to be set.
func New(baseURL, voiceID string, timeout time.Duration) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		voiceID:    voiceID,
		apiKey:     os.Getenv("ELEVENLABS_API_KEY"),
	}
}

// Synthesize renders text through the text-to-speech endpoint and returns
// the MP3 bytes.
func (a *Adapter) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: "eleven_turbo_v2_5",
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", a.baseURL, a.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("elevenlabs status %d: %s", resp.StatusCode, snippet)
	}

	return io.ReadAll(resp.Body)
}
