// Package gemini provides a Gemini generation adapter.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"ai-interview-orchestrator/internal/service/llm"
)

// Adapter implements llm.Generator using the Gemini API.
type Adapter struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewClient builds a genai client for the Gemini API backend.
// Requires GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.
func NewClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	})
}

// New creates a Gemini generation adapter on a shared client.
func New(client *genai.Client, model string, temperature float64) *Adapter {
	return &Adapter{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}
}

// split separates the system instruction from the chat contents. Gemini
// takes the system prompt as config, not as a message.
func split(messages []llm.Message) (string, []*genai.Content) {
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = m.Content
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return system, contents
}

func (a *Adapter) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(a.temperature),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

// Stream starts a streaming generation call. Fragments are forwarded on the
// returned channel as the provider produces them; a provider error closes
// the channel after an error chunk.
func (a *Adapter) Stream(ctx context.Context, messages []llm.Message) (<-chan llm.Chunk, error) {
	if len(messages) == 0 {
		return nil, errors.New("empty generation context")
	}

	system, contents := split(messages)
	out := make(chan llm.Chunk)

	go func() {
		defer close(out)
		for resp, err := range a.client.Models.GenerateContentStream(ctx, a.model, contents, a.config(system)) {
			if err != nil {
				select {
				case out <- llm.Chunk{Err: fmt.Errorf("gemini stream: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case out <- llm.Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Complete performs a single non-streaming generation call.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), a.config(""))
	if err != nil {
		return "", fmt.Errorf("gemini complete: %w", err)
	}
	return resp.Text(), nil
}
