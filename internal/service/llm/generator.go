// Package llm defines the interface for text generation providers.
package llm

import "context"

// Role values used in generation requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the bounded conversation context.
type Message struct {
	Role    string
	Content string
}

// Chunk is one streamed fragment. A Chunk with a non-nil Err terminates the
// stream; fragments received before the error remain valid.
type Chunk struct {
	Text string
	Err  error
}

// Generator defines the interface for generation providers (Gemini, etc.).
type Generator interface {
	// Stream starts a streaming generation call and returns a lazy, finite,
	// non-restartable sequence of fragments. The channel is closed when the
	// stream ends, successfully or not.
	Stream(ctx context.Context, messages []Message) (<-chan Chunk, error)

	// Complete performs a single non-streaming generation call.
	Complete(ctx context.Context, prompt string) (string, error)
}
