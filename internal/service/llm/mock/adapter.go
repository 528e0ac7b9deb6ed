// Package mock provides a mock generation adapter for testing and local
// development without provider credentials. It streams scripted responses
// fragment by fragment with small delays to exercise the streaming path.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"ai-interview-orchestrator/internal/service/llm"
)

// DefaultResponses provides sample interviewer utterances for simulation.
// The last one carries a termination marker so a scripted conversation can
// reach the finished stage naturally.
var DefaultResponses = []string{
	"Welcome to the interview! I'm your AI interviewer today. Are you ready to begin?",
	"Great, let's start. Tell me a little about yourself and your background.",
	"Interesting. Can you walk me through a recent project you are proud of?",
	"How would you design a rate limiter for a public HTTP API?",
	"What trade-offs would you consider between consistency and availability?",
	"Tell me about a time you disagreed with a teammate. How did you resolve it?",
	"How do you approach debugging a production incident under time pressure?",
	"What questions do you have for me?",
	"Thank you for your time. The interview is now concluded.",
}

// Adapter implements llm.Generator with scripted responses.
type Adapter struct {
	mu        sync.Mutex
	responses []string
	next      int
	delay     time.Duration

	// failAfter injects a stream error after that many fragments when >= 0.
	failAfter int
	failErr   error
}

// Option configures the mock adapter.
type Option func(*Adapter)

// WithResponses replaces the scripted responses.
func WithResponses(responses ...string) Option {
	return func(a *Adapter) { a.responses = responses }
}

// WithDelay sets the per-fragment delay.
func WithDelay(d time.Duration) Option {
	return func(a *Adapter) { a.delay = d }
}

// WithFailure makes every stream fail with err after n fragments.
func WithFailure(n int, err error) Option {
	return func(a *Adapter) {
		a.failAfter = n
		a.failErr = err
	}
}

// New creates a new mock generation adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		responses: DefaultResponses,
		delay:     5 * time.Millisecond,
		failAfter: -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// take returns the next scripted response, cycling when exhausted.
func (a *Adapter) take() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	resp := a.responses[a.next%len(a.responses)]
	a.next++
	return resp
}

// Stream emits the next scripted response word by word.
func (a *Adapter) Stream(ctx context.Context, messages []llm.Message) (<-chan llm.Chunk, error) {
	resp := a.take()
	out := make(chan llm.Chunk)

	go func() {
		defer close(out)
		words := strings.SplitAfter(resp, " ")
		for i, w := range words {
			if a.failAfter >= 0 && i >= a.failAfter {
				select {
				case out <- llm.Chunk{Err: a.failErr}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case out <- llm.Chunk{Text: w}:
			case <-ctx.Done():
				return
			}
			if a.delay > 0 {
				time.Sleep(a.delay)
			}
		}
	}()

	return out, nil
}

// Complete returns the next scripted response whole.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if a.failAfter == 0 && a.failErr != nil {
		return "", a.failErr
	}
	return a.take(), nil
}
