// Package mock provides a mock TTS adapter for testing.
package mock

import (
	"context"
	"sync"
)

// Adapter implements tts.Synthesizer by echoing the text bytes back,
// which is enough for transports and tests to exercise the audio path.
type Adapter struct {
	mu    sync.Mutex
	calls []string
	err   error
}

// New creates a new mock TTS adapter.
func New() *Adapter {
	return &Adapter{}
}

// FailWith makes every Synthesize call return err.
func (a *Adapter) FailWith(err error) *Adapter {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
	return a
}

// Synthesize returns the text itself as audio bytes.
func (a *Adapter) Synthesize(ctx context.Context, text string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	a.calls = append(a.calls, text)
	return []byte(text), nil
}

// Calls returns the synthesized texts so far.
func (a *Adapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}
