// Package mock provides a mock STT adapter for testing without cloud
// credentials. It cycles through sample candidate answers.
package mock

import (
	"context"
	"sync"
)

// DefaultTranscripts provides sample answers for simulation.
var DefaultTranscripts = []string{
	"I have about five years of backend experience, mostly in distributed systems.",
	"In my last role I led the migration of our billing pipeline to an event-driven design.",
	"I would start by reproducing the issue in a staging environment and checking recent deploys.",
	"I think the trade-off depends on the consistency requirements of the product.",
	"No further questions from my side, thank you.",
}

// Adapter implements stt.Transcriber with canned transcripts.
type Adapter struct {
	mu          sync.Mutex
	transcripts []string
	next        int
	err         error
}

// New creates a new mock STT adapter.
func New() *Adapter {
	return &Adapter{transcripts: DefaultTranscripts}
}

// WithTranscripts replaces the canned transcripts.
func (a *Adapter) WithTranscripts(transcripts ...string) *Adapter {
	a.mu.Lock()
	a.transcripts = transcripts
	a.next = 0
	a.mu.Unlock()
	return a
}

// FailWith makes every Transcribe call return err.
func (a *Adapter) FailWith(err error) *Adapter {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
	return a
}

// Transcribe returns the next canned transcript regardless of audio content.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.err != nil {
		return "", a.err
	}
	if len(a.transcripts) == 0 {
		return "", nil
	}
	text := a.transcripts[a.next%len(a.transcripts)]
	a.next++
	return text, nil
}
