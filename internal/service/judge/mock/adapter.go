// Package mock provides a mock judge for testing.
package mock

import (
	"context"
	"sync"

	"ai-interview-orchestrator/internal/models"
)

// Adapter implements judge.Judge with scripted scores. Scores are handed
// out in order; when the script runs out a fixed middle-of-the-road score
// is returned. Individual pairs can be made to fail.
type Adapter struct {
	mu       sync.Mutex
	scripted []models.EvaluationScores
	next     int
	failOn   map[string]error // keyed by answer text
	calls    int
}

// New creates a new mock judge.
func New(scripted ...models.EvaluationScores) *Adapter {
	return &Adapter{
		scripted: scripted,
		failOn:   make(map[string]error),
	}
}

// FailOn makes judging fail for a specific answer.
func (a *Adapter) FailOn(answer string, err error) *Adapter {
	a.mu.Lock()
	a.failOn[answer] = err
	a.mu.Unlock()
	return a
}

// Calls returns how many evaluations were requested.
func (a *Adapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// Evaluate returns the next scripted score, or a fixed default.
func (a *Adapter) Evaluate(ctx context.Context, question, answer string) (models.EvaluationScores, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	if err, ok := a.failOn[answer]; ok {
		return models.EvaluationScores{}, err
	}
	if a.next < len(a.scripted) {
		s := a.scripted[a.next]
		a.next++
		return s, nil
	}
	return models.EvaluationScores{
		TechnicalAccuracy:  5,
		DepthOfExplanation: 5,
		Clarity:            5,
		ConfidenceLevel:    5,
	}, nil
}
