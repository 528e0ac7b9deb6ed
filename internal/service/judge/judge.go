// Package judge defines the interface for answer-quality judging providers.
package judge

import (
	"context"

	"ai-interview-orchestrator/internal/models"
)

// Judge scores one (question, answer) pair. Implementations return
// sub-scores in [0,10]; a failure yields no result and the pair is dropped
// by the caller.
type Judge interface {
	Evaluate(ctx context.Context, question, answer string) (models.EvaluationScores, error)
}

// Clamp bounds every sub-score to [0,10] so a misbehaving provider cannot
// skew the aggregate outside the scale.
func Clamp(s models.EvaluationScores) models.EvaluationScores {
	return models.EvaluationScores{
		TechnicalAccuracy:  clamp01(s.TechnicalAccuracy),
		DepthOfExplanation: clamp01(s.DepthOfExplanation),
		Clarity:            clamp01(s.Clarity),
		ConfidenceLevel:    clamp01(s.ConfidenceLevel),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
