package interview

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"ai-interview-orchestrator/internal/models"
	"ai-interview-orchestrator/internal/observability/logging"
)

// Scoring weights and penalties for the final report.
const (
	weightTechnical     = 0.5
	weightCommunication = 0.3
	weightConfidence    = 0.2

	weightInterview = 0.7
	weightCV        = 0.3

	earlyEndPenalty   = 15.0
	sparseEvalPenalty = 10.0
	minEvaluations    = 3
)

// Finalize aggregates the session's evaluations into the final report,
// persists it, and returns it. Finalization is idempotent: concurrent and
// repeated calls all return the same stored report, and exactly one call
// performs the aggregation. All scheduled evaluations are awaited first so
// the aggregate is deterministic.
func (s *Service) Finalize(ctx context.Context, sessionID string) (*models.FinalReport, error) {
	muAny, _ := s.finalizeMu.LoadOrStore(sessionID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	state, cfg, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if state.Report != nil {
		return state.Report, nil
	}

	// Take the session's turn slot before draining the tracker. An
	// in-flight turn finishes first, no new evaluation can be scheduled
	// while the tracker drains, and the transcript cannot grow once the
	// report is persisted.
	s.guard.acquire(sessionID)
	defer s.guard.forget(sessionID)

	started := time.Now()
	logging.WithSession(sessionID).Info().Msg("Awaiting in-flight evaluations before finalization")
	s.tracker.wait(sessionID)

	// Refetch so the snapshot includes evaluations that landed while waiting.
	state, cfg, err = s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	manuallyEnded := state.Status == models.StatusManuallyEnded
	technical, communication, confidence, interviewBase := aggregate(state.Evaluations)
	interviewScore := applyPenalties(interviewBase, len(state.Evaluations), manuallyEnded)

	cvScore, err := s.ranking.CVScore(ctx, cfg.CandidateID, cfg.JobID)
	if err != nil {
		logging.WithUpstream(sessionID, "ranking").Warn().
			Err(err).
			Msg("CV score unavailable, defaulting to zero")
		cvScore = 0
	}

	finalScore := int(math.Round(cvScore*weightCV + interviewScore*weightInterview))

	reportStatus := models.StatusCompleted
	if manuallyEnded {
		reportStatus = models.StatusManuallyEnded
	}

	report := models.FinalReport{
		TechnicalScore:     technical,
		CommunicationScore: communication,
		ConfidenceScore:    confidence,
		InterviewScore:     interviewScore,
		CVScore:            cvScore,
		FinalScore:         finalScore,
		Recommendation:     recommendationFor(finalScore),
		Status:             reportStatus,
		CompletedAt:        time.Now().UTC(),
	}
	report.Feedback = s.narrativeFeedback(ctx, sessionID, &report)

	if err := s.store.SetReport(sessionID, report); err != nil {
		return nil, err
	}
	if err := s.store.SetStatus(sessionID, models.StatusCompleted); err != nil {
		return nil, err
	}

	_ = s.publisher.PublishReport(ctx, sessionID, models.ReportEvent{
		EventType:  "interview.report.final",
		SessionID:  sessionID,
		FinalScore: report.FinalScore,
		Status:     string(reportStatus),
		Timestamp:  time.Now().UnixMilli(),
	})

	s.metrics.RecordFinalized(string(reportStatus), time.Since(started).Seconds())
	s.metrics.RecordSessionFinished(string(reportStatus))
	s.tracker.forget(sessionID)

	logging.WithSession(sessionID).Info().
		Int("finalScore", report.FinalScore).
		Str("recommendation", report.Recommendation).
		Int("evaluations", len(state.Evaluations)).
		Msg("Session finalized")

	return &report, nil
}

// EndEarly marks the session as manually ended and finalizes it with the
// early-termination penalty applied. Ending an already-finalized session
// returns the stored report unchanged.
func (s *Service) EndEarly(ctx context.Context, sessionID string) (*models.FinalReport, error) {
	state, _, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if state.Report != nil {
		return state.Report, nil
	}

	if err := s.store.SetStatus(sessionID, models.StatusManuallyEnded); err != nil {
		return nil, err
	}
	if !state.Stage.IsTerminal() {
		if err := s.store.SetStage(sessionID, models.StageFinished); err != nil {
			return nil, err
		}
	}
	return s.Finalize(ctx, sessionID)
}

// Report returns the stored final report, or ErrReportNotReady if the
// session has not been finalized.
func (s *Service) Report(sessionID string) (*models.FinalReport, error) {
	state, _, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if state.Report == nil {
		return nil, ErrReportNotReady
	}
	return state.Report, nil
}

// narrativeFeedback generates the prose section of the report. Generation
// failure degrades to a template; it never blocks the report.
func (s *Service) narrativeFeedback(ctx context.Context, sessionID string, report *models.FinalReport) string {
	prompt := fmt.Sprintf(feedbackReportPrompt,
		report.CVScore,
		report.InterviewScore,
		report.CommunicationScore,
		report.ConfidenceScore,
		report.FinalScore,
		report.Status,
	)

	genCtx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	genStart := time.Now()
	feedback, err := s.generator.Complete(genCtx, prompt)
	s.metrics.RecordUpstream("llm", "complete", err, time.Since(genStart).Seconds())
	if err != nil {
		logging.WithUpstream(sessionID, "llm").Warn().
			Err(err).
			Msg("Narrative feedback generation failed, using template")
		return fallbackFeedback(report)
	}
	return feedback
}

// aggregate computes the sub-scores and the weighted interview score from
// the evaluation set, before any penalty. All results are on a 0..100 scale.
func aggregate(evals []models.Evaluation) (technical, communication, confidence, interview float64) {
	if len(evals) == 0 {
		return 0, 0, 0, 0
	}

	var sumTech, sumDepth, sumClarity, sumConf float64
	for _, ev := range evals {
		sumTech += ev.Scores.TechnicalAccuracy
		sumDepth += ev.Scores.DepthOfExplanation
		sumClarity += ev.Scores.Clarity
		sumConf += ev.Scores.ConfidenceLevel
	}
	n := float64(len(evals))

	technical = (sumTech/n + sumDepth/n) * 5
	communication = (sumClarity / n) * 10
	confidence = (sumConf / n) * 10
	interview = technical*weightTechnical + communication*weightCommunication + confidence*weightConfidence
	return technical, communication, confidence, interview
}

// applyPenalties deducts for manual termination and for a sparse evaluation
// set, then clamps to [0,100].
func applyPenalties(interview float64, evalCount int, manuallyEnded bool) float64 {
	if manuallyEnded {
		interview -= earlyEndPenalty
	}
	if evalCount < minEvaluations {
		interview -= sparseEvalPenalty
	}
	if interview < 0 {
		return 0
	}
	if interview > 100 {
		return 100
	}
	return interview
}

func recommendationFor(finalScore int) string {
	switch {
	case finalScore >= 85:
		return "Strong Hire"
	case finalScore >= 70:
		return "Hire"
	case finalScore >= 50:
		return "Consider"
	default:
		return "Reject"
	}
}
