// Package interview provides the session orchestrator: the streaming turn
// pipeline, background answer evaluation, and report finalization.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-interview-orchestrator/internal/events"
	"ai-interview-orchestrator/internal/models"
	"ai-interview-orchestrator/internal/observability/logging"
	"ai-interview-orchestrator/internal/observability/metrics"
	"ai-interview-orchestrator/internal/service/judge"
	"ai-interview-orchestrator/internal/service/llm"
	"ai-interview-orchestrator/internal/service/ranking"
	"ai-interview-orchestrator/internal/service/stage"
	"ai-interview-orchestrator/internal/store"
)

// Options holds conversation tuning knobs for the orchestrator.
type Options struct {
	// HistoryWindow bounds how many trailing transcript turns enter the
	// generation context.
	HistoryWindow int
	// MaxInterviewerTurns force-finishes a session that never concludes
	// naturally. 0 disables the cap.
	MaxInterviewerTurns int
	// GenerationTimeout bounds one streaming generation call.
	GenerationTimeout time.Duration
	// JudgeTimeout bounds one background judging call.
	JudgeTimeout time.Duration
}

// DefaultOptions returns the orchestrator defaults.
func DefaultOptions() Options {
	return Options{
		HistoryWindow:       10,
		MaxInterviewerTurns: 15,
		GenerationTimeout:   30 * time.Second,
		JudgeTimeout:        30 * time.Second,
	}
}

// EmitFunc receives streamed fragments as they arrive from the generation
// provider. Returning an error aborts the stream.
type EmitFunc func(fragment string) error

// TurnResult is the outcome of one completed interviewer turn.
type TurnResult struct {
	Content  string
	Stage    models.Stage
	Finished bool
}

// Service orchestrates interview sessions.
type Service struct {
	store     store.Store
	generator llm.Generator
	judge     judge.Judge
	ranking   ranking.Provider
	publisher *events.Publisher
	metrics   *metrics.Metrics
	opts      Options

	guard   *turnGuard
	tracker *evalTracker

	finalizeMu sync.Map // sessionID -> *sync.Mutex
}

// NewService wires the orchestrator onto its collaborators.
func NewService(
	st store.Store,
	generator llm.Generator,
	j judge.Judge,
	rank ranking.Provider,
	publisher *events.Publisher,
	opts Options,
) *Service {
	if opts.HistoryWindow < 1 {
		opts.HistoryWindow = DefaultOptions().HistoryWindow
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = DefaultOptions().GenerationTimeout
	}
	if opts.JudgeTimeout <= 0 {
		opts.JudgeTimeout = DefaultOptions().JudgeTimeout
	}
	return &Service{
		store:     st,
		generator: generator,
		judge:     j,
		ranking:   rank,
		publisher: publisher,
		metrics:   metrics.DefaultMetrics,
		opts:      opts,
		guard:     newTurnGuard(),
		tracker:   newEvalTracker(),
	}
}

// CreateSession registers a new session and returns its id.
func (s *Service) CreateSession(ctx context.Context, cfg models.SessionConfig) (string, error) {
	id := uuid.NewString()
	s.store.Create(id, cfg)
	s.metrics.RecordSessionCreated()

	logging.WithSession(id).Info().
		Str("candidate", cfg.CandidateName).
		Str("jobId", cfg.JobID).
		Msg("Interview session created")

	return id, nil
}

// Session returns copies of the session state and config.
func (s *Service) Session(id string) (*models.SessionState, *models.SessionConfig, error) {
	state, cfg, err := s.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrSessionNotFound
	}
	return state, cfg, err
}

// Start generates the interviewer's opening turn without appending a
// candidate utterance.
func (s *Service) Start(ctx context.Context, sessionID string, emit EmitFunc) (*TurnResult, error) {
	return s.processTurn(ctx, sessionID, "", true, emit)
}

// Answer feeds one candidate utterance through the turn pipeline and
// streams the interviewer's reply.
func (s *Service) Answer(ctx context.Context, sessionID, text string, emit EmitFunc) (*TurnResult, error) {
	return s.processTurn(ctx, sessionID, text, false, emit)
}

func (s *Service) processTurn(ctx context.Context, sessionID, input string, isStart bool, emit EmitFunc) (*TurnResult, error) {
	if !s.guard.tryAcquire(sessionID) {
		s.metrics.RecordTurnRejected("busy")
		return nil, ErrSessionBusy
	}
	defer s.guard.release(sessionID)

	state, cfg, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	// A finished session never generates again; report the terminal state.
	if state.Stage.IsTerminal() {
		return &TurnResult{Stage: state.Stage, Finished: true}, nil
	}

	turnLogger := logging.WithTurn(sessionID, string(state.Stage), state.InterviewerTurnCount())
	started := time.Now()

	if !isStart {
		// Schedule background scoring for the question this input answers,
		// before it joins the transcript.
		if question := state.LastInterviewerQuestion(); question != "" {
			s.scheduleEvaluation(sessionID, question, input)
		}

		candidateTurn := models.Turn{
			Role:      models.RoleCandidate,
			Content:   input,
			Timestamp: time.Now().UTC(),
		}
		if err := s.store.AppendTurn(sessionID, candidateTurn); err != nil {
			return nil, err
		}
		state.Transcript = append(state.Transcript, candidateTurn)
	}

	next := stage.Advance(state.Stage, state.InterviewerTurnCount(), s.opts.MaxInterviewerTurns)
	if next != state.Stage {
		if err := s.store.SetStage(sessionID, next); err != nil {
			return nil, err
		}
		turnLogger.Info().Str("from", string(state.Stage)).Str("to", string(next)).Msg("Stage advanced")
		state.Stage = next
	}

	// Hitting the hard cap ends the session without another generation.
	if state.Stage.IsTerminal() {
		return &TurnResult{Stage: state.Stage, Finished: true}, nil
	}

	content, err := s.generateTurn(ctx, sessionID, cfg, state, isStart, emit)
	if err != nil {
		return nil, err
	}

	// An explicit end can arrive while the turn streams. A session marked
	// terminal mid-stream discards the generated content instead of
	// appending to a transcript that is about to be finalized.
	if current, _, err := s.Session(sessionID); err == nil && current.Stage.IsTerminal() {
		turnLogger.Info().Msg("Session ended mid-stream, discarding generated turn")
		return &TurnResult{Stage: current.Stage, Finished: true}, nil
	}

	interviewerTurn := models.Turn{
		Role:      models.RoleInterviewer,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.store.AppendTurn(sessionID, interviewerTurn); err != nil {
		return nil, err
	}

	finalStage := state.Stage
	if stage.Concluded(content) {
		finalStage = models.StageFinished
		if err := s.store.SetStage(sessionID, finalStage); err != nil {
			return nil, err
		}
		turnLogger.Info().Msg("Termination marker detected, interview finished")
	}

	_ = s.publisher.PublishTurn(ctx, sessionID, models.TurnEvent{
		EventType: "interview.turn.completed",
		SessionID: sessionID,
		Stage:     string(finalStage),
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	})
	s.metrics.RecordTurn(time.Since(started).Seconds())

	return &TurnResult{
		Content:  content,
		Stage:    finalStage,
		Finished: finalStage.IsTerminal(),
	}, nil
}

// generateTurn builds the bounded context and drives the streaming call,
// forwarding fragments as they arrive. On a mid-stream failure the
// fragments already emitted stay emitted, nothing joins the transcript,
// and the caller must issue a fresh request.
func (s *Service) generateTurn(
	ctx context.Context,
	sessionID string,
	cfg *models.SessionConfig,
	state *models.SessionState,
	isStart bool,
	emit EmitFunc,
) (string, error) {
	messages := s.buildContext(cfg, state, isStart)

	genCtx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	genStart := time.Now()
	ch, err := s.generator.Stream(genCtx, messages)
	if err != nil {
		s.metrics.RecordUpstream("llm", "stream", err, time.Since(genStart).Seconds())
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	var sb strings.Builder
	var streamErr error
	for chunk := range ch {
		if chunk.Err != nil {
			streamErr = chunk.Err
			break
		}
		sb.WriteString(chunk.Text)
		s.metrics.RecordFragment()
		if emit != nil {
			if err := emit(chunk.Text); err != nil {
				cancel()
				return "", fmt.Errorf("fragment delivery: %w", err)
			}
		}
	}

	// A provider may close the stream without an error chunk when its
	// context expires; a timed-out stream is never a complete turn.
	if streamErr == nil && genCtx.Err() != nil {
		streamErr = genCtx.Err()
	}

	s.metrics.RecordUpstream("llm", "stream", streamErr, time.Since(genStart).Seconds())

	if streamErr != nil {
		logging.WithUpstream(sessionID, "llm").Error().
			Err(streamErr).
			Int("fragmentsProduced", sb.Len()).
			Msg("Generation stream failed mid-turn")
		if errors.Is(streamErr, context.DeadlineExceeded) || genCtx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrUpstreamTimeout, streamErr)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, streamErr)
	}

	return sb.String(), nil
}

// buildContext assembles the instruction header plus the trailing history
// window. The candidate's latest utterance is already the last transcript
// entry; a start event injects the synthetic opening prompt instead.
func (s *Service) buildContext(cfg *models.SessionConfig, state *models.SessionState, isStart bool) []llm.Message {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt(cfg, state.Stage)}}

	history := state.Transcript
	if len(history) > s.opts.HistoryWindow {
		history = history[len(history)-s.opts.HistoryWindow:]
	}
	for _, turn := range history {
		role := llm.RoleAssistant
		if turn.Role == models.RoleCandidate {
			role = llm.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}

	if isStart {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: startPrompt})
	}
	return messages
}

// scheduleEvaluation spawns one background judging task for a
// (question, answer) pair. The task is tracked so the finalizer can await
// it; a judging failure drops the pair and never fails the session.
func (s *Service) scheduleEvaluation(sessionID, question, answer string) {
	s.tracker.add(sessionID)
	s.metrics.RecordEvaluationScheduled()

	go func() {
		defer s.tracker.done(sessionID)

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.JudgeTimeout)
		defer cancel()

		started := time.Now()
		scores, err := s.judge.Evaluate(ctx, question, answer)
		s.metrics.RecordEvaluationDone(err, time.Since(started).Seconds())

		if err != nil {
			logging.WithUpstream(sessionID, "judge").Warn().
				Err(err).
				Msg("Answer evaluation failed, dropping pair")
			return
		}

		if err := s.store.AppendEvaluation(sessionID, models.Evaluation{
			Question:  question,
			Answer:    answer,
			Scores:    scores,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			logging.WithSession(sessionID).Error().Err(err).Msg("Failed to store evaluation")
		}
	}()
}
