// Package store provides the keyed session store. Transcript appends,
// evaluation appends, and status writes are guarded independently so the
// conversational turn path and the background scoring path never contend
// on the same lock.
package store

import (
	"errors"

	"ai-interview-orchestrator/internal/models"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Store is the session persistence contract. The in-memory implementation
// is adequate for a single instance; a durable implementation slots in
// behind the same interface.
type Store interface {
	// Create registers a new session and returns a snapshot of its state.
	Create(id string, cfg models.SessionConfig) *models.SessionState

	// Get returns copies of the session state and its immutable config.
	Get(id string) (*models.SessionState, *models.SessionConfig, error)

	// AppendTurn atomically appends one turn to the transcript.
	AppendTurn(id string, turn models.Turn) error

	// AppendEvaluation atomically appends one evaluation.
	AppendEvaluation(id string, ev models.Evaluation) error

	// SetStage records the current stage.
	SetStage(id string, stage models.Stage) error

	// SetStatus records the session status.
	SetStatus(id string, status models.Status) error

	// SetReport persists the final report.
	SetReport(id string, report models.FinalReport) error
}
