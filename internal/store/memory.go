package store

import (
	"sync"
	"time"

	"ai-interview-orchestrator/internal/models"
)

// record holds one session's state with disjoint locks per sub-field.
// muTurns guards Transcript, muEvals guards Evaluations, muMeta guards
// Stage/Status/Report. Config is immutable after Create so reads of it
// need no lock.
type record struct {
	cfg models.SessionConfig

	muTurns sync.Mutex
	turns   []models.Turn

	muEvals sync.Mutex
	evals   []models.Evaluation

	muMeta    sync.Mutex
	stage     models.Stage
	status    models.Status
	report    *models.FinalReport
	createdAt time.Time
}

// MemoryStore is a process-local Store keyed by session id.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*record
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*record)}
}

// Create registers a new session in the introduction stage.
func (m *MemoryStore) Create(id string, cfg models.SessionConfig) *models.SessionState {
	r := &record{
		cfg:       cfg,
		stage:     models.StageIntroduction,
		status:    models.StatusInProgress,
		createdAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[id] = r
	m.mu.Unlock()

	return r.snapshot(id)
}

func (m *MemoryStore) lookup(id string) (*record, error) {
	m.mu.RLock()
	r, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// Get returns copies of the session state and config.
func (m *MemoryStore) Get(id string) (*models.SessionState, *models.SessionConfig, error) {
	r, err := m.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	cfg := r.cfg
	return r.snapshot(id), &cfg, nil
}

// AppendTurn atomically appends one turn to the transcript.
func (m *MemoryStore) AppendTurn(id string, turn models.Turn) error {
	r, err := m.lookup(id)
	if err != nil {
		return err
	}
	r.muTurns.Lock()
	r.turns = append(r.turns, turn)
	r.muTurns.Unlock()
	return nil
}

// AppendEvaluation atomically appends one evaluation.
func (m *MemoryStore) AppendEvaluation(id string, ev models.Evaluation) error {
	r, err := m.lookup(id)
	if err != nil {
		return err
	}
	r.muEvals.Lock()
	r.evals = append(r.evals, ev)
	r.muEvals.Unlock()
	return nil
}

// SetStage records the current stage.
func (m *MemoryStore) SetStage(id string, stage models.Stage) error {
	r, err := m.lookup(id)
	if err != nil {
		return err
	}
	r.muMeta.Lock()
	r.stage = stage
	r.muMeta.Unlock()
	return nil
}

// SetStatus records the session status.
func (m *MemoryStore) SetStatus(id string, status models.Status) error {
	r, err := m.lookup(id)
	if err != nil {
		return err
	}
	r.muMeta.Lock()
	r.status = status
	r.muMeta.Unlock()
	return nil
}

// SetReport persists the final report.
func (m *MemoryStore) SetReport(id string, report models.FinalReport) error {
	r, err := m.lookup(id)
	if err != nil {
		return err
	}
	r.muMeta.Lock()
	r.report = &report
	r.muMeta.Unlock()
	return nil
}

// snapshot copies the record into a detached SessionState. Each sub-field
// is read under its own lock; a snapshot is therefore consistent per
// sub-field, which is all the callers rely on.
func (r *record) snapshot(id string) *models.SessionState {
	s := &models.SessionState{ID: id}

	r.muTurns.Lock()
	s.Transcript = append([]models.Turn(nil), r.turns...)
	r.muTurns.Unlock()

	r.muEvals.Lock()
	s.Evaluations = append([]models.Evaluation(nil), r.evals...)
	r.muEvals.Unlock()

	r.muMeta.Lock()
	s.Stage = r.stage
	s.Status = r.status
	s.CreatedAt = r.createdAt
	if r.report != nil {
		rep := *r.report
		s.Report = &rep
	}
	r.muMeta.Unlock()

	return s
}
