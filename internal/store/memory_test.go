package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-interview-orchestrator/internal/models"
)

func TestMemoryStore_GetUnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, _, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	cfg := models.SessionConfig{CandidateName: "Ada", JobDescription: "Backend engineer"}

	state := s.Create("sess-1", cfg)
	if state.Stage != models.StageIntroduction {
		t.Errorf("new session should start in introduction, got %s", state.Stage)
	}
	if state.Status != models.StatusInProgress {
		t.Errorf("new session should be in progress, got %s", state.Status)
	}

	got, gotCfg, err := s.Get("sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotCfg.CandidateName != "Ada" {
		t.Errorf("config not round-tripped: %+v", gotCfg)
	}
	if len(got.Transcript) != 0 || len(got.Evaluations) != 0 {
		t.Errorf("new session should have empty transcript and evaluations")
	}
}

func TestMemoryStore_SnapshotIsDetached(t *testing.T) {
	s := NewMemoryStore()
	s.Create("sess-1", models.SessionConfig{})

	state, _, _ := s.Get("sess-1")
	state.Transcript = append(state.Transcript, models.Turn{Role: models.RoleCandidate, Content: "mutated"})

	again, _, _ := s.Get("sess-1")
	if len(again.Transcript) != 0 {
		t.Error("mutating a snapshot must not affect the stored record")
	}
}

// Concurrent transcript and evaluation appends on the same session must not
// lose writes; the two sub-fields use disjoint locks.
func TestMemoryStore_ConcurrentDisjointAppends(t *testing.T) {
	s := NewMemoryStore()
	s.Create("sess-1", models.SessionConfig{})

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := s.AppendTurn("sess-1", models.Turn{
				Role:      models.RoleCandidate,
				Content:   fmt.Sprintf("turn-%d", i),
				Timestamp: time.Now(),
			}); err != nil {
				t.Errorf("AppendTurn: %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := s.AppendEvaluation("sess-1", models.Evaluation{
				Question: fmt.Sprintf("q-%d", i),
				Answer:   fmt.Sprintf("a-%d", i),
			}); err != nil {
				t.Errorf("AppendEvaluation: %v", err)
				return
			}
		}
	}()

	wg.Wait()

	state, _, err := s.Get("sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(state.Transcript) != n {
		t.Errorf("lost transcript writes: want %d, got %d", n, len(state.Transcript))
	}
	if len(state.Evaluations) != n {
		t.Errorf("lost evaluation writes: want %d, got %d", n, len(state.Evaluations))
	}
}

// Transcript appends from one writer must keep their order.
func TestMemoryStore_TranscriptOrderPreserved(t *testing.T) {
	s := NewMemoryStore()
	s.Create("sess-1", models.SessionConfig{})

	for i := 0; i < 20; i++ {
		_ = s.AppendTurn("sess-1", models.Turn{Role: models.RoleCandidate, Content: fmt.Sprintf("%d", i)})
	}

	state, _, _ := s.Get("sess-1")
	for i, turn := range state.Transcript {
		if turn.Content != fmt.Sprintf("%d", i) {
			t.Fatalf("transcript out of order at %d: %s", i, turn.Content)
		}
	}
}

func TestMemoryStore_SetReportAndStatus(t *testing.T) {
	s := NewMemoryStore()
	s.Create("sess-1", models.SessionConfig{})

	if err := s.SetStatus("sess-1", models.StatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := s.SetReport("sess-1", models.FinalReport{FinalScore: 82}); err != nil {
		t.Fatalf("SetReport: %v", err)
	}

	state, _, _ := s.Get("sess-1")
	if state.Status != models.StatusCompleted {
		t.Errorf("status not persisted: %s", state.Status)
	}
	if state.Report == nil || state.Report.FinalScore != 82 {
		t.Errorf("report not persisted: %+v", state.Report)
	}

	if err := s.SetStatus("ghost", models.StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
