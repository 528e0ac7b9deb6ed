package interview

import "sync"

// evalTracker tracks in-flight background evaluation tasks per session so
// the finalizer can deterministically await every evaluation that was
// scheduled for the transcript, instead of relying on best-effort timing.
type evalTracker struct {
	mu       sync.Mutex
	sessions map[string]*sync.WaitGroup
}

func newEvalTracker() *evalTracker {
	return &evalTracker{sessions: make(map[string]*sync.WaitGroup)}
}

// add registers one scheduled evaluation for the session.
func (t *evalTracker) add(sessionID string) {
	t.mu.Lock()
	wg, ok := t.sessions[sessionID]
	if !ok {
		wg = &sync.WaitGroup{}
		t.sessions[sessionID] = wg
	}
	wg.Add(1)
	t.mu.Unlock()
}

// done marks one evaluation finished, successfully or not.
func (t *evalTracker) done(sessionID string) {
	t.mu.Lock()
	wg := t.sessions[sessionID]
	t.mu.Unlock()
	if wg != nil {
		wg.Done()
	}
}

// wait blocks until every evaluation scheduled so far for the session has
// finished. Judging calls carry bounded timeouts, so the wait terminates.
func (t *evalTracker) wait(sessionID string) {
	t.mu.Lock()
	wg := t.sessions[sessionID]
	t.mu.Unlock()
	if wg != nil {
		wg.Wait()
	}
}

// forget drops the session's tracker after finalization.
func (t *evalTracker) forget(sessionID string) {
	t.mu.Lock()
	delete(t.sessions, sessionID)
	t.mu.Unlock()
}
