package interview

import "sync"

// turnGuard serializes turn generation per session. A session holds at most
// one in-flight turn; a concurrent turn request is rejected instead of
// interleaving two partial streams into one transcript. The finalizer takes
// the same slot, blocking, so a report is never persisted while a turn is
// still streaming.
type turnGuard struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newTurnGuard() *turnGuard {
	return &turnGuard{slots: make(map[string]chan struct{})}
}

func (g *turnGuard) slot(sessionID string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.slots[sessionID]
	if !ok {
		c = make(chan struct{}, 1)
		g.slots[sessionID] = c
	}
	return c
}

// tryAcquire claims the session's turn slot without blocking. Returns
// false if a turn is already streaming.
func (g *turnGuard) tryAcquire(sessionID string) bool {
	select {
	case g.slot(sessionID) <- struct{}{}:
		return true
	default:
		return false
	}
}

// acquire blocks until the session's turn slot is free, then claims it.
func (g *turnGuard) acquire(sessionID string) {
	g.slot(sessionID) <- struct{}{}
}

// release frees the session's turn slot.
func (g *turnGuard) release(sessionID string) {
	select {
	case <-g.slot(sessionID):
	default:
	}
}

// forget drops any record of the session after finalization.
func (g *turnGuard) forget(sessionID string) {
	g.mu.Lock()
	delete(g.slots, sessionID)
	g.mu.Unlock()
}
