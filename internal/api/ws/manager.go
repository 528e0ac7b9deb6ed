package ws

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"ai-interview-orchestrator/internal/models"
)

// client is one live websocket connection bound to a session. All writes
// go through send so concurrent turn goroutines never interleave frames.
type client struct {
	sessionID string
	conn      *websocket.Conn

	writeMu sync.Mutex

	// suppressAudio is set by an interrupt frame and cleared when the next
	// turn starts. Text delivery is never suppressed.
	suppressAudio atomic.Bool
}

func (c *client) send(env models.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(env)
}

// Manager tracks the single active connection per session. Sessions outlive
// connections: a disconnect unregisters the connection and nothing else, so
// a candidate can reconnect and resume.
type Manager struct {
	mu      sync.Mutex
	clients map[string]*client
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*client)}
}

// register binds a connection to a session, displacing any previous
// connection for the same session.
func (m *Manager) register(c *client) {
	m.mu.Lock()
	prev := m.clients[c.sessionID]
	m.clients[c.sessionID] = c
	m.mu.Unlock()

	if prev != nil {
		_ = prev.conn.Close()
	}
}

// unregister removes the binding, but only if it still points at this
// connection. A reconnect that displaced us must not be torn down.
func (m *Manager) unregister(c *client) {
	m.mu.Lock()
	if m.clients[c.sessionID] == c {
		delete(m.clients, c.sessionID)
	}
	m.mu.Unlock()
}

// Active returns the number of connected sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
