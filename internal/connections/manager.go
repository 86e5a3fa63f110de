package connections

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// Manager handles WebSocket connection lifecycle. Each registered
// connection carries the cancel function for its stream context so
// shutdown can abort in-flight message streams.
type Manager struct {
	connections sync.Map // *websocket.Conn -> context.CancelFunc
	timeouts    TimeoutConfig
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// NewManager creates a new connection manager with the specified timeouts
func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers a WebSocket connection with the cancel
// function for its stream context.
func (m *Manager) AddConnection(conn *websocket.Conn, cancel context.CancelFunc) {
	m.connections.Store(conn, cancel)
}

// RemoveConnection deregisters a connection and cancels its stream
// context.
func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	if cancel, ok := m.connections.LoadAndDelete(conn); ok {
		cancel.(context.CancelFunc)()
	}
}

// HasConnection checks if a specific connection exists
func (m *Manager) HasConnection(conn *websocket.Conn) bool {
	_, exists := m.connections.Load(conn)
	return exists
}

// Count returns the current number of active connections
func (m *Manager) Count() int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

// CloseAll cancels every stream and closes every connection. Used on
// shutdown.
func (m *Manager) CloseAll() {
	m.connections.Range(func(key, value interface{}) bool {
		value.(context.CancelFunc)()
		key.(*websocket.Conn).Close()
		m.connections.Delete(key)
		return true
	})
}

// GetTimeouts returns the current timeout configuration
func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}
