package connections

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestManagerAddAndRemove(t *testing.T) {
	manager := NewManager(DefaultTimeouts)
	conn := &websocket.Conn{}

	cancelled := false
	manager.AddConnection(conn, func() { cancelled = true })
	if !manager.HasConnection(conn) {
		t.Error("Connection not found after adding")
	}

	manager.RemoveConnection(conn)
	if manager.HasConnection(conn) {
		t.Error("Connection still exists after removal")
	}
	if !cancelled {
		t.Error("Stream context not cancelled on removal")
	}
}

func TestManagerRemoveUnknownConnection(t *testing.T) {
	manager := NewManager(DefaultTimeouts)

	// Must not panic.
	manager.RemoveConnection(&websocket.Conn{})
}

func TestManagerConcurrentOperations(t *testing.T) {
	manager := NewManager(DefaultTimeouts)
	concurrentOps := 100

	connections := make([]*websocket.Conn, concurrentOps)
	for i := range connections {
		connections[i] = &websocket.Conn{}
	}

	var wg sync.WaitGroup
	wg.Add(concurrentOps)
	for i := 0; i < concurrentOps; i++ {
		go func(conn *websocket.Conn) {
			defer wg.Done()
			_, cancel := context.WithCancel(context.Background())
			manager.AddConnection(conn, cancel)
		}(connections[i])
	}

	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	select {
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	case <-waitCh:
	}

	if got := manager.Count(); got != concurrentOps {
		t.Errorf("Expected %d connections, got %d", concurrentOps, got)
	}

	for _, conn := range connections {
		manager.RemoveConnection(conn)
	}
	if got := manager.Count(); got != 0 {
		t.Errorf("Expected no connections after removal, got %d", got)
	}
}

func TestManagerTimeouts(t *testing.T) {
	customTimeouts := TimeoutConfig{
		PongWait:   time.Minute,
		PingPeriod: 54 * time.Second,
		WriteWait:  20 * time.Second,
	}

	manager := NewManager(customTimeouts)
	if manager.GetTimeouts() != customTimeouts {
		t.Error("Timeout configuration not set correctly")
	}
}
