package registry

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// nilAddrConn is a socket whose peer address cannot be determined.
type nilAddrConn struct{ net.Conn }

func (nilAddrConn) RemoteAddr() net.Addr { return nil }

func startRegistry(t *testing.T, start Starter) *Registry {
	t.Helper()
	if start == nil {
		start = func(Session, net.Conn) {}
	}
	r := New(NewMemoryStore(), start)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)
	return r
}

func clientConn(t *testing.T) net.Conn {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	return a
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestConnectRegistersSessionAndStartsBridge(t *testing.T) {
	var mu sync.Mutex
	var started []Session
	r := startRegistry(t, func(s Session, c net.Conn) {
		mu.Lock()
		started = append(started, s)
		mu.Unlock()
	})

	r.Mailbox().Send(Connect{Conn: clientConn(t)})
	waitFor(t, func() bool { n, _ := r.Store().Stats(); return n == 1 }, "session never registered")
	waitFor(t, func() bool { mu.Lock(); defer mu.Unlock(); return len(started) == 1 }, "bridge never started")

	mu.Lock()
	defer mu.Unlock()
	if _, ok := r.Store().Get(started[0].ID); !ok {
		t.Error("started session missing from store")
	}
}

func TestSessionIdentifiersAreUnique(t *testing.T) {
	r := startRegistry(t, nil)
	const n = 50
	for i := 0; i < n; i++ {
		r.Mailbox().Send(Connect{Conn: clientConn(t)})
	}
	waitFor(t, func() bool { c, _ := r.Store().Stats(); return c == n }, "not all sessions registered")

	seen := make(map[uuid.UUID]bool)
	for _, s := range r.Store().Sessions() {
		if seen[s.ID] {
			t.Fatalf("duplicate session id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestConnectionClosedRemovesSession(t *testing.T) {
	r := startRegistry(t, nil)
	r.Mailbox().Send(Connect{Conn: clientConn(t)})
	r.Mailbox().Send(Connect{Conn: clientConn(t)})
	waitFor(t, func() bool { c, _ := r.Store().Stats(); return c == 2 }, "sessions never registered")

	victim := r.Store().Sessions()[0]
	r.Mailbox().Send(ConnectionClosed{ID: victim.ID})
	waitFor(t, func() bool { c, _ := r.Store().Stats(); return c == 1 }, "session never removed")

	if _, ok := r.Store().Get(victim.ID); ok {
		t.Error("removed session still present")
	}
}

func TestConnectionClosedIsIdempotent(t *testing.T) {
	r := startRegistry(t, nil)
	r.Mailbox().Send(Connect{Conn: clientConn(t)})
	waitFor(t, func() bool { c, _ := r.Store().Stats(); return c == 1 }, "session never registered")

	id := r.Store().Sessions()[0].ID
	r.Mailbox().Send(ConnectionClosed{ID: id})
	r.Mailbox().Send(ConnectionClosed{ID: id})
	waitFor(t, func() bool { return r.Mailbox().Len() == 0 }, "mailbox never drained")

	if c, _ := r.Store().Stats(); c != 0 {
		t.Errorf("expected empty registry, got %d sessions", c)
	}
}

func TestCloseForUnknownSessionIsNoOp(t *testing.T) {
	r := startRegistry(t, nil)
	r.Mailbox().Send(ConnectionClosed{ID: uuid.New()})
	// The actor must survive and keep serving connects.
	r.Mailbox().Send(Connect{Conn: clientConn(t)})
	waitFor(t, func() bool { c, _ := r.Store().Stats(); return c == 1 }, "actor stopped after unknown close")
}

func TestConnectWithoutPeerAddressIsDropped(t *testing.T) {
	r := startRegistry(t, func(Session, net.Conn) { t.Error("bridge started for bad socket") })
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	r.Mailbox().Send(Connect{Conn: nilAddrConn{a}})
	waitFor(t, func() bool { return r.Mailbox().Len() == 0 }, "mailbox never drained")
	time.Sleep(20 * time.Millisecond)
	if c, _ := r.Store().Stats(); c != 0 {
		t.Errorf("expected no sessions, got %d", c)
	}
}

func TestMailboxSendNeverBlocks(t *testing.T) {
	m := NewMailbox()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			m.Send(ConnectionClosed{ID: uuid.New()})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked with no consumer")
	}
	if m.Len() != 10000 {
		t.Errorf("expected 10000 queued messages, got %d", m.Len())
	}
}
