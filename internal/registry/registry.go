// Package registry owns the table of live client sessions. A single actor
// goroutine consumes lifecycle messages from an unbounded mailbox and is the
// only writer of the session store.
package registry

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/matst80/telbridge/internal/obs"
)

// Starter launches the bridge goroutine for a newly registered session.
// Injected so the wiring (and tests) decide what a session actually runs.
type Starter func(sess Session, conn net.Conn)

type Registry struct {
	mailbox *Mailbox
	store   Store
	start   Starter
}

func New(store Store, start Starter) *Registry {
	return &Registry{mailbox: NewMailbox(), store: store, start: start}
}

// Mailbox exposes the message channel producers send lifecycle events to.
func (r *Registry) Mailbox() *Mailbox { return r.mailbox }

// Store exposes the session table for read-only consumers (stats, dashboard).
func (r *Registry) Store() Store { return r.store }

// Run processes lifecycle messages until ctx is cancelled. A malformed
// message is dropped with a diagnostic; it never stops the actor.
func (r *Registry) Run(ctx context.Context) {
	for {
		msg, ok := r.mailbox.tryRecv()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-r.mailbox.wake:
			}
			continue
		}
		r.handle(msg)
	}
}

func (r *Registry) handle(msg Message) {
	switch m := msg.(type) {
	case Connect:
		r.handleConnect(m)
	case ConnectionClosed:
		if !r.store.Remove(m.ID) {
			// Duplicate or out-of-order closure notification.
			obs.Warn("registry.close.unknown", obs.Fields{"id": m.ID.String()})
			return
		}
		obs.Info("session.closed", obs.Fields{"id": m.ID.String()})
	default:
		obs.Error("registry.message.unknown", obs.Fields{})
	}
}

func (r *Registry) handleConnect(m Connect) {
	addr := peerIP(m.Conn)
	if addr == "" {
		obs.Error("registry.connect.no_peer_addr", obs.Fields{})
		obs.ErrorsTotal.WithLabelValues("no_peer_addr").Inc()
		_ = m.Conn.Close()
		return
	}
	sess := Session{ID: uuid.New(), Addr: addr, ConnectedAt: time.Now()}
	r.store.Add(sess)
	obs.SessionsTotal.Inc()
	obs.Info("session.registered", obs.Fields{"id": sess.ID.String(), "addr": sess.Addr})
	go r.start(sess, m.Conn)
}

// peerIP extracts the client IP, tolerating sockets without a port part.
func peerIP(c net.Conn) string {
	ra := c.RemoteAddr()
	if ra == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(ra.String())
	if err != nil {
		return ra.String()
	}
	return host
}
