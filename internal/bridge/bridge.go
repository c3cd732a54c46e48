// Package bridge relays one client's bytes to a telnet backend and back,
// answering option negotiations on the way.
package bridge

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/matst80/telbridge/internal/encoding"
	"github.com/matst80/telbridge/internal/obs"
	"github.com/matst80/telbridge/internal/registry"
	"github.com/matst80/telbridge/internal/telnet"
)

// Config holds the per-session bridging parameters.
type Config struct {
	BackendAddr  string
	DialTimeout  time.Duration
	PollInterval time.Duration
	TerminalType string
}

type Bridge struct {
	cfg     Config
	sess    registry.Session
	client  net.Conn
	mailbox *registry.Mailbox
}

func New(cfg Config, sess registry.Session, client net.Conn, mailbox *registry.Mailbox) *Bridge {
	return &Bridge{cfg: cfg, sess: sess, client: client, mailbox: mailbox}
}

// Run drives the session until a terminal condition. Whatever ends the loop,
// the registry is notified exactly once and both sockets are released.
func (b *Bridge) Run() {
	start := time.Now()
	defer func() {
		b.mailbox.Send(registry.ConnectionClosed{ID: b.sess.ID})
		_ = b.client.Close()
		obs.SessionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	backend, err := telnet.Dial(b.cfg.BackendAddr, b.cfg.DialTimeout)
	if err != nil {
		obs.Error("bridge.dial", obs.Fields{"err": err.Error(), "id": b.sess.ID.String(), "backend": b.cfg.BackendAddr})
		obs.BackendDialFailures.Inc()
		return
	}
	defer backend.Close()
	obs.Debug("bridge.connected", obs.Fields{"id": b.sess.ID.String(), "backend": b.cfg.BackendAddr})

	buf := make([]byte, 256)
	for b.pumpClient(backend, buf) && b.pumpBackend(backend) {
	}
}

// pumpClient forwards one read's worth of client bytes to the backend. The
// deadline-bounded read doubles as the loop's yield; an expired deadline is
// the no-data fast path.
func (b *Bridge) pumpClient(backend *telnet.Conn, buf []byte) bool {
	_ = b.client.SetReadDeadline(time.Now().Add(b.cfg.PollInterval))
	n, err := b.client.Read(buf)
	if n > 0 {
		if werr := backend.Write(buf[:n]); werr != nil {
			obs.Error("bridge.backend_write", obs.Fields{"err": werr.Error(), "id": b.sess.ID.String()})
			obs.ErrorsTotal.WithLabelValues("backend_write").Inc()
			return false
		}
		obs.BytesTotal.WithLabelValues("client_to_backend").Add(float64(n))
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return true
		}
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			obs.Debug("bridge.client_closed", obs.Fields{"id": b.sess.ID.String()})
		} else {
			obs.Error("bridge.client_read", obs.Fields{"err": err.Error(), "id": b.sess.ID.String()})
			obs.ErrorsTotal.WithLabelValues("client_read").Inc()
		}
		return false
	}
	return true
}

// pumpBackend polls the backend for one telnet event and dispatches it.
func (b *Bridge) pumpBackend(backend *telnet.Conn) bool {
	ev, err := backend.ReadEvent(b.cfg.PollInterval)
	if err != nil {
		if errors.Is(err, io.EOF) {
			obs.Debug("bridge.backend_closed", obs.Fields{"id": b.sess.ID.String()})
		} else {
			obs.Error("bridge.backend_read", obs.Fields{"err": err.Error(), "id": b.sess.ID.String()})
			obs.ErrorsTotal.WithLabelValues("backend_read").Inc()
		}
		return false
	}
	switch ev.Kind {
	case telnet.EventData:
		decoded := encoding.DecodeCP437(ev.Data)
		if _, werr := b.client.Write(decoded); werr != nil {
			obs.Error("bridge.client_write", obs.Fields{"err": werr.Error(), "id": b.sess.ID.String()})
			obs.ErrorsTotal.WithLabelValues("client_write").Inc()
			return false
		}
		obs.BytesTotal.WithLabelValues("backend_to_client").Add(float64(len(ev.Data)))
	case telnet.EventNegotiation:
		if werr := b.answer(backend, ev.Command, ev.Option); werr != nil {
			obs.Error("bridge.negotiate", obs.Fields{"err": werr.Error(), "id": b.sess.ID.String()})
			obs.ErrorsTotal.WithLabelValues("negotiate_write").Inc()
			return false
		}
	case telnet.EventSubnegotiation, telnet.EventCommand, telnet.EventNoData:
		// Inbound subnegotiations and bare commands carry nothing the
		// bridge acts on.
	}
	return true
}

// answer sends the decision table's reply plus any side payload.
func (b *Bridge) answer(backend *telnet.Conn, action, option byte) error {
	rep := Decide(action, option)
	if rep.Action == 0 {
		obs.Debug("bridge.negotiation_ignored", obs.Fields{"id": b.sess.ID.String(), "action": telnet.ActionName(action), "option": int(option)})
		return nil
	}
	if err := backend.Negotiate(rep.Action, option); err != nil {
		return err
	}
	obs.NegotiationsTotal.WithLabelValues(telnet.OptionName(option)).Inc()
	switch rep.Subneg {
	case SubnegLocation:
		return backend.Subnegotiate(telnet.OptSendLocation, []byte(b.sess.Addr))
	case SubnegTerminalType:
		return backend.Subnegotiate(telnet.OptTerminalType, []byte(b.cfg.TerminalType))
	}
	return nil
}
