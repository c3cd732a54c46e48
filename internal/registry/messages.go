package registry

import (
	"net"

	"github.com/google/uuid"
)

// Message is a session lifecycle event consumed by the registry actor.
// Producers are the accept loop (Connect) and each bridge (ConnectionClosed).
type Message interface{ isMessage() }

// Connect announces a freshly accepted client socket.
type Connect struct {
	Conn net.Conn
}

// ConnectionClosed announces that a session's bridge loop has terminated.
type ConnectionClosed struct {
	ID uuid.UUID
}

func (Connect) isMessage()          {}
func (ConnectionClosed) isMessage() {}
