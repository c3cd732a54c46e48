package registry

import (
	"time"

	"github.com/google/uuid"
)

// Session is the registry record for one bridged client. Created once when
// the connect message is processed and immutable afterwards.
type Session struct {
	ID          uuid.UUID `json:"id"`
	Addr        string    `json:"addr"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Store abstracts the session table so an instance can optionally mirror it
// into Redis. Only the registry actor mutates a Store; everything else reads.
type Store interface {
	Add(s Session)
	Remove(id uuid.UUID) bool
	Get(id uuid.UUID) (Session, bool)
	Sessions() []Session
	Stats() (active int, total int64)
}
