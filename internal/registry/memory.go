package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matst80/telbridge/internal/obs"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
	total    int64
}

// NewMemoryStore returns the default in-process session table.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[uuid.UUID]Session)}
}

func (s *memoryStore) Add(sess Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.total++
	obs.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
}

func (s *memoryStore) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	obs.ActiveSessions.Set(float64(len(s.sessions)))
	return true
}

func (s *memoryStore) Get(id uuid.UUID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *memoryStore) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *memoryStore) Stats() (int, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), s.total
}
