package session

import (
	"sync"
	"time"
)

// Store persists in-flight sessions. The manager is the only writer;
// implementations need to be safe for concurrent use but not
// transactional across keys.
type Store interface {
	Get(key Key) (*Session, bool, error)
	Put(s *Session) error
	Delete(key Key) error
	// DeleteIdle removes sessions untouched since the cutoff and
	// returns how many were removed.
	DeleteIdle(cutoff time.Time) (int, error)
}

// MemoryStore keeps sessions in a process-local map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[Key]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[Key]*Session)}
}

func (m *MemoryStore) Get(key Key) (*Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[key]
	if !ok {
		return nil, false, nil
	}
	copied := *s
	return &copied, true, nil
}

func (m *MemoryStore) Put(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *s
	m.sessions[s.Key] = &copied
	return nil
}

func (m *MemoryStore) Delete(key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, key)
	return nil
}

func (m *MemoryStore) DeleteIdle(cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, s := range m.sessions {
		if s.IdleSince(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed, nil
}
