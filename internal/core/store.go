package core

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Store owns every live Session, keyed by session id.
type Store struct {
	mu       sync.RWMutex
	sessions map[SessionID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[SessionID]*Session)}
}

// GetOrCreate returns the session for id, inserting an empty one if needed.
// Callers racing on the same id always get the same *Session.
func (s *Store) GetOrCreate(id SessionID) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = newSession(id)
	s.sessions[id] = sess
	log.Info().Str("module", "core.store").Str("session_id", string(id)).Msg("session created")
	return sess
}

func (s *Store) Get(id SessionID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes id; unknown ids are ignored.
func (s *Store) Delete(id SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delete(id)
}

// DeleteIf removes id only when cond holds, with cond evaluated under the
// store lock so no GetOrCreate for id can interleave. cond must not call
// back into the Store.
func (s *Store) DeleteIf(id SessionID, cond func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok || !cond() {
		return false
	}
	s.delete(id)
	return true
}

func (s *Store) delete(id SessionID) {
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	log.Info().Str("module", "core.store").Str("session_id", string(id)).Msg("session deleted")
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
