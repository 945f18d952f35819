package store

import (
	"sync"
	"time"

	"github.com/qrdrop/qrdrop/models"
)

const (
	// SessionTTL is the fixed lifetime of a sharing session.
	SessionTTL = 10 * time.Minute
	// SweepInterval is how often the reclaimer scans for expired sessions.
	SweepInterval = 60 * time.Second
)

// SessionStore holds active sessions in memory, keyed by session id.
// Expired entries are evicted lazily on lookup and in bulk by SweepExpired.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*models.Session{}}
}

// Create stores a fresh session under the given id with the fixed TTL.
// An existing session with the same id is silently replaced; its files are
// orphaned until the next sweep.
func (s *SessionStore) Create(id string) *models.Session {
	now := time.Now()
	sess := &models.Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session if it exists and has not expired. An expired entry
// is deleted on the spot and reported as absent, so no caller ever observes
// an expired session as live.
func (s *SessionStore) Get(id string) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if sess.Expired(time.Now()) {
		delete(s.sessions, id)
		return nil
	}
	cp := *sess
	return &cp
}

// IsValid reports whether the session exists and is not expired.
func (s *SessionStore) IsValid(id string) bool {
	return s.Get(id) != nil
}

// Invalidate forces the session's expiry into the past so every subsequent
// validity check fails. The record itself is left for lazy eviction or the
// sweep. No-op if the id is unknown; idempotent otherwise.
func (s *SessionStore) Invalidate(id string) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.ExpiresAt = time.Now().Add(-time.Second)
	}
	s.mu.Unlock()
}

// Delete removes the session unconditionally. No-op if absent.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SweepExpired removes every expired session and returns the removed ids so
// the caller can cascade file cleanup.
func (s *SessionStore) SweepExpired() []string {
	now := time.Now()
	var removed []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	s.mu.Unlock()
	return removed
}

// Count returns the number of live (unexpired) sessions.
func (s *SessionStore) Count() int {
	now := time.Now()
	n := 0
	s.mu.Lock()
	for _, sess := range s.sessions {
		if !sess.Expired(now) {
			n++
		}
	}
	s.mu.Unlock()
	return n
}
