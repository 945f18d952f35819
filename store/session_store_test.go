package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expireSession(s *SessionStore, id string) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.ExpiresAt = time.Now().Add(-time.Minute)
	}
	s.mu.Unlock()
}

func TestCreateThenValid(t *testing.T) {
	s := NewSessionStore()
	sess := s.Create("abc")

	require.NotNil(t, sess)
	assert.Equal(t, "abc", sess.ID)
	assert.Equal(t, SessionTTL, sess.ExpiresAt.Sub(sess.CreatedAt))
	assert.True(t, s.IsValid("abc"))
}

func TestGetUnknownSession(t *testing.T) {
	s := NewSessionStore()
	assert.Nil(t, s.Get("nope"))
	assert.False(t, s.IsValid("nope"))
}

func TestLazyEvictionOnGet(t *testing.T) {
	s := NewSessionStore()
	s.Create("abc")
	expireSession(s, "abc")

	assert.Nil(t, s.Get("abc"))

	// The expired record must be gone, not just hidden.
	s.mu.Lock()
	_, ok := s.sessions["abc"]
	s.mu.Unlock()
	assert.False(t, ok)
}

func TestInvalidateImmediate(t *testing.T) {
	s := NewSessionStore()
	s.Create("abc")

	s.Invalidate("abc")
	assert.False(t, s.IsValid("abc"))

	// idempotent, and harmless on unknown ids
	s.Invalidate("abc")
	s.Invalidate("never-existed")
	assert.False(t, s.IsValid("abc"))
}

func TestCreateOverwritesExistingID(t *testing.T) {
	s := NewSessionStore()
	first := s.Create("dup")
	time.Sleep(5 * time.Millisecond)
	second := s.Create("dup")

	got := s.Get("dup")
	require.NotNil(t, got)
	assert.Equal(t, second.CreatedAt, got.CreatedAt)
	assert.True(t, got.CreatedAt.After(first.CreatedAt))
}

func TestDelete(t *testing.T) {
	s := NewSessionStore()
	s.Create("abc")
	s.Delete("abc")
	assert.False(t, s.IsValid("abc"))
	s.Delete("abc") // no-op
}

func TestSweepExpired(t *testing.T) {
	s := NewSessionStore()
	s.Create("live")
	s.Create("dead1")
	s.Create("dead2")
	expireSession(s, "dead1")
	expireSession(s, "dead2")

	removed := s.SweepExpired()
	assert.ElementsMatch(t, []string{"dead1", "dead2"}, removed)
	assert.True(t, s.IsValid("live"))

	// Idempotence: an immediate second sweep removes nothing.
	assert.Empty(t, s.SweepExpired())
}

func TestCount(t *testing.T) {
	s := NewSessionStore()
	s.Create("a")
	s.Create("b")
	expireSession(s, "b")
	assert.Equal(t, 1, s.Count())
}
