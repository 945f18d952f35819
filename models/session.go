package models

import "time"

// Session is a time-boxed sharing context identified by an opaque token.
// Its lifetime is fixed at creation; Invalidate only ever moves ExpiresAt
// backwards, never forwards.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its deadline at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
