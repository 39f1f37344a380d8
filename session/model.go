package session

import "time"

// TTL is the fixed lifetime of a session record. Reads never extend it.
const TTL = 7 * 24 * time.Hour

// Session is the server-side record behind a session identifier.
//
// SessionID is carried by the Redis key and is not part of the encoded blob.
// ExpiresAt is always LoginTime plus [TTL] for records produced by [Store.Create].
type Session struct {
	SessionID string
	UserID    string
	Email     string

	LoginTime time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
