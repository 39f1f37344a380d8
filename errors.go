package merchantauth

import (
	"errors"

	"github.com/MrEthical07/merchantauth/session"
)

var (
	// ErrAuthenticationRequired is returned when a request carries neither a
	// bearer token nor a session identifier.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidSessionState is returned when a valid token is not bound to a session.
	ErrInvalidSessionState = errors.New("invalid session state")
	// ErrInvalidOrExpiredSession is returned when the session is missing,
	// expired, unreadable or owned by a different user than the token.
	ErrInvalidOrExpiredSession = errors.New("invalid or expired session")
	// ErrStoreUnavailable is returned by [Engine.CreateSession] when the record cannot be written.
	ErrStoreUnavailable = session.ErrStoreUnavailable
	// ErrEngineNotReady is returned by a nil or partially built Engine.
	ErrEngineNotReady = errors.New("engine not ready")
)

// Reason strings carried in rejection responses and audit events.
const (
	ReasonAuthenticationRequired  = "authentication_required"
	ReasonInvalidToken            = "invalid_token"
	ReasonInvalidSessionState     = "invalid_session_state"
	ReasonInvalidOrExpiredSession = "invalid_or_expired_session"
	ReasonStoreUnavailable        = "store_unavailable"
	ReasonEngineNotReady          = "engine_not_ready"
	ReasonInternal                = "internal_error"
)

// ReasonOf returns the machine-readable reason for err, or "" for nil.
func ReasonOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthenticationRequired):
		return ReasonAuthenticationRequired
	case errors.Is(err, ErrInvalidToken):
		return ReasonInvalidToken
	case errors.Is(err, ErrInvalidSessionState):
		return ReasonInvalidSessionState
	case errors.Is(err, ErrInvalidOrExpiredSession):
		return ReasonInvalidOrExpiredSession
	case errors.Is(err, ErrStoreUnavailable):
		return ReasonStoreUnavailable
	case errors.Is(err, ErrEngineNotReady):
		return ReasonEngineNotReady
	default:
		return ReasonInternal
	}
}
