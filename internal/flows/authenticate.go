package flows

import (
	"context"
	"strings"

	"github.com/MrEthical07/merchantauth/session"
)

// BearerPrefix is the case-sensitive Authorization scheme prefix.
const BearerPrefix = "Bearer "

// AuthFailureKind classifies authentication failures for root-level mapping.
type AuthFailureKind int

const (
	AuthFailureNone AuthFailureKind = iota
	AuthFailureNoCredential
	AuthFailureInvalidToken
	AuthFailureInvalidSessionState
	AuthFailureInvalidOrExpiredSession
)

// AuthPath records which credential was evaluated.
type AuthPath int

const (
	AuthPathNone AuthPath = iota
	AuthPathToken
	AuthPathSession
)

func (p AuthPath) String() string {
	switch p {
	case AuthPathToken:
		return "token"
	case AuthPathSession:
		return "session"
	default:
		return "none"
	}
}

// Credentials are the raw request inputs the resolver considers.
type Credentials struct {
	Authorization string
	SessionID     string
}

// Claim is the verified token payload the resolver needs.
type Claim struct {
	UserID    string
	Email     string
	SessionID string
}

// AuthenticateResult is either a classified failure or a resolved identity.
// UserID, Email and SessionID are set only when Failure is AuthFailureNone.
type AuthenticateResult struct {
	Failure   AuthFailureKind
	Path      AuthPath
	Err       error
	UserID    string
	Email     string
	SessionID string
}

type AuthSessionStore interface {
	Verify(ctx context.Context, sessionID string) (*session.Session, bool)
}

// AuthenticateDeps captures the token verifier and session store.
type AuthenticateDeps struct {
	VerifyToken  func(string) (Claim, error)
	SessionStore AuthSessionStore
}

// RunAuthenticate resolves credentials to an identity.
//
// A Bearer token, even an empty one, takes precedence over the session
// header. At most one path runs and each path makes at most two blocking
// calls.
func RunAuthenticate(ctx context.Context, creds Credentials, deps AuthenticateDeps) AuthenticateResult {
	if token, ok := strings.CutPrefix(creds.Authorization, BearerPrefix); ok {
		return runTokenPath(ctx, token, deps)
	}
	if creds.SessionID != "" {
		return runSessionPath(ctx, creds.SessionID, deps)
	}
	return AuthenticateResult{Failure: AuthFailureNoCredential}
}

func runTokenPath(ctx context.Context, token string, deps AuthenticateDeps) AuthenticateResult {
	claim, err := deps.VerifyToken(token)
	if err != nil {
		return AuthenticateResult{Failure: AuthFailureInvalidToken, Path: AuthPathToken, Err: err}
	}
	if claim.SessionID == "" {
		return AuthenticateResult{Failure: AuthFailureInvalidSessionState, Path: AuthPathToken}
	}

	sess, ok := deps.SessionStore.Verify(ctx, claim.SessionID)
	if !ok {
		return AuthenticateResult{Failure: AuthFailureInvalidOrExpiredSession, Path: AuthPathToken}
	}
	// A token may only ride on a session owned by the same user.
	if sess.UserID != claim.UserID {
		return AuthenticateResult{Failure: AuthFailureInvalidOrExpiredSession, Path: AuthPathToken}
	}

	return AuthenticateResult{
		Path:      AuthPathToken,
		UserID:    claim.UserID,
		Email:     claim.Email,
		SessionID: claim.SessionID,
	}
}

func runSessionPath(ctx context.Context, sessionID string, deps AuthenticateDeps) AuthenticateResult {
	sess, ok := deps.SessionStore.Verify(ctx, sessionID)
	if !ok {
		return AuthenticateResult{Failure: AuthFailureInvalidOrExpiredSession, Path: AuthPathSession}
	}
	return AuthenticateResult{
		Path:      AuthPathSession,
		UserID:    sess.UserID,
		Email:     sess.Email,
		SessionID: sessionID,
	}
}
