package flows

import "context"

// RestoreFailureKind classifies why an OAuth state parameter did not restore a session.
type RestoreFailureKind int

const (
	RestoreFailureNone RestoreFailureKind = iota
	RestoreFailureUndecryptable
	RestoreFailureSessionGone
)

// RestoreResult carries the session recovered from an OAuth state envelope.
type RestoreResult struct {
	Failure   RestoreFailureKind
	UserID    string
	Email     string
	SessionID string
}

// RestoreDeps captures the state decrypter and session store.
type RestoreDeps struct {
	DecryptState func(string) (string, bool)
	SessionStore AuthSessionStore
}

// RunRestore decrypts the state envelope and verifies the session it names.
func RunRestore(ctx context.Context, envelope string, deps RestoreDeps) RestoreResult {
	sessionID, ok := deps.DecryptState(envelope)
	if !ok || sessionID == "" {
		return RestoreResult{Failure: RestoreFailureUndecryptable}
	}
	sess, ok := deps.SessionStore.Verify(ctx, sessionID)
	if !ok {
		return RestoreResult{Failure: RestoreFailureSessionGone, SessionID: sessionID}
	}
	return RestoreResult{
		UserID:    sess.UserID,
		Email:     sess.Email,
		SessionID: sessionID,
	}
}
