package flows

import "context"

type LogoutSessionStore interface {
	Delete(ctx context.Context, sessionID string)
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	SessionStore LogoutSessionStore
}

// RunLogout removes the session record. Deleting an absent record is a no-op.
func RunLogout(ctx context.Context, sessionID string, deps LogoutDeps) {
	deps.SessionStore.Delete(ctx, sessionID)
}
