package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Authenticate.VerifyToken != nil && s.deps.Authenticate.SessionStore != nil
}

func (s Service) Authenticate(ctx context.Context, creds Credentials) AuthenticateResult {
	return RunAuthenticate(ctx, creds, s.deps.Authenticate)
}

func (s Service) Logout(ctx context.Context, sessionID string) {
	RunLogout(ctx, sessionID, s.deps.Logout)
}

func (s Service) Restore(ctx context.Context, envelope string) RestoreResult {
	return RunRestore(ctx, envelope, s.deps.Restore)
}
