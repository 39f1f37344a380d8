package merchantauth

import (
	"context"
	"time"

	"github.com/MrEthical07/merchantauth/internal/flows"
)

// Authenticate resolves creds in mandatory mode.
//
// The returned error is one of [ErrAuthenticationRequired], [ErrInvalidToken],
// [ErrInvalidSessionState] or [ErrInvalidOrExpiredSession]; [ReasonOf] maps it
// to the wire reason. No other error is surfaced: store faults on the read
// path are reported as [ErrInvalidOrExpiredSession].
//
//	Performance: at most 1 token verification and 1 Redis GET (+1 DEL on lazy expiry).
func (e *Engine) Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	res := e.flows.Authenticate(ctx, flows.Credentials{
		Authorization: creds.Authorization,
		SessionID:     creds.SessionID,
	})

	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}

	if res.Failure != flows.AuthFailureNone {
		err := mapAuthFailure(res.Failure)
		e.metricInc(authFailureMetric(res.Failure))
		e.emitAudit(ctx, auditEventAuthRejected, false, "", "", ReasonOf(err), func() map[string]string {
			return map[string]string{"path": res.Path.String()}
		})
		return nil, err
	}

	if res.Path == flows.AuthPathToken {
		e.metricInc(MetricAuthTokenSuccess)
	} else {
		e.metricInc(MetricAuthSessionSuccess)
	}

	return &AuthResult{
		Principal: Principal{ID: res.UserID, Email: res.Email},
		SessionID: res.SessionID,
	}, nil
}

// TryAuthenticate resolves creds in optional mode. It never fails: any
// rejection reports (nil, false) without revealing the reason.
func (e *Engine) TryAuthenticate(ctx context.Context, creds Credentials) (*AuthResult, bool) {
	res, err := e.Authenticate(ctx, creds)
	if err != nil {
		e.metricInc(MetricOptionalAnonymous)
		return nil, false
	}
	return res, true
}

func (e *Engine) verifyToken(token string) (flows.Claim, error) {
	claim, err := e.verifier.VerifyToken(token)
	if err != nil {
		return flows.Claim{}, err
	}
	return flows.Claim{
		UserID:    claim.UserID,
		Email:     claim.Email,
		SessionID: claim.SessionID,
	}, nil
}

func mapAuthFailure(kind flows.AuthFailureKind) error {
	switch kind {
	case flows.AuthFailureNoCredential:
		return ErrAuthenticationRequired
	case flows.AuthFailureInvalidToken:
		return ErrInvalidToken
	case flows.AuthFailureInvalidSessionState:
		return ErrInvalidSessionState
	default:
		return ErrInvalidOrExpiredSession
	}
}

func authFailureMetric(kind flows.AuthFailureKind) MetricID {
	switch kind {
	case flows.AuthFailureNoCredential:
		return MetricAuthRequired
	case flows.AuthFailureInvalidToken:
		return MetricAuthInvalidToken
	case flows.AuthFailureInvalidSessionState:
		return MetricAuthInvalidSessionState
	default:
		return MetricAuthInvalidOrExpiredSession
	}
}
