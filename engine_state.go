package merchantauth

import (
	"context"

	"github.com/MrEthical07/merchantauth/internal/flows"
)

// EncryptState seals sessionID into the OAuth state parameter. The only
// failure is an unavailable randomness source.
func (e *Engine) EncryptState(sessionID string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	env, err := e.codec.Encrypt(sessionID)
	if err != nil {
		e.metricInc(MetricStateEncryptFailed)
		return "", err
	}
	e.metricInc(MetricStateEncrypted)
	return env, nil
}

// DecryptState recovers the session id from a state parameter. Malformed or
// foreign envelopes report ("", false).
func (e *Engine) DecryptState(envelope string) (string, bool) {
	if !e.ready() {
		return "", false
	}
	sessionID, ok := e.codec.Decrypt(envelope)
	if !ok {
		e.metricInc(MetricStateRejected)
		return "", false
	}
	e.metricInc(MetricStateDecrypted)
	return sessionID, true
}

// RestoreFromState decrypts a callback state parameter and verifies the
// session it names. It reports (nil, false) when the envelope is unusable or
// the session has expired or been deleted since the redirect began.
func (e *Engine) RestoreFromState(ctx context.Context, envelope string) (*AuthResult, bool) {
	if !e.ready() {
		return nil, false
	}

	res := e.flows.Restore(ctx, envelope)
	switch res.Failure {
	case flows.RestoreFailureNone:
	case flows.RestoreFailureUndecryptable:
		e.metricInc(MetricStateRejected)
		e.emitAudit(ctx, auditEventStateRejected, false, "", "", auditStateUndecryptable, nil)
		return nil, false
	default:
		e.metricInc(MetricStateRejected)
		e.emitAudit(ctx, auditEventStateRejected, false, "", res.SessionID, auditStateSessionGone, nil)
		return nil, false
	}

	e.metricInc(MetricStateRestored)
	e.emitAudit(ctx, auditEventStateRestored, true, res.UserID, res.SessionID, "", nil)
	return &AuthResult{
		Principal: Principal{ID: res.UserID, Email: res.Email},
		SessionID: res.SessionID,
	}, true
}
