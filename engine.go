package merchantauth

import (
	"context"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/merchantauth/internal/audit"
	"github.com/MrEthical07/merchantauth/internal/flows"
	"github.com/MrEthical07/merchantauth/session"
	"github.com/MrEthical07/merchantauth/state"
)

// Engine authenticates requests and manages the sessions behind them.
//
// Engine instances are built once through [Builder.Build] and are safe for
// concurrent use.
type Engine struct {
	config   Config
	store    *session.Store
	codec    *state.Codec
	verifier TokenVerifier
	flows    flows.Service
	audit    *internalaudit.Dispatcher
	metrics  *Metrics
	logger   *slog.Logger
}

// Close drains the audit dispatcher. The Redis client is owned by the caller.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped returns the number of audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the Engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return emptySnapshot()
	}
	return e.metrics.Snapshot()
}

// SessionHeader returns the configured session header name.
func (e *Engine) SessionHeader() string {
	if e == nil || e.config.Session.Header == "" {
		return DefaultSessionHeader
	}
	return e.config.Session.Header
}

func (e *Engine) ready() bool {
	return e != nil && e.store != nil && e.codec != nil && e.flows.Initialized()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Ping checks store availability and returns its round-trip latency.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	return e.store.Ping(ctx)
}

// CreateSession persists a new session for the user and returns its id.
//
// CreateSession returns an error wrapping [ErrStoreUnavailable] when the
// record cannot be written. There is no fallback.
func (e *Engine) CreateSession(ctx context.Context, userID, email string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}

	sessionID, err := e.store.Create(ctx, userID, email)
	if err != nil {
		e.metricInc(MetricSessionCreateFailed)
		e.emitAudit(ctx, auditEventSessionCreateFailed, false, userID, "", ReasonOf(err), nil)
		return "", err
	}

	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventSessionCreated, true, userID, sessionID, "", nil)
	return sessionID, nil
}

// VerifySession returns the live session for sessionID. Expired records are
// deleted; store faults read as absent.
func (e *Engine) VerifySession(ctx context.Context, sessionID string) (*session.Session, bool) {
	if !e.ready() {
		return nil, false
	}
	return e.store.Verify(ctx, sessionID)
}

// Logout deletes the session. It is idempotent and never fails the caller.
func (e *Engine) Logout(ctx context.Context, sessionID string) {
	if !e.ready() || sessionID == "" {
		return
	}
	e.flows.Logout(ctx, sessionID)
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", sessionID, "", nil)
}
