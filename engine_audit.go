package merchantauth

import (
	"context"

	"github.com/MrEthical07/merchantauth/internal"
	internalaudit "github.com/MrEthical07/merchantauth/internal/audit"
)

const (
	auditEventSessionCreated      = "session_created"
	auditEventSessionCreateFailed = "session_create_failed"
	auditEventLogout              = "logout"
	auditEventAuthRejected        = "auth_rejected"
	auditEventStateRejected       = "state_rejected"
	auditEventStateRestored       = "state_restored"
)

const (
	auditStateUndecryptable = "undecryptable"
	auditStateSessionGone   = "session_gone"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	reason string,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := internalaudit.NewEvent(eventType, success)
	event.UserID = userID
	event.SessionID = internal.Truncate(sessionID)
	event.IP = clientIPFromContext(ctx)
	event.Reason = reason
	if metadataBuilder != nil {
		event.Metadata = metadataBuilder()
	}

	e.audit.Emit(ctx, event)
}
