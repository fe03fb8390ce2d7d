package moderation

import (
	"context"
	"time"
)

// AuditRecord describes one rejected submission.
type AuditRecord struct {
	UserID    uint
	Content   string
	Type      ContentType
	Reason    string
	CreatedAt time.Time
}

// AuditLogger persists rejected submissions. Records are append-only.
type AuditLogger interface {
	LogViolation(ctx context.Context, rec AuditRecord) error
}

// AuditReason is the reason stored with an audit record: the user-facing
// reason followed by the stage that produced it.
func AuditReason(reason string, method Method) string {
	return reason + " (via " + string(method) + ")"
}
