package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/materials/internal/logging"
	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionCreated        AuditAction = "CREATED"
	ActionUpdated        AuditAction = "UPDATED"
	ActionDeleted        AuditAction = "DELETED"
	ActionPictureAdded   AuditAction = "PICTURE_ADDED"
	ActionPictureRemoved AuditAction = "PICTURE_REMOVED"
	ActionPrimaryChanged AuditAction = "PRIMARY_CHANGED"
	ActionImported       AuditAction = "IMPORTED"
	ActionCatalogReset   AuditAction = "CATALOG_RESET"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry represents a single activity trail entry. MaterialID is kept
// after the material is deleted so its history stays readable.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	MaterialID   int64         `json:"materialId,omitempty"`
	MaterialName string        `json:"materialName,omitempty"`
	Details      string        `json:"details,omitempty"`
	UserName     string        `json:"userName,omitempty"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	BatchID      string        `json:"batchId,omitempty"`
	CreatedAt    time.Time     `json:"timestamp"`
}

// AuditFilter selects audit entries. Zero fields do not filter. Results are
// newest first.
type AuditFilter struct {
	MaterialID int64
	UserName   string
	Action     AuditAction
	Since      time.Time
	Limit      int
	Offset     int
}

// DefaultAuditLimit caps audit queries that do not set a limit.
const DefaultAuditLimit = 50

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionDeleted, ActionImported:
		return SeverityHigh
	case ActionCatalogReset:
		return SeverityCritical
	case ActionPrimaryChanged:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// recordAudit appends an entry for a completed change. The change has
// already happened, so a failed write is logged rather than returned.
func (s *Service) recordAudit(ctx context.Context, store AuditStore, entry AuditEntry) {
	entry.ID = uuid.NewString()
	entry.Severity = determineSeverity(entry.Action)
	entry.UserName = GetUserNameFromContext(ctx)
	entry.IPAddress = GetIPAddressFromContext(ctx)
	entry.UserAgent = GetUserAgentFromContext(ctx)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.Now()
	}

	if err := store.AppendAudit(ctx, entry); err != nil {
		logging.WithFields(ctx,
			"action", entry.Action,
			"material_id", entry.MaterialID,
		).Warn("failed to write audit entry", "error", err)
	}
}
