package core

import (
	"context"
	"fmt"
)

// RecentActivity returns the latest audit entries across the catalog.
func (s *Service) RecentActivity(ctx context.Context, limit, offset int) ([]AuditEntry, error) {
	return s.listAudit(ctx, AuditFilter{Limit: limit, Offset: offset})
}

// MaterialActivity returns the audit history of one material. It works for
// deleted materials too.
func (s *Service) MaterialActivity(ctx context.Context, materialID int64, limit int) ([]AuditEntry, error) {
	if materialID <= 0 {
		return nil, &ValidationError{Field: "materialId", Value: materialID, Reason: "must be positive"}
	}
	return s.listAudit(ctx, AuditFilter{MaterialID: materialID, Limit: limit})
}

// UserActivity returns the audit entries recorded for userName.
func (s *Service) UserActivity(ctx context.Context, userName string, limit int) ([]AuditEntry, error) {
	if userName == "" {
		return nil, &ValidationError{Field: "userName", Reason: "required field is empty"}
	}
	return s.listAudit(ctx, AuditFilter{UserName: userName, Limit: limit})
}

func (s *Service) listAudit(ctx context.Context, filter AuditFilter) ([]AuditEntry, error) {
	if filter.Limit <= 0 || filter.Limit > 10*DefaultAuditLimit {
		filter.Limit = DefaultAuditLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, err := s.store.ListAudit(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
