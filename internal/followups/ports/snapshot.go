// Package ports defines what the followups module needs from other modules.
package ports

import (
	"context"

	crm "roofing_crm_backend/internal/crm/domain"
)

// SnapshotReader resolves a consistent read of all CRM collections.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (crm.Snapshot, error)
}

// SnapshotInvalidator drops any cached snapshot after a write.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}
