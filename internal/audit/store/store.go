// Package store persists audit aggregates. Two implementations share one
// interface: an in-memory store for tests and single-node development, and a
// PostgreSQL store for production. Both return the platform sentinel errors;
// services translate those into domain errors at their boundary.
package store

import (
	"context"

	"foodaudit/internal/audit/models"
	id "foodaudit/pkg/domain"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Status   models.Status
	Location string
}

// Store is the persistence port for audit aggregates.
//
// Implementations must never alias returned aggregates with internal state:
// callers may mutate what they receive without affecting the store.
type Store interface {
	Create(ctx context.Context, audit *models.Audit) error
	Update(ctx context.Context, audit *models.Audit) error
	FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	List(ctx context.Context, filter Filter) ([]*models.Audit, error)
	ListByAuditor(ctx context.Context, auditorID id.AuditorID) ([]*models.Audit, error)
	Delete(ctx context.Context, auditID id.AuditID) error
}
