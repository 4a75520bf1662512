// Package store persists auditor directory entries.
package store

import (
	"context"

	"foodaudit/internal/auditor/models"
	id "foodaudit/pkg/domain"
)

// Store is the persistence port for the auditor directory. FindByEmail exists
// because email is the directory's natural unique key; Create surfaces
// sentinel.ErrConflict when it is already taken.
type Store interface {
	Create(ctx context.Context, auditor *models.Auditor) error
	Update(ctx context.Context, auditor *models.Auditor) error
	FindByID(ctx context.Context, auditorID id.AuditorID) (*models.Auditor, error)
	FindByEmail(ctx context.Context, email string) (*models.Auditor, error)
	List(ctx context.Context) ([]*models.Auditor, error)
	Delete(ctx context.Context, auditorID id.AuditorID) error
}
