package store

import (
	"context"

	"github.com/google/uuid"

	"hrportal/internal/leave/models"
)

// LeaveStore persists leave applications. Implementations return
// sentinel.ErrNotFound for missing records.
type LeaveStore interface {
	Create(ctx context.Context, leave *models.Leave) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Leave, error)

	// Execute atomically validates and mutates a leave under the store's
	// lock, returning the updated record.
	Execute(ctx context.Context, id uuid.UUID, validate func(*models.Leave) error, apply func(*models.Leave)) (*models.Leave, error)

	List(ctx context.Context) ([]*models.Leave, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Leave, error)
	ListByManager(ctx context.Context, managerEmail string) ([]*models.Leave, error)
}
