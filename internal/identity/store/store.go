package store

import (
	"context"

	"github.com/google/uuid"

	"hrportal/internal/identity/models"
)

// UserStore is the credential store boundary. Implementations return
// sentinel.ErrNotFound for missing records and sentinel.ErrAlreadyUsed for
// unique email violations.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmployeeCode(ctx context.Context, code string) (*models.User, error)

	// Execute atomically validates and mutates a user under the store's lock
	// (mutex or FOR UPDATE), returning the updated record.
	Execute(ctx context.Context, id uuid.UUID, validate func(*models.User) error, apply func(*models.User)) (*models.User, error)

	List(ctx context.Context) ([]*models.User, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.User, error)
	ListByManager(ctx context.Context, managerEmail string) ([]*models.User, error)

	// LastEmployeeCode returns the highest assigned EMPnnn code, or "" when
	// none has been assigned yet.
	LastEmployeeCode(ctx context.Context) (string, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
