package repositories

import (
	"context"

	"github.com/google/uuid"
	"wallet-registry.backend/internal/domain/entities"
)

// UserRepository defines storage operations for principals.
type UserRepository interface {
	// Create inserts a new user. Returns errors.ErrAlreadyExists for a
	// duplicate email.
	Create(ctx context.Context, user *entities.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Lock write-locks the user row for the duration of the surrounding
	// transaction, serializing concurrent wallet mutations of one owner.
	// Returns errors.ErrNotFound for an unknown user.
	Lock(ctx context.Context, id uuid.UUID) error
}
