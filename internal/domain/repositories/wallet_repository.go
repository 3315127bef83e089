package repositories

import (
	"context"

	"github.com/google/uuid"
	"wallet-registry.backend/internal/domain/entities"
)

// WalletRepository defines storage operations for wallet rows. The storage
// layer enforces the two uniqueness invariants (one primary per owner, no
// duplicate (owner, address, network) triple) via unique indexes, so Create
// and SetPrimary fail on violations even if a caller's pre-checks raced.
type WalletRepository interface {
	// Create inserts a new row. Returns errors.ErrAlreadyExists when the
	// (owner, normalized address, network) triple is already registered.
	Create(ctx context.Context, wallet *entities.Wallet) error

	// GetByID fetches a row regardless of owner; callers are responsible
	// for the ownership check.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)

	// GetByUserID returns every row of an owner, ordered primary-first,
	// newest-first, id ascending.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error)

	// DeleteByID removes a single row.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByAddress removes every row of the owner whose normalized
	// address matches, across all networks, and returns the deleted rows.
	DeleteByAddress(ctx context.Context, userID uuid.UUID, addressNormalized string) ([]*entities.Wallet, error)

	// SetPrimary flips the target row to primary and every other row of the
	// owner to non-primary. Both updates run against the transaction in ctx
	// when present. Returns errors.ErrNotFound when the row does not exist
	// or belongs to another owner.
	SetPrimary(ctx context.Context, userID, walletID uuid.UUID) error
}
