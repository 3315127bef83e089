package repositories

import (
	"context"

	"wallet-registry.backend/internal/domain/entities"
)

// NetworkRepository defines lookups over the fixed supported network set.
type NetworkRepository interface {
	// GetByID fetches a network by CAIP-2 id. Inactive networks are treated
	// as absent.
	GetByID(ctx context.Context, id string) (*entities.Network, error)

	// GetAll returns all active networks.
	GetAll(ctx context.Context) ([]*entities.Network, error)

	// GetDefault returns the designated default (mainnet) network.
	GetDefault(ctx context.Context) (*entities.Network, error)

	// Save upserts a network row; used by seeding.
	Save(ctx context.Context, network *entities.Network) error
}
