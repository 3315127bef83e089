package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"wallet-registry.backend/internal/domain/entities"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	domainRepos "wallet-registry.backend/internal/domain/repositories"
	"wallet-registry.backend/internal/infrastructure/models"
)

// networkRepo implements repositories.NetworkRepository
type networkRepo struct {
	db *gorm.DB
}

// NewNetworkRepository creates a new network repository.
func NewNetworkRepository(db *gorm.DB) domainRepos.NetworkRepository {
	return &networkRepo{db: db}
}

// GetByID gets an active network by CAIP-2 id.
func (r *networkRepo) GetByID(ctx context.Context, id string) (*entities.Network, error) {
	value := strings.TrimSpace(id)
	if value == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	var m models.Network
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND is_active = ?", value, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toNetworkEntity(&m), nil
}

// GetAll gets all active networks.
func (r *networkRepo) GetAll(ctx context.Context) ([]*entities.Network, error) {
	var ms []models.Network
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	networks := make([]*entities.Network, 0, len(ms))
	for i := range ms {
		networks = append(networks, toNetworkEntity(&ms[i]))
	}
	return networks, nil
}

// GetDefault gets the designated default network.
func (r *networkRepo) GetDefault(ctx context.Context) (*entities.Network, error) {
	var m models.Network
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toNetworkEntity(&m), nil
}

// Save upserts a network row by id.
func (r *networkRepo) Save(ctx context.Context, network *entities.Network) error {
	now := time.Now().UTC()
	m := &models.Network{
		ID:        network.ID,
		Name:      network.Name,
		Symbol:    network.Symbol,
		IsDefault: network.IsDefault,
		IsActive:  network.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "symbol", "is_default", "is_active", "updated_at"}),
		}).
		Create(m).Error
}

func toNetworkEntity(m *models.Network) *entities.Network {
	return &entities.Network{
		ID:        m.ID,
		Name:      m.Name,
		Symbol:    m.Symbol,
		IsDefault: m.IsDefault,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
