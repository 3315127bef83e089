package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"wallet-registry.backend/internal/domain/entities"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	domainRepos "wallet-registry.backend/internal/domain/repositories"
	"wallet-registry.backend/internal/infrastructure/models"
	"wallet-registry.backend/pkg/utils"
)

// walletRepo implements repositories.WalletRepository
type walletRepo struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository.
func NewWalletRepository(db *gorm.DB) domainRepos.WalletRepository {
	return &walletRepo{db: db}
}

// Create inserts a new wallet row. Unique-index violations surface as
// ErrAlreadyExists so race losers and pre-checked duplicates are
// indistinguishable to callers.
func (r *walletRepo) Create(ctx context.Context, wallet *entities.Wallet) error {
	if wallet.ID == uuid.Nil {
		wallet.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	m := toWalletModel(wallet)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a wallet row by id. Ownership is the caller's concern.
func (r *walletRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toWalletEntity(&m), nil
}

// GetByUserID returns an owner's rows in the canonical order: primary first,
// then newest first, id ascending as the final tiebreak.
func (r *walletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error) {
	var ms []models.Wallet
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC").
		Order("created_at DESC").
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, toWalletEntity(&ms[i]))
	}
	return wallets, nil
}

// DeleteByID removes a single row.
func (r *walletRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.Wallet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteByAddress removes every row of the owner matching the normalized
// address, across all networks, and returns the deleted rows.
func (r *walletRepo) DeleteByAddress(ctx context.Context, userID uuid.UUID, addressNormalized string) ([]*entities.Wallet, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var ms []models.Wallet
	if err := db.Where("user_id = ? AND address_normalized = ?", userID, addressNormalized).Find(&ms).Error; err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, nil
	}

	if err := db.Where("user_id = ? AND address_normalized = ?", userID, addressNormalized).
		Delete(&models.Wallet{}).Error; err != nil {
		return nil, err
	}

	deleted := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		deleted = append(deleted, toWalletEntity(&ms[i]))
	}
	return deleted, nil
}

// SetPrimary flips the target to primary and all other rows of the owner to
// non-primary. The clear runs first so the partial unique index never sees
// two primaries, even transiently.
func (r *walletRepo) SetPrimary(ctx context.Context, userID, walletID uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	now := time.Now().UTC()

	if err := db.Model(&models.Wallet{}).
		Where("user_id = ? AND is_primary = ? AND id <> ?", userID, true, walletID).
		Updates(map[string]interface{}{"is_primary": false, "updated_at": now}).Error; err != nil {
		return err
	}

	res := db.Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", walletID, userID).
		Updates(map[string]interface{}{"is_primary": true, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toWalletModel(w *entities.Wallet) *models.Wallet {
	return &models.Wallet{
		ID:                w.ID,
		UserID:            w.UserID,
		Address:           w.Address,
		AddressNormalized: w.AddressNormalized,
		NetworkID:         w.NetworkID,
		IsPrimary:         w.IsPrimary,
		Label:             w.Label,
		NetworkMetadata:   w.NetworkMetadata,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func toWalletEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:                m.ID,
		UserID:            m.UserID,
		Address:           m.Address,
		AddressNormalized: m.AddressNormalized,
		NetworkID:         m.NetworkID,
		IsPrimary:         m.IsPrimary,
		Label:             m.Label,
		NetworkMetadata:   m.NetworkMetadata,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// isUniqueViolation recognizes unique-index violations across the drivers in
// use: gorm's translated error, postgres error 23505 and sqlite's message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
