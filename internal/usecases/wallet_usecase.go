package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"wallet-registry.backend/internal/domain/entities"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	"wallet-registry.backend/internal/domain/repositories"
	"wallet-registry.backend/pkg/logger"
	"wallet-registry.backend/pkg/utils"
)

// Default distinct-address limits per plan.
const (
	DefaultFreePlanAddressLimit = 3
	DefaultProPlanAddressLimit  = 10
)

// NameResolver resolves a human-readable name (e.g. ENS) to a hex address.
// The registry only consumes the resolved address or a typed failure.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// ListQuery carries the optional client hints accepted by List.
type ListQuery struct {
	RememberedAddress string
	RememberedNetwork string
	ActiveNetworkID   string
}

// WalletListResult is the full list response: ordered rows, quota usage and
// the authoritative active-selection hint.
type WalletListResult struct {
	Wallets         []*entities.Wallet
	Quota           entities.Quota
	PrimaryWalletID *uuid.UUID
	ActiveSelection *entities.ActiveSelection
}

// RemoveWalletResult reports a single-row removal.
type RemoveWalletResult struct {
	NewPrimaryID *uuid.UUID
}

// RemoveAddressResult reports an address-wide removal.
type RemoveAddressResult struct {
	DeletedCount int
	NewPrimaryID *uuid.UUID
}

// WalletUsecase is the registry engine: it orchestrates the five wallet
// operations against the store inside transactions, enforcing the
// single-primary and no-duplicate invariants and the distinct-address quota.
type WalletUsecase struct {
	walletRepo  repositories.WalletRepository
	networkRepo repositories.NetworkRepository
	userRepo    repositories.UserRepository
	uow         repositories.UnitOfWork
	resolver    NameResolver
	planLimits  map[string]int
}

// NewWalletUsecase creates a new wallet usecase. resolver may be nil, in
// which case resolvable names are rejected as invalid addresses. planLimits
// overrides the default per-plan address limits when non-nil.
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	networkRepo repositories.NetworkRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	resolver NameResolver,
	planLimits map[string]int,
) *WalletUsecase {
	if planLimits == nil {
		planLimits = map[string]int{
			entities.PlanFree: DefaultFreePlanAddressLimit,
			entities.PlanPro:  DefaultProPlanAddressLimit,
		}
	}
	return &WalletUsecase{
		walletRepo:  walletRepo,
		networkRepo: networkRepo,
		userRepo:    userRepo,
		uow:         uow,
		resolver:    resolver,
		planLimits:  planLimits,
	}
}

func (u *WalletUsecase) addressLimit(plan string) int {
	if limit, ok := u.planLimits[plan]; ok {
		return limit
	}
	return DefaultFreePlanAddressLimit
}

func (u *WalletUsecase) defaultNetworkID(ctx context.Context) string {
	network, err := u.networkRepo.GetDefault(ctx)
	if err != nil {
		return ""
	}
	return network.ID
}

// List returns the owner's rows in canonical order together with quota usage
// and the restored active selection.
func (u *WalletUsecase) List(ctx context.Context, userID uuid.UUID, query ListQuery) (*WalletListResult, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ordered := OrderWallets(rows)

	result := &WalletListResult{
		Wallets: ordered,
		Quota:   ComputeQuota(ordered, user.Plan, u.addressLimit(user.Plan)),
	}

	for _, w := range ordered {
		if w.IsPrimary {
			id := w.ID
			result.PrimaryWalletID = &id
			break
		}
	}

	result.ActiveSelection = RestoreActiveSelection(ordered, entities.ActiveSelection{
		Address:   query.RememberedAddress,
		NetworkID: query.RememberedNetwork,
	}, u.defaultNetworkID(ctx))

	return result, nil
}

// Add registers a new (address, network) row for the owner. The first row of
// an owner becomes primary. Quota is evaluated against a fresh read under
// the owner's row lock in the same transaction as the insert; the storage
// uniqueness index remains the backstop for duplicate races.
func (u *WalletUsecase) Add(ctx context.Context, userID uuid.UUID, input *entities.AddWalletInput) (*entities.Wallet, error) {
	address, err := u.resolveAddress(ctx, input.AddressOrName)
	if err != nil {
		return nil, err
	}

	if _, err := u.networkRepo.GetByID(ctx, input.NetworkID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) || errors.Is(err, domainerrors.ErrInvalidInput) {
			return nil, domainerrors.ErrUnsupportedNetwork
		}
		return nil, err
	}

	normalized := NormalizeAddress(address)
	var created *entities.Wallet

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Lock(txCtx, userID); err != nil {
			return err
		}

		user, err := u.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}

		rows, err := u.walletRepo.GetByUserID(txCtx, userID)
		if err != nil {
			return err
		}

		addressKnown := false
		for _, w := range rows {
			if w.AddressNormalized == normalized {
				addressKnown = true
				if w.NetworkID == input.NetworkID {
					return domainerrors.ErrAlreadyExists
				}
			}
		}

		// Only a brand-new address consumes quota; additional networks of a
		// known address do not.
		if !addressKnown {
			quota := ComputeQuota(rows, user.Plan, u.addressLimit(user.Plan))
			if quota.UsedAddresses >= quota.Total {
				return domainerrors.ErrQuotaExceeded
			}
		}

		wallet := &entities.Wallet{
			ID:                utils.GenerateUUIDv7(),
			UserID:            userID,
			Address:           address,
			AddressNormalized: normalized,
			NetworkID:         input.NetworkID,
			IsPrimary:         len(rows) == 0,
			NetworkMetadata:   input.NetworkMetadata,
		}
		if input.Label != nil {
			wallet.Label.SetValid(*input.Label)
		}

		if err := u.walletRepo.Create(txCtx, wallet); err != nil {
			return err
		}

		created = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wallet registered",
		zap.String("wallet_id", created.ID.String()),
		zap.String("network_id", created.NetworkID),
		zap.Bool("is_primary", created.IsPrimary),
	)
	return created, nil
}

// RemoveWallet deletes a single row. When the deleted row was primary, a
// replacement is selected and applied in the same transaction. Ownership
// violations fail closed as not-found.
func (u *WalletUsecase) RemoveWallet(ctx context.Context, userID, walletID uuid.UUID, activeNetworkID string) (*RemoveWalletResult, error) {
	result := &RemoveWalletResult{}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Lock(txCtx, userID); err != nil {
			return err
		}

		wallet, err := u.walletRepo.GetByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if wallet.UserID != userID {
			return domainerrors.ErrNotFound
		}

		if err := u.walletRepo.DeleteByID(txCtx, walletID); err != nil {
			return err
		}

		if wallet.IsPrimary {
			newID, err := u.reassignPrimary(txCtx, userID, activeNetworkID)
			if err != nil {
				return err
			}
			result.NewPrimaryID = newID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveAddress deletes every row of the address across networks in one
// transaction, reassigning the primary when it was among the deleted rows.
func (u *WalletUsecase) RemoveAddress(ctx context.Context, userID uuid.UUID, address, activeNetworkID string) (*RemoveAddressResult, error) {
	normalized := NormalizeAddress(address)
	if normalized == "" {
		return nil, domainerrors.ErrInvalidAddress
	}

	result := &RemoveAddressResult{}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Lock(txCtx, userID); err != nil {
			return err
		}

		deleted, err := u.walletRepo.DeleteByAddress(txCtx, userID, normalized)
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			return domainerrors.ErrNotFound
		}
		result.DeletedCount = len(deleted)

		for _, w := range deleted {
			if w.IsPrimary {
				newID, err := u.reassignPrimary(txCtx, userID, activeNetworkID)
				if err != nil {
					return err
				}
				result.NewPrimaryID = newID
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetPrimary designates the row as the owner's primary, atomically flipping
// every other row to non-primary. Ownership violations fail closed as
// not-found.
func (u *WalletUsecase) SetPrimary(ctx context.Context, userID, walletID uuid.UUID) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if wallet.UserID != userID {
			return domainerrors.ErrNotFound
		}
		if wallet.IsPrimary {
			return nil
		}
		return u.walletRepo.SetPrimary(txCtx, userID, walletID)
	})
}

// reassignPrimary selects and applies a replacement primary among the rows
// remaining in the transaction. Returns nil when no rows remain.
func (u *WalletUsecase) reassignPrimary(txCtx context.Context, userID uuid.UUID, activeNetworkID string) (*uuid.UUID, error) {
	remaining, err := u.walletRepo.GetByUserID(txCtx, userID)
	if err != nil {
		return nil, err
	}

	choice := SelectReplacementPrimary(remaining, SelectorContext{
		ActiveNetworkID:  activeNetworkID,
		DefaultNetworkID: u.defaultNetworkID(txCtx),
	})
	if choice == nil {
		return nil, nil
	}

	if err := u.walletRepo.SetPrimary(txCtx, userID, choice.ID); err != nil {
		return nil, err
	}
	id := choice.ID
	return &id, nil
}

// resolveAddress screens the raw input for key material, resolves names and
// validates the address shape. Runs entirely before any persistence attempt.
func (u *WalletUsecase) resolveAddress(ctx context.Context, addressOrName string) (string, error) {
	raw := strings.TrimSpace(addressOrName)
	if raw == "" {
		return "", domainerrors.ErrInvalidAddress
	}

	if err := ScreenSensitiveInput(raw); err != nil {
		return "", err
	}

	if IsResolvableName(raw) {
		if u.resolver == nil {
			return "", domainerrors.ErrInvalidAddress
		}
		resolved, err := u.resolver.Resolve(ctx, raw)
		if err != nil {
			logger.Warn(ctx, "name resolution failed", zap.String("name", raw), zap.Error(err))
			return "", domainerrors.ErrInvalidAddress
		}
		raw = resolved
	}

	if !IsValidAddress(raw) {
		return "", domainerrors.ErrInvalidAddress
	}
	return raw, nil
}
