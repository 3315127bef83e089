package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"wallet-registry.backend/internal/domain/entities"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	"wallet-registry.backend/internal/interfaces/http/middleware"
	"wallet-registry.backend/internal/interfaces/http/response"
	"wallet-registry.backend/internal/usecases"
)

type walletService interface {
	List(ctx context.Context, userID uuid.UUID, query usecases.ListQuery) (*usecases.WalletListResult, error)
	Add(ctx context.Context, userID uuid.UUID, input *entities.AddWalletInput) (*entities.Wallet, error)
	RemoveWallet(ctx context.Context, userID, walletID uuid.UUID, activeNetworkID string) (*usecases.RemoveWalletResult, error)
	RemoveAddress(ctx context.Context, userID uuid.UUID, address, activeNetworkID string) (*usecases.RemoveAddressResult, error)
	SetPrimary(ctx context.Context, userID, walletID uuid.UUID) error
}

// WalletHandler handles the wallet registry endpoints.
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// ListWallets lists wallets for the current principal, with quota and the
// restored active selection.
// GET /api/v1/wallets
func (h *WalletHandler) ListWallets(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	query := usecases.ListQuery{
		RememberedAddress: c.Query("rememberedAddress"),
		RememberedNetwork: c.Query("rememberedNetwork"),
		ActiveNetworkID:   c.Query("activeNetwork"),
	}

	result, err := h.walletUsecase.List(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, walletError(err))
		return
	}

	wallets := result.Wallets
	if wallets == nil {
		wallets = []*entities.Wallet{}
	}

	activeHint := gin.H{}
	if result.PrimaryWalletID != nil {
		activeHint["primaryWalletId"] = result.PrimaryWalletID
	}
	if result.ActiveSelection != nil {
		activeHint["address"] = result.ActiveSelection.Address
		activeHint["networkId"] = result.ActiveSelection.NetworkID
	}

	response.Success(c, http.StatusOK, gin.H{
		"wallets":    wallets,
		"quota":      result.Quota,
		"activeHint": activeHint,
	})
}

// AddWallet registers a wallet address on a network.
// POST /api/v1/wallets
func (h *WalletHandler) AddWallet(c *gin.Context) {
	var input entities.AddWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.Add(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, walletError(err))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"wallet": wallet})
}

// RemoveWallet removes a single wallet row.
// POST /api/v1/wallets/remove
func (h *WalletHandler) RemoveWallet(c *gin.Context) {
	var input entities.RemoveWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	walletID, err := uuid.Parse(input.WalletID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid wallet ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.walletUsecase.RemoveWallet(c.Request.Context(), userID, walletID, c.Query("activeNetwork"))
	if err != nil {
		response.Error(c, walletError(err))
		return
	}

	body := gin.H{"success": true}
	if result.NewPrimaryID != nil {
		body["newPrimaryId"] = result.NewPrimaryID
	}
	response.Success(c, http.StatusOK, body)
}

// RemoveAddress removes every row of an address across networks.
// POST /api/v1/wallets/remove-address
func (h *WalletHandler) RemoveAddress(c *gin.Context) {
	var input entities.RemoveAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.walletUsecase.RemoveAddress(c.Request.Context(), userID, input.Address, c.Query("activeNetwork"))
	if err != nil {
		response.Error(c, walletError(err))
		return
	}

	body := gin.H{"success": true, "deletedCount": result.DeletedCount}
	if result.NewPrimaryID != nil {
		body["newPrimaryId"] = result.NewPrimaryID
	}
	response.Success(c, http.StatusOK, body)
}

// SetPrimaryWallet designates a wallet row as primary.
// POST /api/v1/wallets/set-primary
func (h *WalletHandler) SetPrimaryWallet(c *gin.Context) {
	var input entities.SetPrimaryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	walletID, err := uuid.Parse(input.WalletID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid wallet ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.walletUsecase.SetPrimary(c.Request.Context(), userID, walletID); err != nil {
		response.Error(c, walletError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true, "walletId": walletID})
}

// walletError maps domain sentinels onto the stable error kinds of the
// wallet API. Race losers surface through the same codes as pre-checked
// failures.
func walletError(err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("Wallet not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Duplicate("Wallet already registered on this network")
	case errors.Is(err, domainerrors.ErrQuotaExceeded):
		return domainerrors.QuotaExceeded("Address quota exceeded for your plan")
	case errors.Is(err, domainerrors.ErrPrivateKeyDetected):
		return domainerrors.PrivateKeyDetected()
	case errors.Is(err, domainerrors.ErrSeedPhraseDetected):
		return domainerrors.SeedPhraseDetected()
	case errors.Is(err, domainerrors.ErrInvalidAddress):
		return domainerrors.InvalidAddress("Not a valid address or resolvable name")
	case errors.Is(err, domainerrors.ErrUnsupportedNetwork):
		return domainerrors.InvalidNetwork("Unsupported network")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("Not authorized")
	default:
		return err
	}
}
