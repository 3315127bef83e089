package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Wallet is one registered (owner, address, network) row.
//
// Address is stored as supplied; AddressNormalized is the lowercased form
// used for equality, quota accounting and the uniqueness constraint. At most
// one wallet per owner carries IsPrimary across all addresses and networks.
type Wallet struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"-"`
	Address           string          `json:"address"`
	AddressNormalized string          `json:"-"`
	NetworkID         string          `json:"networkId"`
	IsPrimary         bool            `json:"isPrimary"`
	Label             null.String     `json:"label,omitempty"`
	NetworkMetadata   json.RawMessage `json:"networkMetadata,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// AddWalletInput is the request body for registering a wallet.
// AddressOrName may be a hex address or a resolvable name (e.g. ENS).
type AddWalletInput struct {
	AddressOrName   string          `json:"addressOrName" binding:"required"`
	NetworkID       string          `json:"networkId" binding:"required"`
	Label           *string         `json:"label,omitempty"`
	NetworkMetadata json.RawMessage `json:"networkMetadata,omitempty"`
}

// RemoveWalletInput identifies a single row to remove.
type RemoveWalletInput struct {
	WalletID string `json:"walletId" binding:"required"`
}

// RemoveAddressInput removes every row of an address across networks.
type RemoveAddressInput struct {
	Address string `json:"address" binding:"required"`
}

// SetPrimaryInput designates the primary wallet row.
type SetPrimaryInput struct {
	WalletID string `json:"walletId" binding:"required"`
}

// Quota is the derived address-quota usage for an owner. UsedAddresses
// counts distinct normalized addresses, not rows; only it gates inserts.
type Quota struct {
	UsedAddresses int    `json:"usedAddresses"`
	UsedRows      int    `json:"usedRows"`
	Total         int    `json:"total"`
	Plan          string `json:"plan"`
}

// ActiveSelection is a client-side remembered (address, network) pair. The
// server-computed restoration of it is authoritative after every list fetch.
type ActiveSelection struct {
	Address   string `json:"address"`
	NetworkID string `json:"networkId"`
}
