package entities

import "time"

// Network is a supported chain network, identified by its CAIP-2 id
// (namespace:reference, e.g. "eip155:1"). Exactly one active network is the
// default; it is the preferred fallback for primary reassignment and
// active-selection restoration.
type Network struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	IsDefault bool      `json:"isDefault"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
