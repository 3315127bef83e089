package usecases

import (
	"strings"

	"wallet-registry.backend/internal/domain/entities"
)

// RestoreActiveSelection maps a previously remembered (address, network)
// pair onto the current ordered row set. The returned pair always exists in
// the row set, which makes restoration self-healing against stale or
// tampered client state:
//
//  1. keep the remembered pair when its address (case-insensitive) still has
//     a row on the remembered network;
//  2. else fall back to the primary row's address, preferring the default
//     network when that address has a row there, otherwise its first network
//     in canonical order;
//  3. else fall back to the first ordered row.
//
// Returns nil when the row set is empty.
func RestoreActiveSelection(ordered []*entities.Wallet, remembered entities.ActiveSelection, defaultNetworkID string) *entities.ActiveSelection {
	if len(ordered) == 0 {
		return nil
	}

	if remembered.Address != "" && remembered.NetworkID != "" {
		want := strings.ToLower(remembered.Address)
		for _, w := range ordered {
			if w.AddressNormalized == want && w.NetworkID == remembered.NetworkID {
				return &entities.ActiveSelection{Address: w.Address, NetworkID: w.NetworkID}
			}
		}
	}

	for _, w := range ordered {
		if w.IsPrimary {
			return selectionForAddress(ordered, w.AddressNormalized, defaultNetworkID)
		}
	}

	first := ordered[0]
	return &entities.ActiveSelection{Address: first.Address, NetworkID: first.NetworkID}
}

// selectionForAddress chooses the network for a known address: the default
// network when the address has a row there, else the address's first row in
// canonical order.
func selectionForAddress(ordered []*entities.Wallet, addressNormalized, defaultNetworkID string) *entities.ActiveSelection {
	var first *entities.Wallet
	for _, w := range ordered {
		if w.AddressNormalized != addressNormalized {
			continue
		}
		if w.NetworkID == defaultNetworkID {
			return &entities.ActiveSelection{Address: w.Address, NetworkID: w.NetworkID}
		}
		if first == nil {
			first = w
		}
	}
	if first == nil {
		return nil
	}
	return &entities.ActiveSelection{Address: first.Address, NetworkID: first.NetworkID}
}
