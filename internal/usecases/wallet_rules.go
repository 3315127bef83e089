package usecases

import (
	"bytes"
	"sort"

	"wallet-registry.backend/internal/domain/entities"
)

// walletLess is the canonical total order over wallet rows: primary first,
// then newest created_at, then id ascending (bytewise). Ids are UUIDv7 so
// the final tiebreak is still creation-ordered and never ties.
func walletLess(a, b *entities.Wallet) bool {
	if a.IsPrimary != b.IsPrimary {
		return a.IsPrimary
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// OrderWallets returns the rows sorted into the canonical order callers rely
// on for stable list rendering. The input slice is not modified.
func OrderWallets(wallets []*entities.Wallet) []*entities.Wallet {
	ordered := make([]*entities.Wallet, len(wallets))
	copy(ordered, wallets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return walletLess(ordered[i], ordered[j])
	})
	return ordered
}

// SelectorContext carries the network preferences used when choosing a
// replacement primary.
type SelectorContext struct {
	// ActiveNetworkID is the caller's currently active network, if known.
	ActiveNetworkID string
	// DefaultNetworkID is the designated default (mainnet) network.
	DefaultNetworkID string
}

// SelectReplacementPrimary picks which remaining row becomes primary after
// the current primary was removed. Preference order: a row on the active
// network, a row on the default network, the oldest row overall. Ties are
// broken by oldest created_at then smallest id. Returns nil when no rows
// remain.
func SelectReplacementPrimary(remaining []*entities.Wallet, sctx SelectorContext) *entities.Wallet {
	if len(remaining) == 0 {
		return nil
	}

	if sctx.ActiveNetworkID != "" {
		if w := pickOldestOnNetwork(remaining, sctx.ActiveNetworkID); w != nil {
			return w
		}
	}
	if sctx.DefaultNetworkID != "" {
		if w := pickOldestOnNetwork(remaining, sctx.DefaultNetworkID); w != nil {
			return w
		}
	}
	return pickOldest(remaining)
}

func pickOldestOnNetwork(wallets []*entities.Wallet, networkID string) *entities.Wallet {
	var candidates []*entities.Wallet
	for _, w := range wallets {
		if w.NetworkID == networkID {
			candidates = append(candidates, w)
		}
	}
	return pickOldest(candidates)
}

func pickOldest(wallets []*entities.Wallet) *entities.Wallet {
	var oldest *entities.Wallet
	for _, w := range wallets {
		if oldest == nil {
			oldest = w
			continue
		}
		if w.CreatedAt.Before(oldest.CreatedAt) ||
			(w.CreatedAt.Equal(oldest.CreatedAt) && bytes.Compare(w.ID[:], oldest.ID[:]) < 0) {
			oldest = w
		}
	}
	return oldest
}

// ComputeQuota derives quota usage from an owner's rows. UsedAddresses is
// the number of distinct normalized addresses; the same address registered
// on N networks consumes one unit, not N.
func ComputeQuota(wallets []*entities.Wallet, plan string, limit int) entities.Quota {
	distinct := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		distinct[w.AddressNormalized] = struct{}{}
	}
	return entities.Quota{
		UsedAddresses: len(distinct),
		UsedRows:      len(wallets),
		Total:         limit,
		Plan:          plan,
	}
}
