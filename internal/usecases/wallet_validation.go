package usecases

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	domainerrors "wallet-registry.backend/internal/domain/errors"
)

// privateKeyPattern matches 64 hex characters with an optional 0x prefix.
// A valid 20-byte hex address is 40 characters and never matches.
var privateKeyPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// seedPhraseMinWords is the smallest BIP-39 mnemonic length.
const seedPhraseMinWords = 12

// ScreenSensitiveInput rejects inputs resembling key material before any
// resolution or persistence is attempted.
func ScreenSensitiveInput(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if len(strings.Fields(trimmed)) >= seedPhraseMinWords {
		return domainerrors.ErrSeedPhraseDetected
	}
	if privateKeyPattern.MatchString(trimmed) {
		return domainerrors.ErrPrivateKeyDetected
	}
	return nil
}

// IsResolvableName reports whether the input is a name to resolve rather
// than a literal address.
func IsResolvableName(s string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(s)), ".eth")
}

// IsValidAddress reports whether s is a well-formed hex chain address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// NormalizeAddress lowercases an address for equality, quota accounting and
// the storage uniqueness constraint.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
