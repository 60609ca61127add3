package utils

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a 0x-prefixed, 40-hex-digit wallet
// address. Enforced at the HTTP boundary before anything reaches the engine.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// CanonicalAddress lowercases an address; the ledger stores only canonical
// form so mixed-case submissions resolve to the same player.
func CanonicalAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultUsername derives the placeholder display name for a fresh player
// from the address prefix, e.g. "Player_0x1a2b3c".
func DefaultUsername(address string) string {
	if len(address) < 8 {
		return "Player_" + address
	}
	return "Player_" + address[:8]
}
