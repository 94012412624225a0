package core

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidAddress reports whether s has the canonical 0x-prefixed 40 hex digit shape.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s) && common.IsHexAddress(s)
}

// ChecksumAddress returns the EIP-55 form of a valid address.
func ChecksumAddress(s string) string {
	return common.HexToAddress(s).Hex()
}

// NormalizeAddress returns the lower-cased form used for comparisons and credentials.
func NormalizeAddress(s string) string {
	return strings.ToLower(s)
}

// SameAddress compares two addresses ignoring case.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
