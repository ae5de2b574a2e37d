package common

import (
	"math/big"
	"strings"
)

const (
	ETHDecimals = 18 // 1 ETH = 10^18 wei

	shortAddressLen = 8
)

// WeiToEther converts wei to ETH string without float precision loss
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	return formatWithDecimals(wei, ETHDecimals)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value *big.Int, decimals int) string {
	s := value.String()
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	out := s[:pos] + "." + s[pos:]
	if negative {
		out = "-" + out
	}
	return out
}

// ShortAddress returns the last 8 characters of an address, the way the feed labels senders
func ShortAddress(address string) string {
	if len(address) <= shortAddressLen {
		return address
	}
	return address[len(address)-shortAddressLen:]
}

// NormalizeCountryCode trims and upper-cases a country code for lookups
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
