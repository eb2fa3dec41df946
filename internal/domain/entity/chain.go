package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// Chain identifies the network a wallet lives on.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainSolana   Chain = "solana"
)

var (
	ethAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	// Base58 alphabet, no 0, O, I or l
	solAddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// ParseChain maps a string onto a supported chain. An empty string defaults to
// Ethereum, matching fetch layers that omit the field.
func ParseChain(s string) (Chain, error) {
	switch Chain(strings.ToLower(strings.TrimSpace(s))) {
	case ChainEthereum, "":
		return ChainEthereum, nil
	case ChainSolana:
		return ChainSolana, nil
	default:
		return "", fmt.Errorf("unsupported chain: %q", s)
	}
}

// NormalizeAddress returns the canonical form of an address for equality checks
// and set membership. Ethereum addresses are case-insensitive at the protocol
// level (mixed case is only a checksum convenience), so they are lowercased.
// Solana addresses are case-sensitive Base58 and must be left untouched:
// lowercasing would alias distinct addresses.
func (c Chain) NormalizeAddress(addr string) string {
	if c == ChainSolana {
		return addr
	}
	return strings.ToLower(addr)
}

// ValidateAddress checks chain-native address syntax.
func (c Chain) ValidateAddress(addr string) error {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return fmt.Errorf("address is empty")
	}

	switch c {
	case ChainSolana:
		if !solAddressPattern.MatchString(trimmed) {
			return fmt.Errorf("invalid solana address: %q", addr)
		}
	default:
		if !strings.HasPrefix(trimmed, "0x") || len(trimmed) != 42 {
			return fmt.Errorf("ethereum address must be 0x-prefixed and 42 characters: %q", addr)
		}
		if !ethAddressPattern.MatchString(trimmed) {
			return fmt.Errorf("invalid ethereum address: %q", addr)
		}
	}
	return nil
}
