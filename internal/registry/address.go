package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned for addresses that are neither EVM hex nor
// 32-byte base58.
var ErrInvalidAddress = errors.New("invalid address")

// solanaAddressLen is the decoded length of a Solana public key.
const solanaAddressLen = 32

// NormalizeAddress returns the canonical form of addr: EIP-55 checksummed
// hex for EVM addresses, unchanged base58 for Solana addresses.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	if strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X") {
		if !common.IsHexAddress(addr) {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
		}
		return common.HexToAddress(addr).Hex(), nil
	}

	raw, err := base58.Decode(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	if len(raw) != solanaAddressLen {
		return "", fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidAddress, addr, len(raw))
	}
	return addr, nil
}
