// Package snapshot reads raw pool snapshots and prepares them for the
// enumeration engine.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sugawarayuuta/sonnet"
)

// ErrInvalidSnapshot is returned for malformed snapshot documents.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// TokenInfo is a token as it appears in a snapshot.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// RawPool is a pool as it appears in a snapshot. Reserves are decimal strings.
type RawPool struct {
	Address  string          `json:"address"`
	Exchange string          `json:"exchange"`
	Token0   TokenInfo       `json:"token0"`
	Token1   TokenInfo       `json:"token1"`
	Reserve0 decimal.Decimal `json:"reserve0"`
	Reserve1 decimal.Decimal `json:"reserve1"`
}

// Raw is a decoded snapshot document.
type Raw struct {
	FetchedAt int64     `json:"fetched_at"` // unix ms, optional
	Exchanges []string  `json:"exchanges"`
	Pools     []RawPool `json:"pools"`
}

// Load reads and decodes the snapshot file at path.
func Load(path string) (*Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a snapshot document from r.
func Decode(r io.Reader) (*Raw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var raw Raw
	if err := sonnet.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &raw, nil
}
