package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"defi-path-finder/internal/domain"
)

// ComputePathID computes a deterministic path_id using SHA256.
// Formula: SHA256(hop0|hop1|hop2) with each hop as in>out@exchange.
// Returns hex-encoded hash (64 characters).
func ComputePathID(p domain.Path) string {
	data := fmt.Sprintf("%s|%s|%s", p[0], p[1], p[2])

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeCycleID computes a deterministic cycle_id shared by all rotations
// and reversals of a route.
// Formula: SHA256(t0,t1,t2|pool0|pool1|pool2) with each pool as token0:token1:exchange.
// Returns hex-encoded hash (64 characters).
func ComputeCycleID(k domain.CycleKey) string {
	data := fmt.Sprintf("%d,%d,%d", k.Triple[0], k.Triple[1], k.Triple[2])
	for _, pk := range k.Pools {
		data += fmt.Sprintf("|%d:%d:%d", pk.Token0, pk.Token1, pk.Exchange)
	}

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
