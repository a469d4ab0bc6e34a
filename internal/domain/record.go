package domain

import "github.com/shopspring/decimal"

// Token holds the registry view of a token.
// Corresponds to tokens table in PostgreSQL/SQLite.
type Token struct {
	ID       TokenID // dense id assigned by the registry
	Address  string  // normalized contract or mint address
	Symbol   string  // ticker, may be empty
	Decimals int     // token decimals
}

// PoolRecord is a pool snapshot row as produced by the data-preparation stage.
// Corresponds to pools table in PostgreSQL/SQLite/ClickHouse.
type PoolRecord struct {
	Token0    TokenID
	Token1    TokenID
	Exchange  ExchangeID
	Address   string          // pool contract / AMM account address
	Reserve0  decimal.Decimal // raw reserve of token0
	Reserve1  decimal.Decimal // raw reserve of token1
	FetchedAt int64           // snapshot timestamp (ms)
}

// Pool returns the graph edge for the record.
func (r *PoolRecord) Pool() Pool {
	return Pool{Token0: r.Token0, Token1: r.Token1, Exchange: r.Exchange}
}

// Key returns the pool identity of the record.
func (r *PoolRecord) Key() PoolKey {
	return r.Pool().Key()
}

// PoolsOf projects records onto graph edges, preserving order.
func PoolsOf(records []*PoolRecord) []Pool {
	pools := make([]Pool, 0, len(records))
	for _, r := range records {
		pools = append(pools, r.Pool())
	}
	return pools
}
