package storage

import (
	"context"

	"defi-path-finder/internal/domain"
)

// PoolStore provides access to pools storage.
type PoolStore interface {
	// InsertBulk adds multiple pools atomically. Fails entire batch on duplicate (token0, token1, exchange).
	InsertBulk(ctx context.Context, pools []*domain.PoolRecord) error

	// GetAll retrieves all pools, ordered by (exchange, token0, token1) ASC.
	GetAll(ctx context.Context) ([]*domain.PoolRecord, error)

	// GetByExchange retrieves pools of one exchange, ordered by (token0, token1) ASC.
	GetByExchange(ctx context.Context, exchange domain.ExchangeID) ([]*domain.PoolRecord, error)
}

// TokenStore provides access to tokens storage.
type TokenStore interface {
	// InsertBulk adds multiple tokens atomically. Fails entire batch on duplicate id or address.
	InsertBulk(ctx context.Context, tokens []*domain.Token) error

	// GetAll retrieves all tokens, ordered by id ASC.
	GetAll(ctx context.Context) ([]*domain.Token, error)

	// GetByAddress retrieves a token by its normalized address. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.Token, error)
}
