package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL.
type PoolStore struct {
	pool *Pool
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// InsertBulk adds multiple pools atomically. Fails entire batch on any duplicate.
func (s *PoolStore) InsertBulk(ctx context.Context, pools []*domain.PoolRecord) error {
	if len(pools) == 0 {
		return nil
	}
	for _, p := range pools {
		if !storage.ValidPool(p) {
			return storage.ErrInvalidInput
		}
	}

	rows := make([][]any, len(pools))
	for i, p := range pools {
		rows[i] = []any{
			int32(p.Token0),
			int32(p.Token1),
			int32(p.Exchange),
			p.Address,
			p.Reserve0.String(),
			p.Reserve1.String(),
			p.FetchedAt,
		}
	}

	return s.pool.execBatch(ctx, `
		INSERT INTO pools (
			token0, token1, exchange, address, reserve0, reserve1, fetched_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7)
	`, rows)
}

// GetAll retrieves all pools, ordered by (exchange, token0, token1) ASC.
func (s *PoolStore) GetAll(ctx context.Context) ([]*domain.PoolRecord, error) {
	query := `
		SELECT token0, token1, exchange, address, reserve0::text, reserve1::text, fetched_at
		FROM pools
		ORDER BY exchange ASC, token0 ASC, token1 ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all pools: %w", err)
	}
	defer rows.Close()

	return scanPools(rows)
}

// GetByExchange retrieves pools of one exchange, ordered by (token0, token1) ASC.
func (s *PoolStore) GetByExchange(ctx context.Context, exchange domain.ExchangeID) ([]*domain.PoolRecord, error) {
	query := `
		SELECT token0, token1, exchange, address, reserve0::text, reserve1::text, fetched_at
		FROM pools
		WHERE exchange = $1
		ORDER BY token0 ASC, token1 ASC
	`

	rows, err := s.pool.Query(ctx, query, int32(exchange))
	if err != nil {
		return nil, fmt.Errorf("get pools by exchange: %w", err)
	}
	defer rows.Close()

	return scanPools(rows)
}

// scanPools scans multiple rows into a slice of PoolRecord.
func scanPools(rows pgx.Rows) ([]*domain.PoolRecord, error) {
	var pools []*domain.PoolRecord

	for rows.Next() {
		var (
			p                  domain.PoolRecord
			t0, t1, ex         int32
			reserve0, reserve1 string
		)
		err := rows.Scan(&t0, &t1, &ex, &p.Address, &reserve0, &reserve1, &p.FetchedAt)
		if err != nil {
			return nil, fmt.Errorf("scan pool row: %w", err)
		}

		p.Token0 = domain.TokenID(t0)
		p.Token1 = domain.TokenID(t1)
		p.Exchange = domain.ExchangeID(ex)
		if p.Reserve0, err = decimal.NewFromString(reserve0); err != nil {
			return nil, fmt.Errorf("parse reserve0: %w", err)
		}
		if p.Reserve1, err = decimal.NewFromString(reserve1); err != nil {
			return nil, fmt.Errorf("parse reserve1: %w", err)
		}
		pools = append(pools, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool rows: %w", err)
	}

	return pools, nil
}
