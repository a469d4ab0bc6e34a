package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// PoolStore implements storage.PoolStore using SQLite.
type PoolStore struct {
	db *DB
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(db *DB) *PoolStore {
	return &PoolStore{db: db}
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pools (
			token0, token1, exchange, address, reserve0, reserve1, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pools {
		_, err := stmt.ExecContext(ctx,
			int(p.Token0), int(p.Token1), int(p.Exchange),
			p.Address, p.Reserve0.String(), p.Reserve1.String(), p.FetchedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert pool in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all pools, ordered by (exchange, token0, token1) ASC.
// The result slice is pre-sized from a row count.
func (s *PoolStore) GetAll(ctx context.Context) ([]*domain.PoolRecord, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pools`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count pools: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT token0, token1, exchange, address, reserve0, reserve1, fetched_at
		FROM pools
		ORDER BY exchange ASC, token0 ASC, token1 ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get all pools: %w", err)
	}
	defer rows.Close()

	return scanPools(rows, count)
}

// GetByExchange retrieves pools of one exchange, ordered by (token0, token1) ASC.
func (s *PoolStore) GetByExchange(ctx context.Context, exchange domain.ExchangeID) ([]*domain.PoolRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token0, token1, exchange, address, reserve0, reserve1, fetched_at
		FROM pools
		WHERE exchange = ?
		ORDER BY token0 ASC, token1 ASC
	`, int(exchange))
	if err != nil {
		return nil, fmt.Errorf("get pools by exchange: %w", err)
	}
	defer rows.Close()

	return scanPools(rows, 0)
}

func scanPools(rows *sql.Rows, capacity int) ([]*domain.PoolRecord, error) {
	pools := make([]*domain.PoolRecord, 0, capacity)

	for rows.Next() {
		var (
			p                  domain.PoolRecord
			t0, t1, ex         int
			reserve0, reserve1 string
		)
		if err := rows.Scan(&t0, &t1, &ex, &p.Address, &reserve0, &reserve1, &p.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan pool row: %w", err)
		}

		p.Token0 = domain.TokenID(t0)
		p.Token1 = domain.TokenID(t1)
		p.Exchange = domain.ExchangeID(ex)

		var err error
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
