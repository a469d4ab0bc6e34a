package clickhouse

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// PoolStore implements storage.PoolStore using ClickHouse.
type PoolStore struct {
	conn *Conn
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(conn *Conn) *PoolStore {
	return &PoolStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// InsertBulk adds multiple pools. Fails entire batch on duplicate (token0, token1, exchange).
func (s *PoolStore) InsertBulk(ctx context.Context, pools []*domain.PoolRecord) error {
	if len(pools) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[domain.PoolKey]struct{}, len(pools))
	exchanges := make(map[domain.ExchangeID]struct{})
	for _, p := range pools {
		if !storage.ValidPool(p) {
			return storage.ErrInvalidInput
		}
		k := p.Key()
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		exchanges[p.Exchange] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	existing, err := s.keys(ctx, exchanges)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	for k := range seen {
		if _, exists := existing[k]; exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pools (
			token0, token1, exchange, address, reserve0, reserve1, fetched_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range pools {
		err = batch.Append(
			uint32(p.Token0), uint32(p.Token1), uint16(p.Exchange),
			p.Address, p.Reserve0.String(), p.Reserve1.String(), uint64(p.FetchedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves all pools, ordered by (exchange, token0, token1) ASC.
func (s *PoolStore) GetAll(ctx context.Context) ([]*domain.PoolRecord, error) {
	query := `
		SELECT token0, token1, exchange, address, reserve0, reserve1, fetched_at
		FROM pools
		ORDER BY exchange ASC, token0 ASC, token1 ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all pools: %w", err)
	}
	defer rows.Close()

	return scanPools(rows)
}

// GetByExchange retrieves pools of one exchange, ordered by (token0, token1) ASC.
func (s *PoolStore) GetByExchange(ctx context.Context, exchange domain.ExchangeID) ([]*domain.PoolRecord, error) {
	query := `
		SELECT token0, token1, exchange, address, reserve0, reserve1, fetched_at
		FROM pools
		WHERE exchange = ?
		ORDER BY token0 ASC, token1 ASC
	`

	rows, err := s.conn.Query(ctx, query, uint16(exchange))
	if err != nil {
		return nil, fmt.Errorf("query by exchange: %w", err)
	}
	defer rows.Close()

	return scanPools(rows)
}

// keys returns the stored pool keys of the given exchanges.
func (s *PoolStore) keys(ctx context.Context, exchanges map[domain.ExchangeID]struct{}) (map[domain.PoolKey]struct{}, error) {
	ids := make([]uint16, 0, len(exchanges))
	for ex := range exchanges {
		ids = append(ids, uint16(ex))
	}

	rows, err := s.conn.Query(ctx, `
		SELECT token0, token1, exchange FROM pools
		WHERE has(?, exchange)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[domain.PoolKey]struct{})
	for rows.Next() {
		var t0, t1 uint32
		var ex uint16
		if err := rows.Scan(&t0, &t1, &ex); err != nil {
			return nil, err
		}
		keys[domain.PoolKey{Token0: domain.TokenID(t0), Token1: domain.TokenID(t1), Exchange: domain.ExchangeID(ex)}] = struct{}{}
	}
	return keys, rows.Err()
}

// scanPools scans multiple rows.
func scanPools(rows chRows) ([]*domain.PoolRecord, error) {
	var pools []*domain.PoolRecord

	for rows.Next() {
		var (
			p                  domain.PoolRecord
			t0, t1             uint32
			ex                 uint16
			reserve0, reserve1 string
			fetchedAt          uint64
		)

		err := rows.Scan(&t0, &t1, &ex, &p.Address, &reserve0, &reserve1, &fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("scan pool row: %w", err)
		}

		p.Token0 = domain.TokenID(t0)
		p.Token1 = domain.TokenID(t1)
		p.Exchange = domain.ExchangeID(ex)
		p.FetchedAt = int64(fetchedAt)
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
