// Package source loads the pool set for an enumeration run from a snapshot
// file, a file of raw integer rows or one of the pool stores.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/observability"
	"defi-path-finder/internal/registry"
	"defi-path-finder/internal/snapshot"
	"defi-path-finder/internal/storage"
	"defi-path-finder/internal/storage/clickhouse"
	"defi-path-finder/internal/storage/postgres"
	"defi-path-finder/internal/storage/sqlite"
)

// ErrUnknownKind is returned for unsupported source kinds.
var ErrUnknownKind = errors.New("unknown source kind")

// Options selects and configures a source.
type Options struct {
	Kind      string
	Path      string
	DSN       string
	Exchanges []string
	Exchange  string // restricts the load to one exchange when set
}

// Dataset is the input of one run.
type Dataset struct {
	Records []*domain.PoolRecord
	Mapping *registry.Mapping
}

// Pools returns the engine view of the dataset.
func (d *Dataset) Pools() []domain.Pool {
	return domain.PoolsOf(d.Records)
}

// PoolsByExchange counts records per exchange name.
func (d *Dataset) PoolsByExchange() map[string]int {
	out := make(map[string]int)
	for _, r := range d.Records {
		out[d.Mapping.ExchangeName(r.Exchange)]++
	}
	return out
}

// Source yields datasets.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Close() error
}

// Open connects the source described by opts.
func Open(ctx context.Context, opts Options) (Source, error) {
	switch opts.Kind {
	case config.SourceFile:
		return &fileSource{path: opts.Path, exchanges: opts.Exchanges, exchange: opts.Exchange}, nil

	case config.SourceRows:
		return &rowsSource{path: opts.Path, exchanges: opts.Exchanges, exchange: opts.Exchange}, nil

	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return &storeSource{
			database:  "sqlite",
			exchanges: opts.Exchanges,
			exchange:  opts.Exchange,
			pools:     sqlite.NewPoolStore(db),
			tokens:    sqlite.NewTokenStore(db),
			close:     db.Close,
		}, nil

	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return &storeSource{
			database:  "postgres",
			exchanges: opts.Exchanges,
			exchange:  opts.Exchange,
			pools:     postgres.NewPoolStore(pool),
			tokens:    postgres.NewTokenStore(pool),
			close:     func() error { pool.Close(); return nil },
		}, nil

	case config.SourceClickhouse:
		conn, err := clickhouse.NewConn(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return &storeSource{
			database:  "clickhouse",
			exchanges: opts.Exchanges,
			exchange:  opts.Exchange,
			pools:     clickhouse.NewPoolStore(conn),
			close:     conn.Close,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
}

// NewStoreSource builds a source over existing stores. tokens may be nil,
// in which case tokens are labelled by id only. A non-empty exchange limits
// the load to that exchange's pools.
func NewStoreSource(database string, exchanges []string, exchange string, pools storage.PoolStore, tokens storage.TokenStore) Source {
	return &storeSource{database: database, exchanges: exchanges, exchange: exchange, pools: pools, tokens: tokens}
}

// onlyExchange keeps the records of exchange name. An empty name keeps all.
func onlyExchange(records []*domain.PoolRecord, reg *registry.Registry, name string) ([]*domain.PoolRecord, error) {
	if name == "" {
		return records, nil
	}
	ex, err := reg.Exchange(name)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PoolRecord, 0, len(records))
	for _, r := range records {
		if r.Exchange == ex {
			out = append(out, r)
		}
	}
	return out, nil
}

type fileSource struct {
	path      string
	exchanges []string
	exchange  string
}

func (s *fileSource) Load(_ context.Context) (*Dataset, error) {
	raw, err := snapshot.Load(s.path)
	if err != nil {
		return nil, err
	}
	exchanges := s.exchanges
	if len(raw.Exchanges) > 0 {
		exchanges = raw.Exchanges
	}
	reg, err := registry.New(exchanges)
	if err != nil {
		return nil, err
	}
	records, err := snapshot.Prepare(raw, reg)
	if err != nil {
		return nil, err
	}
	records, err = onlyExchange(records, reg, s.exchange)
	if err != nil {
		return nil, err
	}
	return &Dataset{Records: records, Mapping: reg.Freeze()}, nil
}

func (s *fileSource) Close() error { return nil }

// rowsSource reads a JSON array of integer rows, each
// [token0, token1, exchange, ...]. Columns past the third are ignored, so
// tokens are labelled by id and reserves stay zero.
type rowsSource struct {
	path      string
	exchanges []string
	exchange  string
}

func (s *rowsSource) Load(_ context.Context) (*Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	var rows [][]int64
	if err := sonnet.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPool, err)
	}
	pools, err := domain.PoolsFromRows(rows)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(s.exchanges)
	if err != nil {
		return nil, err
	}
	records := make([]*domain.PoolRecord, 0, len(pools))
	for _, p := range pools {
		records = append(records, &domain.PoolRecord{Token0: p.Token0, Token1: p.Token1, Exchange: p.Exchange})
	}
	records, err = onlyExchange(records, reg, s.exchange)
	if err != nil {
		return nil, err
	}
	return &Dataset{Records: records, Mapping: reg.Freeze()}, nil
}

func (s *rowsSource) Close() error { return nil }

type storeSource struct {
	database  string
	exchanges []string
	exchange  string
	pools     storage.PoolStore
	tokens    storage.TokenStore
	close     func() error
}

func (s *storeSource) Load(ctx context.Context) (*Dataset, error) {
	var stored []*domain.Token
	if s.tokens != nil {
		start := time.Now()
		tokens, err := s.tokens.GetAll(ctx)
		observability.RecordDBQuery(s.database, "tokens_get_all", time.Since(start).Seconds(), err)
		if err != nil {
			return nil, fmt.Errorf("load tokens: %w", err)
		}
		stored = tokens
	}
	reg, err := registry.FromTokens(s.exchanges, stored)
	if err != nil {
		return nil, err
	}

	records, err := s.loadPools(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("load pools: %w", err)
	}

	for _, r := range records {
		if r.Address == "" {
			continue
		}
		if err := reg.Pool(r.Key(), r.Address); err != nil {
			return nil, fmt.Errorf("register pool %v: %w", r.Key(), err)
		}
	}
	return &Dataset{Records: records, Mapping: reg.Freeze()}, nil
}

// loadPools reads every pool, or only the configured exchange's pools.
func (s *storeSource) loadPools(ctx context.Context, reg *registry.Registry) ([]*domain.PoolRecord, error) {
	if s.exchange == "" {
		start := time.Now()
		records, err := s.pools.GetAll(ctx)
		observability.RecordDBQuery(s.database, "pools_get_all", time.Since(start).Seconds(), err)
		return records, err
	}

	ex, err := reg.Exchange(s.exchange)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	records, err := s.pools.GetByExchange(ctx, ex)
	observability.RecordDBQuery(s.database, "pools_get_by_exchange", time.Since(start).Seconds(), err)
	return records, err
}

func (s *storeSource) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
