package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// InsertBulk adds multiple tokens atomically. Fails entire batch on any duplicate.
func (s *TokenStore) InsertBulk(ctx context.Context, tokens []*domain.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	for _, t := range tokens {
		if !storage.ValidToken(t) {
			return storage.ErrInvalidInput
		}
	}

	rows := make([][]any, len(tokens))
	for i, t := range tokens {
		rows[i] = []any{int32(t.ID), t.Address, t.Symbol, int32(t.Decimals)}
	}

	return s.pool.execBatch(ctx, `
		INSERT INTO tokens (id, address, symbol, decimals)
		VALUES ($1, $2, $3, $4)
	`, rows)
}

// GetAll retrieves all tokens, ordered by id ASC.
func (s *TokenStore) GetAll(ctx context.Context) ([]*domain.Token, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, address, symbol, decimals
		FROM tokens
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get all tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}
	return tokens, nil
}

// GetByAddress retrieves a token by address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (*domain.Token, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, address, symbol, decimals
		FROM tokens
		WHERE address = $1
	`, address)

	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by address: %w", err)
	}
	return t, nil
}

// scanToken scans a single row into Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var (
		t            domain.Token
		id, decimals int32
	)
	if err := row.Scan(&id, &t.Address, &t.Symbol, &decimals); err != nil {
		return nil, err
	}
	t.ID = domain.TokenID(id)
	t.Decimals = int(decimals)
	return &t, nil
}
