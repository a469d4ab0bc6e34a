package sqlite

import (
	"context"
	"fmt"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// TokenStore implements storage.TokenStore using SQLite.
type TokenStore struct {
	db *DB
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(db *DB) *TokenStore {
	return &TokenStore{db: db}
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tokens {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (id, address, symbol, decimals) VALUES (?, ?, ?, ?)`,
			int(t.ID), t.Address, t.Symbol, t.Decimals,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert token in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all tokens, ordered by id ASC.
func (s *TokenStore) GetAll(ctx context.Context) ([]*domain.Token, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		var t domain.Token
		var id int
		if err := rows.Scan(&id, &t.Address, &t.Symbol, &t.Decimals); err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		t.ID = domain.TokenID(id)
		tokens = append(tokens, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}
	return tokens, nil
}

// GetByAddress retrieves a token by address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (*domain.Token, error) {
	var t domain.Token
	var id int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, address, symbol, decimals
		FROM tokens
		WHERE address = ?
	`, address).Scan(&id, &t.Address, &t.Symbol, &t.Decimals)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by address: %w", err)
	}
	t.ID = domain.TokenID(id)
	return &t, nil
}
