package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

func rec(t0, t1, ex int) *domain.PoolRecord {
	return &domain.PoolRecord{
		Token0:   domain.TokenID(t0),
		Token1:   domain.TokenID(t1),
		Exchange: domain.ExchangeID(ex),
		Reserve0: decimal.NewFromInt(int64(100 + t0)),
		Reserve1: decimal.NewFromInt(int64(200 + t1)),
	}
}

func TestPoolStore_InsertBulkAndGetAll(t *testing.T) {
	store := NewPoolStore()
	ctx := context.Background()

	pools := []*domain.PoolRecord{rec(2, 0, 1), rec(1, 2, 0), rec(0, 1, 0), rec(0, 2, 1)}
	if err := store.InsertBulk(ctx, pools); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	want := []domain.PoolKey{
		{Token0: 0, Token1: 1, Exchange: 0},
		{Token0: 1, Token1: 2, Exchange: 0},
		{Token0: 0, Token1: 2, Exchange: 1},
		{Token0: 2, Token1: 0, Exchange: 1},
	}
	if len(all) != len(want) {
		t.Fatalf("Expected %d pools, got %d", len(want), len(all))
	}
	for i, k := range want {
		if all[i].Key() != k {
			t.Errorf("pool %d: got %v, want %v", i, all[i].Key(), k)
		}
	}
	if !all[0].Reserve0.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Reserve0 mismatch: got %s", all[0].Reserve0)
	}
}

func TestPoolStore_GetByExchange(t *testing.T) {
	store := NewPoolStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.PoolRecord{rec(0, 1, 0), rec(1, 2, 1), rec(0, 2, 1)}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	mesh, err := store.GetByExchange(ctx, 1)
	if err != nil {
		t.Fatalf("GetByExchange failed: %v", err)
	}
	if len(mesh) != 2 {
		t.Fatalf("Expected 2 pools, got %d", len(mesh))
	}
	if mesh[0].Token0 != 0 || mesh[1].Token0 != 1 {
		t.Errorf("Unexpected order: %v, %v", mesh[0].Key(), mesh[1].Key())
	}

	none, err := store.GetByExchange(ctx, 7)
	if err != nil {
		t.Fatalf("GetByExchange failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no pools, got %d", len(none))
	}
}

func TestPoolStore_InsertBulkAtomic(t *testing.T) {
	store := NewPoolStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.PoolRecord{rec(0, 1, 0)}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// existing duplicate
	err := store.InsertBulk(ctx, []*domain.PoolRecord{rec(1, 2, 0), rec(0, 1, 0)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// intra-batch duplicate
	err = store.InsertBulk(ctx, []*domain.PoolRecord{rec(2, 3, 0), rec(2, 3, 0)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	err = store.InsertBulk(ctx, []*domain.PoolRecord{rec(4, 5, 0), nil})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	err = store.InsertBulk(ctx, []*domain.PoolRecord{rec(4, 4, 0)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for self pair, got %v", err)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 1 {
		t.Errorf("Failed batches must not insert anything, got %d pools", len(all))
	}
}

func TestPoolStore_ReturnsCopies(t *testing.T) {
	store := NewPoolStore()
	ctx := context.Background()

	p := rec(0, 1, 0)
	if err := store.InsertBulk(ctx, []*domain.PoolRecord{p}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	p.Address = "mutated"

	all, _ := store.GetAll(ctx)
	all[0].Address = "mutated again"

	again, _ := store.GetAll(ctx)
	if again[0].Address != "" {
		t.Errorf("Store leaked a reference: %q", again[0].Address)
	}
}
