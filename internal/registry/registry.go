// Package registry assigns the dense integer ids the enumeration engine works
// with. Tokens get ids in order of first sight, exchanges come from a
// configured name list and pool addresses are remembered per pool key.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"defi-path-finder/internal/domain"
)

var (
	// ErrUnknownExchange is returned for exchange names not in the list.
	ErrUnknownExchange = errors.New("unknown exchange")
	// ErrConflict is returned when a pool key is registered with a
	// different address.
	ErrConflict = errors.New("registry conflict")
)

// DefaultExchanges is the exchange list used when none is configured.
// Index is the ExchangeID.
var DefaultExchanges = []string{"sushiswap_v2", "meshswap"}

// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	tokens    []domain.Token
	tokenIDs  map[string]domain.TokenID
	exchanges []string
	exIDs     map[string]domain.ExchangeID
	pools     map[domain.PoolKey]string
}

// New creates a Registry with exchanges; an empty list selects
// DefaultExchanges.
func New(exchanges []string) (*Registry, error) {
	if len(exchanges) == 0 {
		exchanges = DefaultExchanges
	}
	r := &Registry{
		tokenIDs:  make(map[string]domain.TokenID),
		exchanges: make([]string, 0, len(exchanges)),
		exIDs:     make(map[string]domain.ExchangeID, len(exchanges)),
		pools:     make(map[domain.PoolKey]string),
	}
	for _, name := range exchanges {
		if name == "" {
			return nil, fmt.Errorf("%w: empty exchange name", ErrConflict)
		}
		if _, dup := r.exIDs[name]; dup {
			return nil, fmt.Errorf("%w: exchange %q listed twice", ErrConflict, name)
		}
		r.exIDs[name] = domain.ExchangeID(len(r.exchanges))
		r.exchanges = append(r.exchanges, name)
	}
	return r, nil
}

// FromTokens restores a registry from stored tokens. Ids must be dense and
// start at zero.
func FromTokens(exchanges []string, tokens []*domain.Token) (*Registry, error) {
	r, err := New(exchanges)
	if err != nil {
		return nil, err
	}
	sorted := make([]*domain.Token, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i, t := range sorted {
		if t == nil {
			return nil, fmt.Errorf("%w: nil token", ErrConflict)
		}
		if int(t.ID) != i {
			return nil, fmt.Errorf("%w: token ids not dense at %d", ErrConflict, t.ID)
		}
		addr, err := NormalizeAddress(t.Address)
		if err != nil {
			return nil, err
		}
		if _, dup := r.tokenIDs[addr]; dup {
			return nil, fmt.Errorf("%w: token %s stored twice", ErrConflict, addr)
		}
		tok := *t
		tok.Address = addr
		r.tokenIDs[addr] = tok.ID
		r.tokens = append(r.tokens, tok)
	}
	return r, nil
}

// Token returns the id for address, assigning the next free id on first
// sight. Symbol and decimals are kept from the first registration.
func (r *Registry) Token(address, symbol string, decimals int) (domain.TokenID, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.tokenIDs[addr]; ok {
		return id, nil
	}
	id := domain.TokenID(len(r.tokens))
	r.tokenIDs[addr] = id
	r.tokens = append(r.tokens, domain.Token{ID: id, Address: addr, Symbol: symbol, Decimals: decimals})
	return id, nil
}

// Exchange returns the id of a configured exchange.
func (r *Registry) Exchange(name string) (domain.ExchangeID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.exIDs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownExchange, name)
	}
	return id, nil
}

// Pool records the address of the pool with key. Registering the same key
// twice with the same address is a no-op.
func (r *Registry) Pool(key domain.PoolKey, address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if int(key.Exchange) < 0 || int(key.Exchange) >= len(r.exchanges) {
		return fmt.Errorf("%w: exchange id %d", ErrUnknownExchange, key.Exchange)
	}
	if prev, ok := r.pools[key]; ok {
		if prev != addr {
			return fmt.Errorf("%w: pool %v is %s, not %s", ErrConflict, key, prev, addr)
		}
		return nil
	}
	r.pools[key] = addr
	return nil
}

// Tokens returns all registered tokens ordered by id.
func (r *Registry) Tokens() []domain.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// Freeze returns an immutable snapshot of the registry.
func (r *Registry) Freeze() *Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := &Mapping{
		tokens:    make([]domain.Token, len(r.tokens)),
		tokenIDs:  make(map[string]domain.TokenID, len(r.tokenIDs)),
		exchanges: make([]string, len(r.exchanges)),
		pools:     make(map[domain.PoolKey]string, len(r.pools)),
	}
	copy(m.tokens, r.tokens)
	copy(m.exchanges, r.exchanges)
	for k, v := range r.tokenIDs {
		m.tokenIDs[k] = v
	}
	for k, v := range r.pools {
		m.pools[k] = v
	}
	return m
}
