package registry

import (
	"strconv"

	"defi-path-finder/internal/domain"
)

// Mapping is a read-only view of a Registry, used for one enumeration run
// and for rendering ids back to names.
type Mapping struct {
	tokens    []domain.Token
	tokenIDs  map[string]domain.TokenID
	exchanges []string
	pools     map[domain.PoolKey]string
}

// TokenID looks up a token by address.
func (m *Mapping) TokenID(address string) (domain.TokenID, bool) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return 0, false
	}
	id, ok := m.tokenIDs[addr]
	return id, ok
}

// Token returns token metadata by id.
func (m *Mapping) Token(id domain.TokenID) (domain.Token, bool) {
	if id < 0 || int(id) >= len(m.tokens) {
		return domain.Token{}, false
	}
	return m.tokens[id], true
}

// TokenLabel returns the token symbol, falling back to its address and then
// to the numeric id.
func (m *Mapping) TokenLabel(id domain.TokenID) string {
	t, ok := m.Token(id)
	switch {
	case !ok:
		return strconv.Itoa(int(id))
	case t.Symbol != "":
		return t.Symbol
	default:
		return t.Address
	}
}

// ExchangeName returns the configured name of an exchange id.
func (m *Mapping) ExchangeName(id domain.ExchangeID) string {
	if id < 0 || int(id) >= len(m.exchanges) {
		return strconv.Itoa(int(id))
	}
	return m.exchanges[id]
}

// Exchanges returns the configured exchange names in id order.
func (m *Mapping) Exchanges() []string {
	out := make([]string, len(m.exchanges))
	copy(out, m.exchanges)
	return out
}

// PoolAddress returns the registered address of the pool with key.
func (m *Mapping) PoolAddress(key domain.PoolKey) (string, bool) {
	addr, ok := m.pools[key]
	return addr, ok
}

// TokenCount returns the number of registered tokens.
func (m *Mapping) TokenCount() int {
	return len(m.tokens)
}

// Tokens returns token metadata ordered by id.
func (m *Mapping) Tokens() []domain.Token {
	out := make([]domain.Token, len(m.tokens))
	copy(out, m.tokens)
	return out
}
