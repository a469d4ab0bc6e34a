package storage

import "defi-path-finder/internal/domain"

// ValidPool reports whether p may be stored.
func ValidPool(p *domain.PoolRecord) bool {
	return p != nil && p.Pool().Validate() == nil
}

// ValidToken reports whether t may be stored.
func ValidToken(t *domain.Token) bool {
	return t != nil && t.ID >= 0 && t.Address != ""
}
