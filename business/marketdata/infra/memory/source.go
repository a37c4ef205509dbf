// Package memory provides an in-memory PoolSource, used as a deterministic
// fixture source in tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
)

// Source serves a fixed pool set. Safe for concurrent use.
type Source struct {
	mu    sync.RWMutex
	pools map[domain.VenueKey][]domain.PoolRecord
}

// NewSource creates a Source over the given pools.
func NewSource(pools map[domain.VenueKey][]domain.PoolRecord) *Source {
	if pools == nil {
		pools = make(map[domain.VenueKey][]domain.PoolRecord)
	}
	return &Source{pools: pools}
}

// GetAllPools returns a shallow copy of the pool map so callers can hold
// the result across a concurrent SetPools.
func (s *Source) GetAllPools(ctx context.Context) (map[domain.VenueKey][]domain.PoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.VenueKey][]domain.PoolRecord, len(s.pools))
	for key, pools := range s.pools {
		out[key] = append([]domain.PoolRecord(nil), pools...)
	}
	return out, nil
}

// GetPoolDetails looks up one pool by id.
func (s *Source) GetPoolDetails(ctx context.Context, key domain.VenueKey, poolID string) (domain.PoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pools[key] {
		if p.PoolID() == poolID {
			return p, nil
		}
	}
	return nil, apperror.New(apperror.CodePoolNotFound,
		apperror.WithContext(fmt.Sprintf("pool %s on %s", poolID, key)))
}

// SetPools replaces the pool set for one venue/network.
func (s *Source) SetPools(key domain.VenueKey, pools []domain.PoolRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[key] = pools
}
