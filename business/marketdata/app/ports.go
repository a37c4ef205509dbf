// Package app contains application services and port definitions for the marketdata context.
package app

import (
	"context"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// PoolSource is the port through which pool data enters the system.
// Implementations fetch from subgraph endpoints, live streams, or fixtures.
type PoolSource interface {
	// GetAllPools returns every known pool grouped by venue and network.
	GetAllPools(ctx context.Context) (map[domain.VenueKey][]domain.PoolRecord, error)

	// GetPoolDetails fetches the current state of a single pool. A missing
	// pool returns an error carrying apperror.CodePoolNotFound.
	GetPoolDetails(ctx context.Context, key domain.VenueKey, poolID string) (domain.PoolRecord, error)
}
