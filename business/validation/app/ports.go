// Package app contains the validation services for the validation context.
package app

import (
	"context"
	"time"

	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// PoolLookup fetches live pool details for validation.
type PoolLookup interface {
	PoolDetails(ctx context.Context, key marketdomain.VenueKey, poolID string) (marketdomain.PoolRecord, error)
}

// LatencyEstimator supplies network timing for execution estimates.
type LatencyEstimator interface {
	Latency(network string) time.Duration
	BridgeOverhead() time.Duration
}
