// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"
	"time"

	"github.com/DappGoose-Labs/arbagent/business/blockchain/domain"
)

// GasOracle defines the interface for gas price information.
type GasOracle interface {
	// GetGasPrice retrieves the current gas price.
	GetGasPrice(ctx context.Context) (*domain.GasPrice, error)
}

// LatencyProvider supplies per-network execution latency estimates.
type LatencyProvider interface {
	// Latency returns the base confirmation latency for one leg on network.
	Latency(network string) time.Duration

	// BridgeOverhead returns the fixed extra cost of moving funds between
	// two networks.
	BridgeOverhead() time.Duration
}
