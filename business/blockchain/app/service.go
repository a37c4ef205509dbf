package app

import (
	"context"
	"time"

	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

// ChainService exposes chain-level estimates to the other contexts:
// per-network latency for execution-time modeling and an optional live
// gas price for logging and dashboards.
type ChainService struct {
	oracle  GasOracle
	latency LatencyProvider
	log     logger.LoggerInterface
}

// NewChainService creates a ChainService. oracle may be nil when live gas
// tracking is disabled.
func NewChainService(oracle GasOracle, latency LatencyProvider, log logger.LoggerInterface) *ChainService {
	return &ChainService{
		oracle:  oracle,
		latency: latency,
		log:     log,
	}
}

// Latency returns the base confirmation latency for one leg on network.
func (s *ChainService) Latency(network string) time.Duration {
	return s.latency.Latency(network)
}

// BridgeOverhead returns the fixed cross-network bridging cost.
func (s *ChainService) BridgeOverhead() time.Duration {
	return s.latency.BridgeOverhead()
}

// CurrentGasGwei returns the live gas price in gwei, or (0, false) when
// the oracle is disabled or unreachable. Profit math uses configured gas
// constants; this reading is informational.
func (s *ChainService) CurrentGasGwei(ctx context.Context) (float64, bool) {
	if s.oracle == nil {
		return 0, false
	}
	price, err := s.oracle.GetGasPrice(ctx)
	if err != nil {
		s.log.Warn(ctx, "gas price unavailable", "error", err)
		return 0, false
	}
	return price.Gwei, true
}
