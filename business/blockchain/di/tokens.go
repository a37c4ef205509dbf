// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/DappGoose-Labs/arbagent/business/blockchain/app"
	"github.com/DappGoose-Labs/arbagent/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ChainService = di.NewToken[*app.ChainService]("blockchain.ChainService")
)

// Private dependency tokens - internal to blockchain module
var (
	GasOracle       = di.NewToken[app.GasOracle]("blockchain:gasOracle")
	LatencyProvider = di.NewToken[app.LatencyProvider]("blockchain:latencyProvider")
)

// Helper functions for type-safe access
func GetChainService(c di.ServiceRegistry) *app.ChainService {
	return di.GetToken(c, ChainService)
}

func GetLatencyProvider(c di.ServiceRegistry) app.LatencyProvider {
	return di.GetToken(c, LatencyProvider)
}
