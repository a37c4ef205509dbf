// Package di contains dependency injection tokens for the marketdata context.
package di

import (
	"github.com/DappGoose-Labs/arbagent/business/marketdata/app"
	"github.com/DappGoose-Labs/arbagent/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SnapshotService = di.NewToken[*app.SnapshotService]("marketdata.SnapshotService")
)

// Private dependency tokens - internal to marketdata module
var (
	PoolSource = di.NewToken[app.PoolSource]("marketdata:poolSource")
)

// Helper functions for type-safe access
func GetSnapshotService(c di.ServiceRegistry) *app.SnapshotService {
	return di.GetToken(c, SnapshotService)
}

func GetPoolSource(c di.ServiceRegistry) app.PoolSource {
	return di.GetToken(c, PoolSource)
}
