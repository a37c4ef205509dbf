// Package marketdata implements the pool collection bounded context.
package marketdata

import (
	"context"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/app"
	marketdataDI "github.com/DappGoose-Labs/arbagent/business/marketdata/di"
	"github.com/DappGoose-Labs/arbagent/business/marketdata/infra/stream"
	"github.com/DappGoose-Labs/arbagent/business/marketdata/infra/subgraph"
	"github.com/DappGoose-Labs/arbagent/internal/config"
	"github.com/DappGoose-Labs/arbagent/internal/di"
	"github.com/DappGoose-Labs/arbagent/internal/httpclient"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/monolith"
)

// Module implements the marketdata bounded context.
type Module struct{}

// RegisterServices registers all marketdata services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register PoolSource (subgraph collector, optionally stream-wrapped) - private dependency
	di.RegisterToken(c, marketdataDI.PoolSource, func(sr di.ServiceRegistry) app.PoolSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		collector, err := subgraph.New(cfg.Collector.Endpoints, log,
			httpclient.WithTimeout(cfg.Collector.FetchTimeout))
		if err != nil {
			panic("failed to create subgraph collector: " + err.Error())
		}

		if !cfg.Collector.StreamEnabled {
			return collector
		}
		source, err := stream.New(collector, cfg.Collector.StreamURL, log)
		if err != nil {
			panic("failed to create pool stream: " + err.Error())
		}
		return source
	})

	// Register SnapshotService (public - exposed to other modules)
	di.RegisterToken(c, marketdataDI.SnapshotService, func(sr di.ServiceRegistry) *app.SnapshotService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		source := marketdataDI.GetPoolSource(sr)
		return app.NewSnapshotService(source, cfg.Collector.RefreshInterval, log)
	})

	return nil
}

// Startup connects the stream feed if enabled and starts the refresh loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	source := marketdataDI.GetPoolSource(mono.Services())
	if streaming, ok := source.(*stream.Source); ok {
		if err := streaming.Connect(ctx); err != nil {
			// The subgraph refresh loop still works without the feed, so
			// log and continue; wsconn keeps retrying in the background.
			log.Warn(ctx, "pool stream connect failed, continuing without live updates", "error", err)
		}
	}

	svc := marketdataDI.GetSnapshotService(mono.Services())
	go svc.Run(ctx)

	log.Info(ctx, "marketdata module started")
	return nil
}
