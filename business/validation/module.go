// Package validation implements the trade validation bounded context.
package validation

import (
	"context"
	"time"

	blockchainDI "github.com/DappGoose-Labs/arbagent/business/blockchain/di"
	detectionDI "github.com/DappGoose-Labs/arbagent/business/detection/di"
	marketdataDI "github.com/DappGoose-Labs/arbagent/business/marketdata/di"
	"github.com/DappGoose-Labs/arbagent/business/validation/app"
	validationDI "github.com/DappGoose-Labs/arbagent/business/validation/di"
	"github.com/DappGoose-Labs/arbagent/business/validation/infra/httpapi"
	"github.com/DappGoose-Labs/arbagent/internal/config"
	"github.com/DappGoose-Labs/arbagent/internal/di"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/monolith"
)

// Module implements the validation bounded context.
type Module struct {
	api *httpapi.Server
}

// RegisterServices registers all validation services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Validator (private - internal to validation module)
	di.RegisterToken(c, validationDI.Validator, func(sr di.ServiceRegistry) *app.Validator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		lookup := marketdataDI.GetSnapshotService(sr)
		latency := blockchainDI.GetChainService(sr)

		return app.NewValidator(lookup, latency, app.ValidatorConfig{
			MinLiquidityUSD:  cfg.Validation.MinLiquidityUSD,
			LookupTimeout:    cfg.Validation.LookupTimeout,
			LookupsPerMinute: cfg.Validation.LookupsPerMinute,
			CacheTTL:         cfg.Validation.LookupCacheTTL,
			CacheSize:        cfg.Validation.LookupCacheSize,
		}, log)
	})

	// Register Pipeline (public - exposed to other modules)
	di.RegisterToken(c, validationDI.Pipeline, func(sr di.ServiceRegistry) *app.Pipeline {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewPipeline(validationDI.GetValidator(sr), cfg.Validation.MaxConcurrency, log)
	})

	return nil
}

// Startup subscribes the pipeline to detection results and serves the
// inspection API.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	pipeline := validationDI.GetPipeline(mono.Services())
	detection := detectionDI.GetDetectionService(mono.Services())
	detection.RegisterReporter(pipeline)

	m.api = httpapi.New(cfg.API.Port, detection, pipeline, log)
	go func() {
		if err := m.api.Start(); err != nil {
			log.Error(ctx, "inspection api failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.api.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "validation module started", "api_port", cfg.API.Port)
	return nil
}
