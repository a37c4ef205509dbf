// Package blockchain implements the blockchain bounded context for chain-level estimates.
package blockchain

import (
	"context"

	"github.com/DappGoose-Labs/arbagent/business/blockchain/app"
	blockchainDI "github.com/DappGoose-Labs/arbagent/business/blockchain/di"
	"github.com/DappGoose-Labs/arbagent/business/blockchain/infra/ethereum"
	"github.com/DappGoose-Labs/arbagent/business/blockchain/infra/static"
	"github.com/DappGoose-Labs/arbagent/internal/config"
	"github.com/DappGoose-Labs/arbagent/internal/di"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register GasOracle (private - resolved only when live gas tracking
	// is enabled)
	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		oracleCfg := ethereum.DefaultGasOracleConfig(cfg.Gas.RPCURL)
		if cfg.Gas.CacheTTL > 0 {
			oracleCfg.CacheTTL = cfg.Gas.CacheTTL
		}
		oracle, err := ethereum.NewGasOracle(oracleCfg, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Register LatencyProvider (private - internal dependency)
	di.RegisterToken(c, blockchainDI.LatencyProvider, func(sr di.ServiceRegistry) app.LatencyProvider {
		cfg := sr.Get("config").(*config.Config)
		return static.NewLatencyTable(
			cfg.Networks.LatencyMS,
			cfg.Networks.DefaultLatencyMS,
			cfg.Networks.BridgeOverheadMS,
		)
	})

	// Register ChainService (public - exposed to other modules)
	di.RegisterToken(c, blockchainDI.ChainService, func(sr di.ServiceRegistry) *app.ChainService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var oracle app.GasOracle
		if cfg.Gas.Enabled {
			oracle = di.GetToken(sr, blockchainDI.GasOracle)
		}
		latency := blockchainDI.GetLatencyProvider(sr)
		return app.NewChainService(oracle, latency, log)
	})

	return nil
}

// Startup connects the gas oracle when enabled.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	if mono.Config().Gas.Enabled {
		oracle := di.GetToken(mono.Services(), blockchainDI.GasOracle)
		if connector, ok := oracle.(interface{ Connect(context.Context) error }); ok {
			if err := connector.Connect(ctx); err != nil {
				// Profit math uses configured gas constants, so a dead RPC
				// node degrades the gauge only.
				log.Warn(ctx, "gas oracle connect failed, live readings disabled", "error", err)
			}
		}

		svc := blockchainDI.GetChainService(mono.Services())
		if gwei, ok := svc.CurrentGasGwei(ctx); ok {
			log.Info(ctx, "live gas price", "gwei", gwei)
		}
	}

	log.Info(ctx, "blockchain module started")
	return nil
}
