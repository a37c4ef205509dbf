// Package detection implements the opportunity detection bounded context.
package detection

import (
	"context"
	"os"

	"github.com/DappGoose-Labs/arbagent/business/detection/app"
	detectionDI "github.com/DappGoose-Labs/arbagent/business/detection/di"
	"github.com/DappGoose-Labs/arbagent/business/detection/infra"
	marketdataDI "github.com/DappGoose-Labs/arbagent/business/marketdata/di"
	"github.com/DappGoose-Labs/arbagent/internal/config"
	"github.com/DappGoose-Labs/arbagent/internal/di"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/monolith"
)

// Module implements the detection bounded context.
type Module struct{}

// RegisterServices registers all detection services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register DetectionService (public - exposed to other modules)
	di.RegisterToken(c, detectionDI.DetectionService, func(sr di.ServiceRegistry) *app.DetectionService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		snapshots := marketdataDI.GetSnapshotService(sr)

		cross := app.NewCrossVenueScanner(cfg.Detection.MinProfitThreshold, cfg.Detection.GasCostPctCross)
		tri := app.NewTriangularScanner(cfg.Detection.MinProfitThreshold, cfg.Detection.GasCostPctTriangular)

		reporters := []app.Reporter{infra.NewConsoleReporter()}
		if path := cfg.Detection.JSONExportPath; path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.Warn(context.Background(), "cannot open json export file, skipping reporter",
					"path", path, "error", err)
			} else {
				reporters = append(reporters, infra.NewJSONReporter(f))
			}
		}

		return app.NewDetectionService(
			snapshots,
			cross,
			tri,
			reporters,
			app.DetectionConfig{
				Interval:     cfg.Detection.Interval,
				RetryBackoff: cfg.Detection.RetryBackoff,
				MinProfit:    cfg.Detection.MinProfitThreshold,
				TopN:         cfg.Detection.TopN,
			},
			log,
		)
	})

	return nil
}

// Startup launches the detection loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := detectionDI.GetDetectionService(mono.Services())
	go svc.Run(ctx)

	log.Info(ctx, "detection module started")
	return nil
}
