// Package main is the entry point for the arbitrage detection agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DappGoose-Labs/arbagent/business/blockchain"
	"github.com/DappGoose-Labs/arbagent/business/detection"
	"github.com/DappGoose-Labs/arbagent/business/marketdata"
	marketdataDI "github.com/DappGoose-Labs/arbagent/business/marketdata/di"
	"github.com/DappGoose-Labs/arbagent/business/validation"
	"github.com/DappGoose-Labs/arbagent/internal/apm"
	"github.com/DappGoose-Labs/arbagent/internal/config"
	"github.com/DappGoose-Labs/arbagent/internal/health"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/metrics"
	"github.com/DappGoose-Labs/arbagent/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arbagent %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting arbitrage detection agent",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server
	healthServer := health.NewServer(cfg.API.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.API.HealthPort)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}

	// Define modules in dependency order. Validation starts before
	// detection so its pipeline is registered by the time the
	// detection loop publishes its first cycle.
	modules := []monolith.Module{
		&marketdata.Module{}, // Must be first - provides pool snapshots
		&blockchain.Module{}, // Gas oracle and network latency tables
		&validation.Module{}, // Depends on marketdata, blockchain, detection services
		&detection.Module{},  // Depends on marketdata
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	// Readiness follows the snapshot: stale or missing pool data means
	// scans are running blind.
	snapshots := marketdataDI.GetSnapshotService(mono.Services())
	maxAge := 3 * cfg.Collector.RefreshInterval
	healthServer.RegisterCheck("snapshot", func(ctx context.Context) (bool, string) {
		snap, err := snapshots.Current()
		if err != nil {
			return false, "no snapshot published yet"
		}
		if age := time.Since(snap.Taken); age > maxAge {
			return false, fmt.Sprintf("snapshot stale: %s old", age.Round(time.Second))
		}
		return true, fmt.Sprintf("version %d, %d pools", snap.Version, snap.PoolCount())
	})

	log.Info(ctx, "all modules started, scanning for opportunities")

	<-ctx.Done()

	log.Info(context.Background(), "shutting down")
	return nil
}
