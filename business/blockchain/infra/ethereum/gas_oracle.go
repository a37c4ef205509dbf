// Package ethereum implements blockchain ports on top of go-ethereum.
package ethereum

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/DappGoose-Labs/arbagent/business/blockchain/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/cache"
	"github.com/DappGoose-Labs/arbagent/internal/circuitbreaker"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

const (
	tracerName = "blockchain/ethereum"
	meterName  = "blockchain/ethereum"
)

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	RPCURL      string
	CacheTTL    time.Duration // how long a reading stays fresh
	MaxGasPrice *big.Int      // safety clamp
}

// DefaultGasOracleConfig returns sensible defaults.
func DefaultGasOracleConfig(rpcURL string) GasOracleConfig {
	maxGas := new(big.Int)
	maxGas.SetString("500000000000", 10) // 500 gwei max

	return GasOracleConfig{
		RPCURL:      rpcURL,
		CacheTTL:    12 * time.Second, // ~1 block
		MaxGasPrice: maxGas,
	}
}

type gasOracleMetrics struct {
	fetches      metric.Int64Counter
	gasPriceGwei metric.Float64Gauge
	cacheHits    metric.Int64Counter
}

// GasOracle implements app.GasOracle using an Ethereum RPC node.
type GasOracle struct {
	config GasOracleConfig
	logger logger.LoggerInterface

	client   *ethclient.Client
	clientMu sync.RWMutex

	priceCache *cache.Cache[string, *domain.GasPrice]
	cb         *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics gasOracleMetrics
}

// NewGasOracle creates a new gas oracle instance.
func NewGasOracle(cfg GasOracleConfig, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:     cfg,
		logger:     log,
		priceCache: cache.New[string, *domain.GasPrice](cfg.CacheTTL),
		cb:         circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-oracle")),
		tracer:     otel.Tracer(tracerName),
	}

	meter := otel.Meter(meterName)
	if c, err := meter.Int64Counter("gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
	); err == nil {
		g.metrics.fetches = c
	}
	if gg, err := meter.Float64Gauge("gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
	); err == nil {
		g.metrics.gasPriceGwei = gg
	}
	if c, err := meter.Int64Counter("gas_price_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
	); err == nil {
		g.metrics.cacheHits = c
	}

	return g, nil
}

// Connect establishes the connection to the RPC node.
func (g *GasOracle) Connect(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "gas.connect",
		trace.WithAttributes(attribute.String("url", g.config.RPCURL)),
	)
	defer span.End()

	client, err := ethclient.DialContext(ctx, g.config.RPCURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to connect gas oracle"))
	}

	g.clientMu.Lock()
	g.client = client
	g.clientMu.Unlock()

	span.SetStatus(codes.Ok, "connected")
	g.logger.Info(ctx, "gas oracle connected", "url", g.config.RPCURL)
	return nil
}

// GetGasPrice retrieves the current gas price with caching.
func (g *GasOracle) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	ctx, span := g.tracer.Start(ctx, "gas.get_price")
	defer span.End()

	if price, found := g.priceCache.Get(ctx, "current"); found {
		if g.metrics.cacheHits != nil {
			g.metrics.cacheHits.Add(ctx, 1)
		}
		span.AddEvent("cache_hit")
		return price, nil
	}

	if g.metrics.fetches != nil {
		g.metrics.fetches.Add(ctx, 1)
	}

	g.clientMu.RLock()
	client := g.client
	g.clientMu.RUnlock()

	if client == nil {
		err := apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("gas oracle not connected"))
		span.RecordError(err)
		return nil, err
	}

	wei, err := g.cb.Execute(func() (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.New(apperror.CodeGasEstimationFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to get gas price"))
	}

	if g.config.MaxGasPrice != nil && wei.Cmp(g.config.MaxGasPrice) > 0 {
		g.logger.Warn(ctx, "gas price exceeds max, clamping", "wei", wei.String())
		wei = g.config.MaxGasPrice
	}

	price := domain.NewGasPrice(wei)
	g.priceCache.Set(ctx, "current", price)

	if g.metrics.gasPriceGwei != nil {
		g.metrics.gasPriceGwei.Record(ctx, price.Gwei)
	}
	span.SetAttributes(attribute.Float64("gwei", price.Gwei))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

// Close releases the RPC connection.
func (g *GasOracle) Close() {
	g.clientMu.Lock()
	defer g.clientMu.Unlock()
	if g.client != nil {
		g.client.Close()
		g.client = nil
	}
}
