package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	detectiondomain "github.com/DappGoose-Labs/arbagent/business/detection/domain"
	"github.com/DappGoose-Labs/arbagent/business/validation/domain"
	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/cache"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/ratelimit"
)

// ValidatorConfig tunes validation lookups and thresholds.
type ValidatorConfig struct {
	MinLiquidityUSD  float64
	LookupTimeout    time.Duration
	LookupsPerMinute int
	CacheTTL         time.Duration
	CacheSize        int
}

type lookupKey struct {
	venue   string
	network string
	poolID  string
}

// Validator re-checks an opportunity against live pool liquidity and
// derives trade sizing, risk, and timing. One-shot: a failed lookup
// rejects the opportunity for this cycle rather than retrying.
type Validator struct {
	lookup  PoolLookup
	latency LatencyEstimator
	cfg     ValidatorConfig
	log     logger.LoggerInterface

	poolCache *cache.Cache[lookupKey, marketdomain.PoolRecord]
	limiter   *ratelimit.Limiter

	verdicts metric.Int64Counter
}

// NewValidator creates a Validator.
func NewValidator(lookup PoolLookup, latency LatencyEstimator, cfg ValidatorConfig, log logger.LoggerInterface) *Validator {
	v := &Validator{
		lookup:    lookup,
		latency:   latency,
		cfg:       cfg,
		log:       log,
		poolCache: cache.NewWithSize[lookupKey, marketdomain.PoolRecord](cfg.CacheTTL, cfg.CacheSize),
		limiter:   ratelimit.New(cfg.LookupsPerMinute),
	}

	meter := otel.Meter("validation")
	if c, err := meter.Int64Counter("validation_verdicts_total",
		metric.WithDescription("Validation verdicts by outcome"),
	); err == nil {
		v.verdicts = c
	}

	return v
}

// Validate produces the terminal verdict for one opportunity.
func (v *Validator) Validate(ctx context.Context, opp detectiondomain.Opportunity) domain.ValidatedOpportunity {
	legs := opp.Legs()
	liquidity := make([]float64, 0, len(legs))

	for _, leg := range legs {
		record, err := v.lookupPool(ctx, leg)
		if err != nil {
			v.count(ctx, "pool_unavailable")
			v.log.Debug(ctx, "rejecting opportunity, pool lookup failed",
				"opportunity_id", opp.ID, "pool_id", leg.PoolID, "error", err)
			return domain.Rejected(opp, domain.MsgPoolUnavailable)
		}
		liquidity = append(liquidity, record.LiquidityUSD())
	}

	minLiq := liquidity[0]
	for _, l := range liquidity[1:] {
		if l < minLiq {
			minLiq = l
		}
	}
	if minLiq < v.cfg.MinLiquidityUSD {
		v.count(ctx, "insufficient_liquidity")
		return domain.Rejected(opp, domain.MsgInsufficientLiquidity)
	}

	maxSize := domain.MaxTradeSizeUSD(opp.Kind, minLiq)
	optimalSize := domain.OptimalTradeSizeUSD(opp.Kind, minLiq, opp.NetProfitPct)
	expectedProfit := optimalSize * v.profitRate(opp)

	v.count(ctx, "valid")
	return domain.ValidatedOpportunity{
		Opportunity:              opp,
		IsValid:                  true,
		ExpectedProfitUSD:        decimal.NewFromFloat(expectedProfit),
		MaxTradeSizeUSD:          decimal.NewFromFloat(maxSize),
		OptimalTradeSizeUSD:      decimal.NewFromFloat(optimalSize),
		RiskScore:                domain.RiskScore(opp.Kind, opp.NetProfitPct, minLiq, opp.CrossNetwork()),
		EstimatedExecutionTimeMS: v.executionTimeMS(&opp),
		LegLiquidityUSD:          liquidity,
		ValidatedAt:              time.Now(),
	}
}

// profitRate is the per-dollar profit applied to the optimal size. For
// triangular trades the gas constant is excluded: the fee total is
// already baked into the round-trip rate.
func (v *Validator) profitRate(opp detectiondomain.Opportunity) float64 {
	if opp.Kind == detectiondomain.KindTriangular {
		tr := opp.Triangular
		return tr.RoundTripRate - 1 - tr.TotalFee
	}
	return opp.NetProfitPct
}

// executionTimeMS is a deterministic estimate: two sequential legs for a
// same-network spread, both legs plus bridging cross-network, and three
// legs for a triangle.
func (v *Validator) executionTimeMS(opp *detectiondomain.Opportunity) int64 {
	switch opp.Kind {
	case detectiondomain.KindCrossVenue:
		cv := opp.CrossVenue
		if opp.CrossNetwork() {
			total := v.latency.Latency(cv.Buy.Network) +
				v.latency.Latency(cv.Sell.Network) +
				v.latency.BridgeOverhead()
			return total.Milliseconds()
		}
		return (2 * v.latency.Latency(cv.Buy.Network)).Milliseconds()
	case detectiondomain.KindTriangular:
		return (3 * v.latency.Latency(opp.Triangular.Network)).Milliseconds()
	}
	return 0
}

func (v *Validator) lookupPool(ctx context.Context, leg detectiondomain.LegRef) (marketdomain.PoolRecord, error) {
	key := lookupKey{venue: leg.Venue, network: leg.Network, poolID: leg.PoolID}
	if record, found := v.poolCache.Get(ctx, key); found {
		return record, nil
	}

	if err := v.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.cfg.LookupTimeout)
	defer cancel()

	record, err := v.lookup.PoolDetails(lookupCtx, marketdomain.VenueKey{Venue: leg.Venue, Network: leg.Network}, leg.PoolID)
	if err != nil {
		return nil, err
	}

	v.poolCache.Set(ctx, key, record)
	return record, nil
}

func (v *Validator) count(ctx context.Context, outcome string) {
	if v.verdicts == nil {
		return
	}
	v.verdicts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
