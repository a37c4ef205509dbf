package domain

import (
	detectiondomain "github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

// Sizing and risk parameters per opportunity kind. Cross-venue trades
// tolerate larger pool fractions; triangular trades are capped tighter
// since three pools must absorb the same notional.
type kindParams struct {
	capFraction    float64 // max trade as share of the smallest leg
	baseFraction   float64 // base trade as share of the smallest leg
	profitK        float64 // profit multiplier slope
	riskBase       float64
	riskProfitScal float64
}

var paramsByKind = map[detectiondomain.Kind]kindParams{
	detectiondomain.KindCrossVenue: {
		capFraction:    0.05,
		baseFraction:   0.005,
		profitK:        10,
		riskBase:       50,
		riskProfitScal: 1000,
	},
	detectiondomain.KindTriangular: {
		capFraction:    0.03,
		baseFraction:   0.003,
		profitK:        8,
		riskBase:       40,
		riskProfitScal: 1200,
	},
}

// MaxTradeSizeUSD caps the trade at a fraction of the smallest leg.
func MaxTradeSizeUSD(kind detectiondomain.Kind, minLegLiquidity float64) float64 {
	return minLegLiquidity * paramsByKind[kind].capFraction
}

// OptimalTradeSizeUSD grows a base size with profit, bounded by the cap.
func OptimalTradeSizeUSD(kind detectiondomain.Kind, minLegLiquidity, netProfitPct float64) float64 {
	p := paramsByKind[kind]
	baseSize := minLegLiquidity * p.baseFraction
	profitMultiplier := 1 + netProfitPct*p.profitK
	maxSize := minLegLiquidity * p.capFraction

	optimal := baseSize * profitMultiplier
	if optimal > maxSize {
		optimal = maxSize
	}
	return optimal
}

// RiskScore produces a 0-100 heuristic: a kind-specific base, a profit
// term (outsized profit usually means stale or thin data), a liquidity
// tier penalty on the smallest leg, and a cross-network surcharge.
func RiskScore(kind detectiondomain.Kind, netProfitPct, minLegLiquidity float64, crossNetwork bool) float64 {
	p := paramsByKind[kind]
	score := p.riskBase + netProfitPct*p.riskProfitScal

	switch {
	case minLegLiquidity < 100_000:
		score += 20
	case minLegLiquidity < 500_000:
		score += 10
	case minLegLiquidity < 1_000_000:
		score += 5
	}

	if crossNetwork && kind == detectiondomain.KindCrossVenue {
		score += 15
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
