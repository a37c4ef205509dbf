package app

import (
	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// TriangularScanner searches one venue/network's token graph for
// profitable 3-cycles.
type TriangularScanner struct {
	minProfit float64
	gasPct    float64
}

// NewTriangularScanner creates a scanner with the given profit threshold
// and flat gas cost estimate for a 3-transaction round trip.
func NewTriangularScanner(minProfit, gasPct float64) *TriangularScanner {
	return &TriangularScanner{minProfit: minProfit, gasPct: gasPct}
}

// Scan enumerates every A->B->C->A walk in the graph. Each economic
// cycle is visited once per rotation (three times), and the rotations
// are reported as separate opportunities. Groups with fewer than three
// pools are skipped as a cheap pre-filter.
func (s *TriangularScanner) Scan(key marketdomain.VenueKey, pools []marketdomain.PoolRecord) []domain.Opportunity {
	if len(pools) < 3 {
		return nil
	}

	graph := BuildTokenGraph(pools)
	var out []domain.Opportunity

	for _, tokenA := range graph.Tokens() {
		for _, tokenB := range graph.Neighbors(tokenA) {
			for _, tokenC := range graph.Neighbors(tokenB) {
				edgeCA, ok := graph.Edge(tokenC, tokenA)
				if !ok {
					continue
				}
				edgeAB, _ := graph.Edge(tokenA, tokenB)
				edgeBC, _ := graph.Edge(tokenB, tokenC)

				roundTripRate := edgeAB.Price * edgeBC.Price * edgeCA.Price
				totalFee := edgeAB.Fee + edgeBC.Fee + edgeCA.Fee
				netProfitPct := roundTripRate - 1 - totalFee - s.gasPct
				if netProfitPct < s.minProfit {
					continue
				}

				out = append(out, domain.NewTriangular(domain.TriangularDetails{
					Venue:         key.Venue,
					Network:       key.Network,
					TokenA:        tokenA,
					TokenB:        tokenB,
					TokenC:        tokenC,
					LegPrices:     [3]float64{edgeAB.Price, edgeBC.Price, edgeCA.Price},
					RoundTripRate: roundTripRate,
					TotalFee:      totalFee,
					PoolIDs:       [3]string{edgeAB.PoolID, edgeBC.PoolID, edgeCA.PoolID},
				}, netProfitPct, s.gasPct))
			}
		}
	}

	return out
}
