package app

import (
	"sort"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

// CrossVenueScanner finds buy-low/sell-high spreads for the same pair
// across venues and networks.
type CrossVenueScanner struct {
	minProfit float64
	gasPct    float64
}

// NewCrossVenueScanner creates a scanner with the given profit threshold
// and flat gas cost estimate.
func NewCrossVenueScanner(minProfit, gasPct float64) *CrossVenueScanner {
	return &CrossVenueScanner{minProfit: minProfit, gasPct: gasPct}
}

// Scan compares all price observations per pair and emits an opportunity
// wherever the extreme spread clears fees, gas, and the threshold.
// Pairs with fewer than two observations produce nothing. Ties on price
// resolve to the earliest observation in the edge list.
func (s *CrossVenueScanner) Scan(edgesByPair map[string][]domain.PriceEdge) []domain.Opportunity {
	var out []domain.Opportunity

	for _, pairKey := range sortedPairKeys(edgesByPair) {
		edges := edgesByPair[pairKey]
		if len(edges) < 2 {
			continue
		}

		buy, sell := edges[0], edges[0]
		for _, e := range edges[1:] {
			if e.Price < buy.Price {
				buy = e
			}
			if e.Price > sell.Price {
				sell = e
			}
		}
		if buy.Price <= 0 {
			continue
		}

		priceDiffPct := (sell.Price - buy.Price) / buy.Price
		netProfitPct := priceDiffPct - buy.Fee - sell.Fee - s.gasPct
		if netProfitPct < s.minProfit {
			continue
		}

		out = append(out, domain.NewCrossVenue(domain.CrossVenueDetails{
			TokenPair:    pairKey,
			Buy:          quoteFromEdge(buy),
			Sell:         quoteFromEdge(sell),
			PriceDiffPct: priceDiffPct,
		}, netProfitPct, s.gasPct))
	}

	return out
}

func quoteFromEdge(e domain.PriceEdge) domain.VenueQuote {
	return domain.VenueQuote{
		Venue:        e.Venue,
		Network:      e.Network,
		PoolID:       e.PoolID,
		Price:        e.Price,
		Fee:          e.Fee,
		LiquidityUSD: e.LiquidityUSD,
	}
}

func sortedPairKeys(edgesByPair map[string][]domain.PriceEdge) []string {
	keys := make([]string, 0, len(edgesByPair))
	for key := range edgesByPair {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
