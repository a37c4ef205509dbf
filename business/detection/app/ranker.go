package app

import (
	"sort"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

// TopN filters opportunities by minimum profit, stable-sorts them
// descending by net profit, and truncates to limit. Pure: the input
// slice is never reordered. Idempotent for a fixed (minProfit, limit).
func TopN(opportunities []domain.Opportunity, minProfit float64, limit int) []domain.Opportunity {
	filtered := make([]domain.Opportunity, 0, len(opportunities))
	for _, o := range opportunities {
		if o.NetProfitPct >= minProfit {
			filtered = append(filtered, o)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].NetProfitPct > filtered[j].NetProfitPct
	})

	if limit >= 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}
