// Package app contains the scanning services for the detection context.
package app

import (
	"sort"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// ExtractPairEdges converts raw pool records into per-pair price edges
// for cross-venue scanning. Pure function of its input. Venues are
// visited in sorted order and pools in slice order, so the edge lists
// (and therefore first-seen tie breaking downstream) are reproducible.
func ExtractPairEdges(pools map[marketdomain.VenueKey][]marketdomain.PoolRecord) map[string][]domain.PriceEdge {
	edges := make(map[string][]domain.PriceEdge)

	for _, key := range sortedVenueKeys(pools) {
		for _, record := range pools[key] {
			switch pool := record.(type) {
			case marketdomain.TwoTokenPool:
				edge := domain.PriceEdge{
					Venue:        key.Venue,
					Network:      key.Network,
					PoolID:       pool.ID,
					TokenFrom:    pool.Token0,
					TokenTo:      pool.Token1,
					Price:        pool.Price(),
					Fee:          pool.FeePct,
					LiquidityUSD: pool.ReserveUSD,
				}
				pairKey := domain.PairKey(edge.TokenFrom, edge.TokenTo)
				edges[pairKey] = append(edges[pairKey], edge)

			case marketdomain.MultiTokenPool:
				for i := 0; i < len(pool.Tokens)-1; i++ {
					for j := i + 1; j < len(pool.Tokens); j++ {
						edge := domain.PriceEdge{
							Venue:        key.Venue,
							Network:      key.Network,
							PoolID:       pool.ID,
							TokenFrom:    pool.Tokens[i],
							TokenTo:      pool.Tokens[j],
							Price:        pool.PairPrice(i, j),
							Fee:          pool.FeePct,
							LiquidityUSD: pool.ReserveUSD,
						}
						pairKey := domain.PairKey(edge.TokenFrom, edge.TokenTo)
						edges[pairKey] = append(edges[pairKey], edge)
					}
				}
			}
		}
	}

	return edges
}

// BuildTokenGraph builds the directed price graph for one venue/network
// from its two-token pools. Multi-token pools are excluded from
// triangular search. Each pool contributes a forward and a reverse edge;
// an empty-side reserve yields a zero price rather than a missing edge.
func BuildTokenGraph(pools []marketdomain.PoolRecord) domain.TokenGraph {
	graph := make(domain.TokenGraph)

	for _, record := range pools {
		pool, ok := record.(marketdomain.TwoTokenPool)
		if !ok {
			continue
		}

		graph.AddEdge(pool.Token0, pool.Token1, domain.GraphEdge{
			Price:        pool.Price(),
			PoolID:       pool.ID,
			Fee:          pool.FeePct,
			LiquidityUSD: pool.ReserveUSD,
		})
		graph.AddEdge(pool.Token1, pool.Token0, domain.GraphEdge{
			Price:        pool.ReversePrice(),
			PoolID:       pool.ID,
			Fee:          pool.FeePct,
			LiquidityUSD: pool.ReserveUSD,
		})
	}

	return graph
}

func sortedVenueKeys(pools map[marketdomain.VenueKey][]marketdomain.PoolRecord) []marketdomain.VenueKey {
	keys := make([]marketdomain.VenueKey, 0, len(pools))
	for key := range pools {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Venue != keys[j].Venue {
			return keys[i].Venue < keys[j].Venue
		}
		return keys[i].Network < keys[j].Network
	})
	return keys
}
