// Package domain contains the core domain types for the detection context.
package domain

import (
	"sort"

	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// PriceEdge is one price observation for a token pair at a specific pool.
// Edges are ephemeral: rebuilt from the snapshot every cycle.
type PriceEdge struct {
	Venue        string
	Network      string
	PoolID       string
	TokenFrom    marketdomain.Token
	TokenTo      marketdomain.Token
	Price        float64
	Fee          float64
	LiquidityUSD float64
}

// PairKey returns the bucket key for a pair as emitted by its pool.
// Orientation is kept as-seen: pools quoting the reverse orientation
// land in a separate bucket rather than being inverted.
func PairKey(from, to marketdomain.Token) string {
	return string(from) + "_" + string(to)
}

// GraphEdge is one directed edge in a venue's token graph.
type GraphEdge struct {
	Price        float64
	PoolID       string
	Fee          float64
	LiquidityUSD float64
}

// TokenGraph is the directed price graph for one venue/network. A later
// pool quoting the same directed pair overwrites the earlier edge.
type TokenGraph map[marketdomain.Token]map[marketdomain.Token]GraphEdge

// AddEdge inserts or overwrites the directed edge from -> to.
func (g TokenGraph) AddEdge(from, to marketdomain.Token, edge GraphEdge) {
	if g[from] == nil {
		g[from] = make(map[marketdomain.Token]GraphEdge)
	}
	g[from][to] = edge
}

// Edge returns the directed edge from -> to.
func (g TokenGraph) Edge(from, to marketdomain.Token) (GraphEdge, bool) {
	edge, ok := g[from][to]
	return edge, ok
}

// Tokens returns all graph nodes in sorted order, so cycle enumeration
// is reproducible across runs.
func (g TokenGraph) Tokens() []marketdomain.Token {
	tokens := make([]marketdomain.Token, 0, len(g))
	for t := range g {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// Neighbors returns the sorted out-neighbors of token.
func (g TokenGraph) Neighbors(token marketdomain.Token) []marketdomain.Token {
	out := make([]marketdomain.Token, 0, len(g[token]))
	for t := range g[token] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
