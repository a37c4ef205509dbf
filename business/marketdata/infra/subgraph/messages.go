// Package subgraph implements a PoolSource backed by Graph-protocol
// subgraph endpoints, one per venue/network.
package subgraph

import (
	"strconv"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// graphQLRequest is the POST body sent to a subgraph endpoint.
type graphQLRequest struct {
	Query string `json:"query"`
}

// graphQLResponse is the standard subgraph response envelope. Numeric
// fields arrive as decimal strings.
type graphQLResponse struct {
	Data   poolData       `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type poolData struct {
	Pairs []pairMessage      `json:"pairs"`
	Pair  *pairMessage       `json:"pair"`
	Pools []stablePoolMessage `json:"pools"`
	Pool  *stablePoolMessage  `json:"pool"`
}

// pairMessage is a two-token constant-product pair.
type pairMessage struct {
	ID     string `json:"id"`
	Token0 struct {
		Symbol string `json:"symbol"`
	} `json:"token0"`
	Token1 struct {
		Symbol string `json:"symbol"`
	} `json:"token1"`
	Reserve0   string `json:"reserve0"`
	Reserve1   string `json:"reserve1"`
	ReserveUSD string `json:"reserveUSD"`
}

// stablePoolMessage is a multi-token stable-swap pool.
type stablePoolMessage struct {
	ID    string `json:"id"`
	Coins []struct {
		Symbol string `json:"symbol"`
	} `json:"coins"`
	Balances   []string `json:"balances"`
	ReserveUSD string   `json:"reserveUSD"`
}

func (m pairMessage) toDomain(fee float64) domain.TwoTokenPool {
	return domain.TwoTokenPool{
		ID:         m.ID,
		Token0:     domain.Token(m.Token0.Symbol),
		Token1:     domain.Token(m.Token1.Symbol),
		Reserve0:   parseDecimal(m.Reserve0),
		Reserve1:   parseDecimal(m.Reserve1),
		ReserveUSD: parseDecimal(m.ReserveUSD),
		FeePct:     fee,
	}
}

func (m stablePoolMessage) toDomain(fee float64) domain.MultiTokenPool {
	tokens := make([]domain.Token, 0, len(m.Coins))
	for _, c := range m.Coins {
		tokens = append(tokens, domain.Token(c.Symbol))
	}
	balances := make([]float64, 0, len(m.Balances))
	for _, b := range m.Balances {
		balances = append(balances, parseDecimal(b))
	}
	return domain.MultiTokenPool{
		ID:         m.ID,
		Tokens:     tokens,
		Balances:   balances,
		ReserveUSD: parseDecimal(m.ReserveUSD),
		FeePct:     fee,
	}
}

// parseDecimal converts a subgraph decimal string, treating malformed
// values as zero so a bad record degrades to a non-competitive price.
func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
