package subgraph

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/circuitbreaker"
	"github.com/DappGoose-Labs/arbagent/internal/httpclient"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

const poolPageSize = 100

// allPairsQuery fetches the deepest two-token pairs on an endpoint.
const allPairsQuery = `{
  pairs(first: %d, orderBy: reserveUSD, orderDirection: desc) {
    id
    token0 { symbol }
    token1 { symbol }
    reserve0
    reserve1
    reserveUSD
  }
}`

// allPoolsQuery fetches multi-token stable pools on endpoints that have them.
const allPoolsQuery = `{
  pools(first: %d, orderBy: reserveUSD, orderDirection: desc) {
    id
    coins { symbol }
    balances
    reserveUSD
  }
}`

const pairByIDQuery = `{
  pair(id: "%s") {
    id
    token0 { symbol }
    token1 { symbol }
    reserve0
    reserve1
    reserveUSD
  }
}`

const poolByIDQuery = `{
  pool(id: "%s") {
    id
    coins { symbol }
    balances
    reserveUSD
  }
}`

// Swap fee per venue. Subgraphs do not expose the fee tier uniformly, so
// it is keyed off the protocol name with a constant-product default.
var venueFees = map[string]float64{
	"uniswap":   0.003,
	"sushiswap": 0.003,
	"quickswap": 0.003,
	"curve":     0.0004,
}

const defaultVenueFee = 0.003

// VenueFee returns the swap fee fraction assumed for a venue.
func VenueFee(venue string) float64 {
	if fee, ok := venueFees[strings.ToLower(venue)]; ok {
		return fee
	}
	return defaultVenueFee
}

type endpoint struct {
	key     domain.VenueKey
	client  *httpclient.Client
	breaker *circuitbreaker.CircuitBreaker[*graphQLResponse]
}

// Collector fetches pool records from one subgraph endpoint per
// venue/network. Each endpoint sits behind its own circuit breaker so a
// flapping subgraph does not poison the others.
type Collector struct {
	endpoints map[domain.VenueKey]*endpoint
	log       logger.LoggerInterface
}

// New builds a Collector from config endpoints keyed "<venue>_<network>".
func New(endpoints map[string]string, log logger.LoggerInterface, opts ...httpclient.Option) (*Collector, error) {
	c := &Collector{
		endpoints: make(map[domain.VenueKey]*endpoint, len(endpoints)),
		log:       log,
	}
	for name, url := range endpoints {
		venue, network, ok := strings.Cut(name, "_")
		if !ok {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithMessage(fmt.Sprintf("endpoint key %q is not <venue>_<network>", name)))
		}
		key := domain.VenueKey{Venue: venue, Network: network}
		clientOpts := append([]httpclient.Option{httpclient.WithBaseURL(url)}, opts...)
		c.endpoints[key] = &endpoint{
			key:     key,
			client:  httpclient.New("subgraph/"+name, clientOpts...),
			breaker: circuitbreaker.New[*graphQLResponse](circuitbreaker.DefaultConfig("subgraph/" + name)),
		}
	}
	return c, nil
}

// GetAllPools queries every endpoint concurrently and groups results by
// venue/network. An endpoint failure skips that venue rather than failing
// the refresh; the refresh fails only when no endpoint produced pools.
func (c *Collector) GetAllPools(ctx context.Context) (map[domain.VenueKey][]domain.PoolRecord, error) {
	out := make(map[domain.VenueKey][]domain.PoolRecord, len(c.endpoints))

	var (
		mu      sync.Mutex
		lastErr error
	)
	var g errgroup.Group
	for key, ep := range c.endpoints {
		g.Go(func() error {
			pools, err := c.fetchEndpoint(ctx, ep)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.Warn(ctx, "subgraph fetch failed, skipping venue",
					"venue", key.Venue, "network", key.Network, "error", err)
				lastErr = err
				return nil
			}
			out[key] = pools
			return nil
		})
	}
	// Goroutines report failures through lastErr, never the group.
	_ = g.Wait()

	if len(out) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, apperror.New(apperror.CodeSubgraphQueryFailed,
			apperror.WithMessage("no subgraph endpoints configured"))
	}
	return out, nil
}

// GetPoolDetails fetches the live state of a single pool, trying the
// two-token shape first and the multi-token shape second.
func (c *Collector) GetPoolDetails(ctx context.Context, key domain.VenueKey, poolID string) (domain.PoolRecord, error) {
	ep, ok := c.endpoints[key]
	if !ok {
		return nil, apperror.New(apperror.CodePoolNotFound,
			apperror.WithContext(fmt.Sprintf("no endpoint for %s", key)))
	}

	fee := VenueFee(key.Venue)

	resp, err := c.query(ctx, ep, fmt.Sprintf(pairByIDQuery, poolID))
	if err == nil && resp.Data.Pair != nil {
		pool := resp.Data.Pair.toDomain(fee)
		return pool, nil
	}

	resp, err = c.query(ctx, ep, fmt.Sprintf(poolByIDQuery, poolID))
	if err == nil && resp.Data.Pool != nil {
		pool := resp.Data.Pool.toDomain(fee)
		return pool, nil
	}

	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodePoolNotFound, fmt.Sprintf("pool %s on %s", poolID, key))
	}
	return nil, apperror.New(apperror.CodePoolNotFound,
		apperror.WithContext(fmt.Sprintf("pool %s on %s", poolID, key)))
}

func (c *Collector) fetchEndpoint(ctx context.Context, ep *endpoint) ([]domain.PoolRecord, error) {
	fee := VenueFee(ep.key.Venue)
	var pools []domain.PoolRecord

	resp, err := c.query(ctx, ep, fmt.Sprintf(allPairsQuery, poolPageSize))
	if err != nil {
		return nil, err
	}
	for _, pair := range resp.Data.Pairs {
		pools = append(pools, pair.toDomain(fee))
	}

	// Stable pools exist only on some endpoints; an error shape here is
	// fine as long as the pairs query succeeded.
	resp, err = c.query(ctx, ep, fmt.Sprintf(allPoolsQuery, poolPageSize))
	if err == nil {
		for _, pool := range resp.Data.Pools {
			pools = append(pools, pool.toDomain(fee))
		}
	}

	return pools, nil
}

func (c *Collector) query(ctx context.Context, ep *endpoint, query string) (*graphQLResponse, error) {
	return ep.breaker.Execute(func() (*graphQLResponse, error) {
		var result graphQLResponse
		resp, err := ep.client.R().
			SetBody(graphQLRequest{Query: query}).
			SetResult(&result).
			Post(ctx, "")
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeSubgraphQueryFailed, ep.key.String())
		}
		if !resp.IsSuccess() {
			return nil, apperror.New(apperror.CodeSubgraphQueryFailed,
				apperror.WithContext(fmt.Sprintf("%s returned status %d", ep.key, resp.StatusCode)))
		}
		if len(result.Errors) > 0 {
			return nil, apperror.New(apperror.CodeSubgraphQueryFailed,
				apperror.WithContext(result.Errors[0].Message))
		}
		return &result, nil
	})
}
