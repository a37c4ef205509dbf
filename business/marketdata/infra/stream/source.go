// Package stream layers live reserve updates from a websocket feed on top
// of a slower base PoolSource. Between subgraph refreshes the overlay
// keeps two-token reserves current without re-querying the endpoint.
package stream

import (
	"context"
	"encoding/json"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/app"
	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
	"github.com/DappGoose-Labs/arbagent/internal/wsconn"
)

// reserveUpdate is one pool state message from the feed.
type reserveUpdate struct {
	Venue      string  `json:"venue"`
	Network    string  `json:"network"`
	PoolID     string  `json:"pool_id"`
	Reserve0   float64 `json:"reserve0"`
	Reserve1   float64 `json:"reserve1"`
	ReserveUSD float64 `json:"reserve_usd"`
}

type overrideKey struct {
	key    domain.VenueKey
	poolID string
}

// Source wraps a base PoolSource and overrides two-token reserves with
// the latest streamed values. Multi-token pools pass through untouched.
type Source struct {
	base   app.PoolSource
	client *wsconn.Client
	log    logger.LoggerInterface

	mu        sync.RWMutex
	overrides map[overrideKey]reserveUpdate

	updateCounter metric.Int64Counter
}

// New creates a streaming Source over base, connected to url.
func New(base app.PoolSource, url string, log logger.LoggerInterface) (*Source, error) {
	s := &Source{
		base:      base,
		log:       log,
		overrides: make(map[overrideKey]reserveUpdate),
	}

	meter := otel.Meter("marketdata")
	if c, err := meter.Int64Counter("marketdata_stream_updates_total",
		metric.WithDescription("Pool reserve updates received from the stream"),
	); err == nil {
		s.updateCounter = c
	}

	client, err := wsconn.New(wsconn.DefaultConfig(url, "pool-stream"))
	if err != nil {
		return nil, err
	}
	client.OnMessage(s.handleMessage)
	client.OnStateChange(func(state wsconn.State, err error) {
		if err != nil {
			log.Warn(context.Background(), "pool stream state change",
				"state", string(state), "error", err)
			return
		}
		log.Info(context.Background(), "pool stream state change", "state", string(state))
	})
	s.client = client
	return s, nil
}

// Connect starts the websocket feed.
func (s *Source) Connect(ctx context.Context) error {
	return s.client.Connect(ctx)
}

// Close tears down the feed. The base source keeps working.
func (s *Source) Close() error {
	return s.client.Close()
}

// GetAllPools fetches from the base source and applies streamed reserves.
func (s *Source) GetAllPools(ctx context.Context) (map[domain.VenueKey][]domain.PoolRecord, error) {
	pools, err := s.base.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.overrides) == 0 {
		return pools, nil
	}

	for key, group := range pools {
		for i, record := range group {
			pool, ok := record.(domain.TwoTokenPool)
			if !ok {
				continue
			}
			if upd, ok := s.overrides[overrideKey{key: key, poolID: pool.ID}]; ok {
				group[i] = applyUpdate(pool, upd)
			}
		}
	}
	return pools, nil
}

// GetPoolDetails fetches live details and applies the streamed state.
func (s *Source) GetPoolDetails(ctx context.Context, key domain.VenueKey, poolID string) (domain.PoolRecord, error) {
	record, err := s.base.GetPoolDetails(ctx, key, poolID)
	if err != nil {
		return nil, err
	}

	pool, ok := record.(domain.TwoTokenPool)
	if !ok {
		return record, nil
	}

	s.mu.RLock()
	upd, found := s.overrides[overrideKey{key: key, poolID: poolID}]
	s.mu.RUnlock()
	if !found {
		return record, nil
	}
	return applyUpdate(pool, upd), nil
}

func (s *Source) handleMessage(ctx context.Context, data []byte) {
	var upd reserveUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		s.log.Warn(ctx, "dropping malformed stream message", "error", err)
		return
	}
	if upd.PoolID == "" || upd.Venue == "" || upd.Network == "" {
		s.log.Warn(ctx, "dropping stream message with missing identity", "pool_id", upd.PoolID)
		return
	}

	key := overrideKey{
		key:    domain.VenueKey{Venue: upd.Venue, Network: upd.Network},
		poolID: upd.PoolID,
	}
	s.mu.Lock()
	s.overrides[key] = upd
	s.mu.Unlock()

	if s.updateCounter != nil {
		s.updateCounter.Add(ctx, 1)
	}
}

func applyUpdate(pool domain.TwoTokenPool, upd reserveUpdate) domain.TwoTokenPool {
	pool.Reserve0 = upd.Reserve0
	pool.Reserve1 = upd.Reserve1
	if upd.ReserveUSD > 0 {
		pool.ReserveUSD = upd.ReserveUSD
	}
	return pool
}
