package app

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

// SnapshotService maintains the current pool snapshot. Refreshes build a
// fresh immutable snapshot from the source and publish it with an atomic
// pointer swap, so a scan reading the previous snapshot is never blocked
// and never observes a half-written one.
type SnapshotService struct {
	source   PoolSource
	log      logger.LoggerInterface
	interval time.Duration

	current atomic.Pointer[domain.Snapshot]
	version atomic.Uint64

	refreshCounter metric.Int64Counter
	poolGauge      metric.Int64Gauge
}

// NewSnapshotService creates a SnapshotService refreshing at the given interval.
func NewSnapshotService(source PoolSource, interval time.Duration, log logger.LoggerInterface) *SnapshotService {
	s := &SnapshotService{
		source:   source,
		log:      log,
		interval: interval,
	}

	meter := otel.Meter("marketdata")
	if c, err := meter.Int64Counter("marketdata_snapshot_refreshes_total",
		metric.WithDescription("Snapshot refresh attempts by outcome"),
	); err == nil {
		s.refreshCounter = c
	}
	if g, err := meter.Int64Gauge("marketdata_pool_count",
		metric.WithDescription("Pools in the current snapshot"),
	); err == nil {
		s.poolGauge = g
	}

	return s
}

// Current returns the latest published snapshot.
func (s *SnapshotService) Current() (*domain.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperror.New(apperror.CodeSnapshotUnavailable)
	}
	return snap, nil
}

// Refresh fetches all pools from the source and publishes a new snapshot.
func (s *SnapshotService) Refresh(ctx context.Context) error {
	pools, err := s.source.GetAllPools(ctx)
	if err != nil {
		s.count(ctx, "error")
		return apperror.Wrap(err, apperror.CodeSnapshotUnavailable, "refreshing pool snapshot")
	}

	snap := &domain.Snapshot{
		Version: s.version.Add(1),
		Taken:   time.Now(),
		Pools:   pools,
	}
	s.current.Store(snap)
	s.count(ctx, "ok")
	if s.poolGauge != nil {
		s.poolGauge.Record(ctx, int64(snap.PoolCount()))
	}

	s.log.Debug(ctx, "snapshot refreshed",
		"version", snap.Version,
		"pools", snap.PoolCount(),
		"venues", len(snap.Pools),
	)
	return nil
}

// Run refreshes on the configured cadence until ctx is cancelled. A failed
// refresh keeps the previous snapshot and retries on the next tick.
func (s *SnapshotService) Run(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "initial snapshot refresh failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.log.Warn(ctx, "snapshot refresh failed, keeping previous", "error", err)
			}
		}
	}
}

// PoolDetails fetches live details for one pool, for validation lookups.
func (s *SnapshotService) PoolDetails(ctx context.Context, key domain.VenueKey, poolID string) (domain.PoolRecord, error) {
	return s.source.GetPoolDetails(ctx, key, poolID)
}

func (s *SnapshotService) count(ctx context.Context, outcome string) {
	if s.refreshCounter == nil {
		return
	}
	s.refreshCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
