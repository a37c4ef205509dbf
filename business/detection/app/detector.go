package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

// DetectionConfig tunes the cycle driver.
type DetectionConfig struct {
	Interval     time.Duration
	RetryBackoff time.Duration
	MinProfit    float64
	TopN         int
}

type detectionMetrics struct {
	cycles        metric.Int64Counter
	opportunities metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

// DetectionService drives the detection cycle: snapshot in, both
// scanners run concurrently over it, results merged, ranked, published,
// and handed to reporters. Cycles never overlap and a cycle inside the
// cadence window is a no-op.
type DetectionService struct {
	snapshots SnapshotProvider
	cross     *CrossVenueScanner
	tri       *TriangularScanner
	reporters []Reporter
	cfg       DetectionConfig
	log       logger.LoggerInterface

	mu       sync.Mutex
	lastRun  time.Time
	inFlight bool

	repMu sync.RWMutex

	pubMu     sync.RWMutex
	published []domain.Opportunity

	tracer  trace.Tracer
	metrics detectionMetrics
}

// NewDetectionService wires the cycle driver.
func NewDetectionService(
	snapshots SnapshotProvider,
	cross *CrossVenueScanner,
	tri *TriangularScanner,
	reporters []Reporter,
	cfg DetectionConfig,
	log logger.LoggerInterface,
) *DetectionService {
	s := &DetectionService{
		snapshots: snapshots,
		cross:     cross,
		tri:       tri,
		reporters: reporters,
		cfg:       cfg,
		log:       log,
		tracer:    otel.Tracer("detection"),
	}

	meter := otel.Meter("detection")
	if c, err := meter.Int64Counter("detection_cycles_total",
		metric.WithDescription("Detection cycles by outcome"),
	); err == nil {
		s.metrics.cycles = c
	}
	if c, err := meter.Int64Counter("detection_opportunities_total",
		metric.WithDescription("Opportunities found by kind"),
	); err == nil {
		s.metrics.opportunities = c
	}
	if h, err := meter.Float64Histogram("detection_cycle_duration_seconds",
		metric.WithDescription("Wall time of a full detection cycle"),
	); err == nil {
		s.metrics.cycleDuration = h
	}

	return s
}

// RegisterReporter adds a reporter after construction. Used by the
// validation pipeline, which hooks in during its own startup.
func (s *DetectionService) RegisterReporter(r Reporter) {
	s.repMu.Lock()
	defer s.repMu.Unlock()
	s.reporters = append(s.reporters, r)
}

// DetectOpportunities runs one detection cycle. A call arriving before
// the cadence window has elapsed returns immediately without scanning.
// Cancellation mid-cycle discards the partial results; the previously
// published list stays in place.
func (s *DetectionService) DetectOpportunities(ctx context.Context) error {
	s.mu.Lock()
	start := time.Now()
	if s.inFlight || start.Sub(s.lastRun) < s.cfg.Interval {
		s.mu.Unlock()
		s.log.Debug(ctx, "skipping detection, not enough time since last cycle")
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	ctx, span := s.tracer.Start(ctx, "detection.cycle")
	defer span.End()

	snap, err := s.snapshots.Current()
	if err != nil {
		s.countCycle(ctx, "no_snapshot")
		span.SetStatus(codes.Error, "snapshot unavailable")
		return err
	}
	span.SetAttributes(
		attribute.Int64("snapshot.version", int64(snap.Version)),
		attribute.Int("snapshot.pools", snap.PoolCount()),
	)

	// The scanners read the same immutable snapshot and write to
	// disjoint buffers, so they run as independent tasks.
	var crossOut, triOut []domain.Opportunity
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		crossOut = s.cross.Scan(ExtractPairEdges(snap.Pools))
		return nil
	})
	g.Go(func() error {
		for _, key := range sortedVenueKeys(snap.Pools) {
			if err := gctx.Err(); err != nil {
				return err
			}
			triOut = append(triOut, s.tri.Scan(key, snap.Pools[key])...)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.countCycle(ctx, "cancelled")
		span.SetStatus(codes.Error, "cycle abandoned")
		return apperror.Wrap(err, apperror.CodeScanFailed, "detection cycle abandoned")
	}

	merged := make([]domain.Opportunity, 0, len(crossOut)+len(triOut))
	merged = append(merged, crossOut...)
	merged = append(merged, triOut...)

	s.pubMu.Lock()
	s.published = merged
	s.pubMu.Unlock()

	s.mu.Lock()
	s.lastRun = start
	s.mu.Unlock()

	s.countCycle(ctx, "ok")
	if s.metrics.opportunities != nil {
		s.metrics.opportunities.Add(ctx, int64(len(crossOut)),
			metric.WithAttributes(attribute.String("kind", string(domain.KindCrossVenue))))
		s.metrics.opportunities.Add(ctx, int64(len(triOut)),
			metric.WithAttributes(attribute.String("kind", string(domain.KindTriangular))))
	}
	if s.metrics.cycleDuration != nil {
		s.metrics.cycleDuration.Record(ctx, time.Since(start).Seconds())
	}

	s.log.Info(ctx, "detection cycle completed",
		"cross_venue", len(crossOut),
		"triangular", len(triOut),
		"snapshot_version", snap.Version,
	)

	ranked := TopN(merged, s.cfg.MinProfit, s.cfg.TopN)
	s.repMu.RLock()
	reporters := append([]Reporter(nil), s.reporters...)
	s.repMu.RUnlock()
	for _, r := range reporters {
		if err := r.Report(ctx, ranked); err != nil {
			s.log.Warn(ctx, "opportunity reporter failed", "error", err)
		}
	}

	span.SetStatus(codes.Ok, "completed")
	return nil
}

// Run executes detection on the configured cadence until ctx ends.
// Transient failures back off briefly and leave the previous results
// published.
func (s *DetectionService) Run(ctx context.Context) {
	for {
		if err := s.DetectOpportunities(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn(ctx, "detection cycle failed, backing off", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.cfg.RetryBackoff):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.nextDelay()):
		}
	}
}

// nextDelay returns how long until the cadence window reopens.
func (s *DetectionService) nextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.cfg.Interval - time.Since(s.lastRun)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return remaining
}

// Opportunities returns the list published by the last completed cycle.
func (s *DetectionService) Opportunities() []domain.Opportunity {
	s.pubMu.RLock()
	defer s.pubMu.RUnlock()
	return append([]domain.Opportunity(nil), s.published...)
}

// BestOpportunities returns the published list filtered and ranked.
func (s *DetectionService) BestOpportunities(minProfit float64, limit int) []domain.Opportunity {
	return TopN(s.Opportunities(), minProfit, limit)
}

func (s *DetectionService) countCycle(ctx context.Context, outcome string) {
	if s.metrics.cycles == nil {
		return
	}
	s.metrics.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
