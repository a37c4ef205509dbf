package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

type stubSnapshots struct {
	snap *marketdomain.Snapshot
	err  error
}

func (s *stubSnapshots) Current() (*marketdomain.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

type recordingReporter struct {
	calls   int
	lastLen int
}

func (r *recordingReporter) Report(ctx context.Context, opps []domain.Opportunity) error {
	r.calls++
	r.lastLen = len(opps)
	return nil
}

func detectionFixture() *marketdomain.Snapshot {
	keyX := marketdomain.VenueKey{Venue: "uniswap", Network: "polygon"}
	keyY := marketdomain.VenueKey{Venue: "sushiswap", Network: "base"}
	return &marketdomain.Snapshot{
		Version: 1,
		Taken:   time.Now(),
		Pools: map[marketdomain.VenueKey][]marketdomain.PoolRecord{
			keyX: triangle(1990),
			keyY: {
				marketdomain.TwoTokenPool{
					ID: "0xb1", Token0: "WETH", Token1: "USDC",
					Reserve0: 50, Reserve1: 102500, ReserveUSD: 205000,
				},
			},
		},
	}
}

func newTestService(snaps SnapshotProvider, rep Reporter, interval time.Duration) *DetectionService {
	return NewDetectionService(
		snaps,
		NewCrossVenueScanner(0.005, 0),
		NewTriangularScanner(0.005, 0),
		[]Reporter{rep},
		DetectionConfig{Interval: interval, RetryBackoff: time.Millisecond, MinProfit: 0.005, TopN: 10},
		logger.New(io.Discard, logger.LevelError, "test", nil),
	)
}

func TestDetectOpportunitiesPublishesMergedResults(t *testing.T) {
	rep := &recordingReporter{}
	svc := newTestService(&stubSnapshots{snap: detectionFixture()}, rep, time.Hour)

	if err := svc.DetectOpportunities(context.Background()); err != nil {
		t.Fatalf("DetectOpportunities() error = %v", err)
	}

	// One cross-venue spread (2000 vs 2050) plus three rotations of the
	// profitable triangle.
	opps := svc.Opportunities()
	if len(opps) != 4 {
		t.Fatalf("published %d opportunities, want 4", len(opps))
	}
	if rep.calls != 1 || rep.lastLen != 4 {
		t.Errorf("reporter calls=%d lastLen=%d, want 1 call with 4 entries", rep.calls, rep.lastLen)
	}

	best := svc.BestOpportunities(0.005, 1)
	if len(best) != 1 {
		t.Fatalf("BestOpportunities returned %d, want 1", len(best))
	}
	if best[0].Kind != domain.KindCrossVenue {
		t.Errorf("top kind = %s, want the 2.5%% cross-venue spread", best[0].Kind)
	}
}

func TestDetectOpportunitiesCadenceGate(t *testing.T) {
	rep := &recordingReporter{}
	svc := newTestService(&stubSnapshots{snap: detectionFixture()}, rep, time.Hour)

	if err := svc.DetectOpportunities(context.Background()); err != nil {
		t.Fatalf("first cycle error = %v", err)
	}
	// Within the window the call is a no-op, not an error and not a queue.
	if err := svc.DetectOpportunities(context.Background()); err != nil {
		t.Fatalf("gated cycle error = %v", err)
	}
	if rep.calls != 1 {
		t.Errorf("reporter called %d times, want 1", rep.calls)
	}
}

func TestDetectOpportunitiesSnapshotUnavailable(t *testing.T) {
	rep := &recordingReporter{}
	svc := newTestService(&stubSnapshots{err: apperror.New(apperror.CodeSnapshotUnavailable)}, rep, time.Millisecond)

	err := svc.DetectOpportunities(context.Background())
	if !apperror.HasCode(err, apperror.CodeSnapshotUnavailable) {
		t.Fatalf("expected SNAPSHOT_UNAVAILABLE, got %v", err)
	}
	if rep.calls != 0 {
		t.Errorf("reporter called %d times on a failed cycle, want 0", rep.calls)
	}
}

func TestDetectOpportunitiesCancellationDiscardsResults(t *testing.T) {
	rep := &recordingReporter{}
	svc := newTestService(&stubSnapshots{snap: detectionFixture()}, rep, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.DetectOpportunities(ctx); err == nil {
		t.Fatal("expected an error from a cancelled cycle")
	}
	if got := svc.Opportunities(); len(got) != 0 {
		t.Errorf("partial results published after cancellation: %d entries", len(got))
	}
	if rep.calls != 0 {
		t.Errorf("reporter called %d times after cancellation, want 0", rep.calls)
	}

	// The next cycle with a live context succeeds and publishes.
	time.Sleep(2 * time.Millisecond)
	if err := svc.DetectOpportunities(context.Background()); err != nil {
		t.Fatalf("follow-up cycle error = %v", err)
	}
	if len(svc.Opportunities()) != 4 {
		t.Errorf("follow-up cycle published %d, want 4", len(svc.Opportunities()))
	}
}
