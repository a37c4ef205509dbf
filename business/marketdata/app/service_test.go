package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/business/marketdata/infra/memory"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

type stubSource struct {
	pools map[domain.VenueKey][]domain.PoolRecord
	err   error
}

func (s *stubSource) GetAllPools(ctx context.Context) (map[domain.VenueKey][]domain.PoolRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pools, nil
}

func (s *stubSource) GetPoolDetails(ctx context.Context, key domain.VenueKey, poolID string) (domain.PoolRecord, error) {
	for _, p := range s.pools[key] {
		if p.PoolID() == poolID {
			return p, nil
		}
	}
	return nil, apperror.New(apperror.CodePoolNotFound)
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestSnapshotServiceCurrentBeforeRefresh(t *testing.T) {
	svc := NewSnapshotService(&stubSource{}, time.Minute, testLogger())

	_, err := svc.Current()
	if !apperror.HasCode(err, apperror.CodeSnapshotUnavailable) {
		t.Fatalf("expected SNAPSHOT_UNAVAILABLE, got %v", err)
	}
}

func TestSnapshotServiceRefreshPublishesNewVersion(t *testing.T) {
	key := domain.VenueKey{Venue: "uniswap", Network: "polygon"}
	source := &stubSource{
		pools: map[domain.VenueKey][]domain.PoolRecord{
			key: {domain.TwoTokenPool{ID: "0xaaa", Token0: "WETH", Token1: "USDC", Reserve0: 100, Reserve1: 200000}},
		},
	}
	svc := NewSnapshotService(source, time.Minute, testLogger())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	first, err := svc.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if first.Version != 1 || first.PoolCount() != 1 {
		t.Errorf("got version %d with %d pools, want version 1 with 1 pool", first.Version, first.PoolCount())
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	second, _ := svc.Current()
	if second.Version != 2 {
		t.Errorf("got version %d, want 2", second.Version)
	}
	// The first handle must stay intact after the swap.
	if first.Version != 1 {
		t.Errorf("previous snapshot mutated, version = %d", first.Version)
	}
}

func TestSnapshotServiceFailedRefreshKeepsPrevious(t *testing.T) {
	key := domain.VenueKey{Venue: "uniswap", Network: "polygon"}
	source := &stubSource{
		pools: map[domain.VenueKey][]domain.PoolRecord{
			key: {domain.TwoTokenPool{ID: "0xaaa"}},
		},
	}
	svc := NewSnapshotService(source, time.Minute, testLogger())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	source.err = errors.New("endpoint down")
	err := svc.Refresh(context.Background())
	if !apperror.HasCode(err, apperror.CodeSnapshotUnavailable) {
		t.Fatalf("expected SNAPSHOT_UNAVAILABLE, got %v", err)
	}

	snap, err := svc.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if snap.Version != 1 {
		t.Errorf("got version %d, want the surviving version 1", snap.Version)
	}
}

func TestSnapshotServiceOverMemorySource(t *testing.T) {
	key := domain.VenueKey{Venue: "uniswap", Network: "polygon"}
	source := memory.NewSource(map[domain.VenueKey][]domain.PoolRecord{
		key: {domain.TwoTokenPool{ID: "0xaaa", Token0: "WETH", Token1: "USDC", Reserve0: 100, Reserve1: 200000, ReserveUSD: 400000}},
	})
	svc := NewSnapshotService(source, time.Minute, testLogger())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	first, err := svc.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	// Swapping the source's pool set must not disturb the published snapshot.
	source.SetPools(key, []domain.PoolRecord{
		domain.TwoTokenPool{ID: "0xbbb", Token0: "WETH", Token1: "DAI", Reserve0: 50, Reserve1: 101000, ReserveUSD: 250000},
	})
	if _, ok := first.Lookup(key, "0xaaa"); !ok {
		t.Fatal("published snapshot lost its pool after SetPools")
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	second, _ := svc.Current()
	if _, ok := second.Lookup(key, "0xbbb"); !ok {
		t.Fatal("new snapshot missing the replacement pool")
	}

	// Validation lookups bypass the snapshot and hit the source.
	record, err := svc.PoolDetails(context.Background(), key, "0xbbb")
	if err != nil {
		t.Fatalf("PoolDetails() error = %v", err)
	}
	if record.LiquidityUSD() != 250000 {
		t.Errorf("got liquidity %v, want 250000", record.LiquidityUSD())
	}

	_, err = svc.PoolDetails(context.Background(), key, "0xaaa")
	if !apperror.HasCode(err, apperror.CodePoolNotFound) {
		t.Fatalf("expected POOL_NOT_FOUND for the removed pool, got %v", err)
	}
}
