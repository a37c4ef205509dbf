package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTwoTokenPoolPrice(t *testing.T) {
	tests := []struct {
		name        string
		pool        TwoTokenPool
		wantPrice   float64
		wantReverse float64
	}{
		{
			name:        "normal reserves",
			pool:        TwoTokenPool{Reserve0: 100, Reserve1: 200000},
			wantPrice:   2000,
			wantReverse: 0.0005,
		},
		{
			name:        "zero reserve0 yields zero price",
			pool:        TwoTokenPool{Reserve0: 0, Reserve1: 200000},
			wantPrice:   0,
			wantReverse: 0,
		},
		{
			name:        "zero reserve1 yields zero reverse",
			pool:        TwoTokenPool{Reserve0: 100, Reserve1: 0},
			wantPrice:   0,
			wantReverse: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pool.Price(); !almostEqual(got, tt.wantPrice) {
				t.Errorf("Price() = %v, want %v", got, tt.wantPrice)
			}
			if got := tt.pool.ReversePrice(); !almostEqual(got, tt.wantReverse) {
				t.Errorf("ReversePrice() = %v, want %v", got, tt.wantReverse)
			}
		})
	}
}

func TestMultiTokenPoolPairPrice(t *testing.T) {
	pool := MultiTokenPool{
		Tokens:   []Token{"DAI", "USDC", "USDT"},
		Balances: []float64{1000000, 999000, 0},
	}

	tests := []struct {
		name string
		i, j int
		want float64
	}{
		{"forward ratio", 0, 1, 0.999},
		{"zero balance denominator", 2, 0, 0},
		{"index out of range", 0, 5, 0},
		{"negative index", -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pool.PairPrice(tt.i, tt.j); !almostEqual(got, tt.want) {
				t.Errorf("PairPrice(%d, %d) = %v, want %v", tt.i, tt.j, got, tt.want)
			}
		})
	}
}

func TestSnapshotLookup(t *testing.T) {
	key := VenueKey{Venue: "uniswap", Network: "polygon"}
	snap := &Snapshot{
		Pools: map[VenueKey][]PoolRecord{
			key: {
				TwoTokenPool{ID: "0xaaa", Token0: "WETH", Token1: "USDC"},
				MultiTokenPool{ID: "0xbbb", Tokens: []Token{"DAI", "USDC", "USDT"}},
			},
		},
	}

	if _, ok := snap.Lookup(key, "0xbbb"); !ok {
		t.Error("expected to find pool 0xbbb")
	}
	if _, ok := snap.Lookup(key, "0xccc"); ok {
		t.Error("did not expect to find pool 0xccc")
	}
	if _, ok := snap.Lookup(VenueKey{Venue: "curve", Network: "base"}, "0xaaa"); ok {
		t.Error("did not expect a hit on an unknown venue")
	}
	if got := snap.PoolCount(); got != 2 {
		t.Errorf("PoolCount() = %d, want 2", got)
	}
}
