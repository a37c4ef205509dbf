package app

import (
	"testing"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

var venuePolygon = marketdomain.VenueKey{Venue: "uniswap", Network: "polygon"}

// triangle builds WETH/USDC, USDC/DAI, DAI/WETH pools where the DAI/WETH
// reserve ratio sets the closing leg price to 1/daiPerWeth.
func triangle(daiPerWeth float64) []marketdomain.PoolRecord {
	return []marketdomain.PoolRecord{
		marketdomain.TwoTokenPool{
			ID: "0xa1", Token0: "WETH", Token1: "USDC",
			Reserve0: 100, Reserve1: 200000, ReserveUSD: 400000,
		},
		marketdomain.TwoTokenPool{
			ID: "0xa2", Token0: "USDC", Token1: "DAI",
			Reserve0: 1000000, Reserve1: 1001000, ReserveUSD: 2000000,
		},
		marketdomain.TwoTokenPool{
			ID: "0xa3", Token0: "DAI", Token1: "WETH",
			Reserve0: 1000 * daiPerWeth, Reserve1: 1000, ReserveUSD: 4000000,
		},
	}
}

func TestTriangularScanProfitableCycleRotations(t *testing.T) {
	// 2000 * 1.001 * (1/1990) ≈ 1.00603: profitable before the reverse
	// orientation is considered. Every rotation of the cycle is emitted
	// separately, so one economic cycle yields exactly three entries.
	scanner := NewTriangularScanner(0.005, 0)
	out := scanner.Scan(venuePolygon, triangle(1990))

	if len(out) != 3 {
		t.Fatalf("got %d opportunities, want 3 rotations of the one cycle", len(out))
	}

	wantRate := 2000.0 * 1.001 * (1.0 / 1990.0)
	starts := map[marketdomain.Token]bool{}
	for _, opp := range out {
		if opp.Kind != domain.KindTriangular {
			t.Fatalf("kind = %s, want triangular", opp.Kind)
		}
		tr := opp.Triangular
		if !almostEqual(tr.RoundTripRate, wantRate) {
			t.Errorf("round_trip_rate = %v, want %v", tr.RoundTripRate, wantRate)
		}
		if !almostEqual(opp.NetProfitPct, wantRate-1) {
			t.Errorf("net_profit_pct = %v, want %v", opp.NetProfitPct, wantRate-1)
		}
		starts[tr.TokenA] = true
	}
	if len(starts) != 3 {
		t.Errorf("rotations start at %d distinct tokens, want 3", len(starts))
	}
}

func TestTriangularScanUnprofitableCycle(t *testing.T) {
	// 2000 * 1.001 * (1/2005) ≈ 0.99975: the round trip loses money, so
	// nothing is emitted even at a zero threshold.
	scanner := NewTriangularScanner(0, 0)
	if out := scanner.Scan(venuePolygon, triangle(2005)); len(out) != 0 {
		t.Errorf("got %d opportunities, want 0", len(out))
	}
}

func TestTriangularScanFeesSubtract(t *testing.T) {
	pools := triangle(1990)
	for i, p := range pools {
		pool := p.(marketdomain.TwoTokenPool)
		pool.FeePct = 0.003
		pools[i] = pool
	}

	// Net = rate - 1 - 3*0.003 - 0.002 ≈ 0.00603 - 0.011 < 0.
	scanner := NewTriangularScanner(0.005, 0.002)
	if out := scanner.Scan(venuePolygon, pools); len(out) != 0 {
		t.Errorf("got %d opportunities after fees, want 0", len(out))
	}
}

func TestTriangularScanFewerThanThreePools(t *testing.T) {
	pools := triangle(1990)[:2]
	scanner := NewTriangularScanner(0, 0)
	if out := scanner.Scan(venuePolygon, pools); out != nil {
		t.Errorf("got %d opportunities from 2 pools, want none", len(out))
	}
}

func TestTriangularScanDeterministicOrder(t *testing.T) {
	scanner := NewTriangularScanner(0.005, 0)
	first := scanner.Scan(venuePolygon, triangle(1990))
	second := scanner.Scan(venuePolygon, triangle(1990))

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Triangular.TokenA != second[i].Triangular.TokenA {
			t.Errorf("position %d starts at %s then %s; enumeration must be stable",
				i, first[i].Triangular.TokenA, second[i].Triangular.TokenA)
		}
	}
}
