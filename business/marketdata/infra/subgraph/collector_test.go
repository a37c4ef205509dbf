package subgraph

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
	"github.com/DappGoose-Labs/arbagent/internal/apperror"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

const pairsResponse = `{
  "data": {
    "pairs": [
      {
        "id": "0xaaa",
        "token0": {"symbol": "WETH"},
        "token1": {"symbol": "USDC"},
        "reserve0": "100.5",
        "reserve1": "201000.25",
        "reserveUSD": "402000.5"
      }
    ]
  }
}`

const poolsResponse = `{
  "data": {
    "pools": [
      {
        "id": "0xbbb",
        "coins": [{"symbol": "DAI"}, {"symbol": "USDC"}, {"symbol": "USDT"}],
        "balances": ["1000000", "999000", "1001000"],
        "reserveUSD": "3000000"
      }
    ]
  }
}`

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func graphServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(string(body), "pairs("):
			io.WriteString(w, pairsResponse)
		case strings.Contains(string(body), "pools("):
			io.WriteString(w, poolsResponse)
		default:
			io.WriteString(w, `{"data": {}}`)
		}
	}))
}

func TestCollectorGetAllPools(t *testing.T) {
	server := graphServer(t)
	defer server.Close()

	collector, err := New(map[string]string{"curve_polygon": server.URL}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pools, err := collector.GetAllPools(context.Background())
	if err != nil {
		t.Fatalf("GetAllPools() error = %v", err)
	}

	key := domain.VenueKey{Venue: "curve", Network: "polygon"}
	group := pools[key]
	if len(group) != 2 {
		t.Fatalf("got %d pools, want 2", len(group))
	}

	pair, ok := group[0].(domain.TwoTokenPool)
	if !ok {
		t.Fatalf("first record is %T, want TwoTokenPool", group[0])
	}
	if pair.Token0 != "WETH" || pair.Token1 != "USDC" {
		t.Errorf("got pair %s/%s, want WETH/USDC", pair.Token0, pair.Token1)
	}
	if pair.Reserve0 != 100.5 {
		t.Errorf("Reserve0 = %v, want 100.5", pair.Reserve0)
	}
	if pair.FeePct != 0.0004 {
		t.Errorf("FeePct = %v, want the curve fee 0.0004", pair.FeePct)
	}

	stable, ok := group[1].(domain.MultiTokenPool)
	if !ok {
		t.Fatalf("second record is %T, want MultiTokenPool", group[1])
	}
	if len(stable.Tokens) != 3 || stable.Tokens[2] != "USDT" {
		t.Errorf("unexpected stable pool tokens %v", stable.Tokens)
	}
}

func TestCollectorEndpointFailureSkipsVenue(t *testing.T) {
	good := graphServer(t)
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	collector, err := New(map[string]string{
		"uniswap_polygon": good.URL,
		"sushiswap_base":  bad.URL,
	}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pools, err := collector.GetAllPools(context.Background())
	if err != nil {
		t.Fatalf("GetAllPools() error = %v", err)
	}
	if _, ok := pools[domain.VenueKey{Venue: "uniswap", Network: "polygon"}]; !ok {
		t.Error("expected the healthy venue to be present")
	}
	if _, ok := pools[domain.VenueKey{Venue: "sushiswap", Network: "base"}]; ok {
		t.Error("expected the failing venue to be skipped")
	}
}

func TestCollectorGetPoolDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {"pair": null, "pool": null}}`)
	}))
	defer server.Close()

	collector, err := New(map[string]string{"uniswap_polygon": server.URL}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	key := domain.VenueKey{Venue: "uniswap", Network: "polygon"}
	_, err = collector.GetPoolDetails(context.Background(), key, "0xmissing")
	if !apperror.HasCode(err, apperror.CodePoolNotFound) {
		t.Fatalf("expected POOL_NOT_FOUND, got %v", err)
	}

	_, err = collector.GetPoolDetails(context.Background(), domain.VenueKey{Venue: "x", Network: "y"}, "0xaaa")
	if !apperror.HasCode(err, apperror.CodePoolNotFound) {
		t.Fatalf("expected POOL_NOT_FOUND for unknown endpoint, got %v", err)
	}
}

func TestVenueFee(t *testing.T) {
	if got := VenueFee("Curve"); got != 0.0004 {
		t.Errorf("VenueFee(Curve) = %v, want 0.0004", got)
	}
	if got := VenueFee("unknown-dex"); got != defaultVenueFee {
		t.Errorf("VenueFee(unknown-dex) = %v, want default %v", got, defaultVenueFee)
	}
}
