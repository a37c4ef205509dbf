package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// An explicit missing path keeps the loader off any config.yaml in
	// the working directory.
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Detection.MinProfitThreshold != 0.005 {
		t.Errorf("min profit = %v, want 0.005", cfg.Detection.MinProfitThreshold)
	}
	if cfg.Detection.GasCostPctCross != 0.001 || cfg.Detection.GasCostPctTriangular != 0.002 {
		t.Errorf("gas constants = %v / %v", cfg.Detection.GasCostPctCross, cfg.Detection.GasCostPctTriangular)
	}
	if cfg.Detection.Interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s", cfg.Detection.Interval)
	}
	if cfg.Detection.TopN != 10 {
		t.Errorf("top_n = %d, want 10", cfg.Detection.TopN)
	}
	if cfg.Validation.MinLiquidityUSD != 100000 {
		t.Errorf("min liquidity = %v, want 100000", cfg.Validation.MinLiquidityUSD)
	}
	if cfg.Validation.MaxConcurrency != 8 {
		t.Errorf("max concurrency = %d, want 8", cfg.Validation.MaxConcurrency)
	}
	if cfg.Networks.DefaultLatencyMS != 2000 || cfg.Networks.BridgeOverheadMS != 15000 {
		t.Errorf("latency defaults = %d / %d", cfg.Networks.DefaultLatencyMS, cfg.Networks.BridgeOverheadMS)
	}
	if cfg.Gas.Enabled {
		t.Error("gas oracle enabled by default")
	}
	if cfg.API.Port != 8080 || cfg.API.HealthPort != 8081 {
		t.Errorf("api ports = %d / %d", cfg.API.Port, cfg.API.HealthPort)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
detection:
  min_profit_threshold: 0.01
  interval: 45s
collector:
  endpoints:
    uniswap_polygon: https://example.test/uniswap
    curve_base: https://example.test/curve
networks:
  latency_ms:
    polygon: 1800
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Detection.MinProfitThreshold != 0.01 {
		t.Errorf("min profit = %v, want 0.01", cfg.Detection.MinProfitThreshold)
	}
	if cfg.Detection.Interval != 45*time.Second {
		t.Errorf("interval = %v, want 45s", cfg.Detection.Interval)
	}
	if got := cfg.Collector.Endpoints["uniswap_polygon"]; got != "https://example.test/uniswap" {
		t.Errorf("endpoint = %q", got)
	}
	if cfg.Networks.Latency("polygon") != 1800 {
		t.Errorf("polygon latency = %d, want 1800", cfg.Networks.Latency("polygon"))
	}
	if cfg.Networks.Latency("unknown-chain") != cfg.Networks.DefaultLatencyMS {
		t.Errorf("unknown network latency = %d, want default", cfg.Networks.Latency("unknown-chain"))
	}
	// Untouched sections keep their defaults.
	if cfg.Validation.LookupTimeout != 5*time.Second {
		t.Errorf("lookup timeout = %v, want default 5s", cfg.Validation.LookupTimeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ARB_MIN_PROFIT_THRESHOLD", "0.02")
	t.Setenv("ARB_MIN_LIQUIDITY_THRESHOLD", "250000")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Detection.MinProfitThreshold != 0.02 {
		t.Errorf("min profit = %v, want env override 0.02", cfg.Detection.MinProfitThreshold)
	}
	if cfg.Validation.MinLiquidityUSD != 250000 {
		t.Errorf("min liquidity = %v, want env override 250000", cfg.Validation.MinLiquidityUSD)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative min profit", func(c *Config) { c.Detection.MinProfitThreshold = -0.01 }},
		{"zero interval", func(c *Config) { c.Detection.Interval = 0 }},
		{"negative liquidity", func(c *Config) { c.Validation.MinLiquidityUSD = -1 }},
		{"zero concurrency", func(c *Config) { c.Validation.MaxConcurrency = 0 }},
		{"zero lookup timeout", func(c *Config) { c.Validation.LookupTimeout = 0 }},
		{"gas enabled without rpc url", func(c *Config) { c.Gas.Enabled = true; c.Gas.RPCURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, ""))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() accepted a bad config")
			}
		})
	}
}

func TestMinProfitDecimal(t *testing.T) {
	cfg := DetectionConfig{MinProfitThreshold: 0.005}
	if got := cfg.MinProfitDecimal().String(); got != "0.005" {
		t.Errorf("decimal = %s, want 0.005", got)
	}
}

// writeConfig writes a temp yaml config and returns its path.
func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
