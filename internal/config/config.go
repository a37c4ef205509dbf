// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Collector  CollectorConfig  `mapstructure:"collector"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Validation ValidationConfig `mapstructure:"validation"`
	Networks   NetworksConfig   `mapstructure:"networks"`
	Gas        GasConfig        `mapstructure:"gas"`
	API        APIConfig        `mapstructure:"api"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// CollectorConfig holds pool snapshot collection settings.
type CollectorConfig struct {
	// Subgraph endpoints keyed "<venue>_<network>".
	Endpoints       map[string]string `mapstructure:"endpoints"`
	RefreshInterval time.Duration     `mapstructure:"refresh_interval"`
	FetchTimeout    time.Duration     `mapstructure:"fetch_timeout"`
	StreamURL       string            `mapstructure:"stream_url"`
	StreamEnabled   bool              `mapstructure:"stream_enabled"`
}

// DetectionConfig holds opportunity detection settings.
type DetectionConfig struct {
	MinProfitThreshold   float64       `mapstructure:"min_profit_threshold"`
	GasCostPctCross      float64       `mapstructure:"gas_cost_pct_cross"`
	GasCostPctTriangular float64       `mapstructure:"gas_cost_pct_triangular"`
	Interval             time.Duration `mapstructure:"interval"`
	RetryBackoff         time.Duration `mapstructure:"retry_backoff"`
	TopN                 int           `mapstructure:"top_n"`
	// JSONExportPath, when set, appends each cycle's ranked list to a
	// newline-delimited JSON file.
	JSONExportPath string `mapstructure:"json_export_path"`
}

// ValidationConfig holds opportunity validation settings.
type ValidationConfig struct {
	MinLiquidityUSD   float64       `mapstructure:"min_liquidity_usd"`
	LookupTimeout     time.Duration `mapstructure:"lookup_timeout"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	LookupsPerMinute  int           `mapstructure:"lookups_per_minute"`
	LookupCacheTTL    time.Duration `mapstructure:"lookup_cache_ttl"`
	LookupCacheSize   int           `mapstructure:"lookup_cache_size"`
}

// NetworksConfig holds per-network execution latency settings.
type NetworksConfig struct {
	// LatencyMS maps network id to expected per-leg execution latency.
	LatencyMS        map[string]int64 `mapstructure:"latency_ms"`
	DefaultLatencyMS int64            `mapstructure:"default_latency_ms"`
	BridgeOverheadMS int64            `mapstructure:"bridge_overhead_ms"`
}

// GasConfig holds gas oracle settings.
type GasConfig struct {
	RPCURL   string        `mapstructure:"rpc_url"`
	Enabled  bool          `mapstructure:"enabled"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// APIConfig holds the inspection API and health server settings.
type APIConfig struct {
	Port       int `mapstructure:"port"`
	HealthPort int `mapstructure:"health_port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// MinProfitDecimal returns the minimum profit threshold as decimal.Decimal.
func (c *DetectionConfig) MinProfitDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitThreshold)
}

// MinLiquidityDecimal returns the liquidity threshold as decimal.Decimal.
func (c *ValidationConfig) MinLiquidityDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinLiquidityUSD)
}

// Latency returns the per-leg latency for a network, falling back to the default.
func (c *NetworksConfig) Latency(network string) int64 {
	if ms, ok := c.LatencyMS[network]; ok {
		return ms
	}
	return c.DefaultLatencyMS
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Collector
	v.BindEnv("collector.refresh_interval", "ARB_COLLECTOR_REFRESH_INTERVAL")
	v.BindEnv("collector.stream_url", "ARB_COLLECTOR_STREAM_URL")
	v.BindEnv("collector.stream_enabled", "ARB_COLLECTOR_STREAM_ENABLED")

	// Detection
	v.BindEnv("detection.min_profit_threshold", "ARB_MIN_PROFIT_THRESHOLD", "MIN_PROFIT_THRESHOLD")
	v.BindEnv("detection.gas_cost_pct_cross", "ARB_GAS_COST_PCT_CROSS")
	v.BindEnv("detection.gas_cost_pct_triangular", "ARB_GAS_COST_PCT_TRIANGULAR")
	v.BindEnv("detection.interval", "ARB_DETECTION_INTERVAL")

	// Validation
	v.BindEnv("validation.min_liquidity_usd", "ARB_MIN_LIQUIDITY_THRESHOLD", "MIN_LIQUIDITY_THRESHOLD")
	v.BindEnv("validation.lookup_timeout", "ARB_LOOKUP_TIMEOUT")
	v.BindEnv("validation.max_concurrency", "ARB_VALIDATION_CONCURRENCY")

	// Gas
	v.BindEnv("gas.rpc_url", "ARB_GAS_RPC_URL", "ETH_RPC_URL")
	v.BindEnv("gas.enabled", "ARB_GAS_ORACLE_ENABLED")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arbagent")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Collector defaults
	v.SetDefault("collector.refresh_interval", "60s")
	v.SetDefault("collector.fetch_timeout", "10s")
	v.SetDefault("collector.stream_enabled", false)

	// Detection defaults
	v.SetDefault("detection.min_profit_threshold", 0.005)
	v.SetDefault("detection.gas_cost_pct_cross", 0.001)
	v.SetDefault("detection.gas_cost_pct_triangular", 0.002)
	v.SetDefault("detection.interval", "30s")
	v.SetDefault("detection.retry_backoff", "5s")
	v.SetDefault("detection.top_n", 10)
	v.SetDefault("detection.json_export_path", "")

	// Validation defaults
	v.SetDefault("validation.min_liquidity_usd", 100000.0)
	v.SetDefault("validation.lookup_timeout", "5s")
	v.SetDefault("validation.max_concurrency", 8)
	v.SetDefault("validation.lookups_per_minute", 300)
	v.SetDefault("validation.lookup_cache_ttl", "30s")
	v.SetDefault("validation.lookup_cache_size", 1024)

	// Network latency defaults (per-leg execution latency, ms)
	v.SetDefault("networks.latency_ms", map[string]int64{
		"polygon":  2200,
		"base":     2000,
		"optimism": 2000,
		"bsc":      3000,
		"arbitrum": 300,
		"sonic":    1000,
	})
	v.SetDefault("networks.default_latency_ms", 2000)
	v.SetDefault("networks.bridge_overhead_ms", 15000)

	// Gas defaults
	v.SetDefault("gas.enabled", false)
	v.SetDefault("gas.cache_ttl", "12s")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.health_port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arbagent")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Detection.MinProfitThreshold < 0 {
		return fmt.Errorf("detection.min_profit_threshold cannot be negative")
	}
	if c.Detection.Interval <= 0 {
		return fmt.Errorf("detection.interval must be positive")
	}
	if c.Validation.MinLiquidityUSD < 0 {
		return fmt.Errorf("validation.min_liquidity_usd cannot be negative")
	}
	if c.Validation.MaxConcurrency < 1 {
		return fmt.Errorf("validation.max_concurrency must be at least 1")
	}
	if c.Validation.LookupTimeout <= 0 {
		return fmt.Errorf("validation.lookup_timeout must be positive")
	}
	if c.Gas.Enabled && c.Gas.RPCURL == "" {
		return fmt.Errorf("gas.rpc_url is required when the gas oracle is enabled")
	}
	return nil
}
