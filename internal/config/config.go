// Package config loads process configuration from a YAML file and
// environment variables. All values are read once at startup; the
// pipeline treats them as immutable inputs.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Chain    ChainConfig    `mapstructure:"chain"`
	Scanner  ScannerConfig  `mapstructure:"scanner"`
	Trading  TradingConfig  `mapstructure:"trading"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	LogLevel string         `mapstructure:"log_level"`
}

// ChainConfig defines the chain data provider settings.
type ChainConfig struct {
	Network     string `mapstructure:"network"` // "mainnet" | "preprod"
	BaseURL     string `mapstructure:"base_url"`
	ProjectID   string `mapstructure:"project_id"`
	TipStreamWS string `mapstructure:"tip_stream_ws"` // optional websocket endpoint
}

// ScannerConfig defines the polling loop settings.
type ScannerConfig struct {
	ScanInterval   time.Duration `mapstructure:"scan_interval"`
	ReportInterval time.Duration `mapstructure:"report_interval"`
	ErrorBackoff   time.Duration `mapstructure:"error_backoff"`
	FetchLimit     int           `mapstructure:"fetch_limit"`
}

// TradingConfig defines the decision and trade hook settings.
type TradingConfig struct {
	RiskThreshold   float64 `mapstructure:"risk_threshold"`
	MinLiquidityADA float64 `mapstructure:"min_liquidity_ada"`
	TradeADA        float64 `mapstructure:"trade_ada"`
	DryRun          bool    `mapstructure:"dry_run"`
}

// DatabaseConfig defines the storage backends. Empty DSNs select the
// in-memory stores.
type DatabaseConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

// MetricsConfig defines the Prometheus scrape endpoint.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoadConfig reads configuration from file or environment variables.
// Missing credentials are fatal here, before the scan loop starts.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when the environment carries the
		// required values.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain.network", "mainnet")
	v.SetDefault("chain.base_url", "https://cardano-mainnet.blockfrost.io/api/v0")
	// Registering empty defaults makes these keys visible to Unmarshal
	// when they are supplied through the environment only.
	v.SetDefault("chain.project_id", "")
	v.SetDefault("chain.tip_stream_ws", "")
	v.SetDefault("database.postgres_dsn", "")
	v.SetDefault("database.clickhouse_dsn", "")
	v.SetDefault("scanner.scan_interval", 30*time.Second)
	v.SetDefault("scanner.report_interval", 5*time.Minute)
	v.SetDefault("scanner.error_backoff", 10*time.Second)
	v.SetDefault("scanner.fetch_limit", 4)
	v.SetDefault("trading.risk_threshold", 0.5)
	v.SetDefault("trading.min_liquidity_ada", 1000)
	v.SetDefault("trading.trade_ada", 50)
	v.SetDefault("trading.dry_run", true)
	v.SetDefault("metrics.listen_addr", ":9090")
	v.SetDefault("log_level", "info")
}

func (c *Config) validate() error {
	if c.Chain.ProjectID == "" {
		return errors.New("chain.project_id is required")
	}
	if c.Trading.RiskThreshold < 0 {
		return errors.New("trading.risk_threshold must not be negative")
	}
	if c.Trading.MinLiquidityADA < 0 {
		return errors.New("trading.min_liquidity_ada must not be negative")
	}
	if !c.Trading.DryRun {
		return errors.New("trading.dry_run=false is not supported, real execution is not wired")
	}
	return nil
}
