package config

import (
	"fmt"
	"math"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// ConfigError reports an invalid configuration. It is always surfaced at
// load time, before the first evaluation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// CategoryWeights document the relative importance of the five categories.
// The aggregator scores with the integer scheme; the weights are validated
// and exposed for the external surface only.
type CategoryWeights struct {
	Momentum   float64 `yaml:"momentum" default:"0.25"`
	Trend      float64 `yaml:"trend" default:"0.25"`
	Volatility float64 `yaml:"volatility" default:"0.15"`
	Volume     float64 `yaml:"volume" default:"0.15"`
	Perp       float64 `yaml:"perp" default:"0.20"`
}

// Sum returns the total of all weights.
func (w CategoryWeights) Sum() float64 {
	return w.Momentum + w.Trend + w.Volatility + w.Volume + w.Perp
}

// SignalConfig holds the evaluation pipeline tunables.
type SignalConfig struct {
	CategoryWeights     CategoryWeights `yaml:"category_weights"`
	LongThresholdInt    int             `yaml:"long_threshold_int" default:"3"`
	ShortThresholdInt   int             `yaml:"short_threshold_int" default:"-3"`
	SLATRMultiplier     float64         `yaml:"sl_atr_multiplier" default:"1.2"`
	TPATRMultiplier     float64         `yaml:"tp_atr_multiplier" default:"2.0"`
	VolumeProfileWindow int             `yaml:"volume_profile_window" default:"100"`
	DivergenceWindow    int             `yaml:"divergence_window" default:"14"`
}

// ExchangeConfig selects and authenticates the market-data provider.
type ExchangeConfig struct {
	Name    string `yaml:"name" default:"bybit"`
	APIKey  string `yaml:"api_key"`
	Secret  string `yaml:"secret"`
	Testnet bool   `yaml:"testnet" default:"true"`
}

// StorageConfig selects the signal sink.
type StorageConfig struct {
	Backend string `yaml:"backend" default:"sqlite" validate:"oneof=sqlite noop"`
	Path    string `yaml:"path" default:"data/signals.db"`
}

// CacheConfig selects the candle cache.
type CacheConfig struct {
	Backend    string `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
	RedisAddr  string `yaml:"redis_addr" default:"localhost:6379"`
	RedisDB    int    `yaml:"redis_db"`
	TTLSeconds int    `yaml:"ttl_seconds" default:"45"`
}

// StreamConfig controls the live kline websocket. When enabled, confirmed
// bars trigger immediate re-evaluation between cron ticks.
type StreamConfig struct {
	Enabled bool   `yaml:"enabled" default:"false"`
	URL     string `yaml:"url"`
}

// ServerConfig configures the health/metrics HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port" default:"8080"`
}

// Config is the root configuration.
type Config struct {
	Environment string   `yaml:"environment" default:"development"`
	LogLevel    string   `yaml:"log_level" default:"info"`
	LogFormat   string   `yaml:"log_format" default:"console" validate:"oneof=console json"`
	Symbols     []string `yaml:"symbols" validate:"min=1"`
	Interval    string   `yaml:"interval" default:"1"`
	CandleLimit int      `yaml:"candle_limit" default:"200"`
	Cron        string   `yaml:"cron" default:"0 * * * * *"`

	Signal   SignalConfig   `yaml:"signal"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Stream   StreamConfig   `yaml:"stream"`
	Server   ServerConfig   `yaml:"server"`
}

// Load reads the YAML file at path, applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"BTCUSDT"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv pulls secrets and common overrides from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("EXCHANGE_API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("EXCHANGE_SECRET"); v != "" {
		c.Exchange.Secret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate enforces the configuration invariants: weights summing to one,
// direction thresholds not inverted, positive window sizes.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Field: "config", Reason: err.Error()}
	}

	s := c.Signal
	if math.Abs(s.CategoryWeights.Sum()-1.0) > 0.001 {
		return &ConfigError{
			Field:  "signal.category_weights",
			Reason: fmt.Sprintf("weights must sum to 1.0, got %.4f", s.CategoryWeights.Sum()),
		}
	}
	if s.LongThresholdInt <= s.ShortThresholdInt {
		return &ConfigError{
			Field:  "signal.long_threshold_int",
			Reason: "long threshold must exceed short threshold",
		}
	}
	if s.LongThresholdInt <= 0 || s.ShortThresholdInt >= 0 {
		return &ConfigError{
			Field:  "signal.long_threshold_int",
			Reason: "thresholds must straddle zero",
		}
	}
	if s.SLATRMultiplier <= 0 || s.TPATRMultiplier <= 0 {
		return &ConfigError{Field: "signal.sl_atr_multiplier", Reason: "multipliers must be positive"}
	}
	if s.TPATRMultiplier < s.SLATRMultiplier {
		return &ConfigError{Field: "signal.tp_atr_multiplier", Reason: "take-profit multiplier below stop-loss multiplier"}
	}
	if s.VolumeProfileWindow <= 0 {
		return &ConfigError{Field: "signal.volume_profile_window", Reason: "window must be positive"}
	}
	if s.DivergenceWindow <= 0 {
		return &ConfigError{Field: "signal.divergence_window", Reason: "window must be positive"}
	}
	if c.CandleLimit < signals.MinCandles {
		return &ConfigError{
			Field:  "candle_limit",
			Reason: fmt.Sprintf("must be at least %d candles", signals.MinCandles),
		}
	}
	return nil
}

// SignalParams converts the configuration into engine parameters.
func (c *Config) SignalParams() signals.Params {
	p := signals.DefaultParams()
	p.LongThreshold = c.Signal.LongThresholdInt
	p.ShortThreshold = c.Signal.ShortThresholdInt
	p.SLATRMultiplier = c.Signal.SLATRMultiplier
	p.TPATRMultiplier = c.Signal.TPATRMultiplier
	p.VolumeProfileWindow = c.Signal.VolumeProfileWindow
	p.DivergenceWindow = c.Signal.DivergenceWindow
	return p
}
