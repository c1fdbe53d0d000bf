package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT"}, cfg.Symbols)
	assert.Equal(t, 3, cfg.Signal.LongThresholdInt)
	assert.Equal(t, -3, cfg.Signal.ShortThresholdInt)
	assert.InDelta(t, 1.2, cfg.Signal.SLATRMultiplier, 1e-9)
	assert.InDelta(t, 2.0, cfg.Signal.TPATRMultiplier, 1e-9)
	assert.Equal(t, 100, cfg.Signal.VolumeProfileWindow)
	assert.Equal(t, 14, cfg.Signal.DivergenceWindow)
	assert.InDelta(t, 1.0, cfg.Signal.CategoryWeights.Sum(), 0.001)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
symbols: [ETHUSDT, SOLUSDT]
interval: "5"
signal:
  long_threshold_int: 4
  short_threshold_int: -4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ETHUSDT", "SOLUSDT"}, cfg.Symbols)
	assert.Equal(t, "5", cfg.Interval)
	assert.Equal(t, 4, cfg.Signal.LongThresholdInt)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	path := writeConfig(t, `
symbols: [BTCUSDT]
signal:
  category_weights:
    momentum: 0.5
    trend: 0.5
    volatility: 0.5
    volume: 0.1
    perp: 0.1
`)

	_, err := Load(path)
	require.Error(t, err)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Field, "category_weights")
}

func TestValidate_InvertedThresholds(t *testing.T) {
	path := writeConfig(t, `
symbols: [BTCUSDT]
signal:
  long_threshold_int: -3
  short_threshold_int: 3
`)

	_, err := Load(path)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestValidate_NonPositiveWindow(t *testing.T) {
	path := writeConfig(t, `
symbols: [BTCUSDT]
signal:
  volume_profile_window: 0
`)

	_, err := Load(path)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Field, "volume_profile_window")
}

func TestValidate_TPBelowSL(t *testing.T) {
	path := writeConfig(t, `
symbols: [BTCUSDT]
signal:
  sl_atr_multiplier: 2.5
  tp_atr_multiplier: 1.0
`)

	_, err := Load(path)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestSignalParams_Mapping(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	p := cfg.SignalParams()
	assert.Equal(t, cfg.Signal.LongThresholdInt, p.LongThreshold)
	assert.Equal(t, cfg.Signal.ShortThresholdInt, p.ShortThreshold)
	assert.InDelta(t, cfg.Signal.SLATRMultiplier, p.SLATRMultiplier, 1e-9)
	assert.Equal(t, cfg.Signal.VolumeProfileWindow, p.VolumeProfileWindow)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EXCHANGE_API_KEY", "key-from-env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.Exchange.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}
