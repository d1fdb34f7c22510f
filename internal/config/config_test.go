package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, 70.0, cfg.AlertThreshold)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)

	interval, err := cfg.RescanIntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, interval)
	assert.Equal(t, 30*24*time.Hour, cfg.Lookback())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9090"
tickers: [AAPL, MSFT]
lookback_days: 7
alert_threshold: 55
webhooks:
  - url: https://hooks.example.com/abc
    kind: discord
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Tickers)
	assert.Equal(t, 7, cfg.LookbackDays)
	assert.Equal(t, 55.0, cfg.AlertThreshold)
	require.Len(t, cfg.Webhooks, 1)
	assert.Equal(t, "discord", cfg.Webhooks[0].Kind)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lookback_days: 7\n"), 0o644))

	t.Setenv("STOCKRADAR_LOOKBACK_DAYS", "14")
	t.Setenv("STOCKRADAR_TICKERS", "tsla, nvda")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.LookbackDays)
	assert.Equal(t, []string{"TSLA", "NVDA"}, cfg.Tickers)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.AlertThreshold = 140
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Universe = "ftse100"
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Webhooks = []Webhook{{URL: "not-a-url"}}
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.RescanInterval = "whenever"
	require.Error(t, cfg.Validate())
}

func TestWebhookFromEnv(t *testing.T) {
	t.Setenv("STOCKRADAR_WEBHOOK_URL", "https://hooks.example.com/xyz")
	t.Setenv("STOCKRADAR_WEBHOOK_KIND", "slack")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Webhooks, 1)
	assert.Equal(t, "slack", cfg.Webhooks[0].Kind)
}
