package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-token")
	t.Setenv("SLACK_CHANNEL", "#trading")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DefaultTrackedSymbols, cfg.TrackedSymbols)
	assert.Equal(t, time.Hour, cfg.BroadcastInterval())
	assert.Equal(t, "key", cfg.BinanceAPIKey)
	assert.Equal(t, "#trading", cfg.SlackChannel)
}

func TestLoad_MissingExchangeCredentialsIsFatal(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-token")
	t.Setenv("SLACK_CHANNEL", "#trading")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BINANCE_API_KEY")
}

func TestLoad_MissingSlackToken(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_CHANNEL", "#trading")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}

func TestLoad_YAMLFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "bot.yaml")
	content := `
listen_addr: ":9090"
tracked_symbols: ["BTCUSDT", "SOLUSDT"]
broadcast_interval_seconds: 60
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, []string{"BTCUSDT", "SOLUSDT"}, cfg.TrackedSymbols)
	assert.Equal(t, time.Minute, cfg.BroadcastInterval())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesListenAddr(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_LISTEN_ADDR", ":7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
}

func TestLoad_BadYAML(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracked_symbols: {"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
