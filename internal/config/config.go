// Package config loads runtime configuration from an optional YAML file and
// the environment. Credentials only ever come from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alexbobes/slack-binance-trading-bot/internal/exchange"
	"github.com/alexbobes/slack-binance-trading-bot/internal/notify"
	"github.com/alexbobes/slack-binance-trading-bot/internal/stream"
	"github.com/alexbobes/slack-binance-trading-bot/pkg/logger"
)

// DefaultTrackedSymbols is the instrument set used when the config file
// does not name one. Fixed at startup, read-only afterwards.
var DefaultTrackedSymbols = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "ADAUSDT", "XRPUSDT"}

type LogConfig struct {
	Level      string `yaml:"level"`
	OutputFile string `yaml:"output_file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	ListenAddr     string    `yaml:"listen_addr"`
	BinanceBaseURL string    `yaml:"binance_base_url"`
	StreamURL      string    `yaml:"stream_url"`
	SlackBaseURL   string    `yaml:"slack_base_url"`
	TrackedSymbols []string  `yaml:"tracked_symbols"`
	Log            LogConfig `yaml:"log"`

	// BroadcastIntervalSeconds is the pause between price broadcast passes,
	// in seconds. Defaults to one hour.
	BroadcastIntervalSeconds int `yaml:"broadcast_interval_seconds"`

	// Environment only, never from file.
	BinanceAPIKey    string `yaml:"-"`
	BinanceAPISecret string `yaml:"-"`
	SlackBotToken    string `yaml:"-"`
	SlackChannel     string `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:               ":8080",
		BinanceBaseURL:           exchange.DefaultBaseURL,
		StreamURL:                stream.DefaultStreamURL,
		SlackBaseURL:             notify.DefaultSlackURL,
		TrackedSymbols:           append([]string(nil), DefaultTrackedSymbols...),
		BroadcastIntervalSeconds: 3600,
		Log:                      LogConfig{Level: "info"},
	}
}

// BroadcastInterval returns the configured pause as a duration.
func (c *Config) BroadcastInterval() time.Duration {
	return time.Duration(c.BroadcastIntervalSeconds) * time.Second
}

// Load reads the optional YAML file at path, then overlays the environment.
// A .env file is loaded best-effort first, matching how the bot is run in
// development.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	cfg.BinanceAPIKey = os.Getenv("BINANCE_API_KEY")
	cfg.BinanceAPISecret = os.Getenv("BINANCE_API_SECRET")
	cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	cfg.SlackChannel = os.Getenv("SLACK_CHANNEL")

	if v := os.Getenv("BOT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the credentials the process cannot serve without.
func (c *Config) Validate() error {
	if c.BinanceAPIKey == "" || c.BinanceAPISecret == "" {
		return errors.New("BINANCE_API_KEY and BINANCE_API_SECRET are required")
	}
	if c.SlackBotToken == "" {
		return errors.New("SLACK_BOT_TOKEN is required")
	}
	if c.SlackChannel == "" {
		return errors.New("SLACK_CHANNEL is required")
	}
	if len(c.TrackedSymbols) == 0 {
		return errors.New("tracked_symbols must not be empty")
	}
	return nil
}

// LoggerConfig maps the log section onto the logger package's config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		OutputFile: c.Log.OutputFile,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}
