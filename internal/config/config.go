package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the api, game and forge binaries.
type Config struct {
	// HTTP API and reference data server
	ListenAddr string `yaml:"listen_addr" env:"LISTEN_ADDR"`
	DataDir    string `yaml:"data_dir" env:"DATA_DIR"`
	BuildsDir  string `yaml:"builds_dir" env:"BUILD_DIR"`

	// Live builder session server
	GameListenAddr string        `yaml:"game_listen_addr" env:"GAME_LISTEN_ADDR"`
	DataAPIBase    string        `yaml:"data_api_base" env:"DATA_API_BASE"`
	DataCacheTTL   time.Duration `yaml:"data_cache_ttl" env:"DATA_CACHE_TTL"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns Config with the values used when nothing is configured.
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		DataDir:        "data",
		BuildsDir:      "builds",
		GameListenAddr: ":8081",
		DataAPIBase:    "http://localhost:8080",
		DataCacheTTL:   5 * time.Minute,
		LogLevel:       "info",
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error; an empty path
// skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging installs a text slog handler at the configured level as the default logger.
func (c Config) SetupLogging() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()})))
}
