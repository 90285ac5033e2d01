package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings. Everything has a usable default so the
// config file is optional.
type Config struct {
	BackendURL            string `yaml:"backend_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	ChatCooldownSeconds   int    `yaml:"chat_cooldown_seconds"`
	RateLimitCooldownSecs int    `yaml:"rate_limit_cooldown_seconds"`
	StatusCacheTTLSeconds int    `yaml:"status_cache_ttl_seconds"`
	LogLevel              string `yaml:"log_level"`
}

const (
	defaultBackendURL        = "http://127.0.0.1:5000"
	defaultRequestTimeout    = 60
	defaultChatCooldown      = 3
	defaultRateLimitCooldown = 30
	defaultStatusCacheTTL    = 30
)

// EnvBackendURL overrides backend_url from the config file when set.
const EnvBackendURL = "TRAVELAGENT_BACKEND_URL"

func Default() Config {
	return Config{
		BackendURL:            defaultBackendURL,
		RequestTimeoutSeconds: defaultRequestTimeout,
		ChatCooldownSeconds:   defaultChatCooldown,
		RateLimitCooldownSecs: defaultRateLimitCooldown,
		StatusCacheTTLSeconds: defaultStatusCacheTTL,
		LogLevel:              "info",
	}
}

// StateDir returns the directory used for the config file, log file, and the
// pending schedule payload.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".travelagent"), nil
}

// Load reads the config file from the state directory, falling back to
// defaults for anything missing. A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()

	dir, err := StateDir()
	if err != nil {
		return cfg, err
	}
	path := filepath.Join(dir, "config.yml")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if url := os.Getenv(EnvBackendURL); url != "" {
		cfg.BackendURL = url
	}
	cfg.applyFloors()
	return cfg, nil
}

func (c *Config) applyFloors() {
	if c.BackendURL == "" {
		c.BackendURL = defaultBackendURL
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if c.ChatCooldownSeconds < 0 {
		c.ChatCooldownSeconds = defaultChatCooldown
	}
	if c.RateLimitCooldownSecs <= 0 {
		c.RateLimitCooldownSecs = defaultRateLimitCooldown
	}
	if c.StatusCacheTTLSeconds <= 0 {
		c.StatusCacheTTLSeconds = defaultStatusCacheTTL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) ChatCooldown() time.Duration {
	return time.Duration(c.ChatCooldownSeconds) * time.Second
}

func (c Config) RateLimitCooldown() time.Duration {
	return time.Duration(c.RateLimitCooldownSecs) * time.Second
}

func (c Config) StatusCacheTTL() time.Duration {
	return time.Duration(c.StatusCacheTTLSeconds) * time.Second
}
