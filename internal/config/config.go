package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type DistanceConfig struct {
	ORSAPIKey  string        `yaml:"ors_api_key"`
	ORSBaseURL string        `yaml:"ors_base_url"`
	ORSProfile string        `yaml:"ors_profile"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  float64       `yaml:"rate_limit"`
	RateBurst  int           `yaml:"rate_burst"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`

	BreakerFailures    uint32        `yaml:"breaker_failures"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type Config struct {
	Port           string         `yaml:"port"`
	DatabaseURL    string         `yaml:"database_url"`
	RedisURL       string         `yaml:"redis_url"`
	SeedPath       string         `yaml:"seed_path"`
	Timezone       string         `yaml:"timezone"`
	EditWindowDays int            `yaml:"edit_window_days"`
	Log            LogConfig      `yaml:"log"`
	Distance       DistanceConfig `yaml:"distance"`
}

func Default() Config {
	return Config{
		Port:           "8080",
		SeedPath:       "data/seeds/reference.json",
		Timezone:       "UTC",
		EditWindowDays: 3,
		Log: LogConfig{
			Level:       "info",
			Environment: "development",
			Version:     "unknown",
		},
		Distance: DistanceConfig{
			ORSBaseURL:         "https://api.openrouteservice.org",
			ORSProfile:         "driving-car",
			Timeout:            3 * time.Second,
			RateLimit:          1,
			RateBurst:          5,
			CacheTTL:           30 * 24 * time.Hour,
			BreakerFailures:    5,
			BreakerOpenTimeout: 30 * time.Second,
		},
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_PATH (default config.yaml) and environment overrides, in that order.
func Load() (*Config, error) {
	cfg := Default()

	path := Get("CONFIG_PATH", "config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.Timezone = Get("TZ_NAME", cfg.Timezone)
	cfg.Log.Level = Get("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Environment = Get("ENVIRONMENT", cfg.Log.Environment)
	cfg.Log.Version = Get("VERSION", cfg.Log.Version)
	cfg.Distance.ORSAPIKey = Get("ORS_API_KEY", cfg.Distance.ORSAPIKey)
	cfg.Distance.ORSBaseURL = Get("ORS_BASE_URL", cfg.Distance.ORSBaseURL)
	cfg.Distance.ORSProfile = Get("ORS_PROFILE", cfg.Distance.ORSProfile)

	var err error
	if cfg.EditWindowDays, err = envInt("EDIT_WINDOW_DAYS", cfg.EditWindowDays); err != nil {
		return err
	}
	if cfg.Distance.Timeout, err = envDuration("DISTANCE_TIMEOUT", cfg.Distance.Timeout); err != nil {
		return err
	}
	if cfg.Distance.CacheTTL, err = envDuration("DISTANCE_CACHE_TTL", cfg.Distance.CacheTTL); err != nil {
		return err
	}
	if cfg.Distance.RateBurst, err = envInt("ORS_RATE_BURST", cfg.Distance.RateBurst); err != nil {
		return err
	}
	if v := Get("ORS_RATE_LIMIT", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ORS_RATE_LIMIT: %w", err)
		}
		cfg.Distance.RateLimit = f
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.EditWindowDays < 0 {
		return fmt.Errorf("edit_window_days must not be negative, got %d", c.EditWindowDays)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone; Validate guarantees it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
