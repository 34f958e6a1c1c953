package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the server configuration. Values come from an optional YAML
// file; environment variables override them.
type Config struct {
	Port         string `yaml:"port" env:"PORT" env-default:":9001"`
	DBPath       string `yaml:"db_path" env:"DB_PATH" env-default:"./data/locations.db"`
	PhotosDBPath string `yaml:"photos_db_path" env:"PHOTOS_DB_PATH" env-default:""` // empty = system library

	// Empty disables bearer auth on mutating routes
	JWTSecret string `yaml:"-" env:"JWT_SECRET" env-default:""`

	HomePolicy     string        `yaml:"home_policy" env:"HOME_POLICY" env-default:"city"`
	ExtractTimeout time.Duration `yaml:"extract_timeout" env:"EXTRACT_TIMEOUT" env-default:"5m"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"CACHE_TTL" env-default:"5m"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// RateLimitConfig bounds how often refresh may be requested per client.
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"10"`
	Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// Load reads path if it exists and applies environment overrides. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return cfg, cfg.Validate()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("extract_timeout must be positive, got %s", c.ExtractTimeout)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate_limit requests and window must be positive")
	}
	return nil
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
