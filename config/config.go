// Package config loads the configuration of folio.
//
// Values are layered, each layer overriding the previous one: the defaults,
// an optional YAML file, an optional .env file and finally the FOLIO_*
// environment variables. Command line flags are applied on top by the
// commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration.
type Config struct {
	Backend  BackendConfig `yaml:"backend"`
	Ledger   string        `yaml:"ledger"`    // JSONL ledger file
	LogLevel string        `yaml:"log_level"` // zerolog level name
	Listen   string        `yaml:"listen"`    // address of "folio serve"
}

// BackendConfig locates the quote backend.
type BackendConfig struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  float64       `yaml:"rate_limit"` // requests per second, 0 is unlimited
	Burst      int           `yaml:"burst"`
	QuotesPath string        `yaml:"quotes_path"` // JSONPath of the quote list
}

// Default returns a valid configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:        "http://localhost:8000",
			Timeout:    10 * time.Second,
			RateLimit:  5,
			Burst:      5,
			QuotesPath: "$.quotes",
		},
		Ledger:   "folio.jsonl",
		LogLevel: "info",
		Listen:   ":8081",
	}
}

// Load builds the configuration from the YAML file at path and the dotenv
// file at envFile, then the process environment. An empty path skips the
// YAML file; a missing envFile is ignored.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	env := map[string]string{}
	if envFile != "" {
		dotenv, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		for k, v := range dotenv {
			env[k] = v
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := env[key]
		return v, ok && v != ""
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Environment variables.
const (
	EnvBackendURL = "FOLIO_BACKEND_URL"
	EnvAPIKey     = "FOLIO_API_KEY"
	EnvTimeout    = "FOLIO_TIMEOUT"
	EnvRateLimit  = "FOLIO_RATE_LIMIT"
	EnvBurst      = "FOLIO_BURST"
	EnvQuotesPath = "FOLIO_QUOTES_PATH"
	EnvLedger     = "FOLIO_LEDGER"
	EnvLogLevel   = "FOLIO_LOG_LEVEL"
	EnvListen     = "FOLIO_LISTEN"
)

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str(EnvBackendURL, &c.Backend.URL)
	str(EnvAPIKey, &c.Backend.APIKey)
	str(EnvQuotesPath, &c.Backend.QuotesPath)
	str(EnvLedger, &c.Ledger)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvListen, &c.Listen)

	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Backend.Timeout = d
	}
	if v, ok := lookup(EnvRateLimit); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		c.Backend.RateLimit = r
	}
	if v, ok := lookup(EnvBurst); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBurst, err)
		}
		c.Backend.Burst = n
	}
	return nil
}

// Validate checks every value.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend.URL != "" {
		if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("backend.url %q is not an absolute URL", c.Backend.URL))
		}
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("backend.timeout must be positive, got %v", c.Backend.Timeout))
	}
	if c.Backend.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("backend.rate_limit must not be negative, got %v", c.Backend.RateLimit))
	}
	if c.Backend.Burst < 0 {
		errs = append(errs, fmt.Errorf("backend.burst must not be negative, got %d", c.Backend.Burst))
	}
	if c.Backend.QuotesPath == "" {
		errs = append(errs, errors.New("backend.quotes_path is required"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the zerolog level of LogLevel, info when it is not valid.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}
