package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/simaogato/papertrade-backend/internal/adapter/marketdata/mock"
)

// Quote provider names accepted by QUOTE_PROVIDER
const (
	ProviderYahoo = "yahoo"
	ProviderMock  = "mock"
)

// ErrUnknownProvider is returned when QUOTE_PROVIDER names no known provider
var ErrUnknownProvider = errors.New("unknown quote provider")

// Config holds application configuration
type Config struct {
	HTTPAddr      string
	GRPCAddr      string
	LogLevel      string
	LogPretty     bool
	QuoteProvider string
	QuoteTimeout  time.Duration
	HoldingsFile  string
	Currency      string

	MockQuotes       map[string]decimal.Decimal
	MockSeed         uint64
	MockDriftPercent float64
}

// Load reads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8000"),
		GRPCAddr:      getEnv("GRPC_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		QuoteProvider: strings.ToLower(getEnv("QUOTE_PROVIDER", ProviderYahoo)),
		HoldingsFile:  getEnv("HOLDINGS_FILE", ""),
		Currency:      strings.ToUpper(getEnv("CURRENCY", "INR")),
	}

	var err error
	if cfg.LogPretty, err = getEnvAsBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if cfg.QuoteTimeout, err = getEnvAsDuration("QUOTE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.MockSeed, err = getEnvAsUint("MOCK_SEED", 0); err != nil {
		return nil, err
	}
	if cfg.MockDriftPercent, err = getEnvAsFloat("MOCK_DRIFT_PERCENT", 0); err != nil {
		return nil, err
	}
	if cfg.MockQuotes, err = mock.ParsePrices(getEnv("MOCK_QUOTES", "")); err != nil {
		return nil, fmt.Errorf("invalid MOCK_QUOTES: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.QuoteProvider {
	case ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.QuoteProvider)
	}

	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("QUOTE_TIMEOUT must be positive, got %s", c.QuoteTimeout)
	}
	if c.MockDriftPercent < 0 || c.MockDriftPercent >= 100 {
		return fmt.Errorf("MOCK_DRIFT_PERCENT must be in [0, 100), got %v", c.MockDriftPercent)
	}
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return errors.New("at least one of HTTP_ADDR or GRPC_ADDR is required")
	}

	return nil
}

// MockConfig returns the mock provider settings
func (c *Config) MockConfig() mock.Config {
	return mock.Config{
		Prices:       c.MockQuotes,
		Seed:         c.MockSeed,
		DriftPercent: c.MockDriftPercent,
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvAsUint(key string, defaultValue uint64) (uint64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}
