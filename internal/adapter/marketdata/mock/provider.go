// Package mock provides a deterministic, configuration-driven market-data provider.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/papertrade-backend/internal/domain"
)

// Config holds the mock provider configuration
type Config struct {
	Prices       map[string]decimal.Decimal // Base price per symbol; absent symbols have no data
	Seed         uint64                     // Same seed, same quotes
	DriftPercent float64                    // Maximum deviation from the base price, 0 disables drift
}

// Provider implements domain.MarketDataProvider without any network access
type Provider struct {
	cfg Config
	Now func() time.Time
}

// NewProvider creates a new mock provider
func NewProvider(cfg Config) *Provider {
	prices := make(map[string]decimal.Decimal, len(cfg.Prices))
	for symbol, price := range cfg.Prices {
		prices[symbol] = price
	}
	cfg.Prices = prices
	return &Provider{cfg: cfg, Now: time.Now}
}

// LatestBars returns one bar per known symbol
// Shapes mirror the live provider: a flat frame for one symbol, a batched frame otherwise.
func (p *Provider) LatestBars(ctx context.Context, symbols []string) (domain.PriceFrame, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceFrame{}, err
	}

	now := p.Now().UTC().Truncate(time.Minute)
	series := make(map[string][]domain.PriceBar, len(symbols))
	for _, symbol := range symbols {
		base, ok := p.cfg.Prices[symbol]
		if !ok {
			continue
		}
		series[symbol] = []domain.PriceBar{{Time: now, Close: p.price(symbol, base)}}
	}

	if len(symbols) == 1 {
		return domain.PriceFrame{Bars: series[symbols[0]]}, nil
	}
	return domain.PriceFrame{Series: series}, nil
}

// price applies the seeded drift to base
func (p *Provider) price(symbol string, base decimal.Decimal) float64 {
	f := base.InexactFloat64()
	if p.cfg.DriftPercent <= 0 {
		return f
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	rng := rand.New(rand.NewPCG(p.cfg.Seed, h.Sum64()))

	// Uniform in [-drift, +drift]
	drift := (rng.Float64()*2 - 1) * p.cfg.DriftPercent / 100
	return f * (1 + drift)
}

// ParsePrices parses a "SYMBOL=PRICE,SYMBOL=PRICE" list
func ParsePrices(raw string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		symbol, value, ok := strings.Cut(pair, "=")
		symbol = strings.TrimSpace(symbol)
		if !ok || symbol == "" {
			return nil, fmt.Errorf("invalid mock quote %q: expected SYMBOL=PRICE", pair)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", symbol, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("invalid price for %s: must be positive", symbol)
		}
		prices[symbol] = price
	}
	return prices, nil
}
