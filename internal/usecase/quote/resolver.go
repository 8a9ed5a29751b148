package quote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/papertrade-backend/internal/domain"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

// DefaultTimeout bounds a single provider call
const DefaultTimeout = 10 * time.Second

// Resolver turns a set of symbols into quotes using a market-data provider
// It fails open: every provider failure collapses into per-symbol unavailable quotes
type Resolver struct {
	Provider domain.MarketDataProvider
	Timeout  time.Duration
	log      zerolog.Logger
}

// NewResolver creates a new Resolver instance
func NewResolver(provider domain.MarketDataProvider, timeout time.Duration, log zerolog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		Provider: provider,
		Timeout:  timeout,
		log:      logger.Component(log, "quote_resolver"),
	}
}

// Resolve returns one quote per requested symbol
// Logic:
//  1. Query the provider once, bounded by the resolver timeout
//  2. Batched frame: take the latest close of every symbol independently
//  3. Single frame: only usable when exactly one symbol was requested
//  4. Anything else (empty frame, error, timeout, panic) maps to unavailable
//
// The returned error is always nil; it exists to satisfy domain.QuoteResolver.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	symbols = dedupe(symbols)
	quotes := make(map[string]domain.Quote, len(symbols))
	if len(symbols) == 0 {
		return quotes, nil
	}

	frame, err := r.fetch(ctx, symbols)
	if err != nil {
		r.log.Warn().Err(err).Strs("symbols", symbols).Msg("Quote provider failed, all quotes unavailable")
		return allUnavailable(symbols), nil
	}

	switch {
	case len(frame.Series) > 0:
		for _, symbol := range symbols {
			quotes[symbol] = quoteFromBars(symbol, frame.Series[symbol])
		}
	case len(frame.Bars) > 0 && len(symbols) == 1:
		quotes[symbols[0]] = quoteFromBars(symbols[0], frame.Bars)
	default:
		return allUnavailable(symbols), nil
	}

	for symbol, q := range quotes {
		if !q.Available {
			r.log.Debug().Str("symbol", symbol).Msg("No usable price for symbol")
		}
	}

	return quotes, nil
}

// fetchResult carries the outcome of a provider call across goroutines
type fetchResult struct {
	frame domain.PriceFrame
	err   error
}

// fetch calls the provider under the resolver timeout
// The call runs in its own goroutine so a provider that ignores ctx cannot block past the deadline,
// and a panic inside the provider is converted into an error.
func (r *Resolver) fetch(ctx context.Context, symbols []string) (domain.PriceFrame, error) {
	if r.Provider == nil {
		return domain.PriceFrame{}, errors.New("no market data provider configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fetchResult{err: fmt.Errorf("market data provider panicked: %v", rec)}
			}
		}()
		frame, err := r.Provider.LatestBars(ctx, symbols)
		done <- fetchResult{frame: frame, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return domain.PriceFrame{}, fmt.Errorf("failed to fetch latest bars: %w", res.err)
		}
		return res.frame, nil
	case <-ctx.Done():
		return domain.PriceFrame{}, fmt.Errorf("failed to fetch latest bars: %w", ctx.Err())
	}
}

// quoteFromBars extracts the latest close of bars as a quote rounded to 2 decimals
func quoteFromBars(symbol string, bars []domain.PriceBar) domain.Quote {
	if len(bars) == 0 {
		return domain.UnavailableQuote(symbol)
	}

	latest := bars[len(bars)-1].Close
	if math.IsNaN(latest) || math.IsInf(latest, 0) || latest <= 0 {
		return domain.UnavailableQuote(symbol)
	}

	price := domain.RoundMoney(decimal.NewFromFloat(latest))
	if !price.IsPositive() {
		// Sub-cent prices round down to zero
		return domain.UnavailableQuote(symbol)
	}
	return domain.NewQuote(symbol, price)
}

// allUnavailable maps every symbol to the unavailable marker
func allUnavailable(symbols []string) map[string]domain.Quote {
	quotes := make(map[string]domain.Quote, len(symbols))
	for _, symbol := range symbols {
		quotes[symbol] = domain.UnavailableQuote(symbol)
	}
	return quotes
}

// dedupe removes duplicate symbols while keeping the first occurrence order
func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
