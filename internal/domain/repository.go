package domain

import (
	"context"
)

// HoldingsSource defines the interface for loading the cash balance and holdings to valuate
type HoldingsSource interface {
	// Load returns the current portfolio snapshot
	// Implementations must return a fresh copy the caller is free to keep
	Load(ctx context.Context) (*Portfolio, error)
}

// MarketDataProvider defines the interface for the external market-data boundary
type MarketDataProvider interface {
	// LatestBars fetches the most recent intraday samples for the given symbols
	// The response may be shaped per symbol (Series) or, for a single symbol, flat (Bars)
	LatestBars(ctx context.Context, symbols []string) (PriceFrame, error)
}

// QuoteResolver defines the interface for turning symbols into quotes
type QuoteResolver interface {
	// Resolve returns exactly one quote per requested symbol
	// A symbol without a usable price maps to UnavailableQuote
	Resolve(ctx context.Context, symbols []string) (map[string]Quote, error)
}
