package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents the latest resolved price for an instrument
// A quote is ephemeral: it is produced fresh for every valuation and never persisted
type Quote struct {
	Symbol    string
	Price     decimal.Decimal // Only meaningful when Available is true
	Available bool
}

// NewQuote creates an available quote with the given price
func NewQuote(symbol string, price decimal.Decimal) Quote {
	return Quote{Symbol: symbol, Price: price, Available: true}
}

// UnavailableQuote creates the explicit "no price" marker for a symbol
func UnavailableQuote(symbol string) Quote {
	return Quote{Symbol: symbol}
}

// PriceBar is a single OHLC sample returned by a market-data provider
type PriceBar struct {
	Time  time.Time
	Close float64
}

// PriceFrame is the raw provider response for a quote lookup.
// Providers fill Series when the response is keyed per symbol (batched shape),
// or Bars when the response only covers a single symbol.
type PriceFrame struct {
	Series map[string][]PriceBar
	Bars   []PriceBar
}

// IsEmpty reports whether the frame carries no samples at all
func (f PriceFrame) IsEmpty() bool {
	return len(f.Series) == 0 && len(f.Bars) == 0
}
