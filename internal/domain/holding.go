package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource tells where the effective price of a valued holding came from
type PriceSource string

const (
	PriceSourceLive        PriceSource = "LIVE"
	PriceSourceAverageCost PriceSource = "AVERAGE_COST"
)

// Holding represents a position in the portfolio
// Supplied by a HoldingsSource and never mutated by the core
type Holding struct {
	Symbol   string
	Quantity int64
	AvgPrice decimal.Decimal // Average cost per unit
}

// Portfolio is the snapshot of cash and holdings handed over by a HoldingsSource
type Portfolio struct {
	CashBalance decimal.Decimal
	Holdings    []Holding
}

// Symbols returns the distinct symbols of the portfolio in holding order
func (p Portfolio) Symbols() []string {
	return SymbolsOf(p.Holdings)
}

// SymbolsOf returns the distinct symbols of holdings in input order
func SymbolsOf(holdings []Holding) []string {
	seen := make(map[string]bool, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if seen[h.Symbol] {
			continue
		}
		seen[h.Symbol] = true
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}

// Find returns the first holding for symbol
func (p Portfolio) Find(symbol string) (Holding, bool) {
	for _, h := range p.Holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}

// ValuedHolding is a Holding combined with its resolved price and derived metrics
// Every monetary field is rounded to 2 decimal places at the point of computation
type ValuedHolding struct {
	Holding
	LivePrice    decimal.Decimal // Effective price: live quote or average cost fallback
	PriceSource  PriceSource
	CurrentValue decimal.Decimal // round(Quantity * LivePrice)
	CostBasis    decimal.Decimal // round(Quantity * AvgPrice)
	PLAbsolute   decimal.Decimal // round(CurrentValue - CostBasis)
	PLPercent    decimal.Decimal // round(PLAbsolute / CostBasis * 100), 0 when CostBasis <= 0
}

// NewValuedHolding derives the valuation metrics of h at the given effective price
func NewValuedHolding(h Holding, price decimal.Decimal, source PriceSource) ValuedHolding {
	qty := decimal.NewFromInt(h.Quantity)

	currentValue := RoundMoney(qty.Mul(price))
	costBasis := RoundMoney(qty.Mul(h.AvgPrice))
	plAbsolute := RoundMoney(currentValue.Sub(costBasis))

	// Percent P/L is only defined for a strictly positive cost basis
	plPercent := decimal.Zero
	if costBasis.GreaterThan(decimal.Zero) {
		plPercent = RoundMoney(plAbsolute.Div(costBasis).Mul(hundred))
	}

	return ValuedHolding{
		Holding:      h,
		LivePrice:    price,
		PriceSource:  source,
		CurrentValue: currentValue,
		CostBasis:    costBasis,
		PLAbsolute:   plAbsolute,
		PLPercent:    plPercent,
	}
}

// PortfolioSnapshot represents a point-in-time valuation of the portfolio
type PortfolioSnapshot struct {
	CashBalance         decimal.Decimal
	Holdings            []ValuedHolding // Same order as the input holdings
	TotalMarketValue    decimal.Decimal
	TotalPortfolioValue decimal.Decimal
	LastUpdated         time.Time // UTC, captured once at the start of valuation
}
