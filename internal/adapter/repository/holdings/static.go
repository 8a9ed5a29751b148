// Package holdings provides the holdings sources the valuator reads cash and positions from.
package holdings

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/simaogato/papertrade-backend/internal/domain"
)

// staticSource implements domain.HoldingsSource over a fixed portfolio
type staticSource struct {
	portfolio domain.Portfolio
}

// NewStaticSource creates a holdings source that always returns a copy of portfolio
func NewStaticSource(portfolio domain.Portfolio) domain.HoldingsSource {
	return &staticSource{portfolio: clone(portfolio)}
}

// Load returns a copy of the fixed portfolio
func (s *staticSource) Load(ctx context.Context) (*domain.Portfolio, error) {
	p := clone(s.portfolio)
	return &p, nil
}

// DemoPortfolio is the default book used when no holdings file is configured
func DemoPortfolio() domain.Portfolio {
	return domain.Portfolio{
		CashBalance: decimal.RequireFromString("100000.00"),
		Holdings: []domain.Holding{
			{Symbol: "RELIANCE.NS", Quantity: 10, AvgPrice: decimal.RequireFromString("2500.00")},
			{Symbol: "TCS.NS", Quantity: 5, AvgPrice: decimal.RequireFromString("3500.00")},
			{Symbol: "HDFCBANK.NS", Quantity: 20, AvgPrice: decimal.RequireFromString("1500.00")},
		},
	}
}

func clone(p domain.Portfolio) domain.Portfolio {
	holdings := make([]domain.Holding, len(p.Holdings))
	copy(holdings, p.Holdings)
	return domain.Portfolio{CashBalance: p.CashBalance, Holdings: holdings}
}
