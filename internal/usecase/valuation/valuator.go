package valuation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/papertrade-backend/internal/domain"
)

// Valuate combines holdings with resolved quotes into a portfolio snapshot
// Logic:
//  1. For each holding, in input order, look up its quote
//  2. Effective price = live quote price, or the average cost when the quote is missing/unavailable
//  3. Derive current value, cost basis and P/L (each rounded to 2 decimals)
//  4. Total market value = round(sum of the rounded current values)
//  5. Total portfolio value = round(cash + total market value)
//
// Holdings are not validated: zero or negative quantities and costs are valued as given.
func Valuate(cash decimal.Decimal, holdings []domain.Holding, quotes map[string]domain.Quote, now time.Time) domain.PortfolioSnapshot {
	valued := make([]domain.ValuedHolding, 0, len(holdings))
	marketValue := decimal.Zero

	for _, h := range holdings {
		price, source := h.AvgPrice, domain.PriceSourceAverageCost
		if q, ok := quotes[h.Symbol]; ok && q.Available {
			price, source = q.Price, domain.PriceSourceLive
		}

		vh := domain.NewValuedHolding(h, price, source)
		valued = append(valued, vh)
		marketValue = marketValue.Add(vh.CurrentValue)
	}

	totalMarketValue := domain.RoundMoney(marketValue)

	return domain.PortfolioSnapshot{
		CashBalance:         cash,
		Holdings:            valued,
		TotalMarketValue:    totalMarketValue,
		TotalPortfolioValue: domain.RoundMoney(cash.Add(totalMarketValue)),
		LastUpdated:         now.UTC(),
	}
}
