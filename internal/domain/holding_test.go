package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewValuedHolding(t *testing.T) {
	tests := []struct {
		name         string
		holding      Holding
		price        string
		currentValue string
		costBasis    string
		plAbsolute   string
		plPercent    string
	}{
		{
			name:         "Profit",
			holding:      Holding{Symbol: "RELIANCE.NS", Quantity: 10, AvgPrice: decimal.RequireFromString("2500.00")},
			price:        "2750.50",
			currentValue: "27505.00",
			costBasis:    "25000.00",
			plAbsolute:   "2505.00",
			plPercent:    "10.02",
		},
		{
			name:         "Loss",
			holding:      Holding{Symbol: "TCS.NS", Quantity: 5, AvgPrice: decimal.RequireFromString("3500.00")},
			price:        "3325.00",
			currentValue: "16625.00",
			costBasis:    "17500.00",
			plAbsolute:   "-875.00",
			plPercent:    "-5.00",
		},
		{
			name:         "Half-up rounding at the point of computation",
			holding:      Holding{Symbol: "X", Quantity: 3, AvgPrice: decimal.RequireFromString("33.335")},
			price:        "33.335",
			currentValue: "100.01",
			costBasis:    "100.01",
			plAbsolute:   "0.00",
			plPercent:    "0.00",
		},
		{
			name:         "Zero cost basis yields zero percent",
			holding:      Holding{Symbol: "FREE", Quantity: 10, AvgPrice: decimal.Zero},
			price:        "12.00",
			currentValue: "120.00",
			costBasis:    "0.00",
			plAbsolute:   "120.00",
			plPercent:    "0.00",
		},
		{
			name:         "Negative quantity is accepted as-is",
			holding:      Holding{Symbol: "SHORT", Quantity: -2, AvgPrice: decimal.RequireFromString("50")},
			price:        "40",
			currentValue: "-80.00",
			costBasis:    "-100.00",
			plAbsolute:   "20.00",
			plPercent:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vh := NewValuedHolding(tt.holding, decimal.RequireFromString(tt.price), PriceSourceLive)

			assert.Equal(t, tt.holding, vh.Holding)
			assert.Equal(t, tt.currentValue, vh.CurrentValue.StringFixed(2), "current value")
			assert.Equal(t, tt.costBasis, vh.CostBasis.StringFixed(2), "cost basis")
			assert.Equal(t, tt.plAbsolute, vh.PLAbsolute.StringFixed(2), "absolute P/L")
			assert.Equal(t, tt.plPercent, vh.PLPercent.StringFixed(2), "percent P/L")

			// Internal consistency of the derived figures
			assert.True(t, vh.PLAbsolute.Equal(RoundMoney(vh.CurrentValue.Sub(vh.CostBasis))))
		})
	}
}

func TestPortfolio_Symbols(t *testing.T) {
	p := Portfolio{
		Holdings: []Holding{
			{Symbol: "B"},
			{Symbol: "A"},
			{Symbol: "B"},
			{Symbol: "C"},
		},
	}

	assert.Equal(t, []string{"B", "A", "C"}, p.Symbols())
}

func TestPortfolio_Find(t *testing.T) {
	p := Portfolio{
		Holdings: []Holding{
			{Symbol: "TCS.NS", Quantity: 5},
		},
	}

	h, ok := p.Find("TCS.NS")
	assert.True(t, ok)
	assert.Equal(t, int64(5), h.Quantity)

	_, ok = p.Find("INFY.NS")
	assert.False(t, ok)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "2.35", RoundMoney(decimal.RequireFromString("2.345")).String())
	assert.Equal(t, "2.34", RoundMoney(decimal.RequireFromString("2.3449")).String())
	assert.Equal(t, "-2.35", RoundMoney(decimal.RequireFromString("-2.345")).String())
}
