package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/papertrade-backend/internal/domain"
)

// MockQuoteResolver is a mock implementation of QuoteResolver for testing
type MockQuoteResolver struct {
	mock.Mock
}

func (m *MockQuoteResolver) Resolve(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Quote), args.Error(1)
}

// MockHoldingsSource is a mock implementation of HoldingsSource for testing
type MockHoldingsSource struct {
	mock.Mock
}

func (m *MockHoldingsSource) Load(ctx context.Context) (*domain.Portfolio, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func previewPortfolio() *domain.Portfolio {
	return &domain.Portfolio{
		CashBalance: decimal.RequireFromString("10000.00"),
		Holdings: []domain.Holding{
			{Symbol: "TSLA", Quantity: 10, AvgPrice: decimal.RequireFromString("700.00")},
			{Symbol: "AAPL", Quantity: 50, AvgPrice: decimal.RequireFromString("150.00")},
		},
	}
}

func newTestPreviewService(resolver domain.QuoteResolver, holdings domain.HoldingsSource) *PreviewService {
	s := NewPreviewService(resolver, holdings, zerolog.Nop())
	s.Now = func() time.Time { return fixedNow }
	return s
}

func livePrice(symbol, price string) map[string]domain.Quote {
	return map[string]domain.Quote{symbol: domain.NewQuote(symbol, decimal.RequireFromString(price))}
}

func TestPreview_BuyWithinCash(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(previewPortfolio(), nil)
	mockResolver.On("Resolve", ctx, []string{"TSLA"}).Return(livePrice("TSLA", "800.00"), nil)

	preview, err := service.Preview(ctx, "TSLA", "5", "BUY")

	require.NoError(t, err)
	assert.True(t, preview.Feasible)
	assert.Empty(t, preview.Reason)
	assert.Equal(t, "4000.00", preview.EstimatedAmount.StringFixed(2))
	assert.Equal(t, "6000.00", preview.CashAfter.StringFixed(2))
	assert.Equal(t, int64(10), preview.QuantityBefore)
	assert.Equal(t, int64(15), preview.QuantityAfter)
	// (10*700 + 4000) / 15
	assert.Equal(t, "733.33", preview.AvgPriceAfter.StringFixed(2))
	assert.Equal(t, fixedNow, preview.Timestamp)
}

func TestPreview_BuyInsufficientCash(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(previewPortfolio(), nil)
	mockResolver.On("Resolve", ctx, []string{"MSFT"}).Return(livePrice("MSFT", "300.50"), nil)

	preview, err := service.Preview(ctx, "MSFT", 40, "BUY")

	require.NoError(t, err)
	assert.False(t, preview.Feasible)
	assert.Equal(t, "Insufficient cash for this purchase.", preview.Reason)
	assert.Equal(t, "12020.00", preview.EstimatedAmount.StringFixed(2))
	assert.True(t, preview.CashAfter.Equal(preview.CashBefore))
}

func TestPreview_SellAll(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(previewPortfolio(), nil)
	mockResolver.On("Resolve", ctx, []string{"AAPL"}).Return(livePrice("AAPL", "180.25"), nil)

	preview, err := service.Preview(ctx, "AAPL", 50, "SELL")

	require.NoError(t, err)
	assert.True(t, preview.Feasible)
	assert.Equal(t, "9012.50", preview.EstimatedAmount.StringFixed(2))
	assert.Equal(t, "19012.50", preview.CashAfter.StringFixed(2))
	assert.Equal(t, int64(0), preview.QuantityAfter)
	assert.True(t, preview.AvgPriceAfter.IsZero())
}

func TestPreview_SellPartialKeepsAverage(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(previewPortfolio(), nil)
	mockResolver.On("Resolve", ctx, []string{"AAPL"}).Return(livePrice("AAPL", "100.00"), nil)

	preview, err := service.Preview(ctx, "AAPL", 20, "SELL")

	require.NoError(t, err)
	assert.True(t, preview.Feasible)
	assert.Equal(t, int64(30), preview.QuantityAfter)
	assert.Equal(t, "150.00", preview.AvgPriceAfter.StringFixed(2))
}

func TestPreview_SellInsufficientShares(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(previewPortfolio(), nil)
	mockResolver.On("Resolve", ctx, []string{"TSLA"}).Return(livePrice("TSLA", "800.00"), nil)

	preview, err := service.Preview(ctx, "TSLA", 11, "SELL")

	require.NoError(t, err)
	assert.False(t, preview.Feasible)
	assert.Equal(t, "Insufficient shares of TSLA to sell. Held: 10", preview.Reason)
}

func TestPreview_NoLivePrice(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(previewPortfolio(), nil)
	mockResolver.On("Resolve", ctx, []string{"TSLA"}).Return(nil, errors.New("provider down"))

	preview, err := service.Preview(ctx, "TSLA", 1, "BUY")

	require.NoError(t, err)
	assert.False(t, preview.Feasible)
	assert.Equal(t, "Could not fetch live price for TSLA", preview.Reason)
}

func TestPreview_RejectedOrder(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	preview, err := service.Preview(ctx, "TSLA", "abc", "BUY")

	require.NoError(t, err)
	assert.False(t, preview.Feasible)
	assert.Equal(t, domain.MsgQuantityNotNumber, preview.Reason)
	mockHoldings.AssertNotCalled(t, "Load")
	mockResolver.AssertNotCalled(t, "Resolve")
}

func TestPreview_HoldingsError(t *testing.T) {
	ctx := context.Background()
	mockResolver := new(MockQuoteResolver)
	mockHoldings := new(MockHoldingsSource)
	service := newTestPreviewService(mockResolver, mockHoldings)

	mockHoldings.On("Load", ctx).Return(nil, errors.New("permission denied"))

	preview, err := service.Preview(ctx, "TSLA", 1, "BUY")

	assert.Error(t, err)
	assert.Nil(t, preview)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestPreview_BuyClosingShortPosition(t *testing.T) {
	tests := []struct {
		name          string
		held          int64
		quantity      int
		quantityAfter int64
	}{
		{name: "Back to flat", held: -10, quantity: 10, quantityAfter: 0},
		{name: "Still short", held: -10, quantity: 4, quantityAfter: -6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockResolver := new(MockQuoteResolver)
			mockHoldings := new(MockHoldingsSource)
			service := newTestPreviewService(mockResolver, mockHoldings)

			portfolio := &domain.Portfolio{
				CashBalance: decimal.RequireFromString("1000.00"),
				Holdings:    []domain.Holding{{Symbol: "TCS", Quantity: tt.held, AvgPrice: decimal.RequireFromString("5.00")}},
			}
			mockHoldings.On("Load", ctx).Return(portfolio, nil)
			mockResolver.On("Resolve", ctx, []string{"TCS"}).Return(livePrice("TCS", "10.00"), nil)

			preview, err := service.Preview(ctx, "TCS", tt.quantity, "BUY")

			require.NoError(t, err)
			assert.True(t, preview.Feasible)
			assert.Equal(t, tt.quantityAfter, preview.QuantityAfter)
			assert.True(t, preview.AvgPriceAfter.IsZero())
		})
	}
}
