package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/papertrade-backend/internal/domain"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

// PreviewService checks whether an order could be filled against the current portfolio
// It never mutates holdings or cash
type PreviewService struct {
	Resolver domain.QuoteResolver
	Holdings domain.HoldingsSource
	Now      func() time.Time
	log      zerolog.Logger
}

// NewPreviewService creates a new PreviewService instance
func NewPreviewService(resolver domain.QuoteResolver, holdings domain.HoldingsSource, log zerolog.Logger) *PreviewService {
	return &PreviewService{
		Resolver: resolver,
		Holdings: holdings,
		Now:      time.Now,
		log:      logger.Component(log, "trade_preview"),
	}
}

// Preview prices the order at the live quote and checks cash (BUY) or held quantity (SELL)
// Logic:
//   - Malformed order: infeasible, with the validator's rejection message
//   - No live price: infeasible
//   - BUY: cash must cover round(price * quantity); the average price is re-weighted
//   - SELL: held quantity must cover the order; the average price is unchanged
func (s *PreviewService) Preview(ctx context.Context, symbol string, rawQuantity any, side string) (*domain.TradePreview, error) {
	now := s.Now().UTC()

	order, reason := Validate(symbol, rawQuantity, side)
	if reason != "" {
		return &domain.TradePreview{Symbol: symbol, Side: domain.TradeSide(side), Reason: reason, Timestamp: now}, nil
	}

	if s.Holdings == nil {
		return nil, errors.New("no holdings source configured")
	}
	portfolio, err := s.Holdings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	held, _ := portfolio.Find(order.Symbol)
	preview := &domain.TradePreview{
		Symbol:         order.Symbol,
		Side:           order.Side,
		Quantity:       order.Quantity,
		CashBefore:     portfolio.CashBalance,
		CashAfter:      portfolio.CashBalance,
		QuantityBefore: held.Quantity,
		QuantityAfter:  held.Quantity,
		AvgPriceAfter:  held.AvgPrice,
		Timestamp:      now,
	}

	q := s.liveQuote(ctx, order.Symbol)
	if !q.Available {
		preview.Reason = fmt.Sprintf("Could not fetch live price for %s", order.Symbol)
		return preview, nil
	}

	qty := decimal.NewFromInt(order.Quantity)
	amount := domain.RoundMoney(q.Price.Mul(qty))
	preview.Price = q.Price
	preview.EstimatedAmount = amount

	switch order.Side {
	case domain.TradeSideBuy:
		if portfolio.CashBalance.LessThan(amount) {
			preview.Reason = "Insufficient cash for this purchase."
			return preview, nil
		}
		newQuantity := held.Quantity + order.Quantity
		totalCost := decimal.NewFromInt(held.Quantity).Mul(held.AvgPrice).Add(amount)
		preview.CashAfter = domain.RoundMoney(portfolio.CashBalance.Sub(amount))
		preview.QuantityAfter = newQuantity
		// A short position bought back to flat (or still short) has no average cost
		if newQuantity > 0 {
			preview.AvgPriceAfter = domain.RoundMoney(totalCost.Div(decimal.NewFromInt(newQuantity)))
		} else {
			preview.AvgPriceAfter = decimal.Zero
		}
	case domain.TradeSideSell:
		if held.Quantity < order.Quantity {
			preview.Reason = fmt.Sprintf("Insufficient shares of %s to sell. Held: %d", order.Symbol, held.Quantity)
			return preview, nil
		}
		preview.CashAfter = domain.RoundMoney(portfolio.CashBalance.Add(amount))
		preview.QuantityAfter = held.Quantity - order.Quantity
		if preview.QuantityAfter == 0 {
			preview.AvgPriceAfter = decimal.Zero
		}
	}

	preview.Feasible = true
	return preview, nil
}

// liveQuote resolves a single symbol, treating any resolver failure as unavailable
func (s *PreviewService) liveQuote(ctx context.Context, symbol string) (q domain.Quote) {
	q = domain.UnavailableQuote(symbol)
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Str("symbol", symbol).Msg("Quote resolver panicked")
			q = domain.UnavailableQuote(symbol)
		}
	}()

	if s.Resolver == nil {
		return q
	}
	quotes, err := s.Resolver.Resolve(ctx, []string{symbol})
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote resolution failed")
		return q
	}
	if resolved, ok := quotes[symbol]; ok {
		return resolved
	}
	return q
}
