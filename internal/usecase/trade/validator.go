package trade

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/papertrade-backend/internal/domain"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

// Validator validates trade orders and simulates their execution
// Simulation has no ledger effect: every call is independent
type Validator struct {
	Now   func() time.Time
	NewID func() (uuid.UUID, error)
	log   zerolog.Logger
}

// NewValidator creates a new Validator instance
func NewValidator(log zerolog.Logger) *Validator {
	return &Validator{
		Now:   time.Now,
		NewID: uuid.NewRandom,
		log:   logger.Component(log, "trade_validator"),
	}
}

// Order is a validated trade order
type Order struct {
	Symbol   string
	Quantity int64
	Side     domain.TradeSide
}

// Validate checks a raw order and returns the rejection reason when it is malformed
// Checks run in a fixed order: side, quantity coercion, quantity positivity, symbol.
func Validate(symbol string, rawQuantity any, side string) (Order, string) {
	tradeSide, ok := domain.ParseTradeSide(side)
	if !ok {
		return Order{}, domain.MsgInvalidTradeType
	}

	quantity, err := CoerceQuantity(rawQuantity)
	if err != nil {
		return Order{}, domain.MsgQuantityNotNumber
	}
	if quantity <= 0 {
		return Order{}, domain.MsgQuantityNotPositive
	}

	if utf8.RuneCountInString(symbol) < domain.MinSymbolLength {
		return Order{}, domain.MsgInvalidSymbol
	}

	return Order{Symbol: symbol, Quantity: quantity, Side: tradeSide}, ""
}

// ValidateAndSimulate validates the order and, when valid, produces a simulated execution record
// Validation failures are returned as an unsuccessful TradeResult, never as an error.
// Only an unexpected internal fault (trade id generation) is returned as an error.
func (v *Validator) ValidateAndSimulate(symbol string, rawQuantity any, side string) (*domain.TradeResult, error) {
	order, reason := Validate(symbol, rawQuantity, side)
	if reason != "" {
		v.log.Debug().Str("symbol", symbol).Str("side", side).Str("reason", reason).Msg("Trade rejected")
		return domain.Rejected(reason), nil
	}

	id, err := v.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate trade id: %w", err)
	}

	record := &domain.TradeRecord{
		ID:        id,
		Symbol:    order.Symbol,
		Quantity:  order.Quantity,
		Side:      order.Side,
		Timestamp: v.Now().UTC(),
	}

	v.log.Info().
		Str("trade_id", id.String()).
		Str("symbol", record.Symbol).
		Str("side", string(record.Side)).
		Int64("quantity", record.Quantity).
		Msg("Trade simulated")

	return &domain.TradeResult{
		Success: true,
		Message: fmt.Sprintf("Simulated %s order for %d shares of %s executed successfully.", order.Side, order.Quantity, order.Symbol),
		Details: record,
	}, nil
}
