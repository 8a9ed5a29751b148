package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of an order
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// ParseTradeSide matches raw exactly (case-sensitive) against the known sides
func ParseTradeSide(raw string) (TradeSide, bool) {
	switch TradeSide(raw) {
	case TradeSideBuy:
		return TradeSideBuy, true
	case TradeSideSell:
		return TradeSideSell, true
	default:
		return "", false
	}
}

// Rejection messages returned to callers for malformed orders
const (
	MsgInvalidTradeType    = "Invalid trade type."
	MsgQuantityNotNumber   = "Quantity must be a valid number."
	MsgQuantityNotPositive = "Quantity must be a positive integer."
	MsgInvalidSymbol       = "Invalid stock symbol."
)

// MinSymbolLength is the shortest accepted instrument identifier
const MinSymbolLength = 2

// TradeRecord is the simulated execution of a validated order
// It is never persisted: there is no ledger behind the simulator
type TradeRecord struct {
	ID        uuid.UUID
	Symbol    string
	Quantity  int64
	Side      TradeSide
	Timestamp time.Time // UTC
}

// TradeResult is the outcome of a trade validation
// Details is set only when Success is true
type TradeResult struct {
	Success bool
	Message string
	Details *TradeRecord
}

// Rejected builds a failed TradeResult carrying reason
func Rejected(reason string) *TradeResult {
	return &TradeResult{Success: false, Message: reason}
}

// TradePreview is a read-only affordability check of an order against the current portfolio
type TradePreview struct {
	Symbol          string
	Side            TradeSide
	Quantity        int64
	Price           decimal.Decimal
	EstimatedAmount decimal.Decimal
	CashBefore      decimal.Decimal
	CashAfter       decimal.Decimal
	QuantityBefore  int64
	QuantityAfter   int64
	AvgPriceAfter   decimal.Decimal
	Feasible        bool
	Reason          string
	Timestamp       time.Time
}
