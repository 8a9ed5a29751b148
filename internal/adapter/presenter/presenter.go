// Package presenter holds the wire shapes shared by the REST, gRPC and CLI adapters.
// Field names are fixed for client compatibility.
package presenter

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/simaogato/papertrade-backend/internal/domain"
)

// Money renders an amount as a JSON number with exactly two decimals
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(domain.MoneyPlaces))
}

// HoldingResponse is one valued holding
type HoldingResponse struct {
	Ticker       string      `json:"ticker"`
	Quantity     int64       `json:"quantity"`
	AvgPrice     json.Number `json:"avg_price"`
	LivePrice    json.Number `json:"live_price"`
	CurrentValue json.Number `json:"current_value"`
	CostBasis    json.Number `json:"cost_basis"`
	PLAbsolute   json.Number `json:"pl_absolute"`
	PLPercent    json.Number `json:"pl_percent"`
	PriceSource  string      `json:"price_source"`
}

// StatusResponse is the portfolio valuation payload
type StatusResponse struct {
	CashBalance         json.Number       `json:"cash_balance"`
	Holdings            []HoldingResponse `json:"holdings"`
	LastUpdatedUTC      string            `json:"last_updated_utc"`
	TotalMarketValue    json.Number       `json:"total_market_value"`
	TotalPortfolioValue json.Number       `json:"total_portfolio_value"`
}

// NewStatusResponse converts a snapshot to its wire shape
func NewStatusResponse(s *domain.PortfolioSnapshot) StatusResponse {
	holdings := make([]HoldingResponse, 0, len(s.Holdings))
	for _, vh := range s.Holdings {
		holdings = append(holdings, HoldingResponse{
			Ticker:       vh.Symbol,
			Quantity:     vh.Quantity,
			AvgPrice:     Money(vh.AvgPrice),
			LivePrice:    Money(vh.LivePrice),
			CurrentValue: Money(vh.CurrentValue),
			CostBasis:    Money(vh.CostBasis),
			PLAbsolute:   Money(vh.PLAbsolute),
			PLPercent:    Money(vh.PLPercent),
			PriceSource:  string(vh.PriceSource),
		})
	}

	return StatusResponse{
		CashBalance:         Money(s.CashBalance),
		Holdings:            holdings,
		LastUpdatedUTC:      domain.FormatTimestamp(s.LastUpdated),
		TotalMarketValue:    Money(s.TotalMarketValue),
		TotalPortfolioValue: Money(s.TotalPortfolioValue),
	}
}

// TradeRequest is the body of a trade or preview request
// Fields are untyped so malformed values reach validation instead of failing decode.
type TradeRequest struct {
	Symbol   any `json:"symbol"`
	Quantity any `json:"quantity"`
	Type     any `json:"type"`
}

// TradeRequestFromMap builds a request from a decoded key/value payload
func TradeRequestFromMap(m map[string]any) TradeRequest {
	return TradeRequest{
		Symbol:   m["symbol"],
		Quantity: m["quantity"],
		Type:     m["type"],
	}
}

// SymbolText returns the symbol, or "" when it is not a string
func (r TradeRequest) SymbolText() string {
	s, _ := r.Symbol.(string)
	return s
}

// TypeText returns the trade type, or "" when it is not a string
func (r TradeRequest) TypeText() string {
	s, _ := r.Type.(string)
	return s
}

// TradeDetails is the simulated execution record
type TradeDetails struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Quantity  int64  `json:"quantity"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// TradeResponse is the trade simulation payload
type TradeResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	TradeDetails *TradeDetails `json:"trade_details,omitempty"`
}

// NewTradeResponse converts a trade result to its wire shape
func NewTradeResponse(r *domain.TradeResult) TradeResponse {
	resp := TradeResponse{Success: r.Success, Message: r.Message}
	if r.Details != nil {
		resp.TradeDetails = &TradeDetails{
			ID:        r.Details.ID.String(),
			Symbol:    r.Details.Symbol,
			Quantity:  r.Details.Quantity,
			Type:      string(r.Details.Side),
			Timestamp: domain.FormatTimestamp(r.Details.Timestamp),
		}
	}
	return resp
}

// Failure builds an unsuccessful trade payload
func Failure(message string) TradeResponse {
	return TradeResponse{Success: false, Message: message}
}

// PreviewResponse is the trade preview payload
type PreviewResponse struct {
	Feasible        bool        `json:"feasible"`
	Message         string      `json:"message"`
	Symbol          string      `json:"symbol"`
	Type            string      `json:"type,omitempty"`
	Quantity        int64       `json:"quantity"`
	Price           json.Number `json:"price"`
	EstimatedAmount json.Number `json:"estimated_amount"`
	CashBefore      json.Number `json:"cash_before"`
	CashAfter       json.Number `json:"cash_after"`
	QuantityBefore  int64       `json:"quantity_before"`
	QuantityAfter   int64       `json:"quantity_after"`
	AvgPriceAfter   json.Number `json:"avg_price_after"`
	Timestamp       string      `json:"timestamp"`
}

// NewPreviewResponse converts a preview to its wire shape
func NewPreviewResponse(p *domain.TradePreview) PreviewResponse {
	return PreviewResponse{
		Feasible:        p.Feasible,
		Message:         p.Reason,
		Symbol:          p.Symbol,
		Type:            string(p.Side),
		Quantity:        p.Quantity,
		Price:           Money(p.Price),
		EstimatedAmount: Money(p.EstimatedAmount),
		CashBefore:      Money(p.CashBefore),
		CashAfter:       Money(p.CashAfter),
		QuantityBefore:  p.QuantityBefore,
		QuantityAfter:   p.QuantityAfter,
		AvgPriceAfter:   Money(p.AvgPriceAfter),
		Timestamp:       domain.FormatTimestamp(p.Timestamp),
	}
}
