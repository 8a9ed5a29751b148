package valuation

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

// ValuationService handles portfolio valuation requests
type ValuationService struct {
	Resolver domain.QuoteResolver
	Holdings domain.HoldingsSource
	Now      func() time.Time
	log      zerolog.Logger
}

// NewValuationService creates a new ValuationService instance
func NewValuationService(resolver domain.QuoteResolver, holdings domain.HoldingsSource, log zerolog.Logger) *ValuationService {
	return &ValuationService{
		Resolver: resolver,
		Holdings: holdings,
		Now:      time.Now,
		log:      logger.Component(log, "valuation"),
	}
}

// GetPortfolioStatus loads the portfolio from the holdings source and valuates it
// A holdings source failure is returned as an error (there is nothing sensible to value)
func (s *ValuationService) GetPortfolioStatus(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	if s.Holdings == nil {
		return nil, errors.New("no holdings source configured")
	}

	portfolio, err := s.Holdings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	return s.Valuate(ctx, portfolio.CashBalance, portfolio.Holdings), nil
}

// Valuate resolves live quotes for holdings and builds the snapshot
// The timestamp is captured before the quote lookup and reused for the whole snapshot.
// A resolver failure (error or panic) degrades to average-cost valuation.
func (s *ValuationService) Valuate(ctx context.Context, cash decimal.Decimal, holdings []domain.Holding) *domain.PortfolioSnapshot {
	now := s.Now()

	quotes := map[string]domain.Quote{}
	if len(holdings) > 0 {
		quotes = s.resolveQuotes(ctx, domain.SymbolsOf(holdings))
	}

	snapshot := Valuate(cash, holdings, quotes, now)

	s.log.Debug().
		Int("holdings", len(snapshot.Holdings)).
		Str("total_portfolio_value", snapshot.TotalPortfolioValue.StringFixed(2)).
		Msg("Portfolio valuated")

	return &snapshot
}

// resolveQuotes calls the resolver, converting any failure into an empty quote set
func (s *ValuationService) resolveQuotes(ctx context.Context, symbols []string) (quotes map[string]domain.Quote) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Msg("Quote resolver panicked, valuing at average cost")
			quotes = map[string]domain.Quote{}
		}
	}()

	if s.Resolver == nil {
		return map[string]domain.Quote{}
	}

	resolved, err := s.Resolver.Resolve(ctx, symbols)
	if err != nil {
		s.log.Warn().Err(err).Msg("Quote resolution failed, valuing at average cost")
		return map[string]domain.Quote{}
	}
	if resolved == nil {
		return map[string]domain.Quote{}
	}
	return resolved
}
