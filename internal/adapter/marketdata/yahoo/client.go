// Package yahoo provides a market-data provider backed by Yahoo Finance intraday bars.
package yahoo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/multi"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/simaogato/papertrade-backend/internal/domain"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

const (
	// DefaultPeriod is the lookback window: the current session
	DefaultPeriod = "1d"
	// DefaultInterval is the bar size: minute-level samples
	DefaultInterval = "1m"
)

// batchFunc downloads bars for several symbols; per-symbol failures are reported in the error map
type batchFunc func(symbols []string, period, interval string) (map[string][]domain.PriceBar, map[string]error, error)

// historyFunc downloads bars for a single symbol
type historyFunc func(symbol, period, interval string) ([]domain.PriceBar, error)

// Client implements domain.MarketDataProvider using go-yfinance
type Client struct {
	Period   string
	Interval string
	batch    batchFunc
	history  historyFunc
	log      zerolog.Logger
}

// NewClient creates a new Yahoo Finance market-data client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		Period:   DefaultPeriod,
		Interval: DefaultInterval,
		batch:    downloadBatch,
		history:  downloadHistory,
		log:      logger.Component(log, "yahoo"),
	}
}

// LatestBars fetches today's minute bars
// One symbol yields a single-symbol frame (Bars); several symbols yield a batched frame (Series).
// go-yfinance does not take a context, so the call runs in a goroutine and is abandoned when ctx ends.
func (c *Client) LatestBars(ctx context.Context, symbols []string) (domain.PriceFrame, error) {
	if len(symbols) == 0 {
		return domain.PriceFrame{}, nil
	}

	type result struct {
		frame domain.PriceFrame
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("go-yfinance panicked: %v", rec)}
			}
		}()
		frame, err := c.fetch(symbols)
		done <- result{frame: frame, err: err}
	}()

	select {
	case res := <-done:
		return res.frame, res.err
	case <-ctx.Done():
		return domain.PriceFrame{}, ctx.Err()
	}
}

func (c *Client) fetch(symbols []string) (domain.PriceFrame, error) {
	if len(symbols) == 1 {
		bars, err := c.history(symbols[0], c.Period, c.Interval)
		if err != nil {
			return domain.PriceFrame{}, fmt.Errorf("failed to get history for %s: %w", symbols[0], err)
		}
		return domain.PriceFrame{Bars: bars}, nil
	}

	series, errs, err := c.batch(symbols, c.Period, c.Interval)
	if err != nil {
		return domain.PriceFrame{}, fmt.Errorf("failed to download batch quotes: %w", err)
	}
	for symbol, symErr := range errs {
		// Continue with the other symbols
		c.log.Warn().Err(symErr).Str("symbol", symbol).Msg("Failed to get bars for symbol")
	}
	return domain.PriceFrame{Series: series}, nil
}

// downloadBatch uses multi.Download for batch operations
func downloadBatch(symbols []string, period, interval string) (map[string][]domain.PriceBar, map[string]error, error) {
	params := models.DefaultDownloadParams()
	params.Symbols = symbols
	params.Period = period
	params.Interval = interval

	result, err := multi.Download(symbols, &params)
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]domain.PriceBar, len(result.Data))
	for symbol, bars := range result.Data {
		series[symbol] = convertBars(bars)
	}

	errs := make(map[string]error, len(result.Errors))
	for symbol, symErr := range result.Errors {
		errs[symbol] = symErr
	}

	return series, errs, nil
}

// downloadHistory fetches the bars of a single ticker
func downloadHistory(symbol, period, interval string) ([]domain.PriceBar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:   period,
		Interval: interval,
	})
	if err != nil {
		return nil, err
	}
	return convertBars(bars), nil
}

// convertBars maps go-yfinance bars to domain bars, keeping their order
func convertBars(bars []models.Bar) []domain.PriceBar {
	out := make([]domain.PriceBar, 0, len(bars))
	for _, bar := range bars {
		out = append(out, domain.PriceBar{Time: bar.Date, Close: bar.Close})
	}
	return out
}
