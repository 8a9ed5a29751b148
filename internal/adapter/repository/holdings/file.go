package holdings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/papertrade-backend/internal/domain"
)

// ErrInvalidHolding is returned when a holdings file entry cannot be parsed
var ErrInvalidHolding = errors.New("invalid holding")

// holdingsFile is the on-disk YAML layout
// Amounts are read as text so decimals are kept exactly as written
type holdingsFile struct {
	CashBalance string        `yaml:"cash_balance"`
	Holdings    []holdingLine `yaml:"holdings"`
}

type holdingLine struct {
	Ticker   string `yaml:"ticker"`
	Quantity int64  `yaml:"quantity"`
	AvgPrice string `yaml:"avg_price"`
}

// fileSource implements domain.HoldingsSource over a YAML file
type fileSource struct {
	path string
}

// NewFileSource creates a holdings source reading path on every Load
func NewFileSource(path string) domain.HoldingsSource {
	return &fileSource{path: path}
}

// Load reads and parses the holdings file
func (s *fileSource) Load(ctx context.Context) (*domain.Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read holdings file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML holdings document
func Parse(data []byte) (*domain.Portfolio, error) {
	var f holdingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse holdings file: %w", err)
	}

	cash := decimal.Zero
	if strings.TrimSpace(f.CashBalance) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(f.CashBalance))
		if err != nil {
			return nil, fmt.Errorf("invalid cash_balance %q: %w", f.CashBalance, err)
		}
		cash = parsed
	}

	portfolio := &domain.Portfolio{
		CashBalance: cash,
		Holdings:    make([]domain.Holding, 0, len(f.Holdings)),
	}

	for i, line := range f.Holdings {
		if strings.TrimSpace(line.Ticker) == "" {
			return nil, fmt.Errorf("%w: entry %d has no ticker", ErrInvalidHolding, i)
		}

		avgPrice, err := decimal.NewFromString(strings.TrimSpace(line.AvgPrice))
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d (%s) avg_price %q", ErrInvalidHolding, i, line.Ticker, line.AvgPrice)
		}

		portfolio.Holdings = append(portfolio.Holdings, domain.Holding{
			Symbol:   strings.TrimSpace(line.Ticker),
			Quantity: line.Quantity,
			AvgPrice: avgPrice,
		})
	}

	return portfolio, nil
}
