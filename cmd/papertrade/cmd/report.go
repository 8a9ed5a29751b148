package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/simaogato/papertrade-backend/internal/domain"
)

// Output formats
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// formatMoney renders an amount in the given currency, e.g. ₹1,234.50
// Unknown currency codes fall back to the plain amount followed by the code.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(domain.MoneyPlaces) + " " + currency
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// signedMoney is formatMoney with an explicit + for gains
func signedMoney(amount decimal.Decimal, currency string) string {
	if amount.IsPositive() {
		return "+" + formatMoney(amount, currency)
	}
	return formatMoney(amount, currency)
}

// statusMarkdown renders a valuation as a markdown document
func statusMarkdown(s *domain.PortfolioSnapshot, currency string) string {
	var b strings.Builder

	b.WriteString("# Portfolio status\n\n")
	fmt.Fprintf(&b, "_Last updated %s UTC_\n\n", domain.FormatTimestamp(s.LastUpdated))

	if len(s.Holdings) == 0 {
		b.WriteString("No holdings.\n\n")
	} else {
		b.WriteString("| Ticker | Qty | Avg price | Live price | Value | P/L | P/L % | Source |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|---|\n")
		for _, h := range s.Holdings {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s%% | %s |\n",
				h.Symbol,
				h.Quantity,
				formatMoney(h.AvgPrice, currency),
				formatMoney(h.LivePrice, currency),
				formatMoney(h.CurrentValue, currency),
				signedMoney(h.PLAbsolute, currency),
				h.PLPercent.StringFixed(domain.MoneyPlaces),
				h.PriceSource,
			)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "- **Cash:** %s\n", formatMoney(s.CashBalance, currency))
	fmt.Fprintf(&b, "- **Market value:** %s\n", formatMoney(s.TotalMarketValue, currency))
	fmt.Fprintf(&b, "- **Total:** %s\n", formatMoney(s.TotalPortfolioValue, currency))

	return b.String()
}

// previewMarkdown renders a trade preview as a markdown document
func previewMarkdown(p *domain.TradePreview, currency string) string {
	var b strings.Builder

	verdict := "Feasible"
	if !p.Feasible {
		verdict = "Not feasible: " + p.Reason
	}

	fmt.Fprintf(&b, "# Preview: %s %d %s\n\n", p.Side, p.Quantity, p.Symbol)
	fmt.Fprintf(&b, "**%s**\n\n", verdict)
	fmt.Fprintf(&b, "- **Price:** %s\n", formatMoney(p.Price, currency))
	fmt.Fprintf(&b, "- **Estimated amount:** %s\n", formatMoney(p.EstimatedAmount, currency))
	fmt.Fprintf(&b, "- **Cash:** %s → %s\n", formatMoney(p.CashBefore, currency), formatMoney(p.CashAfter, currency))
	fmt.Fprintf(&b, "- **Quantity:** %d → %d\n", p.QuantityBefore, p.QuantityAfter)
	fmt.Fprintf(&b, "- **Average price after:** %s\n", formatMoney(p.AvgPriceAfter, currency))

	return b.String()
}

// renderMarkdown styles md for a terminal
func renderMarkdown(w io.Writer, md, style string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// checkFormat validates a --format flag value
func checkFormat(format string) error {
	switch format {
	case formatJSON, formatMarkdown:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, formatJSON, formatMarkdown)
	}
}
