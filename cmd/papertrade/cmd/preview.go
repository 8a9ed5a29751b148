package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/papertrade-backend/internal/adapter/presenter"
)

func newPreviewCmd(opts *options) *cobra.Command {
	var (
		order  orderFlags
		format string
		style  string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Check whether an order could be filled",
		Long: `Price an order at the live quote and check it against the portfolio:
available cash for a BUY, held shares for a SELL. The portfolio is not changed.

Example:
  papertrade preview --symbol RELIANCE.NS --quantity 5 --type SELL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			a, _, err := opts.build(cmd)
			if err != nil {
				return err
			}

			preview, err := a.Previewer.Preview(cmd.Context(), order.symbol, order.quantity, order.side)
			if err != nil {
				return fmt.Errorf("preview trade: %w", err)
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), presenter.NewPreviewResponse(preview))
			}
			return renderMarkdown(cmd.OutOrStdout(), previewMarkdown(preview, a.Config.Currency), style)
		},
	}

	order.register(cmd)
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format (json|markdown)")
	cmd.Flags().StringVar(&style, "style", "auto", "markdown style (auto|dark|light|notty)")

	return cmd
}
