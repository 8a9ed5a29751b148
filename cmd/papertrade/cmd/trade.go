package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/papertrade-backend/internal/adapter/presenter"
)

// orderFlags are the flags describing one order
type orderFlags struct {
	symbol   string
	quantity string
	side     string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "instrument identifier, e.g. TCS.NS")
	cmd.Flags().StringVar(&f.quantity, "quantity", "", "number of shares (whole number)")
	cmd.Flags().StringVar(&f.side, "type", "", "order side (BUY|SELL)")
}

func newTradeCmd(opts *options) *cobra.Command {
	var order orderFlags

	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Validate and simulate an order",
		Long: `Validate a buy or sell order and print the simulated execution.
Nothing is recorded: every simulation is independent.

Example:
  papertrade trade --symbol TCS.NS --quantity 10 --type BUY`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.build(cmd)
			if err != nil {
				return err
			}

			result, err := a.Validator.ValidateAndSimulate(order.symbol, order.quantity, order.side)
			if err != nil {
				return fmt.Errorf("simulate trade: %w", err)
			}

			if err := writeJSON(cmd.OutOrStdout(), presenter.NewTradeResponse(result)); err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Message)
			}
			return nil
		},
	}

	order.register(cmd)
	return cmd
}
