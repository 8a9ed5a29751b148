package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simaogato/papertrade-backend/internal/app"
	"github.com/simaogato/papertrade-backend/internal/config"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

// options are the global flags shared by every subcommand
type options struct {
	provider string
	holdings string
	currency string
}

// NewRootCommand builds the papertrade command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "papertrade",
		Short: "Paper-trading portfolio valuation and trade simulation",
		Long: `PaperTrade values a fixed portfolio against live market quotes and
simulates buy/sell orders without touching any brokerage.

Configuration is read from the environment (and a .env file when present);
the global flags below override it for a single invocation.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.provider, "provider", "", "quote provider override (yahoo|mock)")
	root.PersistentFlags().StringVar(&opts.holdings, "holdings", "", "holdings YAML file override")
	root.PersistentFlags().StringVar(&opts.currency, "currency", "", "display currency override (ISO 4217)")

	root.AddCommand(
		newStatusCmd(opts),
		newTradeCmd(opts),
		newPreviewCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// load reads configuration and applies flag overrides
func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.provider != "" {
		cfg.QuoteProvider = strings.ToLower(o.provider)
	}
	if o.holdings != "" {
		cfg.HoldingsFile = o.holdings
	}
	if o.currency != "" {
		cfg.Currency = strings.ToUpper(o.currency)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build wires the application, logging to the command's stderr
func (o *options) build(cmd *cobra.Command) (*app.App, zerolog.Logger, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Output: cmd.ErrOrStderr()})

	a, err := app.New(cfg, log)
	if err != nil {
		return nil, log, fmt.Errorf("initialize application: %w", err)
	}
	return a, log, nil
}
