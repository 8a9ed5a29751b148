package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"

	grpcadapter "github.com/simaogato/papertrade-backend/internal/adapter/grpc"
	"github.com/simaogato/papertrade-backend/internal/adapter/presenter"
)

const remoteTimeout = 30 * time.Second

func newStatusCmd(opts *options) *cobra.Command {
	var (
		format string
		style  string
		remote string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Value the portfolio at live prices",
		Long: `Value every holding at its live quote, falling back to the average
cost when no quote is available, and print the totals.

Example:
  papertrade status --format markdown
  papertrade status --format json --remote localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if remote != "" {
				if format != formatJSON {
					return errors.New("--remote only supports --format json")
				}
				return remoteStatus(cmd, remote)
			}

			a, _, err := opts.build(cmd)
			if err != nil {
				return err
			}

			snapshot, err := a.Valuation.GetPortfolioStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("get portfolio status: %w", err)
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), presenter.NewStatusResponse(snapshot))
			}
			return renderMarkdown(cmd.OutOrStdout(), statusMarkdown(snapshot, a.Config.Currency), style)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatMarkdown, "output format (json|markdown)")
	cmd.Flags().StringVar(&style, "style", "auto", "markdown style (auto|dark|light|notty)")
	cmd.Flags().StringVar(&remote, "remote", "", "query a running server over gRPC at this address")

	return cmd
}

// remoteStatus asks a running server for its valuation
func remoteStatus(cmd *cobra.Command, addr string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()

	resp, err := grpcadapter.NewClient(conn).GetPortfolioStatus(ctx)
	if err != nil {
		return fmt.Errorf("get portfolio status: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
