package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/catalog"
	"github.com/Simplici0/interior-estimator/internal/money"
	"github.com/Simplici0/interior-estimator/internal/pricing"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newEstimateCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "estimate [request.json]",
		Short: "Estimate the cost of a set of selections",
		Long: `Read a calculate request and print the estimate.

The request has the same shape as the body of POST /api/calculate. It is read
from the given file, or from stdin when the file is omitted or "-".

Examples:
  estimator estimate request.json
  estimator estimate --format json < request.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatJSON)
			}

			req, err := readRequest(cmd, args)
			if err != nil {
				return err
			}

			cat, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			b, err := pricing.Estimate(cat, req)
			if err != nil {
				return err
			}
			opts.log().Debug("estimate calculated",
				zap.Int("items", b.ItemCount),
				zap.String("grand_total", b.GrandTotal.String()),
			)

			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pricing.NewResponse(b))
			}
			return printBreakdown(cmd.OutOrStdout(), b)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func readRequest(cmd *cobra.Command, args []string) (pricing.Request, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return pricing.Request{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req pricing.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return pricing.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func printBreakdown(out io.Writer, b pricing.Breakdown) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ITEM\tDETAIL\tAMOUNT")
	for _, section := range catalog.Sections {
		lines := lo.Filter(b.Lines, func(l pricing.Line, _ int) bool {
			return l.Section == section
		})
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(tw, "%s\t\t%s\n", section.Label(), money.FormatINR(b.Subtotals.For(section)))
		for _, l := range lines {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", l.Label, l.Formula, money.FormatINR(l.Amount))
		}
	}

	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintf(tw, "Base total\t\t%s\n", money.FormatINR(b.BaseTotal))
	fmt.Fprintf(tw, "Design fee\t\t%s\n", money.FormatINR(b.Fees.DesignFee))
	fmt.Fprintf(tw, "Transport & installation\t\t%s\n", money.FormatINR(b.Fees.TransportInstall))
	fmt.Fprintf(tw, "Contingency\t\t%s\n", money.FormatINR(b.Fees.Contingency))
	fmt.Fprintf(tw, "GST\t\t%s\n", money.FormatINR(b.Fees.GST))
	fmt.Fprintf(tw, "Grand total\t%d items\t%s\n", b.ItemCount, money.FormatINR(b.GrandTotal))

	return tw.Flush()
}
