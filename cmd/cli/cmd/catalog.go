package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Simplici0/interior-estimator/internal/catalog"
)

func newCatalogCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect rate catalogs",
	}
	cmd.AddCommand(newCatalogListCmd(opts), newCatalogValidateCmd())
	return cmd
}

func newCatalogListCmd(opts *options) *cobra.Command {
	var (
		section string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items and their rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if section != "" && !lo.Contains(catalog.Sections, catalog.Section(section)) {
				return fmt.Errorf("unknown section %q", section)
			}

			cat, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			entries := cat.Entries()
			if section != "" {
				entries = cat.Section(catalog.Section(section))
			}

			switch format {
			case formatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case formatTable:
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSECTION\tUNIT\tPREMIUM\tLUXURY\tDEFAULT")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						e.ID, e.Section, e.Unit, e.Rates.Premium, e.Rates.Luxury, defaultMagnitude(e))
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatJSON)
			}
		},
	}

	cmd.Flags().StringVarP(&section, "section", "s", "", "only list items of this section")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items, fingerprint %s\n", args[0], cat.Len(), cat.Fingerprint())
			return nil
		},
	}
}

func defaultMagnitude(e catalog.Entry) string {
	switch {
	case e.DefaultArea.Valid:
		return e.DefaultArea.Decimal.String() + " sqft"
	case e.DefaultQuantity.Valid:
		return e.DefaultQuantity.Decimal.String()
	}
	return "-"
}
