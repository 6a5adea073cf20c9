// Package cmd provides the CLI commands for the interior estimator.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/catalog"
	"github.com/Simplici0/interior-estimator/internal/db"
	"github.com/Simplici0/interior-estimator/internal/logging"
	"github.com/Simplici0/interior-estimator/internal/store"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	catalogFile string
	dbPath      string
	verbose     bool

	logger *zap.Logger
}

// Execute runs the CLI
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "estimator",
		Short: "Estimate interior design costs",
		Long: `estimator prices interior design selections against a rate catalog.

The catalog comes from --catalog (an HCL or JSON file), from --db (a SQLite
database seeded with "estimator seed"), or from the built-in default.

Examples:
  estimator estimate request.json
  cat request.json | estimator estimate --format json
  estimator catalog list --section kitchen
  estimator --db ./dev.db seed`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.DefaultConfig()
			cfg.Format = "console"
			cfg.Level = "warn"
			if opts.verbose {
				cfg.Level = "debug"
			}
			logger, err := logging.New(cfg)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "catalog file (.hcl or .json)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newEstimateCmd(opts),
		newCatalogCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadCatalog resolves the catalog source from the persistent flags.
func (o *options) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch {
	case o.catalogFile != "":
		return catalog.LoadFile(o.catalogFile)
	case o.dbPath != "":
		database, err := db.Open(ctx, o.dbPath)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		return store.New(database, o.log()).LoadCatalog(ctx)
	default:
		return catalog.Default()
	}
}

func (o *options) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "estimator version %s\n", Version)
		},
	}
}
