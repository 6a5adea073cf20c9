package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/interior-estimator/internal/catalog"
	"github.com/Simplici0/interior-estimator/internal/db"
	"github.com/Simplici0/interior-estimator/internal/migrations"
	"github.com/Simplici0/interior-estimator/internal/seed"
)

var errNoDB = errors.New("--db is required")

func (o *options) openDB(ctx context.Context) (*sql.DB, error) {
	if o.dbPath == "" {
		return nil, errNoDB
	}
	return db.Open(ctx, o.dbPath)
}

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := opts.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer database.Close()
				return migrations.Up(cmd.Context(), database, opts.log())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := opts.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer database.Close()
				return migrations.Down(cmd.Context(), database, opts.log())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := opts.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer database.Close()

				v, err := migrations.Version(cmd.Context(), database)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
				return nil
			},
		},
	)
	return cmd
}

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and seed it with a catalog",
		Long: `Apply migrations and insert every catalog row that is missing.

The catalog comes from --catalog or the built-in default. Rows that already
exist are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			database, err := opts.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := migrations.Up(ctx, database, opts.log()); err != nil {
				return err
			}

			var cat *catalog.Catalog
			if opts.catalogFile != "" {
				cat, err = catalog.LoadFile(opts.catalogFile)
			} else {
				cat, err = catalog.Default()
			}
			if err != nil {
				return err
			}

			stats, err := seed.Run(ctx, database, cat)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s: %d inserted, %d already present\n", opts.dbPath, stats.Inserts, stats.Skipped)
			return nil
		},
	}
}
