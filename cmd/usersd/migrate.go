package main

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/userdir/internal/users/app"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var db databaseFlags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			db.apply(&cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := app.OpenStore(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ApplyMigrations(); err != nil {
				return err
			}

			v, ok := st.(app.SchemaVersioner)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			}
			version, dirty, err := v.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d (dirty=%t)\n", cfg.DatabaseDriver, version, dirty)
			return nil
		},
	}

	db.register(cmd)
	return cmd
}
