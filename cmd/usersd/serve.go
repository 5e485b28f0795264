package main

import (
	"github.com/aussiebroadwan/userdir/internal/users/app"
	"github.com/spf13/cobra"
)

// databaseFlags overrides the DATABASE_* environment on a command.
type databaseFlags struct {
	driver string
	file   string
	url    string
}

func (f *databaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "database-driver", "", "sqlite or postgres (overrides DATABASE_DRIVER)")
	cmd.Flags().StringVar(&f.file, "database-file", "", "SQLite database file (overrides DATABASE_FILE)")
	cmd.Flags().StringVar(&f.url, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
}

func (f *databaseFlags) apply(cfg *app.Config) {
	if f.driver != "" {
		cfg.DatabaseDriver = f.driver
	}
	if f.file != "" {
		cfg.DatabaseFile = f.file
	}
	if f.url != "" {
		cfg.DatabaseURL = f.url
	}
}

func newServeCmd() *cobra.Command {
	var (
		db   databaseFlags
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			db.apply(&cfg)
			if port != 0 {
				cfg.Port = port
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}

	db.register(cmd)
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides PORT)")
	return cmd
}
