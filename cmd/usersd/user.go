package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aussiebroadwan/userdir/internal/users/app"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		db                        databaseFlags
		username, email, password string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user; prompts for the password when --password is omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := promptPassword(cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			application, err := openApp(db)
			if err != nil {
				return err
			}
			defer application.Close()

			u, err := application.UserService().CreateUser(context.Background(), service.CreateUserInput{
				Username: username,
				Email:    email,
				Password: password,
			})
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return formatValidation(verr)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %q with id %s\n", u.Username, u.ID)
			return nil
		},
	}

	db.register(cmd)
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// openApp builds the application from the environment and flags without
// starting the server.
func openApp(db databaseFlags) (*app.Application, error) {
	cfg := app.LoadConfig()
	db.apply(&cfg)
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	return app.New(cfg)
}

func formatValidation(verr *service.ValidationError) error {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msg := "invalid user:"
	for _, f := range fields {
		msg += fmt.Sprintf("\n  %s: %s", f, verr.Fields[f])
	}
	return errors.New(msg)
}
