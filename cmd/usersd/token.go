package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or revoke a user's bearer token",
	}
	cmd.AddCommand(newTokenIssueCmd())
	cmd.AddCommand(newTokenRevokeCmd())
	return cmd
}

func newTokenIssueCmd() *cobra.Command {
	var (
		db       databaseFlags
		username string
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print a usable token for a user, reusing a fresh one",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(db)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx := context.Background()
			u, err := lookupUser(ctx, application.Store(), username)
			if err != nil {
				return err
			}

			u, err = application.TokenService().IssueToken(ctx, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\texpires %s\n", u.Token, u.TokenExpiration.UTC().Format(time.RFC3339))
			return nil
		},
	}

	db.register(cmd)
	cmd.Flags().StringVar(&username, "username", "", "username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newTokenRevokeCmd() *cobra.Command {
	var (
		db       databaseFlags
		username string
	)

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Expire a user's token immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(db)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx := context.Background()
			u, err := lookupUser(ctx, application.Store(), username)
			if err != nil {
				return err
			}

			if err := application.TokenService().RevokeToken(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked token of %q\n", u.Username)
			return nil
		},
	}

	db.register(cmd)
	cmd.Flags().StringVar(&username, "username", "", "username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func lookupUser(ctx context.Context, st store.Store, username string) (domain.User, error) {
	u, err := st.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("no user named %q", username)
	}
	return u, err
}
