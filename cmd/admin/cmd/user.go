package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/littlesteps/booking/internal/app"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin accounts",
	}

	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Example: "  admin user create --email owner@example.com\n" +
			"  ADMIN_PASSWORD=... admin user create --email owner@example.com",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and a password (--password or ADMIN_PASSWORD) are required")
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				admin, err := a.AuthService.CreateAdmin(ctx, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password (prefer ADMIN_PASSWORD)")
	return cmd
}
