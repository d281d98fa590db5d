package cmd

import (
	"context"
	"fmt"

	"github.com/littlesteps/booking/internal/app"
	"github.com/spf13/cobra"
)

func MaintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Show or toggle maintenance mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				m, err := a.SettingsService.MaintenanceStatus(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "enabled=%t message=%q\n", m.Enabled, m.Message)
				return nil
			})
		},
	}

	cmd.AddCommand(maintenanceSetCmd("on", true))
	cmd.AddCommand(maintenanceSetCmd("off", false))
	return cmd
}

func maintenanceSetCmd(use string, enabled bool) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   use,
		Short: "Turn maintenance mode " + use,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				m, err := a.SettingsService.SetMaintenance(ctx, enabled, message)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "maintenance enabled=%t message=%q\n", m.Enabled, m.Message)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "message shown to visitors (clears the current one when empty)")
	return cmd
}
