package main

import (
	"os"

	"github.com/littlesteps/booking/cmd/admin/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Operational tools for the booking backend",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.MaintenanceCmd())
	rootCmd.AddCommand(cmd.GDPRCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
