package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/littlesteps/booking/internal/app"
	"github.com/spf13/cobra"
)

func GDPRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gdpr",
		Short: "Data export and deletion housekeeping",
	}

	cmd.AddCommand(gdprCleanupCmd())
	cmd.AddCommand(gdprExpireCmd())
	cmd.AddCommand(gdprDeletionsCmd())
	return cmd
}

func gdprCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Delete download tokens past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				n, err := a.GDPRService.CleanupTokens(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d download tokens\n", n)
				return nil
			})
		},
	}
}

func gdprExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-deletions",
		Short: "Mark unconfirmed deletion requests past their deadline as expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				n, err := a.GDPRService.ExpireDeletionRequests(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "expired %d deletion requests\n", n)
				return nil
			})
		},
	}
}

func gdprDeletionsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "deletions",
		Short: "List deletion requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				requests, err := a.GDPRService.ListDeletionRequests(ctx, status)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tSTATUS\tCREATED\tEXPIRES")
				for _, r := range requests {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						r.ID, r.Email, r.Status,
						r.CreatedAt.Format("2006-01-02 15:04"),
						r.ExpiresAt.Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, completed, expired)")
	return cmd
}
