package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/app"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
)

var errLedgerDisabled = errors.New("passcode ledger is disabled: DB_URL is not set")

// openLedgerApp loads the service configuration and connects to Postgres.
func openLedgerApp() (*app.App, error) {
	cfg := config.LoadConfig()
	if !cfg.LedgerEnabled() {
		return nil, errLedgerDisabled
	}
	return app.NewApp(cfg)
}

func reconcileCmd() *cobra.Command {
	var (
		batch   int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one passcode reconciliation pass now",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openLedgerApp()
			if err != nil {
				return err
			}
			defer application.Close()

			if batch > 0 {
				application.Config.ReconcileBatchSize = batch
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reconciler := services.NewPasscodeReconciler(application.Config, application.Ledger, application.Sciener)
			report, err := reconciler.RunOnce(ctx)
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "examined=%d revoked=%d abandoned=%d retrying=%d\n",
				report.Examined, report.Revoked, report.Abandoned, report.Retrying)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 0, "rows to examine (defaults to RECONCILE_BATCH_SIZE)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the pass")
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the passcode ledger",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Count ledger rows per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openLedgerApp()
			if err != nil {
				return err
			}
			defer application.Close()

			counts, err := application.Ledger.CountByStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("count ledger rows: %w", err)
			}
			return printLedgerStatus(cmd.OutOrStdout(), counts)
		},
	})
	return cmd
}

func printLedgerStatus(out io.Writer, counts map[models.PasscodeRegistrationStatus]int) error {
	statuses := make([]string, 0, len(counts))
	total := 0
	for status, n := range counts {
		statuses = append(statuses, string(status))
		total += n
	}
	sort.Strings(statuses)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCOUNT")
	for _, status := range statuses {
		fmt.Fprintf(tw, "%s\t%d\n", status, counts[models.PasscodeRegistrationStatus(status)])
	}
	fmt.Fprintf(tw, "TOTAL\t%d\n", total)
	return tw.Flush()
}
