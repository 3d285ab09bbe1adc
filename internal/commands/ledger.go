package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/export"
)

func newLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and export posted ledgers",
	}
	cmd.AddCommand(newLedgerExportCommand())
	cmd.AddCommand(newLedgerBalancesCommand())
	return cmd
}

func newLedgerExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all posted ledgers to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			txns, err := p.store.Transactions(cmd.Context())
			if err != nil {
				return err
			}

			var rows []export.Row
			for _, tx := range txns {
				postings, err := p.store.LedgersByTransaction(cmd.Context(), tx.ID)
				if err != nil {
					return err
				}
				for _, l := range postings {
					rows = append(rows, export.FromLedger(tx.Number, l))
				}
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return export.WriteRows(out, rows)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	return cmd
}

func newLedgerBalancesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show per-account debit/credit totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			balances, err := p.store.Balances(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ACCOUNT\tNAME\tDEBITS\tCREDITS")
			for _, b := range balances {
				name := ""
				if a, ok := p.chart.Account(b.AccountID); ok {
					name = a.Name
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.AccountID, name, b.Debits.StringFixed(2), b.Credits.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}
