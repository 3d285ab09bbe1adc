package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/auditlog"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

const dateFormat = "2006-01-02"

func newTxnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Create, build up and post transactions",
	}
	cmd.AddCommand(newTxnNewCommand())
	cmd.AddCommand(newTxnAddLineCommand())
	cmd.AddCommand(newTxnPostCommand())
	cmd.AddCommand(newTxnShowCommand())
	cmd.AddCommand(newTxnListCommand())
	cmd.AddCommand(newTxnRecycleCommand())
	cmd.AddCommand(newTxnRestoreCommand())
	return cmd
}

func newTxnNewCommand() *cobra.Command {
	var kind string
	var mainAccount int
	var dateStr string
	var reference string
	var narration string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			date := time.Now().UTC()
			if dateStr != "" {
				date, err = time.Parse(dateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("parsing date %q: %w", dateStr, err)
				}
			}

			tx := model.NewTransaction(p.cfg.Entity.ID, model.TransactionKind(kind), mainAccount, date)
			tx.Reference = reference
			tx.Narration = narration

			if err := p.service.Save(cmd.Context(), tx); err != nil {
				return err
			}
			if err := logAction(p, "saved", tx.Number, narration); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created draft %s\n", tx.Number)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "transaction kind prefix, e.g. PY (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().IntVar(&mainAccount, "main-account", 0, "main account ID (required)")
	_ = cmd.MarkFlagRequired("main-account")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&reference, "reference", "", "external reference")
	cmd.Flags().StringVar(&narration, "narration", "", "narration")

	return cmd
}

func newTxnAddLineCommand() *cobra.Command {
	var accountID int
	var amountStr string
	var vatCode string
	var quantity int64
	var inclusive bool
	var credit bool
	var narration string

	cmd := &cobra.Command{
		Use:   "add-line <transaction-number>",
		Short: "Add a line item to a draft transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			tx, err := p.store.GetTransactionByNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tx == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountStr, err)
			}

			li := model.NewLineItem(accountID, vatCode, amount)
			li.Quantity = quantity
			li.VatInclusive = inclusive
			li.Credited = credit
			li.Narration = narration

			if err := p.service.AddLineItem(cmd.Context(), tx, li); err != nil {
				return err
			}
			if err := p.service.Save(cmd.Context(), tx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", li, tx.Number)
			return nil
		},
	}

	cmd.Flags().IntVar(&accountID, "account", 0, "line item account ID (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&vatCode, "vat", "Z", "VAT code")
	cmd.Flags().Int64Var(&quantity, "quantity", 1, "quantity")
	cmd.Flags().BoolVar(&inclusive, "vat-inclusive", false, "VAT is included in the amount")
	cmd.Flags().BoolVar(&credit, "credit", false, "credit the line item account (journal entries only)")
	cmd.Flags().StringVar(&narration, "narration", "", "narration")

	return cmd
}

func newTxnPostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post <transaction-number>",
		Short: "Post a draft transaction to the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			tx, err := p.store.GetTransactionByNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tx == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			if err := p.service.Post(cmd.Context(), tx); err != nil {
				return err
			}
			if err := logAction(p, "posted", tx.Number, fmt.Sprintf("%d line items", len(tx.LineItems))); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", tx.Number)
			return nil
		},
	}
}

func newTxnShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-number>",
		Short: "Show a transaction with its line items and postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			tx, err := p.store.GetTransactionByNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tx == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  main account %d  %s\n", tx.Number, tx.Kind, tx.MainAccountID, tx.Date.Format(dateFormat))
			if tx.Narration != "" {
				fmt.Fprintf(out, "  %s\n", tx.Narration)
			}
			for _, li := range tx.LineItems {
				side := "debit"
				if li.Credited {
					side = "credit"
				}
				fmt.Fprintf(out, "  line: %s x%d  %s  vat %s\n", li.Amount.StringFixed(2), li.Quantity, side, li.VatCode)
			}

			postings, err := p.store.LedgersByTransaction(cmd.Context(), tx.ID)
			if err != nil {
				return err
			}
			for _, l := range postings {
				fmt.Fprintf(out, "  posting: %s %s on account %d\n", l.EntryType, l.Amount.StringFixed(2), l.PostAccountID)
			}
			if len(postings) == 0 {
				fmt.Fprintln(out, "  (draft, not posted)")
			}
			return nil
		},
	}
}

func newTxnListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions",
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

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tKIND\tDATE\tMAIN ACCOUNT\tNARRATION")
			for _, tx := range txns {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", tx.Number, tx.Kind, tx.Date.Format(dateFormat), tx.MainAccountID, tx.Narration)
			}
			return tw.Flush()
		},
	}
}

func newTxnRecycleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recycle <transaction-number>",
		Short: "Soft-delete a transaction and its postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			tx, err := p.store.GetTransactionByNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tx == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			if err := p.store.Recycle(cmd.Context(), tx.ID); err != nil {
				return err
			}
			if err := logAction(p, "recycled", tx.Number, ""); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recycled %s\n", tx.Number)
			return nil
		},
	}
}

func newTxnRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <transaction-number>",
		Short: "Restore a recycled transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			// Recycled rows are invisible to the scoped queries, so restore
			// works from the audit log's number -> we look it up unscoped.
			tx, err := p.store.GetTransactionByNumberAny(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tx == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			if err := p.store.Restore(cmd.Context(), tx.ID); err != nil {
				return err
			}
			if err := logAction(p, "restored", tx.Number, ""); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", tx.Number)
			return nil
		},
	}
}

func logAction(p *project, action, number, details string) error {
	return auditlog.Append(p.root, []auditlog.Entry{{
		Timestamp:   time.Now().UTC(),
		EntityID:    p.cfg.Entity.ID,
		Action:      action,
		Transaction: number,
		Details:     details,
	}})
}
