package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountAddCommand())
	cmd.AddCommand(newAccountListCommand())
	return cmd
}

func newAccountAddCommand() *cobra.Command {
	var accountID int
	var name string
	var accountType string
	var description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			acct := model.Account{
				ID:          accountID,
				Name:        name,
				Type:        model.AccountType(accountType),
				Description: description,
			}
			if err := p.chart.Add(acct); err != nil {
				return err
			}
			if err := p.chart.Save(p.root); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added account %d (%s)\n", acct.ID, acct.Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&accountID, "id", 0, "account ID (required)")
	_ = cmd.MarkFlagRequired("id")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "", "account type (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}

func newAccountListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tNAME")
			for _, a := range p.chart.All() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Type, a.Name)
			}
			return tw.Flush()
		},
	}
}
