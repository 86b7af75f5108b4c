package main

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/command"
	"github.com/goliatone/go-invoicedesk/panel"
	"github.com/goliatone/go-invoicedesk/pipeline"
	"github.com/goliatone/go-invoicedesk/query"
	"github.com/spf13/cobra"
)

func (c *cli) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"expense", "exp"},
		Short:   "Expense operations",
	}
	cmd.AddCommand(
		c.expenseListCmd(),
		c.expenseShowCmd(),
		c.expensePDFCmd(),
		c.expensePrintCmd(),
		c.expenseDeleteCmd(),
	)
	return cmd
}

func (c *cli) expenseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := dispatcher.Query[query.ExpenseList, []books.Expense](cmd.Context(), query.ExpenseList{})
			if err != nil {
				return err
			}
			return printExpenses(cmd.OutOrStdout(), items)
		},
	}
}

func (c *cli) expenseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an expense with its tax labels and journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := panel.OpenExpensePanel(cmd.Context(), c.app.services, panel.Callbacks{}, args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			exp := p.Expense()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Expense #%s  %s\n", exp.ExpenseNumber, books.FormatDate(exp.Date.Time))
			fmt.Fprintf(w, "Account:      %s\n", exp.ExpenseAccount)
			fmt.Fprintf(w, "Amount:       %s\n", books.FormatCurrency(exp.Amount))
			fmt.Fprintf(w, "Paid through: %s\n", exp.PaidThrough)
			fmt.Fprintf(w, "Vendor:       %s\n", exp.VendorName)
			fmt.Fprintf(w, "Tax:          %s\n", p.TaxLabel())
			fmt.Fprintf(w, "Tax amount:   %s\n", p.TaxAmountLabel())
			fmt.Fprintln(w)
			for _, row := range p.Journal() {
				account := row.Account
				if row.Total {
					account = "Total"
				}
				fmt.Fprintf(w, "%-24s %14s %14s\n", account, books.FormatAmount(row.Debit), books.FormatAmount(row.Credit))
			}
			return nil
		},
	}
}

func (c *cli) expensePDFCmd() *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download the expense as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pipeline.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			p, err := panel.OpenExpensePanel(cmd.Context(), c.app.services, panel.Callbacks{}, args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			var result pipeline.Result
			if s == pipeline.StrategySnapshot {
				result, err = p.DownloadSnapshot()
			} else {
				result, err = p.DownloadPDF()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Ref.Path)
			return err
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", string(pipeline.StrategyDraw), "draw or snapshot")
	return cmd
}

func (c *cli) expensePrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <id>",
		Short: "Send the expense print view to the printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := panel.OpenExpensePanel(cmd.Context(), c.app.services, panel.Callbacks{}, args[0])
			if err != nil {
				return err
			}
			defer p.Close()
			return p.Print()
		},
	}
}

func (c *cli) expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dispatcher.Dispatch(cmd.Context(), command.DeleteExpense{ExpenseID: args[0]}); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "expense %s deleted\n", args[0])
			return err
		},
	}
}
