package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/panel"
	"github.com/goliatone/go-invoicedesk/pipeline"
	"github.com/goliatone/go-invoicedesk/query"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (c *cli) invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice", "inv"},
		Short:   "Invoice operations",
	}
	cmd.AddCommand(
		c.invoiceListCmd(),
		c.invoiceShowCmd(),
		c.invoiceExportCmd("pdf", "Download the drawn invoice PDF", pipeline.StrategyDraw),
		c.invoiceExportCmd("snapshot", "Download a rasterized snapshot of the invoice print view", pipeline.StrategySnapshot),
		c.invoiceActionCmd("print", "Send the invoice print view to the printer", (*panel.InvoicePanel).Print),
		c.invoiceActionCmd("send", "Mark the invoice as sent", (*panel.InvoicePanel).MarkSent),
		c.invoiceActionCmd("void", "Void the invoice", (*panel.InvoicePanel).Void),
		c.invoiceActionCmd("delete", "Delete the invoice", (*panel.InvoicePanel).Delete),
		c.invoicePayCmd(),
		c.invoiceRefundCmd(),
		c.invoiceLinkCmd(),
		c.invoiceSpreadsheetCmd(),
	)
	return cmd
}

func (c *cli) invoiceListCmd() *cobra.Command {
	var (
		search  string
		page    int
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices with their due status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := dispatcher.Query[query.InvoiceList, books.Page[books.ListRow]](cmd.Context(), query.InvoiceList{
				Search:  search,
				Page:    page,
				PerPage: perPage,
				Now:     time.Now(),
			})
			if err != nil {
				return err
			}
			return printInvoicePage(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by customer name or invoice number")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", books.DefaultPerPage, "Rows per page")
	return cmd
}

func (c *cli) invoiceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an invoice as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := dispatcher.Query[query.InvoiceDetail, *books.Invoice](cmd.Context(), query.InvoiceDetail{InvoiceID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), inv)
		},
	}
}

func (c *cli) openInvoice(cmd *cobra.Command, id string) (*panel.InvoicePanel, error) {
	return panel.OpenInvoicePanel(cmd.Context(), c.app.services, panel.Callbacks{}, id)
}

func (c *cli) invoiceExportCmd(use, short string, strategy pipeline.Strategy) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openInvoice(cmd, args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			var result pipeline.Result
			if strategy == pipeline.StrategySnapshot {
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
}

func (c *cli) invoiceActionCmd(use, short string, action func(*panel.InvoicePanel) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openInvoice(cmd, args[0])
			if err != nil {
				return err
			}
			defer p.Close()
			return action(p)
		},
	}
}

func (c *cli) invoicePayCmd() *cobra.Command {
	var (
		amount string
		mode   string
		date   string
		clock  string
	)
	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Record a payment against an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			when, err := books.CombineDateTime(date, clock, time.Local)
			if err != nil {
				return err
			}
			p, err := c.openInvoice(cmd, args[0])
			if err != nil {
				return err
			}
			defer p.Close()
			return p.RecordPayment(books.PaymentRequest{
				Amount:      value,
				PaymentMode: books.PaymentMode(mode),
				Date:        when,
			})
		},
	}
	now := time.Now()
	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	cmd.Flags().StringVar(&mode, "mode", string(books.PaymentCash), "Payment mode (cash, bank_transfer, cheque, upi, credit_card)")
	cmd.Flags().StringVar(&date, "date", now.Format("2006-01-02"), "Payment date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&clock, "time", now.Format("15:04"), "Payment time (hh:mm)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (c *cli) invoiceRefundCmd() *cobra.Command {
	var (
		amount string
		mode   string
		reason string
	)
	cmd := &cobra.Command{
		Use:   "refund <id>",
		Short: "Refund part of what was paid on an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			p, err := c.openInvoice(cmd, args[0])
			if err != nil {
				return err
			}
			defer p.Close()
			return p.Refund(books.RefundRequest{
				Amount: value,
				Mode:   books.RefundMode(mode),
				Reason: reason,
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Refund amount")
	cmd.Flags().StringVar(&mode, "mode", string(books.RefundCash), "Refund mode (Cash, Bank Transfer, Cheque, UPI, Credit Card)")
	cmd.Flags().StringVar(&reason, "reason", "", "Refund reason")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (c *cli) invoiceLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <id>",
		Short: "Print the shareable invoice link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := panel.NewInvoicePanel(cmd.Context(), c.app.services, panel.Callbacks{}, &books.Invoice{ID: args[0]}, nil)
			defer p.Close()
			link, err := p.ShareLink()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
}

func (c *cli) invoiceSpreadsheetCmd() *cobra.Command {
	var (
		search string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export the invoice list to a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := panel.NewInvoiceList(cmd.Context(), c.app.services)
			defer list.Close()
			if search != "" {
				if err := list.Search(search); err != nil {
					return err
				}
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := list.ExportSpreadsheet(f); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by customer name or invoice number")
	cmd.Flags().StringVarP(&out, "out", "o", "invoices.xlsx", "Output file")
	return cmd
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, books.NewError(books.KindValidation, fmt.Sprintf("invalid amount %q", raw), err)
	}
	return value, nil
}
