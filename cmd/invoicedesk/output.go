package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goliatone/go-invoicedesk/books"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printInvoicePage(w io.Writer, page books.Page[books.ListRow]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tINVOICE#\tCUSTOMER\tSTATUS\tDUE DATE\tAMOUNT\tBALANCE DUE")
	for _, row := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			books.FormatDate(row.Date.Time),
			row.InvoiceNumber,
			truncate(row.CustomerName, 28),
			row.DisplayStatus,
			books.FormatDate(row.DueDate.Time),
			books.FormatCurrency(row.Amount),
			books.FormatCurrency(row.BalanceDue),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d invoices)\n", page.Page, page.TotalPages, page.TotalItems)
	return err
}

func printExpenses(w io.Writer, items []books.Expense) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tEXPENSE#\tACCOUNT\tVENDOR\tAMOUNT\tTAX")
	for _, exp := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			books.FormatDate(exp.Date.Time),
			exp.ExpenseNumber,
			truncate(exp.ExpenseAccount, 24),
			truncate(exp.VendorName, 24),
			books.FormatCurrency(exp.Amount),
			books.TaxLabel(exp.Tax),
		)
	}
	return tw.Flush()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
