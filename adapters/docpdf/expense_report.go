package docpdf

import (
	"context"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/theme"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

func themeColor(class string) *props.Color {
	c := theme.MustResolve(class)
	return &props.Color{Red: int(c.R), Green: int(c.G), Blue: int(c.B)}
}

// Expense draws the expense report: header, details and the journal table.
func (d *Drawer) Expense(ctx context.Context, exp *books.Expense) ([]byte, error) {
	if exp == nil {
		return nil, books.NewError(books.KindValidation, "expense is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	muted := themeColor("text-gray-500")
	label := props.Text{Size: 9, Color: muted}
	value := props.Text{Size: 10}

	m.AddRow(20,
		text.NewCol(8, "Expense", props.Text{Size: 20, Style: fontstyle.Bold}),
		col.New(4).Add(
			text.New("Amount", props.Text{Size: 9, Align: align.Right, Color: muted}),
			text.New(pdfCurrency(exp.Amount), props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right, Top: 5, Color: themeColor("text-red-600")}),
		),
	)
	m.AddRow(10,
		text.NewCol(12, books.FormatDate(exp.Date.Time)+" - "+exp.ExpenseAccount, props.Text{Size: 10, Color: muted}),
	)

	details := [][2]string{
		{"Expense #", exp.ExpenseNumber},
		{"Paid Through", exp.PaidThrough},
		{"Vendor", exp.VendorName},
		{"Expense Type", books.ModeLabel(exp.ExpenseType)},
		{"SAC", exp.SAC},
		{"GST Treatment", books.ModeLabel(exp.GSTTreatment)},
		{"Source of Supply", exp.SourceOfSupply},
		{"Destination of Supply", exp.DestinationOfSupply},
		{"Tax", books.TaxLabel(exp.Tax)},
		{"Tax Amount", pdfCurrency(exp.TaxAmount) + " (" + books.AmountIsLabel(exp.AmountIs) + ")"},
		{"Invoice #", exp.InvoiceNumber},
		{"Customer", exp.CustomerName},
	}
	for _, entry := range details {
		if entry[1] == "" {
			entry[1] = "-"
		}
		m.AddRow(7,
			text.NewCol(4, entry[0], label),
			text.NewCol(8, entry[1], value),
		)
	}
	if exp.Notes != "" {
		m.AddRow(7, text.NewCol(4, "Notes", label), text.NewCol(8, exp.Notes, value))
	}

	m.AddRow(14,
		text.NewCol(12, "Journal", props.Text{Size: 12, Style: fontstyle.Bold, Top: 6}),
	)
	head := props.Text{Size: 9, Style: fontstyle.Bold, Color: themeColor("text-slate-600")}
	headRight := head
	headRight.Align = align.Right
	m.AddRow(8,
		text.NewCol(6, "Account", head),
		text.NewCol(3, "Debit", headRight),
		text.NewCol(3, "Credit", headRight),
	)
	for _, row := range books.ExpenseJournal(exp) {
		style := props.Text{Size: 9}
		account := row.Account
		if row.Total {
			style.Style = fontstyle.Bold
			account = "Total"
		}
		right := style
		right.Align = align.Right
		m.AddRow(7,
			text.NewCol(6, account, style),
			text.NewCol(3, journalAmount(row.Debit), right),
			text.NewCol(3, journalAmount(row.Credit), right),
		)
	}

	m.AddRow(12,
		text.NewCol(12, "Generated on: "+books.FormatDateTime(d.now()), props.Text{Size: 8, Align: align.Center, Top: 6, Color: muted}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, books.NewError(books.KindRender, "draw expense pdf", err)
	}
	return doc.GetBytes(), nil
}

func journalAmount(amount decimal.Decimal) string {
	return books.FormatAmount(amount)
}
