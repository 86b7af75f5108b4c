package docpdf

import (
	"strconv"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/shopspring/decimal"
)

// Align is the horizontal anchor of a text placement.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// PlacementKind tells the renderer what to draw.
type PlacementKind int

const (
	KindText PlacementKind = iota
	KindLine
	KindPageBreak
)

// Placement is one positioned element of a drawn page, in millimetres from
// the top-left corner.
type Placement struct {
	Kind  PlacementKind
	X, Y  float64
	X2    float64
	Y2    float64
	Text  string
	Size  float64
	Bold  bool
	Align Align
}

// TotalLine is an entry of the totals block.
type TotalLine struct {
	Label  string
	Amount decimal.Decimal
	Text   string
}

// ImageSlot bounds an optional branding image.
type ImageSlot struct {
	URL       string
	X, Y      float64
	MaxWidth  float64
	MaxHeight float64
}

// Layout is the full drawing plan of an invoice page.
type Layout struct {
	Placements []Placement
	Totals     []TotalLine
	Images     []ImageSlot
}

// Lines returns the text placements in drawing order.
func (l Layout) Lines() []string {
	out := make([]string, 0, len(l.Placements))
	for _, p := range l.Placements {
		if p.Kind == KindText {
			out = append(out, p.Text)
		}
	}
	return out
}

// Total returns the totals entry with the given label.
func (l Layout) Total(label string) (TotalLine, bool) {
	for _, t := range l.Totals {
		if t.Label == label {
			return t, true
		}
	}
	return TotalLine{}, false
}

const (
	pageRight     = 190.0
	pageLeft      = 20.0
	totalsLeft    = 120.0
	rowStep       = 8.0
	itemsStartY   = 130.0
	itemsBottomY  = 265.0
	itemsTopY     = 30.0
	totalsBottomY = 220.0
)

// pdfCurrency prefixes amounts for the core PDF fonts, which have no rupee
// glyph.
func pdfCurrency(amount decimal.Decimal) string {
	return "Rs. " + books.FormatAmount(amount)
}

type layoutBuilder struct {
	out Layout
}

func (b *layoutBuilder) text(x, y float64, s string, size float64, bold bool, align Align) {
	b.out.Placements = append(b.out.Placements, Placement{Kind: KindText, X: x, Y: y, Text: s, Size: size, Bold: bold, Align: align})
}

func (b *layoutBuilder) line(x1, y1, x2, y2 float64) {
	b.out.Placements = append(b.out.Placements, Placement{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2})
}

func (b *layoutBuilder) total(y float64, label string, amount decimal.Decimal, text string, bold bool) {
	b.text(totalsLeft, y, label, 10, bold, AlignLeft)
	b.text(pageRight, y, text, 10, bold, AlignRight)
	b.out.Totals = append(b.out.Totals, TotalLine{Label: label, Amount: amount, Text: text})
}

// InvoiceLayout computes the drawn invoice page. It is pure: the same inputs
// always produce the same plan.
func InvoiceLayout(inv *books.Invoice, org books.Organization, branding *books.Branding, now time.Time) Layout {
	b := &layoutBuilder{}
	if inv == nil {
		return b.out
	}

	if url := branding.LogoURL(); url != "" {
		b.out.Images = append(b.out.Images, ImageSlot{URL: url, X: 14, Y: 12, MaxWidth: 40, MaxHeight: 40})
	}
	if url := branding.SignatureURL(); url != "" {
		b.out.Images = append(b.out.Images, ImageSlot{URL: url, X: 14, Y: 250, MaxWidth: 40, MaxHeight: 20})
	}

	b.text(pageRight, 30, "INVOICE", 24, true, AlignRight)
	b.text(pageRight, 38, "# "+inv.InvoiceNumber, 12, false, AlignRight)
	b.text(pageRight, 48, "Balance Due", 12, false, AlignRight)
	b.text(pageRight, 56, pdfCurrency(inv.BalanceDue), 12, true, AlignRight)

	b.text(pageLeft, 30, org.DisplayName(), 14, true, AlignLeft)
	letterhead := []struct {
		y    float64
		text string
	}{
		{38, org.Street1},
		{44, org.Street2},
		{50, org.CityLine()},
		{56, org.Email},
	}
	for _, l := range letterhead {
		if l.text != "" {
			b.text(pageLeft, l.y, l.text, 10, false, AlignLeft)
		}
	}
	if org.GSTIN != "" {
		b.text(pageLeft, 62, "GSTIN: "+org.GSTIN, 10, false, AlignLeft)
	}

	b.text(pageLeft, 70, "BILL TO", 11, true, AlignLeft)
	b.text(pageLeft, 78, inv.CustomerName, 10, false, AlignLeft)
	for i, line := range books.AddressLines(inv.BillingAddress) {
		b.text(pageLeft, 84+float64(i)*5, line, 10, false, AlignLeft)
	}

	b.text(totalsLeft, 78, "Invoice Date: "+books.FormatDate(inv.Date.Time), 10, false, AlignLeft)
	b.text(totalsLeft, 84, "Terms: "+inv.PaymentTerms, 10, false, AlignLeft)
	b.text(totalsLeft, 90, "Due Date: "+books.FormatDate(inv.DueDate.Time), 10, false, AlignLeft)

	b.line(pageLeft, 110, pageRight, 110)
	b.itemHeader(118)
	b.line(pageLeft, 122, pageRight, 122)

	y := itemsStartY
	for i, item := range inv.Items {
		if y > itemsBottomY {
			b.out.Placements = append(b.out.Placements, Placement{Kind: KindPageBreak})
			b.itemHeader(itemsTopY - 8)
			y = itemsTopY
		}
		name := item.Name
		if name == "" {
			name = "Item"
		}
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		b.text(pageLeft, y, strconv.Itoa(i+1), 10, false, AlignLeft)
		b.text(30, y, name, 10, false, AlignLeft)
		b.text(100, y, qty.String(), 10, false, AlignLeft)
		b.text(130, y, pdfCurrency(item.Rate), 10, false, AlignLeft)
		b.text(pageRight, y, pdfCurrency(item.Amount), 10, false, AlignRight)
		y += rowStep
	}

	if y > totalsBottomY {
		b.out.Placements = append(b.out.Placements, Placement{Kind: KindPageBreak})
		y = itemsTopY
	}
	y += 10
	b.line(totalsLeft, y, pageRight, y)
	y += rowStep

	b.total(y, "Sub Total", inv.SubTotal, pdfCurrency(inv.SubTotal), false)
	y += rowStep
	if inv.CGST.IsPositive() {
		b.total(y, "CGST", inv.CGST, pdfCurrency(inv.CGST), false)
		y += rowStep
	}
	if inv.SGST.IsPositive() {
		b.total(y, "SGST", inv.SGST, pdfCurrency(inv.SGST), false)
		y += rowStep
	}
	b.total(y, "Total", inv.Total, pdfCurrency(inv.Total), true)
	y += rowStep
	if inv.AmountPaid.IsPositive() {
		b.total(y, "Payment Made", inv.AmountPaid, "(-) "+pdfCurrency(inv.AmountPaid), false)
		y += rowStep
	}
	b.total(y, "Balance Due", inv.BalanceDue, pdfCurrency(inv.BalanceDue), true)

	b.text(105, 280, "Generated on: "+books.FormatDateTime(now), 8, false, AlignCenter)
	return b.out
}

func (b *layoutBuilder) itemHeader(y float64) {
	b.text(pageLeft, y, "#", 10, true, AlignLeft)
	b.text(30, y, "Item", 10, true, AlignLeft)
	b.text(100, y, "Qty", 10, true, AlignLeft)
	b.text(130, y, "Rate", 10, true, AlignLeft)
	b.text(pageRight, y, "Amount", 10, true, AlignRight)
}
