package printview

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/shopspring/decimal"
)

func sampleInvoice() *books.Invoice {
	return &books.Invoice{
		ID:            "inv_1",
		InvoiceNumber: "INV-0001",
		Date:          books.NewDate(2024, 1, 15),
		DueDate:       books.NewDate(2024, 2, 14),
		CustomerName:  "Acme <Traders>",
		BillingAddress: &books.Address{
			Street:  "12 MG Road",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
			Country: "India",
		},
		PaymentTerms: "Net 30",
		Items: []books.LineItem{
			{Name: "Consulting", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1000), Amount: decimal.NewFromInt(1000)},
		},
		SubTotal:   decimal.NewFromInt(1000),
		CGST:       decimal.NewFromInt(90),
		SGST:       decimal.NewFromInt(90),
		Total:      decimal.NewFromInt(1180),
		BalanceDue: decimal.NewFromInt(1180),
		Status:     books.StatusSent,
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	r.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return r
}

func TestInvoiceFragment(t *testing.T) {
	r := newTestRenderer(t)
	frag, err := r.Invoice(sampleInvoice(), books.Organization{Name: "Desk Co", GSTIN: "27ABCDE1234F1Z5"}, nil)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	if !frag.Present() || frag.ID != InvoiceFragmentID || frag.Selector() != "#invoice-pdf-content" {
		t.Fatalf("unexpected fragment %+v", frag)
	}
	if frag.WidthMM != A4WidthMM || frag.MinHeightMM != A4HeightMM {
		t.Fatalf("expected A4 fragment size")
	}

	html := string(frag.Markup)
	for _, want := range []string{
		"INV-0001",
		"Desk Co",
		"GSTIN: 27ABCDE1234F1Z5",
		"Pune, Maharashtra, 411001",
		`data-total="cgst"`,
		`data-total="sgst"`,
		"₹1,180.00",
		"15/01/2024",
		"Acme &lt;Traders&gt;",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected fragment to contain %q", want)
		}
	}
	for _, absent := range []string{`data-total="payment-made"`, `data-total="igst"`, `data-total="refunded"`, "CUSTOMER NOTES", "AUTHORIZED SIGNATURE"} {
		if strings.Contains(html, absent) {
			t.Fatalf("did not expect %q in fragment", absent)
		}
	}
}

func TestInvoiceFragmentOptionalBlocks(t *testing.T) {
	r := newTestRenderer(t)
	inv := sampleInvoice()
	inv.CGST = decimal.Zero
	inv.SGST = decimal.Zero
	inv.AmountPaid = decimal.NewFromInt(500)
	inv.AmountRefunded = decimal.NewFromInt(100)
	inv.CustomerNotes = "Thanks for your business"

	branding := &books.Branding{Signature: &books.BrandAsset{URL: "https://cdn.example.com/sig.png"}}
	frag, err := r.Invoice(inv, books.Organization{}, branding)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	html := string(frag.Markup)
	if strings.Contains(html, `data-total="cgst"`) || strings.Contains(html, `data-total="sgst"`) {
		t.Fatalf("expected zero tax lines to be omitted")
	}
	for _, want := range []string{`data-total="payment-made"`, "(-) ₹500.00", `data-total="refunded"`, "CUSTOMER NOTES", "AUTHORIZED SIGNATURE", "Your Company"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected fragment to contain %q", want)
		}
	}
	if len(frag.Assets) != 1 || frag.Assets[0] != "https://cdn.example.com/sig.png" {
		t.Fatalf("unexpected assets %v", frag.Assets)
	}
}

func TestExpenseFragment(t *testing.T) {
	r := newTestRenderer(t)
	frag, err := r.Expense(&books.Expense{
		ExpenseNumber:  "EXP-0007",
		Date:           books.NewDate(2024, 2, 5),
		Amount:         decimal.NewFromInt(2500),
		ExpenseAccount: "Travel",
		Tax:            "gst_18",
		ReverseCharge:  true,
	})
	if err != nil {
		t.Fatalf("render expense: %v", err)
	}
	html := string(frag.Markup)
	for _, want := range []string{"EXP-0007", "GST18 [18%]", "Not specified", "Reverse Charge", "Generated on 01/03/2024", "₹2,500.00"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected expense fragment to contain %q", want)
		}
	}
	if strings.Contains(html, "Customer Information") {
		t.Fatalf("did not expect customer block without customer")
	}
}

func TestPrintDocument(t *testing.T) {
	r := newTestRenderer(t)
	frag, err := r.Invoice(sampleInvoice(), books.Organization{}, nil)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	doc, err := r.PrintDocument(frag)
	if err != nil {
		t.Fatalf("print document: %v", err)
	}
	html := string(doc)
	for _, want := range []string{"@page { size: A4; margin: 0; }", `<div id="print-container">`, "<title>Invoice - INV-0001</title>", "rgb(241, 245, 249)"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected print document to contain %q", want)
		}
	}
}

func TestPrintDocumentRequiresFragment(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.PrintDocument(nil); books.KindFromError(err) != books.KindFixtureMissing {
		t.Fatalf("expected fixture missing error, got %v", err)
	}
	if _, err := r.PrintDocument(&Fragment{ID: "x"}); books.KindFromError(err) != books.KindFixtureMissing {
		t.Fatalf("expected fixture missing for empty markup, got %v", err)
	}
}
