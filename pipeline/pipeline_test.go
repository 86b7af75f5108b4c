package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	storefs "github.com/goliatone/go-invoicedesk/adapters/store/fs"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/shopspring/decimal"
)

type stubDrawer struct {
	err   error
	calls int
}

func (s *stubDrawer) Invoice(context.Context, *books.Invoice, books.Organization, *books.Branding) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-drawn"), nil
}

func (s *stubDrawer) Expense(context.Context, *books.Expense) ([]byte, error) {
	s.calls++
	return []byte("%PDF-expense"), nil
}

type stubCapturer struct {
	calls int
}

func (s *stubCapturer) Capture(context.Context, *printview.Fragment) ([]byte, error) {
	s.calls++
	return []byte("png"), nil
}

type stubPrinter struct {
	printed []string
}

func (s *stubPrinter) Print(_ context.Context, frag *printview.Fragment) error {
	s.printed = append(s.printed, frag.Title)
	return nil
}

type captureReady struct {
	events []notify.DocumentReadyEvent
}

func (c *captureReady) Send(_ context.Context, evt notify.DocumentReadyEvent) error {
	c.events = append(c.events, evt)
	return nil
}

type fixture struct {
	pipeline *Pipeline
	root     string
	drawer   *stubDrawer
	capturer *stubCapturer
	printer  *stubPrinter
	toasts   *notify.Recorder
	ready    *captureReady
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		root:     t.TempDir(),
		drawer:   &stubDrawer{},
		capturer: &stubCapturer{},
		printer:  &stubPrinter{},
		toasts:   &notify.Recorder{},
		ready:    &captureReady{},
	}
	f.pipeline = New(Config{
		Drawer:       f.drawer,
		Capturer:     f.capturer,
		Printer:      f.printer,
		Store:        storefs.NewStore(f.root),
		Toaster:      f.toasts,
		Notifier:     f.ready,
		Notification: Notification{Recipients: []string{"ops@example.com"}},
		Embed:        func(png []byte) ([]byte, error) { return append([]byte("%PDF-"), png...), nil },
	})
	return f
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.root)
	if err != nil {
		t.Fatalf("read downloads: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Name()[0] != '.' {
			names = append(names, entry.Name())
		}
	}
	return names
}

func sampleInvoice() *books.Invoice {
	return &books.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-0001",
		Total:         decimal.NewFromInt(1180),
		BalanceDue:    decimal.NewFromInt(1180),
	}
}

func sampleFragment() *printview.Fragment {
	return &printview.Fragment{ID: printview.InvoiceFragmentID, Title: "Invoice INV-0001", Markup: `<div id="invoice-pdf-content">x</div>`}
}

func TestInvoiceDrawnSavesAndToasts(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.InvoicePDF(context.Background(), StrategyDraw, sampleInvoice(), nil, nil)
	if err != nil {
		t.Fatalf("InvoicePDF: %v", err)
	}
	if result.Filename != "INV-0001.pdf" {
		t.Fatalf("expected INV-0001.pdf, got %q", result.Filename)
	}
	if result.JobID == "" {
		t.Fatalf("expected job id")
	}
	data, err := os.ReadFile(filepath.Join(f.root, "INV-0001.pdf"))
	if err != nil || string(data) != "%PDF-drawn" {
		t.Fatalf("expected saved pdf, got %q (%v)", data, err)
	}

	toast, _ := f.toasts.Last()
	if toast.Title != "PDF Downloaded" || toast.Variant != notify.VariantDefault {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if toast.Description != "INV-0001.pdf has been downloaded successfully." {
		t.Fatalf("unexpected toast description %q", toast.Description)
	}
	if len(f.ready.events) != 1 || f.ready.events[0].FileName != "INV-0001.pdf" || f.ready.events[0].Format != "pdf" {
		t.Fatalf("expected ready notification, got %+v", f.ready.events)
	}
}

func TestInvoiceSnapshotSaves(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.InvoicePDF(context.Background(), StrategySnapshot, sampleInvoice(), nil, sampleFragment())
	if err != nil {
		t.Fatalf("InvoicePDF: %v", err)
	}
	if result.Filename != "Invoice-INV-0001.pdf" {
		t.Fatalf("expected Invoice-INV-0001.pdf, got %q", result.Filename)
	}
	if f.capturer.calls != 1 {
		t.Fatalf("expected one capture, got %d", f.capturer.calls)
	}
	toast, _ := f.toasts.Last()
	if toast.Description != "Invoice INV-0001 has been downloaded successfully." {
		t.Fatalf("unexpected toast description %q", toast.Description)
	}
}

func TestInvoiceSnapshotMissingFragment(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline.InvoiceSnapshot(context.Background(), sampleInvoice(), nil)
	if books.KindFromError(err) != books.KindFixtureMissing {
		t.Fatalf("expected fixture missing error, got %v", err)
	}
	if f.capturer.calls != 0 {
		t.Fatalf("expected no capture attempt")
	}
	if files := f.files(t); len(files) != 0 {
		t.Fatalf("expected no file, got %v", files)
	}
	toast, _ := f.toasts.Last()
	if toast.Title != "Failed to download PDF" || toast.Variant != notify.VariantDestructive {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if len(f.ready.events) != 0 {
		t.Fatalf("expected no ready notification")
	}
}

func TestCancelledExportLeavesNoFile(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.pipeline.InvoiceDrawn(ctx, sampleInvoice(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if files := f.files(t); len(files) != 0 {
		t.Fatalf("expected no file, got %v", files)
	}
}

func TestDrawerFailureToasts(t *testing.T) {
	f := newFixture(t)
	f.drawer.err = errors.New("boom")

	if _, err := f.pipeline.InvoiceDrawn(context.Background(), sampleInvoice(), nil); err == nil {
		t.Fatalf("expected error")
	}
	toast, _ := f.toasts.Last()
	if toast.Variant != notify.VariantDestructive {
		t.Fatalf("expected destructive toast, got %+v", toast)
	}
}

func TestExpensePDF(t *testing.T) {
	f := newFixture(t)
	exp := &books.Expense{ExpenseNumber: "EXP-0007"}

	result, err := f.pipeline.ExpensePDF(context.Background(), StrategyDraw, exp, nil)
	if err != nil {
		t.Fatalf("ExpensePDF: %v", err)
	}
	if result.Filename != "Expense-EXP-0007.pdf" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
}

func TestPrint(t *testing.T) {
	f := newFixture(t)

	if err := f.pipeline.Print(context.Background(), sampleFragment()); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if len(f.printer.printed) != 1 {
		t.Fatalf("expected one print job")
	}
	if err := f.pipeline.Print(context.Background(), nil); books.KindFromError(err) != books.KindFixtureMissing {
		t.Fatalf("expected fixture missing error, got %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]Strategy{"": StrategyDraw, "draw": StrategyDraw, "SNAPSHOT": StrategySnapshot}
	for input, want := range tests {
		got, err := ParseStrategy(input)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q): expected %s, got %s (%v)", input, want, got, err)
		}
	}
	if _, err := ParseStrategy("fax"); books.KindFromError(err) != books.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
