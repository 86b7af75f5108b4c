package docpdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/shopspring/decimal"
)

type stubAssets struct {
	data  map[string][]byte
	calls []string
}

func (s *stubAssets) FetchAsset(_ context.Context, url string) ([]byte, string, error) {
	s.calls = append(s.calls, url)
	data, ok := s.data[url]
	if !ok {
		return nil, "", errors.New("asset not found")
	}
	return data, "image/png", nil
}

func pngFixture(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 220, G: 38, B: 38, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDrawerInvoiceProducesPDF(t *testing.T) {
	assets := &stubAssets{data: map[string][]byte{"/logo.png": pngFixture(t, 40, 20)}}
	drawer := NewDrawer(assets, nil)
	drawer.Now = func() time.Time { return fixedNow }

	branding := &books.Branding{
		Logo:      &books.BrandAsset{URL: "/logo.png"},
		Signature: &books.BrandAsset{URL: "/missing.png"},
	}
	out, err := drawer.Invoice(context.Background(), invoiceFixture(), books.Organization{Name: "Desk Co"}, branding)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
	if len(assets.calls) != 2 {
		t.Fatalf("expected both branding assets to be requested, got %v", assets.calls)
	}
}

func TestDrawerInvoiceIgnoresCorruptImages(t *testing.T) {
	assets := &stubAssets{data: map[string][]byte{"/logo.png": []byte("not an image")}}
	drawer := NewDrawer(assets, nil)

	out, err := drawer.Invoice(context.Background(), invoiceFixture(), books.Organization{}, &books.Branding{Logo: &books.BrandAsset{URL: "/logo.png"}})
	if err != nil {
		t.Fatalf("expected corrupt logo to be skipped, got %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestDrawerInvoiceRequiresRecord(t *testing.T) {
	_, err := NewDrawer(nil, nil).Invoice(context.Background(), nil, books.Organization{}, nil)
	if books.KindFromError(err) != books.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDrawerExpenseProducesPDF(t *testing.T) {
	drawer := NewDrawer(nil, nil)
	drawer.Now = func() time.Time { return fixedNow }
	exp := &books.Expense{
		ExpenseNumber:  "EXP-0007",
		Date:           books.NewDate(2024, time.February, 2),
		ExpenseAccount: "Office Supplies",
		Amount:         decimal.NewFromInt(2500),
		PaidThrough:    "Petty Cash",
		Tax:            "gst_18",
		AmountIs:       "tax_inclusive",
		Notes:          "Printer paper",
	}

	out, err := drawer.Expense(context.Background(), exp)
	if err != nil {
		t.Fatalf("Expense: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestFitBox(t *testing.T) {
	w, h := fitBox(200, 100, 40, 40)
	if w != 40 || h != 20 {
		t.Fatalf("expected 40x20, got %vx%v", w, h)
	}
	w, h = fitBox(100, 200, 40, 20)
	if w != 10 || h != 20 {
		t.Fatalf("expected 10x20, got %vx%v", w, h)
	}
}

func TestPageSpans(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		want   []float64
	}{
		{name: "short", height: 150, want: []float64{0}},
		{name: "exact", height: 297, want: []float64{0}},
		{name: "two pages", height: 400, want: []float64{0, -297}},
		{name: "three pages", height: 700, want: []float64{0, -297, -594}},
		{name: "empty", height: 0, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PageSpans(tc.height, 297)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if diff := got[i] - tc.want[i]; diff > 0.0001 || diff < -0.0001 {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestEmbedImage(t *testing.T) {
	out, err := EmbedImage(pngFixture(t, 100, 300))
	if err != nil {
		t.Fatalf("EmbedImage: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}

	if _, err := EmbedImage([]byte("nope")); books.KindFromError(err) != books.KindRender {
		t.Fatalf("expected render error for invalid capture, got %v", err)
	}
}

func TestParseLengthInches(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "1in", want: 1},
		{input: "25.4mm", want: 1},
		{input: "2.54cm", want: 1},
		{input: "72pt", want: 1},
		{input: "96px", want: 1},
		{input: "2", want: 2},
	}

	for _, tc := range tests {
		got, err := parseLengthInches(tc.input)
		if err != nil {
			t.Fatalf("parseLengthInches(%q): %v", tc.input, err)
		}
		if diff := got - tc.want; diff > 0.0001 || diff < -0.0001 {
			t.Fatalf("parseLengthInches(%q): expected %f, got %f", tc.input, tc.want, got)
		}
	}
	if _, err := parseLengthInches("3em"); err == nil {
		t.Fatalf("expected unsupported unit error")
	}
}

func TestBuildPrintToPDFParams(t *testing.T) {
	params, err := buildPrintToPDFParams(PageMargins{Top: "10mm"})
	if err != nil {
		t.Fatalf("buildPrintToPDFParams: %v", err)
	}
	if params.PaperWidth != a4WidthInches || params.PaperHeight != a4HeightInches {
		t.Fatalf("expected A4 paper, got %fx%f", params.PaperWidth, params.PaperHeight)
	}
	if params.MarginTop == 0 {
		t.Fatalf("expected margin top to be set")
	}
	if !params.PrintBackground {
		t.Fatalf("expected print background true")
	}
}

func TestCaptureDocument(t *testing.T) {
	frag := &printview.Fragment{
		ID:     "invoice-pdf-content",
		Title:  "Invoice",
		Markup: `<style>.x{color:oklch(0.5 0.1 20)}</style><div id="invoice-pdf-content" class="bg-green-100">x</div>`,
	}
	doc, err := captureDocument(frag)
	if err != nil {
		t.Fatalf("captureDocument: %v", err)
	}
	if strings.Contains(doc, "oklch") {
		t.Fatalf("expected unsupported colour styles to be stripped")
	}
	if !strings.Contains(doc, "#invoice-pdf-content") || !strings.Contains(doc, "210mm") {
		t.Fatalf("expected container rules in capture document")
	}
}

func TestRasterizerRequiresFragment(t *testing.T) {
	_, err := NewRasterizer(nil, nil).Capture(context.Background(), nil)
	if books.KindFromError(err) != books.KindFixtureMissing {
		t.Fatalf("expected fixture missing error, got %v", err)
	}
}

func TestCommandPrinterPipesPDF(t *testing.T) {
	shell, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	out := t.TempDir() + "/spooled.pdf"
	printer := CommandPrinter{
		Command: shell,
		Args:    []string{"-c", `cat > "$0"`, out},
	}
	if err := printer.Print(context.Background(), "", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read spooled file: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected spooled bytes %q", data)
	}
}

func TestPrintJobRequiresFragment(t *testing.T) {
	job := &PrintJob{}
	if err := job.Print(context.Background(), &printview.Fragment{}); books.KindFromError(err) != books.KindFixtureMissing {
		t.Fatalf("expected fixture missing error, got %v", err)
	}
}
