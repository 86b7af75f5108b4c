package docpdf

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/jung-kurt/gofpdf"
)

// spanEpsilon absorbs rounding so an image exactly one page tall stays on
// one page.
const spanEpsilon = 0.01

// PageSpans returns the vertical offset, in millimetres, at which a
// full-width image of imageHeight is placed on each page of pageHeight.
func PageSpans(imageHeight, pageHeight float64) []float64 {
	if imageHeight <= 0 || pageHeight <= 0 {
		return nil
	}
	spans := []float64{0}
	for left := imageHeight - pageHeight; left > spanEpsilon; left -= pageHeight {
		spans = append(spans, left-imageHeight)
	}
	return spans
}

// EmbedImage places a PNG full-width into A4 pages, keeping its aspect ratio.
// Images taller than a page continue on the following pages.
func EmbedImage(png []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, books.NewError(books.KindRender, "decode capture", err)
	}
	if format != "png" || cfg.Width == 0 || cfg.Height == 0 {
		return nil, books.NewError(books.KindRender, "capture is not a png image", nil)
	}

	width := printview.A4WidthMM
	height := width * float64(cfg.Height) / float64(cfg.Width)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", opts, bytes.NewReader(png))
	for _, y := range PageSpans(height, printview.A4HeightMM) {
		pdf.AddPage()
		pdf.ImageOptions("capture", 0, y, width, height, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, books.NewError(books.KindRender, "embed capture", err)
	}
	return buf.Bytes(), nil
}
