package docpdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/jung-kurt/gofpdf"
)

// AssetFetcher loads branding images.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, url string) ([]byte, string, error)
}

// Drawer renders documents by placing text and rules at fixed coordinates.
type Drawer struct {
	Assets AssetFetcher
	Logger books.Logger
	Now    func() time.Time
}

// NewDrawer creates a drawer that loads images through assets.
func NewDrawer(assets AssetFetcher, logger books.Logger) *Drawer {
	if logger == nil {
		logger = books.NopLogger()
	}
	return &Drawer{Assets: assets, Logger: logger, Now: time.Now}
}

// Invoice draws the invoice PDF. Branding images that fail to load are
// skipped.
func (d *Drawer) Invoice(ctx context.Context, inv *books.Invoice, org books.Organization, branding *books.Branding) ([]byte, error) {
	if inv == nil {
		return nil, books.NewError(books.KindValidation, "invoice is required", nil)
	}
	layout := InvoiceLayout(inv, org, branding, d.now())

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for i, slot := range layout.Images {
		if err := d.placeImage(ctx, pdf, fmt.Sprintf("branding-%d", i), slot); err != nil {
			d.logger().Debugf("branding image %s skipped: %v", slot.URL, err)
		}
	}

	for _, p := range layout.Placements {
		switch p.Kind {
		case KindPageBreak:
			pdf.AddPage()
		case KindLine:
			pdf.SetDrawColor(200, 200, 200)
			pdf.SetLineWidth(0.5)
			pdf.Line(p.X, p.Y, p.X2, p.Y2)
		case KindText:
			style := ""
			if p.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, p.Size)
			text := translate(p.Text)
			x := p.X
			switch p.Align {
			case AlignRight:
				x -= pdf.GetStringWidth(text)
			case AlignCenter:
				x -= pdf.GetStringWidth(text) / 2
			}
			pdf.Text(x, p.Y, text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, books.NewError(books.KindRender, "draw invoice pdf", err)
	}
	return buf.Bytes(), nil
}

func (d *Drawer) placeImage(ctx context.Context, pdf *gofpdf.Fpdf, name string, slot ImageSlot) error {
	if d.Assets == nil {
		return books.NewError(books.KindNotImpl, "asset fetcher not configured", nil)
	}
	data, _, err := d.Assets.FetchAsset(ctx, slot.URL)
	if err != nil {
		return err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}
	imageType, ok := map[string]string{"png": "PNG", "jpeg": "JPG", "gif": "GIF"}[format]
	if !ok {
		return fmt.Errorf("unsupported image format %q", format)
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		pdf.ClearError()
		return err
	}

	w, h := fitBox(float64(cfg.Width), float64(cfg.Height), slot.MaxWidth, slot.MaxHeight)
	pdf.ImageOptions(name, slot.X, slot.Y, w, h, false, opts, 0, "")
	return nil
}

// fitBox scales width x height to fit within maxW x maxH, keeping the aspect
// ratio.
func fitBox(width, height, maxW, maxH float64) (float64, float64) {
	if width <= 0 || height <= 0 {
		return maxW, maxH
	}
	ratio := width / height
	w, h := maxW, maxW/ratio
	if h > maxH {
		h = maxH
		w = maxH * ratio
	}
	return w, h
}

func (d *Drawer) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Drawer) logger() books.Logger {
	if d.Logger == nil {
		return books.NopLogger()
	}
	return d.Logger
}
