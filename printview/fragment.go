package printview

import (
	"html/template"
	"strings"

	"github.com/goliatone/go-invoicedesk/books"
)

// A4 page size in millimetres.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// Fragment is a rendered, fixed-layout print view. Rendering components hand
// it to the export pipeline directly.
type Fragment struct {
	ID          string
	Title       string
	Markup      template.HTML
	WidthMM     float64
	MinHeightMM float64
	Assets      []string
}

// Present reports whether the fragment carries markup to export.
func (f *Fragment) Present() bool {
	return f != nil && strings.TrimSpace(string(f.Markup)) != ""
}

// Selector returns the CSS selector of the fragment root.
func (f *Fragment) Selector() string {
	if f == nil || f.ID == "" {
		return "body"
	}
	return "#" + f.ID
}

// Require returns a fixture error when the fragment is absent.
func Require(f *Fragment) error {
	if !f.Present() {
		return books.NewError(books.KindFixtureMissing, "print fragment not available", nil)
	}
	return nil
}
