package printview

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/theme"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Fragment root ids.
const (
	InvoiceFragmentID = "invoice-pdf-content"
	ExpenseFragmentID = "expense-print-content"
)

// Renderer renders invoice and expense print fragments.
type Renderer struct {
	Now func() time.Time

	templates *template.Template
}

// NewRenderer parses the embedded fragment templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("printview").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, books.NewError(books.KindInternal, "parse print templates", err)
	}
	return &Renderer{Now: time.Now, templates: tmpl}, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money":    books.FormatCurrency,
		"date":     books.FormatDate,
		"taxLabel": books.TaxLabel,
		"mode":     books.ModeLabel,
		"positive": func(d decimal.Decimal) bool { return d.IsPositive() },
		"inc":      func(i int) int { return i + 1 },
	}
}

type invoiceView struct {
	FragmentID   string
	Invoice      *books.Invoice
	Org          books.Organization
	Badge        books.Badge
	BillingLines []string
	SubTotal     decimal.Decimal
	LogoURL      string
	SignatureURL string
}

// Invoice renders the invoice print fragment.
func (r *Renderer) Invoice(inv *books.Invoice, org books.Organization, branding *books.Branding) (*Fragment, error) {
	if inv == nil {
		return nil, books.NewError(books.KindValidation, "invoice is required", nil)
	}
	subTotal := inv.SubTotal
	if subTotal.IsZero() {
		subTotal = inv.Total
	}
	view := invoiceView{
		FragmentID:   InvoiceFragmentID,
		Invoice:      inv,
		Org:          org,
		Badge:        books.BadgeFor(string(inv.Status)),
		BillingLines: billingLines(inv.BillingAddress),
		SubTotal:     subTotal,
		LogoURL:      branding.LogoURL(),
		SignatureURL: branding.SignatureURL(),
	}
	markup, err := r.execute("invoice.html", view)
	if err != nil {
		return nil, err
	}
	return &Fragment{
		ID:          InvoiceFragmentID,
		Title:       "Invoice - " + inv.InvoiceNumber,
		Markup:      markup,
		WidthMM:     A4WidthMM,
		MinHeightMM: A4HeightMM,
		Assets:      nonEmpty(view.LogoURL, view.SignatureURL),
	}, nil
}

type expenseView struct {
	FragmentID string
	Expense    *books.Expense
	Now        time.Time
}

// Expense renders the expense print fragment.
func (r *Renderer) Expense(exp *books.Expense) (*Fragment, error) {
	if exp == nil {
		return nil, books.NewError(books.KindValidation, "expense is required", nil)
	}
	markup, err := r.execute("expense.html", expenseView{
		FragmentID: ExpenseFragmentID,
		Expense:    exp,
		Now:        r.now(),
	})
	if err != nil {
		return nil, err
	}
	return &Fragment{
		ID:          ExpenseFragmentID,
		Title:       "Expense - " + exp.ExpenseNumber,
		Markup:      markup,
		WidthMM:     A4WidthMM,
		MinHeightMM: A4HeightMM,
	}, nil
}

type printView struct {
	Title      string
	Stylesheet template.CSS
	Markup     template.HTML
}

// PrintDocument wraps a fragment into a standalone print page with the A4
// page rules and the shared theme stylesheet.
func (r *Renderer) PrintDocument(f *Fragment) ([]byte, error) {
	if err := Require(f); err != nil {
		return nil, err
	}
	markup, err := r.execute("print.html", printView{
		Title:      f.Title,
		Stylesheet: template.CSS(theme.Stylesheet("#print-container")),
		Markup:     f.Markup,
	})
	if err != nil {
		return nil, err
	}
	return []byte(markup), nil
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	if r == nil || r.templates == nil {
		return "", books.NewError(books.KindInternal, "print renderer not initialized", nil)
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", books.NewError(books.KindRender, "render "+name, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// billingLines groups the address the way the bill-to block prints it:
// street, then "city, state, pincode", then country.
func billingLines(addr *books.Address) []string {
	if addr == nil {
		return nil
	}
	lines := make([]string, 0, 3)
	if addr.Street != "" {
		lines = append(lines, addr.Street)
	}
	locality := nonEmpty(addr.City, addr.State, addr.Pincode)
	if len(locality) > 0 {
		lines = append(lines, strings.Join(locality, ", "))
	}
	if addr.Country != "" {
		lines = append(lines, addr.Country)
	}
	return lines
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
