// Package pipeline runs document exports: it picks a rendering strategy,
// names and saves the file, and reports the outcome as a toast and an
// optional document-ready notification.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-invoicedesk/adapters/docpdf"
	storefs "github.com/goliatone/go-invoicedesk/adapters/store/fs"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/google/uuid"
)

// Strategy selects how a PDF is produced.
type Strategy string

const (
	// StrategyDraw places text at fixed coordinates.
	StrategyDraw Strategy = "draw"
	// StrategySnapshot rasterizes the print fragment.
	StrategySnapshot Strategy = "snapshot"
)

// ParseStrategy maps user input to a strategy, defaulting to draw.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case "", StrategyDraw:
		return StrategyDraw, nil
	case StrategySnapshot:
		return StrategySnapshot, nil
	default:
		return "", books.NewError(books.KindValidation, fmt.Sprintf("unknown pdf strategy %q", value), nil)
	}
}

// Drawer renders documents without a browser.
type Drawer interface {
	Invoice(ctx context.Context, inv *books.Invoice, org books.Organization, branding *books.Branding) ([]byte, error)
	Expense(ctx context.Context, exp *books.Expense) ([]byte, error)
}

// Capturer rasterizes a print fragment into a PNG.
type Capturer interface {
	Capture(ctx context.Context, frag *printview.Fragment) ([]byte, error)
}

// FragmentPrinter prints a fragment.
type FragmentPrinter interface {
	Print(ctx context.Context, frag *printview.Fragment) error
}

// Store saves finished documents.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, meta storefs.DocumentMeta) (storefs.DocumentRef, error)
	URL(ref storefs.DocumentRef) string
}

// Filenames holds the text/template patterns of saved documents.
type Filenames struct {
	Drawn    string
	Snapshot string
	Expense  string
}

// Notification selects who is told when a document is saved.
type Notification struct {
	Recipients []string
	Channels   []string
	Locale     string
	ActorID    string
}

// Config configures the pipeline.
type Config struct {
	Drawer       Drawer
	Capturer     Capturer
	Printer      FragmentPrinter
	Store        Store
	Toaster      notify.Toaster
	Notifier     notify.DocumentReadyNotifier
	Notification Notification
	Organization books.Organization
	Filenames    Filenames
	Logger       books.Logger
	// Embed turns a captured bitmap into a PDF.
	Embed func(png []byte) ([]byte, error)
}

// Result describes a saved document.
type Result struct {
	JobID    string
	Strategy Strategy
	Filename string
	Ref      storefs.DocumentRef
	URL      string
}

// Pipeline orchestrates document exports.
type Pipeline struct {
	cfg Config
	now func() time.Time
}

// New creates a pipeline, filling defaults for optional collaborators.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = books.NopLogger()
	}
	if cfg.Toaster == nil {
		cfg.Toaster = notify.ToasterFunc(func(notify.Toast) {})
	}
	if cfg.Embed == nil {
		cfg.Embed = docpdf.EmbedImage
	}
	if cfg.Filenames.Drawn == "" {
		cfg.Filenames.Drawn = books.DrawnInvoiceFilename
	}
	if cfg.Filenames.Snapshot == "" {
		cfg.Filenames.Snapshot = books.SnapshotInvoiceFilename
	}
	if cfg.Filenames.Expense == "" {
		cfg.Filenames.Expense = books.ExpenseFilename
	}
	return &Pipeline{cfg: cfg, now: time.Now}
}

// InvoicePDF exports an invoice with the given strategy. The fragment is only
// used by the snapshot strategy.
func (p *Pipeline) InvoicePDF(ctx context.Context, strategy Strategy, inv *books.Invoice, branding *books.Branding, frag *printview.Fragment) (Result, error) {
	if strategy == StrategySnapshot {
		return p.InvoiceSnapshot(ctx, inv, frag)
	}
	return p.InvoiceDrawn(ctx, inv, branding)
}

// InvoiceDrawn saves the drawn invoice PDF.
func (p *Pipeline) InvoiceDrawn(ctx context.Context, inv *books.Invoice, branding *books.Branding) (Result, error) {
	job := p.newJob(StrategyDraw)
	failure := notify.Failure("Failed to download PDF", "An error occurred during PDF generation. Please try again.")
	if inv == nil {
		return p.fail(job, failure, books.NewError(books.KindValidation, "invoice is required", nil))
	}
	if p.cfg.Drawer == nil {
		return p.fail(job, failure, books.NewError(books.KindNotImpl, "pdf drawer not configured", nil))
	}

	pdf, err := p.cfg.Drawer.Invoice(ctx, inv, p.cfg.Organization, branding)
	if err != nil {
		return p.fail(job, failure, err)
	}
	result, err := p.save(ctx, job, p.cfg.Filenames.Drawn, filenameData(inv.InvoiceNumber, "invoice", inv.Date, inv.CustomerName), pdf)
	if err != nil {
		return p.fail(job, failure, err)
	}
	p.cfg.Toaster.Toast(notify.Success("PDF Downloaded", result.Filename+" has been downloaded successfully."))
	p.notifyReady(ctx, result)
	return result, nil
}

// InvoiceSnapshot rasterizes the invoice fragment and saves it as a PDF.
func (p *Pipeline) InvoiceSnapshot(ctx context.Context, inv *books.Invoice, frag *printview.Fragment) (Result, error) {
	job := p.newJob(StrategySnapshot)
	failure := notify.Failure("Failed to download PDF", "An error occurred during PDF generation. Please try again or use the Print option.")
	if inv == nil {
		return p.fail(job, failure, books.NewError(books.KindValidation, "invoice is required", nil))
	}
	result, err := p.snapshot(ctx, job, frag, p.cfg.Filenames.Snapshot, filenameData(inv.InvoiceNumber, "invoice", inv.Date, inv.CustomerName))
	if err != nil {
		return p.fail(job, failure, err)
	}
	p.cfg.Toaster.Toast(notify.Success("PDF Downloaded", "Invoice "+inv.InvoiceNumber+" has been downloaded successfully."))
	p.notifyReady(ctx, result)
	return result, nil
}

// ExpensePDF exports an expense with the given strategy.
func (p *Pipeline) ExpensePDF(ctx context.Context, strategy Strategy, exp *books.Expense, frag *printview.Fragment) (Result, error) {
	job := p.newJob(strategy)
	failure := notify.Failure("Failed to download PDF", "An error occurred during PDF generation. Please try again.")
	if exp == nil {
		return p.fail(job, failure, books.NewError(books.KindValidation, "expense is required", nil))
	}
	data := filenameData(exp.ExpenseNumber, "expense", exp.Date, exp.VendorName)

	var (
		result Result
		err    error
	)
	if strategy == StrategySnapshot {
		result, err = p.snapshot(ctx, job, frag, p.cfg.Filenames.Expense, data)
	} else {
		if p.cfg.Drawer == nil {
			return p.fail(job, failure, books.NewError(books.KindNotImpl, "pdf drawer not configured", nil))
		}
		var pdf []byte
		pdf, err = p.cfg.Drawer.Expense(ctx, exp)
		if err == nil {
			result, err = p.save(ctx, job, p.cfg.Filenames.Expense, data, pdf)
		}
	}
	if err != nil {
		return p.fail(job, failure, err)
	}
	p.cfg.Toaster.Toast(notify.Success("PDF Downloaded", "Expense "+exp.ExpenseNumber+" has been downloaded successfully."))
	p.notifyReady(ctx, result)
	return result, nil
}

// Print sends a fragment to the printer.
func (p *Pipeline) Print(ctx context.Context, frag *printview.Fragment) error {
	job := p.newJob("print")
	failure := notify.Failure("Failed to print", "Unable to print the document. Please try again.")
	if err := printview.Require(frag); err != nil {
		_, err = p.fail(job, failure, err)
		return err
	}
	if p.cfg.Printer == nil {
		_, err := p.fail(job, failure, books.NewError(books.KindNotImpl, "printer not configured", nil))
		return err
	}
	if err := p.cfg.Printer.Print(ctx, frag); err != nil {
		_, err = p.fail(job, failure, err)
		return err
	}
	p.cfg.Logger.Infof("export %s: printed %s", job.JobID, frag.Title)
	p.cfg.Toaster.Toast(notify.Success("Sent to printer", frag.Title))
	return nil
}

func (p *Pipeline) snapshot(ctx context.Context, job Result, frag *printview.Fragment, pattern string, data books.FilenameData) (Result, error) {
	if err := printview.Require(frag); err != nil {
		return job, err
	}
	if p.cfg.Capturer == nil {
		return job, books.NewError(books.KindNotImpl, "rasterizer not configured", nil)
	}
	png, err := p.cfg.Capturer.Capture(ctx, frag)
	if err != nil {
		return job, err
	}
	pdf, err := p.cfg.Embed(png)
	if err != nil {
		return job, err
	}
	return p.save(ctx, job, pattern, data, pdf)
}

func (p *Pipeline) save(ctx context.Context, job Result, pattern string, data books.FilenameData, pdf []byte) (Result, error) {
	if p.cfg.Store == nil {
		return job, books.NewError(books.KindNotImpl, "downloads store not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return job, err
	}
	filename, err := books.RenderFilename(pattern, data, ".pdf", p.now())
	if err != nil {
		return job, err
	}
	ref, err := p.cfg.Store.Put(ctx, filename, bytes.NewReader(pdf), storefs.DocumentMeta{
		Filename:    filename,
		ContentType: "application/pdf",
		JobID:       job.JobID,
	})
	if err != nil {
		return job, err
	}
	job.Filename = ref.Meta.Filename
	job.Ref = ref
	job.URL = p.cfg.Store.URL(ref)
	p.cfg.Logger.Infof("export %s: saved %s (%d bytes, %s)", job.JobID, ref.Key, ref.Meta.Size, job.Strategy)
	return job, nil
}

func (p *Pipeline) fail(job Result, toast notify.Toast, err error) (Result, error) {
	p.cfg.Logger.Errorf("export %s (%s) failed: %v", job.JobID, job.Strategy, err)
	p.cfg.Toaster.Toast(toast)
	return Result{}, err
}

func (p *Pipeline) notifyReady(ctx context.Context, result Result) {
	n := p.cfg.Notification
	if p.cfg.Notifier == nil || len(n.Recipients) == 0 {
		return
	}
	err := p.cfg.Notifier.Send(ctx, notify.DocumentReadyEvent{
		Recipients: n.Recipients,
		Channels:   n.Channels,
		Locale:     n.Locale,
		ActorID:    n.ActorID,
		FileName:   result.Filename,
		Format:     "pdf",
		URL:        result.URL,
		Message:    result.Filename + " is ready.",
	})
	if err != nil {
		p.cfg.Logger.Errorf("export %s: ready notification failed: %v", result.JobID, err)
	}
}

func (p *Pipeline) newJob(strategy Strategy) Result {
	return Result{JobID: uuid.NewString(), Strategy: strategy}
}

func filenameData(number, kind string, date books.Date, party string) books.FilenameData {
	data := books.FilenameData{Number: number, Kind: kind, Customer: party}
	if !date.IsZero() {
		data.Date = date.Format("20060102")
	}
	return data
}
