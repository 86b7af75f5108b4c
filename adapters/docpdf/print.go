package docpdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/printview"
)

const (
	DefaultAssetDelay = 500 * time.Millisecond
	// DefaultMaxDocumentBytes guards the print document handed to Chromium.
	DefaultMaxDocumentBytes int64 = 8 * 1024 * 1024
)

// Printer sends a printable PDF to a print queue.
type Printer interface {
	Print(ctx context.Context, title string, pdf []byte) error
}

// PrinterFunc adapts a function to a Printer.
type PrinterFunc func(ctx context.Context, title string, pdf []byte) error

func (f PrinterFunc) Print(ctx context.Context, title string, pdf []byte) error {
	if f == nil {
		return books.NewError(books.KindNotImpl, "printer func is nil", nil)
	}
	return f(ctx, title, pdf)
}

// CommandPrinter pipes the PDF into a spooler command such as lp.
type CommandPrinter struct {
	Command     string
	Destination string
	Args        []string
	Env         []string
	Timeout     time.Duration
}

// Print executes the spooler with the PDF on stdin.
func (p CommandPrinter) Print(ctx context.Context, title string, pdf []byte) error {
	cmdPath := strings.TrimSpace(p.Command)
	if cmdPath == "" {
		cmdPath = "lp"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cmdCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := append([]string{}, p.Args...)
	if p.Destination != "" {
		args = append(args, "-d", p.Destination)
	}
	if title != "" {
		args = append(args, "-t", title)
	}
	args = append(args, "-")
	cmd := exec.CommandContext(cmdCtx, cmdPath, args...)
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}
	cmd.Stdin = bytes.NewReader(pdf)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = cmdPath + " failed"
		}
		return books.NewError(books.KindInternal, message, err)
	}
	return nil
}

// PrintJob renders the print document of a fragment in a fresh tab, prints it
// to PDF and hands the bytes to the printer.
type PrintJob struct {
	Browser    *Browser
	Renderer   *printview.Renderer
	Printer    Printer
	AssetDelay time.Duration
	Margins    PageMargins
	MaxBytes   int64
	Logger     books.Logger
}

// Render produces the printable PDF without spooling it.
func (j *PrintJob) Render(ctx context.Context, frag *printview.Fragment) ([]byte, error) {
	if err := printview.Require(frag); err != nil {
		return nil, err
	}
	if j.Browser == nil || j.Renderer == nil {
		return nil, books.NewError(books.KindNotImpl, "print job requires a browser and renderer", nil)
	}
	doc, err := j.Renderer.PrintDocument(frag)
	if err != nil {
		return nil, err
	}
	limit := j.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxDocumentBytes
	}
	if int64(len(doc)) > limit {
		return nil, books.NewError(books.KindValidation, "print document exceeds max bytes", nil)
	}
	params, err := buildPrintToPDFParams(j.Margins)
	if err != nil {
		return nil, err
	}

	delay := j.AssetDelay
	if delay <= 0 {
		delay = DefaultAssetDelay
	}
	var pdf []byte
	err = j.Browser.Run(ctx,
		loadDocument(string(doc)),
		chromedp.Sleep(delay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Print renders the fragment and spools it.
func (j *PrintJob) Print(ctx context.Context, frag *printview.Fragment) error {
	pdf, err := j.Render(ctx, frag)
	if err != nil {
		return err
	}
	if j.Printer == nil {
		return books.NewError(books.KindNotImpl, "no printer configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.Printer.Print(ctx, frag.Title, pdf); err != nil {
		return err
	}
	j.logger().Infof("print job sent: %s (%d bytes)", frag.Title, len(pdf))
	return nil
}

func (j *PrintJob) logger() books.Logger {
	if j.Logger == nil {
		return books.NopLogger()
	}
	return j.Logger
}
