package docpdf

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-invoicedesk/books"
)

var pdfLengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// A4 paper in inches, as Chromium expects.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// Browser is a shared headless Chromium instance. Each render opens its own
// tab and closes it when done.
type Browser struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowser creates a headless browser handle. Chromium starts lazily.
func NewBrowser(path string, timeout time.Duration, args ...string) *Browser {
	return &Browser{BrowserPath: path, Headless: true, Timeout: timeout, Args: args}
}

// Run executes actions in a fresh tab bound to ctx. Cancelling ctx aborts the
// tab.
func (b *Browser) Run(ctx context.Context, actions ...chromedp.Action) error {
	if b == nil {
		return books.NewError(books.KindInternal, "browser is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.ensureBrowser(); err != nil {
		return books.NewError(books.KindInternal, "chromium init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	reqCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-reqCtx.Done():
		}
	}()

	runCtx := reqCtx
	if b.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(reqCtx, b.Timeout)
		defer cancelTimeout()
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return books.NewError(books.KindTimeout, "chromium render timed out", err)
		}
		return books.NewError(books.KindRender, "chromium render failed", err)
	}
	return nil
}

// Close releases Chromium resources if they have been initialized.
func (b *Browser) Close() error {
	if b == nil {
		return nil
	}
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

func (b *Browser) ensureBrowser() error {
	b.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if b.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(b.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", b.Headless))
		options = append(options, allocatorOptionsFromArgs(b.Args)...)

		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)
	})
	if b.allocCtx == nil || b.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

// loadDocument replaces the blank tab content with htmlInput.
func loadDocument(htmlInput string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, htmlInput).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
}

// PageMargins are CSS lengths ("10mm", "0.5in", ...).
type PageMargins struct {
	Top, Bottom, Left, Right string
}

func buildPrintToPDFParams(margins PageMargins) (*page.PrintToPDFParams, error) {
	params := page.PrintToPDF().
		WithPaperWidth(a4WidthInches).
		WithPaperHeight(a4HeightInches).
		WithPrintBackground(true).
		WithPreferCSSPageSize(true)

	apply := []struct {
		value string
		set   func(float64)
	}{
		{margins.Top, func(v float64) { params = params.WithMarginTop(v) }},
		{margins.Bottom, func(v float64) { params = params.WithMarginBottom(v) }},
		{margins.Left, func(v float64) { params = params.WithMarginLeft(v) }},
		{margins.Right, func(v float64) { params = params.WithMarginRight(v) }},
	}
	for _, m := range apply {
		if m.value == "" {
			m.set(0)
			continue
		}
		inches, err := parseLengthInches(m.value)
		if err != nil {
			return nil, err
		}
		m.set(inches)
	}
	return params, nil
}

func parseLengthInches(value string) (float64, error) {
	matches := pdfLengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, books.NewError(books.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}

	unit := strings.ToLower(matches[2])
	if unit == "" {
		unit = "in"
	}
	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, books.NewError(books.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), err)
	}

	switch unit {
	case "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	case "px":
		return amount / 96.0, nil
	default:
		return 0, books.NewError(books.KindValidation, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
}

// mmToPx converts millimetres to CSS pixels at 96 dpi.
func mmToPx(mm float64) int64 {
	return int64(mm/25.4*96.0 + 0.5)
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
