package docpdf

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/goliatone/go-invoicedesk/theme"
)

const (
	DefaultCaptureScale = 2.0
	DefaultSettleDelay  = 200 * time.Millisecond
)

var captureTemplate = template.Must(template.New("capture").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; padding: 0; background-color: rgb(255, 255, 255); }
{{.Selector}} { width: {{.Width}}mm; min-height: {{.MinHeight}}mm; padding: 0; margin: 0; box-sizing: border-box; overflow: visible; background-color: rgb(255, 255, 255); color: rgb(0, 0, 0); }
</style>
<style>{{.Stylesheet}}</style>
</head>
<body>{{.Markup}}</body>
</html>`))

type captureView struct {
	Title      string
	Selector   template.CSS
	Width      float64
	MinHeight  float64
	Stylesheet template.CSS
	Markup     template.HTML
}

// waitForImages resolves once every image has loaded or failed.
const waitForImages = `Promise.all(Array.from(document.images).map(function (img) {
	if (img.complete) { return Promise.resolve(true); }
	return new Promise(function (resolve) {
		img.addEventListener('load', function () { resolve(true); }, { once: true });
		img.addEventListener('error', function () { resolve(false); }, { once: true });
	});
})).then(function () { return true; })`

// inlineComputedColors copies computed rgb colours onto every element of the
// fragment so the capture never depends on stylesheet colour syntax.
const inlineComputedColors = `(function (selector) {
	var root = document.querySelector(selector);
	if (!root) { return 0; }
	var props = ['color', 'background-color', 'border-top-color', 'border-right-color', 'border-bottom-color', 'border-left-color'];
	var nodes = [root].concat(Array.from(root.querySelectorAll('*')));
	nodes.forEach(function (el) {
		var cs = window.getComputedStyle(el);
		props.forEach(function (p) {
			var v = cs.getPropertyValue(p);
			if (v && v.indexOf('rgb') === 0) { el.style.setProperty(p, v, 'important'); }
		});
	});
	return nodes.length;
})`

// Rasterizer captures a print fragment as a PNG bitmap.
type Rasterizer struct {
	Browser *Browser
	Scale   float64
	Settle  time.Duration
	Logger  books.Logger
}

// NewRasterizer creates a rasterizer using the shared browser.
func NewRasterizer(browser *Browser, logger books.Logger) *Rasterizer {
	if logger == nil {
		logger = books.NopLogger()
	}
	return &Rasterizer{Browser: browser, Scale: DefaultCaptureScale, Settle: DefaultSettleDelay, Logger: logger}
}

// Capture renders the fragment in a fresh tab and returns a PNG of its root
// element.
func (r *Rasterizer) Capture(ctx context.Context, frag *printview.Fragment) ([]byte, error) {
	if err := printview.Require(frag); err != nil {
		return nil, err
	}
	if r.Browser == nil {
		return nil, books.NewError(books.KindNotImpl, "rasterizer requires a browser", nil)
	}
	doc, err := captureDocument(frag)
	if err != nil {
		return nil, err
	}

	scale := r.Scale
	if scale <= 0 {
		scale = DefaultCaptureScale
	}
	width, height := fragmentSize(frag)
	selector := frag.Selector()

	var (
		png    []byte
		loaded bool
		nodes  int
	)
	err = r.Browser.Run(ctx,
		chromedp.EmulateViewport(mmToPx(width), mmToPx(height)),
		loadDocument(doc),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(waitForImages, &loaded, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Evaluate(inlineComputedColors+"("+quoteJS(selector)+")", &nodes),
		chromedp.Sleep(r.Settle),
		chromedp.ScreenshotScale(selector, scale, &png, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	r.logger().Debugf("captured %s: %d nodes, %d bytes", selector, nodes, len(png))
	if len(png) == 0 {
		return nil, books.NewError(books.KindRender, "empty capture", nil)
	}
	return png, nil
}

func captureDocument(frag *printview.Fragment) (string, error) {
	width, height := fragmentSize(frag)
	var buf bytes.Buffer
	err := captureTemplate.Execute(&buf, captureView{
		Title:      frag.Title,
		Selector:   template.CSS(frag.Selector()),
		Width:      width,
		MinHeight:  height,
		Stylesheet: template.CSS(theme.Stylesheet(frag.Selector())),
		Markup:     template.HTML(theme.StripUnsupported(string(frag.Markup))),
	})
	if err != nil {
		return "", books.NewError(books.KindRender, "build capture document", err)
	}
	return buf.String(), nil
}

func fragmentSize(frag *printview.Fragment) (float64, float64) {
	width, height := frag.WidthMM, frag.MinHeightMM
	if width <= 0 {
		width = printview.A4WidthMM
	}
	if height <= 0 {
		height = printview.A4HeightMM
	}
	return width, height
}

func quoteJS(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('\'')
	template.JSEscape(&buf, []byte(s))
	buf.WriteByte('\'')
	return buf.String()
}

func (r *Rasterizer) logger() books.Logger {
	if r.Logger == nil {
		return books.NopLogger()
	}
	return r.Logger
}
