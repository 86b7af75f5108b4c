package docpdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/printview"
)

func chromeBinaryPath(t *testing.T) string {
	t.Helper()

	chromePath := os.Getenv("CHROME_BIN")
	if chromePath == "" {
		paths := []string{"google-chrome", "chromium", "chromium-browser"}
		for _, candidate := range paths {
			if path, err := exec.LookPath(candidate); err == nil {
				chromePath = path
				break
			}
		}
	}
	if chromePath == "" {
		t.Skip("chromium binary not found; set CHROME_BIN to run this test")
	}

	return chromePath
}

func testBrowser(t *testing.T) *Browser {
	t.Helper()
	browser := NewBrowser(chromeBinaryPath(t), 30*time.Second, "--no-sandbox", "--disable-gpu")
	t.Cleanup(func() { _ = browser.Close() })
	return browser
}

func testFragment(t *testing.T) (*printview.Renderer, *printview.Fragment) {
	t.Helper()
	renderer, err := printview.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	frag, err := renderer.Invoice(invoiceFixture(), books.Organization{Name: "Desk Co"}, nil)
	if err != nil {
		t.Fatalf("Invoice fragment: %v", err)
	}
	return renderer, frag
}

func TestRasterizerCaptureAndEmbed(t *testing.T) {
	browser := testBrowser(t)
	_, frag := testFragment(t)

	png, err := NewRasterizer(browser, nil).Capture(context.Background(), frag)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected png capture")
	}
	out, err := EmbedImage(png)
	if err != nil {
		t.Fatalf("EmbedImage: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestPrintJobRender(t *testing.T) {
	browser := testBrowser(t)
	renderer, frag := testFragment(t)

	job := &PrintJob{Browser: browser, Renderer: renderer, AssetDelay: 10 * time.Millisecond}
	out, err := job.Render(context.Background(), frag)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestBrowserRunHonoursCancellation(t *testing.T) {
	browser := testBrowser(t)
	_, frag := testFragment(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRasterizer(browser, nil).Capture(ctx, frag); err == nil {
		t.Fatalf("expected cancelled capture to fail")
	}
}

func TestBrowserRunWithTimeoutReportsFailure(t *testing.T) {
	browser := NewBrowser("/nonexistent/chromium", 2*time.Second)
	t.Cleanup(func() { _ = browser.Close() })

	for i := 0; i < 20; i++ {
		err := browser.Run(context.Background(), chromedp.ActionFunc(func(context.Context) error { return nil }))
		if err == nil {
			t.Fatalf("run %d: expected failure without a chromium binary", i)
		}
		switch kind := books.KindFromError(err); kind {
		case books.KindRender, books.KindTimeout:
		default:
			t.Fatalf("run %d: unexpected error kind %q (%v)", i, kind, err)
		}
	}
}
