package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-invoicedesk/books/notify"
)

type backend struct {
	mu       sync.Mutex
	statuses []string
	refunds  int
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/invoices", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{
			"id":            "inv-1",
			"invoiceNumber": "INV-0001",
			"customerName":  "Acme Traders",
			"date":          "2024-01-15",
			"dueDate":       "2024-02-14",
			"amount":        1180,
			"balanceDue":    1180,
			"status":        "PAID",
		}})
	})
	mux.HandleFunc("/api/invoices/inv-1", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"id":            "inv-1",
			"invoiceNumber": "INV-0001",
			"customerName":  "Acme Traders",
			"date":          "2024-01-15",
			"dueDate":       "2024-02-14",
			"subTotal":      1000,
			"cgst":          90,
			"sgst":          90,
			"total":         1180,
			"amountPaid":    500,
			"balanceDue":    680,
			"status":        "PARTIALLY_PAID",
		})
	})
	mux.HandleFunc("/api/invoices/inv-1/status", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.statuses = append(b.statuses, body.Status)
		b.mu.Unlock()
		writeData(w, map[string]any{"id": "inv-1"})
	})
	mux.HandleFunc("/api/invoices/inv-1/refund", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.refunds++
		b.mu.Unlock()
		writeData(w, map[string]any{"id": "inv-1"})
	})
	mux.HandleFunc("/api/branding", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{})
	})
	return mux
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), append([]string{"--log-level", "error"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}
	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintToast(t *testing.T) {
	var buf bytes.Buffer
	printToast(&buf, notify.Success("PDF Downloaded", "INV-0001.pdf has been downloaded successfully."))
	printToast(&buf, notify.Failure("Failed to void invoice", ""))
	expected := "[ok] PDF Downloaded: INV-0001.pdf has been downloaded successfully.\n[error] Failed to void invoice\n"
	if buf.String() != expected {
		t.Fatalf("unexpected toast output:\n%s", buf.String())
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestInvoicesList(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	defer srv.Close()

	out, _, err := run(t, "--api", srv.URL, "invoices", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "INV-0001") || !strings.Contains(out, "PAID") {
		t.Fatalf("expected invoice row, got:\n%s", out)
	}
	if !strings.Contains(out, "page 1 of 1 (1 invoices)") {
		t.Fatalf("expected page footer, got:\n%s", out)
	}
}

func TestInvoiceSendMarksSent(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be.handler())
	defer srv.Close()

	_, stderr, err := run(t, "--api", srv.URL, "invoices", "send", "inv-1")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(be.statuses) != 1 || be.statuses[0] != "SENT" {
		t.Fatalf("unexpected status calls %v", be.statuses)
	}
	if !strings.Contains(stderr, "[ok] Invoice marked as sent") {
		t.Fatalf("expected success toast, got:\n%s", stderr)
	}
}

func TestInvoiceRefundPreCheck(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be.handler())
	defer srv.Close()

	_, stderr, err := run(t, "--api", srv.URL, "invoices", "refund", "inv-1", "--amount", "5000")
	if err == nil {
		t.Fatalf("expected refund to be rejected")
	}
	if be.refunds != 0 {
		t.Fatalf("expected no refund call, got %d", be.refunds)
	}
	if !strings.Contains(stderr, "Refund amount cannot exceed refundable balance of ₹500.00") {
		t.Fatalf("expected refundable balance message, got:\n%s", stderr)
	}
}

func TestInvoicePDFWritesDownload(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	defer srv.Close()
	dir := t.TempDir()

	out, _, err := run(t, "--api", srv.URL, "--downloads", dir, "invoices", "pdf", "inv-1")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	path := strings.TrimSpace(out)
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("expected file under %s, got %q", dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	head := make([]byte, 5)
	if _, err := io.ReadFull(f, head); err != nil || string(head) != "%PDF-" {
		t.Fatalf("expected pdf header, got %q (%v)", head, err)
	}
}
