package booksapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/shopspring/decimal"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestGetInvoiceDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoices/inv_1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"inv_1","invoiceNumber":"INV-0001","date":"2024-01-15","dueDate":"2024-02-14T00:00:00Z","total":1180,"cgst":90,"sgst":90,"subTotal":1000,"amountPaid":0,"balanceDue":1180,"status":"SENT","items":[{"name":"Consulting","quantity":1,"rate":1000,"amount":1000}]}}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	inv, err := client.GetInvoice(context.Background(), "inv_1")
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if inv.InvoiceNumber != "INV-0001" || !inv.Total.Equal(decimal.NewFromInt(1180)) {
		t.Fatalf("unexpected invoice %+v", inv)
	}
	if books.FormatDate(inv.Date.Time) != "15/01/2024" || books.FormatDate(inv.DueDate.Time) != "14/02/2024" {
		t.Fatalf("unexpected dates %v %v", inv.Date, inv.DueDate)
	}
	if len(inv.Items) != 1 || inv.Items[0].Name != "Consulting" {
		t.Fatalf("unexpected items %+v", inv.Items)
	}
}

func TestRefundSurfacesServerMessage(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/invoices/inv_1/refund" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Refund exceeds paid amount"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	err := client.Refund(context.Background(), "inv_1", books.RefundRequest{Amount: decimal.NewFromInt(50)})
	if err == nil {
		t.Fatalf("expected refund rejection")
	}
	if got := books.UserMessage(err, "Failed to process refund"); got != "Refund exceeds paid amount" {
		t.Fatalf("expected verbatim server message, got %q", got)
	}
	if body["reason"] != books.DefaultRefundReason || body["mode"] != "Cash" || body["amount"] != float64(50) {
		t.Fatalf("unexpected refund body %v", body)
	}
}

func TestRecordPaymentBody(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	when := time.Date(2024, 1, 15, 9, 45, 0, 0, time.UTC)
	err := New(srv.URL).RecordPayment(context.Background(), "inv_1", books.PaymentRequest{
		Amount:      decimal.RequireFromString("250.50"),
		PaymentMode: books.PaymentUPI,
		Date:        when,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if body["amount"] != 250.5 || body["paymentMode"] != "upi" || body["date"] != "2024-01-15T09:45:00Z" {
		t.Fatalf("unexpected payment body %v", body)
	}
}

func TestRecordPaymentRejectsNonPositiveWithoutCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	err := New(srv.URL).RecordPayment(context.Background(), "inv_1", books.PaymentRequest{PaymentMode: books.PaymentCash})
	if books.KindFromError(err) != books.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no network call")
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "busy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{{"id": "1", "invoiceNumber": "INV-1", "customerName": "Acme", "status": "SENT"}}})
	}))
	defer srv.Close()

	client := New(srv.URL, WithRetry(3, time.Millisecond, 5*time.Millisecond))
	items, err := client.ListInvoices(context.Background())
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(items) != 1 || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls and 1 item, got %d calls %d items", calls, len(items))
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Invoice not found"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithRetry(3, time.Millisecond, 5*time.Millisecond)).GetInvoice(context.Background(), "missing")
	if books.KindFromError(err) != books.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestStatusAndDelete(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPatch {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["status"] != "VOID" {
				t.Errorf("unexpected status body %v", body)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	client := New(srv.URL)
	if err := client.UpdateStatus(context.Background(), "inv_1", books.StatusVoid); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := client.DeleteInvoice(context.Background(), "inv_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := client.DeleteExpense(context.Background(), "exp_1"); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	want := []string{"PATCH /api/invoices/inv_1/status", "DELETE /api/invoices/inv_1", "DELETE /api/expenses/exp_1"}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("expected %q, got %q", w, seen[i])
		}
	}
}

func TestBrandingAndAsset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/branding", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"logo": map[string]string{"url": "/assets/logo.png"}}})
	})
	mux.HandleFunc("/assets/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL)
	branding, err := client.GetBranding(context.Background())
	if err != nil {
		t.Fatalf("branding: %v", err)
	}
	if branding.LogoURL() != "/assets/logo.png" || branding.SignatureURL() != "" {
		t.Fatalf("unexpected branding %+v", branding)
	}
	data, contentType, err := client.FetchAsset(context.Background(), branding.LogoURL())
	if err != nil {
		t.Fatalf("fetch asset: %v", err)
	}
	if string(data) != "png-bytes" || contentType != "image/png" {
		t.Fatalf("unexpected asset %q %q", data, contentType)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, WithRetry(0, 0, 0)).DeleteInvoice(context.Background(), "inv_1")
	if books.KindFromError(err) != books.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if got := books.UserMessage(err, "Failed to delete invoice"); got != "Failed to delete invoice" {
		t.Fatalf("expected fallback message, got %q", got)
	}
}
