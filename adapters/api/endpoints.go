package booksapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
)

// ListInvoices returns the invoice list rows.
func (c *Client) ListInvoices(ctx context.Context) ([]books.InvoiceListItem, error) {
	var items []books.InvoiceListItem
	if err := c.get(ctx, "/api/invoices", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetInvoice returns a full invoice record.
func (c *Client) GetInvoice(ctx context.Context, id string) (*books.Invoice, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var inv books.Invoice
	if err := c.get(ctx, "/api/invoices/"+escape(id), &inv); err != nil {
		return nil, err
	}
	if inv.ID == "" {
		return nil, books.NewError(books.KindNotFound, "invoice not found", nil)
	}
	return &inv, nil
}

type statusBody struct {
	Status books.Status `json:"status"`
}

// UpdateStatus changes the stored invoice status (SENT, VOID, ...).
func (c *Client) UpdateStatus(ctx context.Context, id string, status books.Status) error {
	if err := requireID(id); err != nil {
		return err
	}
	if status == "" {
		return books.NewError(books.KindValidation, "status is required", nil)
	}
	return c.send(ctx, http.MethodPatch, "/api/invoices/"+escape(id)+"/status", statusBody{Status: status})
}

type paymentBody struct {
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"paymentMode"`
	Date        string  `json:"date"`
}

// RecordPayment records a payment against an invoice.
func (c *Client) RecordPayment(ctx context.Context, id string, req books.PaymentRequest) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	when := req.Date
	if when.IsZero() {
		when = time.Now()
	}
	return c.send(ctx, http.MethodPost, "/api/invoices/"+escape(id)+"/record-payment", paymentBody{
		Amount:      req.Amount.InexactFloat64(),
		PaymentMode: string(req.PaymentMode),
		Date:        when.Format(time.RFC3339),
	})
}

type refundBody struct {
	Amount float64 `json:"amount"`
	Mode   string  `json:"mode"`
	Reason string  `json:"reason"`
}

// Refund submits a refund. The backend is the authority on amount validity
// and its rejection message is returned as a remote error.
func (c *Client) Refund(ctx context.Context, id string, req books.RefundRequest) error {
	if err := requireID(id); err != nil {
		return err
	}
	req = req.Normalize()
	return c.send(ctx, http.MethodPost, "/api/invoices/"+escape(id)+"/refund", refundBody{
		Amount: req.Amount.InexactFloat64(),
		Mode:   string(req.Mode),
		Reason: req.Reason,
	})
}

// DeleteInvoice deletes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.send(ctx, http.MethodDelete, "/api/invoices/"+escape(id), nil)
}

// GetBranding returns the organization branding. Missing branding is not an
// error.
func (c *Client) GetBranding(ctx context.Context) (*books.Branding, error) {
	var branding books.Branding
	if err := c.get(ctx, "/api/branding", &branding); err != nil {
		return nil, err
	}
	return &branding, nil
}

// ListExpenses returns all expenses.
func (c *Client) ListExpenses(ctx context.Context) ([]books.Expense, error) {
	var items []books.Expense
	if err := c.get(ctx, "/api/expenses", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetExpense returns one expense.
func (c *Client) GetExpense(ctx context.Context, id string) (*books.Expense, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var exp books.Expense
	if err := c.get(ctx, "/api/expenses/"+escape(id), &exp); err != nil {
		return nil, err
	}
	if exp.ID == "" {
		return nil, books.NewError(books.KindNotFound, "expense not found", nil)
	}
	return &exp, nil
}

// DeleteExpense deletes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.send(ctx, http.MethodDelete, "/api/expenses/"+escape(id), nil)
}

// FetchAsset downloads a branding image. Relative URLs resolve against the
// client base URL.
func (c *Client) FetchAsset(ctx context.Context, assetURL string) ([]byte, string, error) {
	if assetURL == "" {
		return nil, "", books.NewError(books.KindValidation, "asset url is required", nil)
	}
	target := assetURL
	if len(target) > 0 && target[0] == '/' {
		target = c.BaseURL + target
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", books.NewError(books.KindValidation, "invalid asset url", err)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", books.NewError(books.KindTransport, "asset fetch failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", books.NewRemoteError(resp.StatusCode, "asset unavailable")
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, "", books.NewError(books.KindTransport, "asset read failed", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func requireID(id string) error {
	if id == "" {
		return books.NewError(books.KindValidation, "id is required", nil)
	}
	return nil
}
