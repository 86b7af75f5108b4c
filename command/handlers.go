package command

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-invoicedesk/books"
)

// Books is the backend surface the command handlers write through.
type Books interface {
	UpdateStatus(ctx context.Context, id string, status books.Status) error
	RecordPayment(ctx context.Context, id string, req books.PaymentRequest) error
	Refund(ctx context.Context, id string, req books.RefundRequest) error
	DeleteInvoice(ctx context.Context, id string) error
	DeleteExpense(ctx context.Context, id string) error
}

func serviceRequired() error {
	return errors.New("books client is required", errors.CategoryInternal).
		WithTextCode("SERVICE_REQUIRED")
}

// ChangeStatusHandler updates invoice status.
type ChangeStatusHandler struct {
	Books Books
}

func NewChangeStatusHandler(api Books) *ChangeStatusHandler {
	return &ChangeStatusHandler{Books: api}
}

func (h *ChangeStatusHandler) Execute(ctx context.Context, msg ChangeStatus) error {
	if h == nil || h.Books == nil {
		return serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return h.Books.UpdateStatus(ctx, msg.InvoiceID, msg.Status)
}

// RecordPaymentHandler records invoice payments.
type RecordPaymentHandler struct {
	Books Books
}

func NewRecordPaymentHandler(api Books) *RecordPaymentHandler {
	return &RecordPaymentHandler{Books: api}
}

func (h *RecordPaymentHandler) Execute(ctx context.Context, msg RecordPayment) error {
	if h == nil || h.Books == nil {
		return serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return h.Books.RecordPayment(ctx, msg.InvoiceID, msg.Payment)
}

// ProcessRefundHandler sends refunds after the client-side pre-check.
type ProcessRefundHandler struct {
	Books Books
}

func NewProcessRefundHandler(api Books) *ProcessRefundHandler {
	return &ProcessRefundHandler{Books: api}
}

func (h *ProcessRefundHandler) Execute(ctx context.Context, msg ProcessRefund) error {
	if h == nil || h.Books == nil {
		return serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return h.Books.Refund(ctx, msg.Invoice.ID, msg.Refund.Normalize())
}

// DeleteInvoiceHandler deletes invoices.
type DeleteInvoiceHandler struct {
	Books Books
}

func NewDeleteInvoiceHandler(api Books) *DeleteInvoiceHandler {
	return &DeleteInvoiceHandler{Books: api}
}

func (h *DeleteInvoiceHandler) Execute(ctx context.Context, msg DeleteInvoice) error {
	if h == nil || h.Books == nil {
		return serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return h.Books.DeleteInvoice(ctx, msg.InvoiceID)
}

// DeleteExpenseHandler deletes expenses.
type DeleteExpenseHandler struct {
	Books Books
}

func NewDeleteExpenseHandler(api Books) *DeleteExpenseHandler {
	return &DeleteExpenseHandler{Books: api}
}

func (h *DeleteExpenseHandler) Execute(ctx context.Context, msg DeleteExpense) error {
	if h == nil || h.Books == nil {
		return serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return h.Books.DeleteExpense(ctx, msg.ExpenseID)
}

// Handlers bundles the command handlers sharing one client.
type Handlers struct {
	ChangeStatus  *ChangeStatusHandler
	RecordPayment *RecordPaymentHandler
	ProcessRefund *ProcessRefundHandler
	DeleteInvoice *DeleteInvoiceHandler
	DeleteExpense *DeleteExpenseHandler
}

// NewHandlers builds every command handler around api.
func NewHandlers(api Books) Handlers {
	return Handlers{
		ChangeStatus:  NewChangeStatusHandler(api),
		RecordPayment: NewRecordPaymentHandler(api),
		ProcessRefund: NewProcessRefundHandler(api),
		DeleteInvoice: NewDeleteInvoiceHandler(api),
		DeleteExpense: NewDeleteExpenseHandler(api),
	}
}
