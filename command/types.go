package command

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-invoicedesk/books"
)

// ChangeStatus moves an invoice to a new status (mark sent, void).
type ChangeStatus struct {
	InvoiceID string
	Status    books.Status
}

func (ChangeStatus) Type() string { return "invoice:status" }

func (msg ChangeStatus) Validate() error {
	if strings.TrimSpace(msg.InvoiceID) == "" {
		return invoiceIDRequired()
	}
	switch msg.Status {
	case books.StatusDraft, books.StatusSent, books.StatusPaid, books.StatusPartiallyPaid,
		books.StatusOverdue, books.StatusVoid:
		return nil
	default:
		return errors.New("unknown invoice status "+string(msg.Status), errors.CategoryValidation).
			WithTextCode("STATUS_INVALID")
	}
}

// RecordPayment records a payment against an invoice.
type RecordPayment struct {
	InvoiceID string
	Payment   books.PaymentRequest
}

func (RecordPayment) Type() string { return "invoice:record-payment" }

func (msg RecordPayment) Validate() error {
	if strings.TrimSpace(msg.InvoiceID) == "" {
		return invoiceIDRequired()
	}
	if err := msg.Payment.Validate(); err != nil {
		return errors.New(books.UserMessage(err, "invalid payment"), errors.CategoryValidation).
			WithTextCode("PAYMENT_INVALID")
	}
	return nil
}

// ProcessRefund refunds part of what was paid on an invoice. The invoice is
// needed for the refundable balance check.
type ProcessRefund struct {
	Invoice *books.Invoice
	Refund  books.RefundRequest
}

func (ProcessRefund) Type() string { return "invoice:refund" }

func (msg ProcessRefund) Validate() error {
	if msg.Invoice == nil || strings.TrimSpace(msg.Invoice.ID) == "" {
		return invoiceIDRequired()
	}
	if err := books.ValidateRefund(msg.Invoice, msg.Refund.Amount); err != nil {
		return errors.New(books.UserMessage(err, "invalid refund"), errors.CategoryValidation).
			WithTextCode("REFUND_INVALID")
	}
	return nil
}

// DeleteInvoice deletes an invoice.
type DeleteInvoice struct {
	InvoiceID string
}

func (DeleteInvoice) Type() string { return "invoice:delete" }

func (msg DeleteInvoice) Validate() error {
	if strings.TrimSpace(msg.InvoiceID) == "" {
		return invoiceIDRequired()
	}
	return nil
}

// DeleteExpense deletes an expense.
type DeleteExpense struct {
	ExpenseID string
}

func (DeleteExpense) Type() string { return "expense:delete" }

func (msg DeleteExpense) Validate() error {
	if strings.TrimSpace(msg.ExpenseID) == "" {
		return errors.New("expense ID is required", errors.CategoryValidation).
			WithTextCode("EXPENSE_ID_REQUIRED")
	}
	return nil
}

func invoiceIDRequired() error {
	return errors.New("invoice ID is required", errors.CategoryValidation).
		WithTextCode("INVOICE_ID_REQUIRED")
}
