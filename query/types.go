package query

import (
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// InvoiceDetail requests a full invoice record.
type InvoiceDetail struct {
	InvoiceID string
}

func (InvoiceDetail) Type() string { return "invoice:detail" }

func (msg InvoiceDetail) Validate() error {
	if strings.TrimSpace(msg.InvoiceID) == "" {
		return errors.New("invoice ID is required", errors.CategoryValidation).
			WithTextCode("INVOICE_ID_REQUIRED")
	}
	return nil
}

// InvoiceList requests a filtered, paginated page of decorated list rows.
// All returns every filtered row as a single page.
type InvoiceList struct {
	Search   string
	Page     int
	PerPage  int
	All      bool
	Selected map[string]bool
	Now      time.Time
}

func (InvoiceList) Type() string { return "invoice:list" }

func (msg InvoiceList) Validate() error {
	if msg.PerPage < 0 {
		return errors.New("per page must not be negative", errors.CategoryValidation).
			WithTextCode("PER_PAGE_INVALID")
	}
	return nil
}

// ExpenseDetail requests a full expense record.
type ExpenseDetail struct {
	ExpenseID string
}

func (ExpenseDetail) Type() string { return "expense:detail" }

func (msg ExpenseDetail) Validate() error {
	if strings.TrimSpace(msg.ExpenseID) == "" {
		return errors.New("expense ID is required", errors.CategoryValidation).
			WithTextCode("EXPENSE_ID_REQUIRED")
	}
	return nil
}

// Branding requests the organization branding assets.
type Branding struct{}

func (Branding) Type() string { return "branding:get" }

func (Branding) Validate() error { return nil }

// ExpenseList requests every expense record.
type ExpenseList struct{}

func (ExpenseList) Type() string { return "expense:list" }

func (ExpenseList) Validate() error { return nil }
