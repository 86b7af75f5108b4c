package query

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-invoicedesk/books"
)

// Books is the backend surface the query handlers read from.
type Books interface {
	ListInvoices(ctx context.Context) ([]books.InvoiceListItem, error)
	GetInvoice(ctx context.Context, id string) (*books.Invoice, error)
	ListExpenses(ctx context.Context) ([]books.Expense, error)
	GetExpense(ctx context.Context, id string) (*books.Expense, error)
	GetBranding(ctx context.Context) (*books.Branding, error)
}

func serviceRequired() error {
	return errors.New("books client is required", errors.CategoryInternal).
		WithTextCode("SERVICE_REQUIRED")
}

// InvoiceDetailHandler returns a single invoice.
type InvoiceDetailHandler struct {
	Books Books
}

func NewInvoiceDetailHandler(api Books) *InvoiceDetailHandler {
	return &InvoiceDetailHandler{Books: api}
}

func (h *InvoiceDetailHandler) Query(ctx context.Context, msg InvoiceDetail) (*books.Invoice, error) {
	if h == nil || h.Books == nil {
		return nil, serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return h.Books.GetInvoice(ctx, msg.InvoiceID)
}

// InvoiceListHandler returns a page of list rows with calculated status.
type InvoiceListHandler struct {
	Books Books
	Now   func() time.Time
}

func NewInvoiceListHandler(api Books) *InvoiceListHandler {
	return &InvoiceListHandler{Books: api, Now: time.Now}
}

func (h *InvoiceListHandler) Query(ctx context.Context, msg InvoiceList) (books.Page[books.ListRow], error) {
	if h == nil || h.Books == nil {
		return books.Page[books.ListRow]{}, serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return books.Page[books.ListRow]{}, err
	}
	items, err := h.Books.ListInvoices(ctx)
	if err != nil {
		return books.Page[books.ListRow]{}, err
	}
	now := msg.Now
	if now.IsZero() {
		now = h.now()
	}
	filtered := books.FilterInvoices(items, msg.Search)
	perPage := msg.PerPage
	if msg.All && len(filtered) > 0 {
		perPage = len(filtered)
	}
	page := books.Paginate(filtered, msg.Page, perPage)
	return books.Page[books.ListRow]{
		Items:      books.DecorateRows(page.Items, msg.Selected, now),
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}, nil
}

func (h *InvoiceListHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// ExpenseDetailHandler returns a single expense.
type ExpenseDetailHandler struct {
	Books Books
}

func NewExpenseDetailHandler(api Books) *ExpenseDetailHandler {
	return &ExpenseDetailHandler{Books: api}
}

func (h *ExpenseDetailHandler) Query(ctx context.Context, msg ExpenseDetail) (*books.Expense, error) {
	if h == nil || h.Books == nil {
		return nil, serviceRequired()
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return h.Books.GetExpense(ctx, msg.ExpenseID)
}

// ExpenseListHandler returns every expense.
type ExpenseListHandler struct {
	Books Books
}

func NewExpenseListHandler(api Books) *ExpenseListHandler {
	return &ExpenseListHandler{Books: api}
}

func (h *ExpenseListHandler) Query(ctx context.Context, _ ExpenseList) ([]books.Expense, error) {
	if h == nil || h.Books == nil {
		return nil, serviceRequired()
	}
	return h.Books.ListExpenses(ctx)
}

// BrandingHandler returns the branding assets. A failed lookup yields empty
// branding so documents still render.
type BrandingHandler struct {
	Books  Books
	Logger books.Logger
}

func NewBrandingHandler(api Books, logger books.Logger) *BrandingHandler {
	if logger == nil {
		logger = books.NopLogger()
	}
	return &BrandingHandler{Books: api, Logger: logger}
}

func (h *BrandingHandler) Query(ctx context.Context, _ Branding) (*books.Branding, error) {
	if h == nil || h.Books == nil {
		return nil, serviceRequired()
	}
	branding, err := h.Books.GetBranding(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		h.Logger.Errorf("branding unavailable: %v", err)
		return &books.Branding{}, nil
	}
	if branding == nil {
		branding = &books.Branding{}
	}
	return branding, nil
}

// Handlers bundles the query handlers sharing one client.
type Handlers struct {
	InvoiceDetail *InvoiceDetailHandler
	InvoiceList   *InvoiceListHandler
	ExpenseDetail *ExpenseDetailHandler
	ExpenseList   *ExpenseListHandler
	Branding      *BrandingHandler
}

// NewHandlers builds every query handler around api.
func NewHandlers(api Books, logger books.Logger) Handlers {
	return Handlers{
		InvoiceDetail: NewInvoiceDetailHandler(api),
		InvoiceList:   NewInvoiceListHandler(api),
		ExpenseDetail: NewExpenseDetailHandler(api),
		ExpenseList:   NewExpenseListHandler(api),
		Branding:      NewBrandingHandler(api, logger),
	}
}
