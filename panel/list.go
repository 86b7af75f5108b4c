package panel

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-invoicedesk/query"
)

// InvoiceList is the invoice list view model: search, paging and row
// selection over the backend list.
type InvoiceList struct {
	svc  Services
	life lifetime
	Now  func() time.Time

	mu       sync.Mutex
	search   string
	page     int
	perPage  int
	selected map[string]bool
	current  books.Page[books.ListRow]
}

// NewInvoiceList creates an empty list. Call Load to fetch rows.
func NewInvoiceList(ctx context.Context, svc Services) *InvoiceList {
	return &InvoiceList{
		svc:      svc.withDefaults(),
		life:     newLifetime(ctx),
		Now:      time.Now,
		page:     1,
		perPage:  books.DefaultPerPage,
		selected: map[string]bool{},
	}
}

// Load fetches the current page with the current search term.
func (l *InvoiceList) Load() error {
	if err := l.life.closed(); err != nil {
		return err
	}
	l.mu.Lock()
	msg := query.InvoiceList{
		Search:   l.search,
		Page:     l.page,
		PerPage:  l.perPage,
		Selected: copySelection(l.selected),
		Now:      l.Now(),
	}
	l.mu.Unlock()

	page, err := l.svc.Queries.InvoiceList.Query(l.life.ctx, msg)
	if err != nil {
		l.svc.Logger.Errorf("invoice list: load failed: %v", err)
		l.svc.Toaster.Toast(notify.Failure("Failed to load invoices", ""))
		return err
	}
	l.mu.Lock()
	l.current = page
	l.page = page.Page
	l.mu.Unlock()
	return nil
}

// Page returns the last loaded page.
func (l *InvoiceList) Page() books.Page[books.ListRow] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Search sets the search term, resets to the first page and reloads.
func (l *InvoiceList) Search(term string) error {
	l.mu.Lock()
	l.search = term
	l.page = 1
	l.mu.Unlock()
	return l.Load()
}

// GoTo loads page n; out-of-range pages are clamped.
func (l *InvoiceList) GoTo(n int) error {
	l.mu.Lock()
	l.page = n
	l.mu.Unlock()
	return l.Load()
}

// Next loads the following page when there is one.
func (l *InvoiceList) Next() error {
	current := l.Page()
	if !current.HasNext() {
		return nil
	}
	return l.GoTo(current.Page + 1)
}

// Prev loads the previous page when there is one.
func (l *InvoiceList) Prev() error {
	current := l.Page()
	if !current.HasPrev() {
		return nil
	}
	return l.GoTo(current.Page - 1)
}

// Toggle flips the selection of an invoice row.
func (l *InvoiceList) Toggle(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected[id] {
		delete(l.selected, id)
	} else {
		l.selected[id] = true
	}
	for i := range l.current.Items {
		if l.current.Items[i].ID == id {
			l.current.Items[i].Selected = l.selected[id]
		}
	}
}

// Selected returns the ids of the selected rows.
func (l *InvoiceList) Selected() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.selected))
	for id := range l.selected {
		out = append(out, id)
	}
	return out
}

// ExportSpreadsheet writes every row matching the search term to w as XLSX.
func (l *InvoiceList) ExportSpreadsheet(w io.Writer) error {
	if err := l.life.closed(); err != nil {
		return err
	}
	l.mu.Lock()
	msg := query.InvoiceList{Search: l.search, All: true, Now: l.Now()}
	l.mu.Unlock()

	all, err := l.svc.Queries.InvoiceList.Query(l.life.ctx, msg)
	if err == nil {
		err = WriteSpreadsheet(l.life.ctx, all.Items, w)
	}
	if err != nil {
		l.svc.Logger.Errorf("invoice list: spreadsheet export failed: %v", err)
		l.svc.Toaster.Toast(notify.Failure("Failed to export invoices", ""))
		return err
	}
	l.svc.Toaster.Toast(notify.Success("Invoices exported", ""))
	return nil
}

// Close cancels in-flight loads.
func (l *InvoiceList) Close() { l.life.cancel() }

func copySelection(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
