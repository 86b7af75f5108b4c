package books

import (
	"strings"
	"time"
)

// DefaultPerPage is the invoice list page size.
const DefaultPerPage = 10

// FilterInvoices keeps items whose customer name or invoice number contains
// term, case-insensitively. A blank term keeps everything.
func FilterInvoices(items []InvoiceListItem, term string) []InvoiceListItem {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]InvoiceListItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.CustomerName), term) ||
			strings.Contains(strings.ToLower(item.InvoiceNumber), term) {
			out = append(out, item)
		}
	}
	return out
}

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Paginate returns the requested page, clamping out-of-range page numbers.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// ListRow is an invoice list row decorated for display.
type ListRow struct {
	InvoiceListItem
	DisplayStatus string
	Badge         Badge
	Selected      bool
}

// DecorateRows computes the display status and badge for each item.
func DecorateRows(items []InvoiceListItem, selected map[string]bool, now time.Time) []ListRow {
	rows := make([]ListRow, 0, len(items))
	for _, item := range items {
		status := CalculatedStatus(item.Status, item.DueDate.Time, now)
		rows = append(rows, ListRow{
			InvoiceListItem: item,
			DisplayStatus:   status,
			Badge:           CalculatedBadge(status),
			Selected:        selected[item.ID],
		})
	}
	return rows
}
