package deskhttp

import (
	"errors"
	"net/http"

	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-router"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type listResponse struct {
	Items      []listRow `json:"items"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalItems int       `json:"total_items"`
	TotalPages int       `json:"total_pages"`
}

type listRow struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	Date          string `json:"date"`
	DueDate       string `json:"due_date"`
	Amount        string `json:"amount"`
	BalanceDue    string `json:"balance_due"`
	Status        string `json:"status"`
	BadgeClass    string `json:"badge_class"`
}

func newListResponse(page books.Page[books.ListRow]) listResponse {
	rows := make([]listRow, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, listRow{
			ID:            item.ID,
			InvoiceNumber: item.InvoiceNumber,
			CustomerName:  item.CustomerName,
			Date:          books.FormatDate(item.Date.Time),
			DueDate:       books.FormatDate(item.DueDate.Time),
			Amount:        books.FormatCurrency(item.Amount),
			BalanceDue:    books.FormatCurrency(item.BalanceDue),
			Status:        item.DisplayStatus,
			BadgeClass:    item.Badge.Class(),
		})
	}
	return listResponse{
		Items:      rows,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

// writeError renders err as a JSON error body with a mapped status.
func writeError(c router.Context, err error) error {
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}
	ge := books.AsGoError(err)
	status := statusForError(ge)
	var deskErr *books.DeskError
	if errors.As(err, &deskErr) && deskErr.Kind == books.KindRemote && deskErr.Status == http.StatusNotFound {
		status = http.StatusNotFound
	}
	return c.JSON(status, errorResponse{
		Error: errorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	})
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryExternal:
		return http.StatusBadGateway
	case errorslib.CategoryOperation:
		switch err.TextCode {
		case "canceled":
			return http.StatusConflict
		case "timeout":
			return http.StatusRequestTimeout
		default:
			return http.StatusUnprocessableEntity
		}
	default:
		return http.StatusInternalServerError
	}
}
