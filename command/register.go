package command

import (
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/query"
)

// API is the full backend surface served by the registered handlers.
type API interface {
	Books
	query.Books
}

// Register wires every desk command and query to go-command.
func Register(reg *gcmd.Registry, api API, logger books.Logger) ([]dispatcher.Subscription, error) {
	if api == nil {
		return nil, errors.New("books client is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}

	cmds := NewHandlers(api)
	qrys := query.NewHandlers(api, logger)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(cmds.ChangeStatus),
		dispatcher.SubscribeCommand(cmds.RecordPayment),
		dispatcher.SubscribeCommand(cmds.ProcessRefund),
		dispatcher.SubscribeCommand(cmds.DeleteInvoice),
		dispatcher.SubscribeCommand(cmds.DeleteExpense),
		dispatcher.SubscribeQuery(qrys.InvoiceList),
		dispatcher.SubscribeQuery(qrys.InvoiceDetail),
		dispatcher.SubscribeQuery(qrys.ExpenseList),
		dispatcher.SubscribeQuery(qrys.ExpenseDetail),
		dispatcher.SubscribeQuery(qrys.Branding),
	}

	if reg != nil {
		handlers := []any{
			cmds.ChangeStatus,
			cmds.RecordPayment,
			cmds.ProcessRefund,
			cmds.DeleteInvoice,
			cmds.DeleteExpense,
			qrys.InvoiceList,
			qrys.InvoiceDetail,
			qrys.ExpenseList,
			qrys.ExpenseDetail,
			qrys.Branding,
		}
		for _, handler := range handlers {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}

	return subscriptions, nil
}
