package panel

import (
	"context"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-invoicedesk/command"
	"github.com/goliatone/go-invoicedesk/pipeline"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/goliatone/go-invoicedesk/query"
)

// ExpensePanel is the expense detail view model.
type ExpensePanel struct {
	svc      Services
	cb       Callbacks
	life     lifetime
	expense  *books.Expense
	fragment *printview.Fragment
}

// OpenExpensePanel fetches the expense and renders its print fragment.
func OpenExpensePanel(ctx context.Context, svc Services, cb Callbacks, id string) (*ExpensePanel, error) {
	svc = svc.withDefaults()
	life := newLifetime(ctx)
	exp, err := svc.Queries.ExpenseDetail.Query(life.ctx, query.ExpenseDetail{ExpenseID: id})
	if err != nil {
		life.cancel()
		svc.Logger.Errorf("expense %s: fetch failed: %v", id, err)
		return nil, err
	}
	if exp == nil {
		life.cancel()
		return nil, books.NewError(books.KindNotFound, "expense not found", nil)
	}
	p := &ExpensePanel{svc: svc, cb: cb, life: life}
	p.setExpense(exp)
	return p, nil
}

// NewExpensePanel wraps an expense that was already fetched.
func NewExpensePanel(ctx context.Context, svc Services, cb Callbacks, exp *books.Expense) *ExpensePanel {
	if exp == nil {
		exp = &books.Expense{}
	}
	p := &ExpensePanel{svc: svc.withDefaults(), cb: cb, life: newLifetime(ctx)}
	p.setExpense(exp)
	return p
}

func (p *ExpensePanel) setExpense(exp *books.Expense) {
	p.expense = exp
	p.fragment = nil
	if p.svc.Renderer == nil {
		return
	}
	frag, err := p.svc.Renderer.Expense(exp)
	if err != nil {
		p.svc.Logger.Errorf("expense %s: print view failed: %v", exp.ID, err)
		return
	}
	p.fragment = frag
}

// Expense returns the record.
func (p *ExpensePanel) Expense() *books.Expense { return p.expense }

// Fragment returns the print fragment, or nil when rendering failed.
func (p *ExpensePanel) Fragment() *printview.Fragment { return p.fragment }

// TaxLabel returns the display label of the expense tax code.
func (p *ExpensePanel) TaxLabel() string { return books.TaxLabel(p.expense.Tax) }

// TaxAmountLabel renders the tax amount with its inclusive/exclusive marker.
func (p *ExpensePanel) TaxAmountLabel() string {
	marker := "Exclusive"
	if p.expense.AmountIs == "tax_inclusive" {
		marker = "Inclusive"
	}
	return books.FormatCurrency(p.expense.TaxAmount) + " ( " + marker + " )"
}

// Journal returns the journal rows of the expense.
func (p *ExpensePanel) Journal() []books.JournalRow { return books.ExpenseJournal(p.expense) }

// Edit hands the record to the host editor.
func (p *ExpensePanel) Edit() {
	if p.cb.OnEdit != nil {
		p.cb.OnEdit(p.expense.ID)
	}
}

// Close cancels in-flight work and notifies the host.
func (p *ExpensePanel) Close() {
	p.life.cancel()
	p.cb.closed()
}

// Print sends the print view to the printer.
func (p *ExpensePanel) Print() error {
	if err := p.life.closed(); err != nil {
		return err
	}
	if p.svc.Exports == nil {
		return books.NewError(books.KindNotImpl, "exports not configured", nil)
	}
	return p.svc.Exports.Print(p.life.ctx, p.fragment)
}

// DownloadPDF saves the drawn expense report.
func (p *ExpensePanel) DownloadPDF() (pipeline.Result, error) {
	return p.export(pipeline.StrategyDraw)
}

// DownloadSnapshot saves the rasterized print view as a PDF.
func (p *ExpensePanel) DownloadSnapshot() (pipeline.Result, error) {
	return p.export(pipeline.StrategySnapshot)
}

func (p *ExpensePanel) export(strategy pipeline.Strategy) (pipeline.Result, error) {
	if err := p.life.closed(); err != nil {
		return pipeline.Result{}, err
	}
	if p.svc.Exports == nil {
		return pipeline.Result{}, books.NewError(books.KindNotImpl, "exports not configured", nil)
	}
	return p.svc.Exports.ExpensePDF(p.life.ctx, strategy, p.expense, p.fragment)
}

// Delete removes the expense and closes the panel.
func (p *ExpensePanel) Delete() error {
	if err := p.life.closed(); err != nil {
		return err
	}
	id := p.expense.ID
	if err := p.svc.Commands.DeleteExpense.Execute(p.life.ctx, command.DeleteExpense{ExpenseID: id}); err != nil {
		p.svc.Logger.Errorf("expense %s: delete failed: %v", id, err)
		p.svc.Toaster.Toast(notify.Failure("Failed to delete expense", ""))
		return err
	}
	p.svc.Toaster.Toast(notify.Success("Expense deleted successfully", ""))
	if p.cb.OnDelete != nil {
		p.cb.OnDelete(id)
	}
	p.cb.changed()
	p.Close()
	return nil
}
