package panel

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-invoicedesk/command"
	"github.com/goliatone/go-invoicedesk/pipeline"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/goliatone/go-invoicedesk/query"
)

// InvoicePanel is the invoice detail view model. The record, branding and
// print fragment are replaced together on every refetch.
type InvoicePanel struct {
	svc  Services
	cb   Callbacks
	life lifetime

	mu       sync.Mutex
	invoice  *books.Invoice
	branding *books.Branding
	fragment *printview.Fragment
	tab      Tab
	dialog   Dialog
}

// OpenInvoicePanel fetches the invoice and branding and renders the print
// fragment. The panel lives until ctx is done or Close is called.
func OpenInvoicePanel(ctx context.Context, svc Services, cb Callbacks, id string) (*InvoicePanel, error) {
	p := &InvoicePanel{
		svc:  svc.withDefaults(),
		cb:   cb,
		life: newLifetime(ctx),
		tab:  TabWhatsNext,
	}
	p.invoice = &books.Invoice{ID: id}
	if err := p.Refetch(); err != nil {
		p.life.cancel()
		return nil, err
	}
	return p, nil
}

// NewInvoicePanel wraps an invoice that was already fetched.
func NewInvoicePanel(ctx context.Context, svc Services, cb Callbacks, inv *books.Invoice, branding *books.Branding) *InvoicePanel {
	p := &InvoicePanel{
		svc:  svc.withDefaults(),
		cb:   cb,
		life: newLifetime(ctx),
		tab:  TabWhatsNext,
	}
	if inv == nil {
		inv = &books.Invoice{}
	}
	p.replace(inv, branding)
	return p
}

// Invoice returns the current record.
func (p *InvoicePanel) Invoice() *books.Invoice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.invoice
}

// Fragment returns the print fragment rendered for the current record, or
// nil when rendering failed.
func (p *InvoicePanel) Fragment() *printview.Fragment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fragment
}

// Tab returns the active tab.
func (p *InvoicePanel) Tab() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

// SetTab switches the active tab.
func (p *InvoicePanel) SetTab(tab Tab) {
	p.mu.Lock()
	p.tab = tab
	p.mu.Unlock()
}

// Dialog returns the open dialog.
func (p *InvoicePanel) Dialog() Dialog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dialog
}

// OpenDialog opens d, replacing any open dialog.
func (p *InvoicePanel) OpenDialog(d Dialog) {
	p.mu.Lock()
	p.dialog = d
	p.mu.Unlock()
}

// CloseDialog closes the open dialog.
func (p *InvoicePanel) CloseDialog() { p.OpenDialog(DialogNone) }

// Status returns the display status and badge of the current record.
func (p *InvoicePanel) Status() (string, books.Badge) {
	inv := p.Invoice()
	status := string(inv.Status)
	return strings.ReplaceAll(status, "_", " "), books.BadgeFor(status)
}

// RefundableAmount returns what can still be refunded.
func (p *InvoicePanel) RefundableAmount() string {
	return books.FormatCurrency(books.RefundableAmount(p.Invoice()))
}

// Edit hands the record to the host editor.
func (p *InvoicePanel) Edit() {
	if p.cb.OnEdit != nil {
		p.cb.OnEdit(p.Invoice().ID)
	}
}

// Close cancels in-flight work and notifies the host.
func (p *InvoicePanel) Close() {
	p.life.cancel()
	p.cb.closed()
}

// Refetch reloads the invoice and branding and re-renders the fragment.
func (p *InvoicePanel) Refetch() error {
	if err := p.life.closed(); err != nil {
		return err
	}
	ctx := p.life.ctx
	inv, err := p.svc.Queries.InvoiceDetail.Query(ctx, query.InvoiceDetail{InvoiceID: p.Invoice().ID})
	if err != nil {
		p.svc.Logger.Errorf("invoice %s: refetch failed: %v", p.Invoice().ID, err)
		return err
	}
	if inv == nil {
		return books.NewError(books.KindNotFound, "invoice not found", nil)
	}
	branding, err := p.svc.Queries.Branding.Query(ctx, query.Branding{})
	if err != nil {
		p.svc.Logger.Errorf("invoice %s: branding failed: %v", inv.ID, err)
		branding = &books.Branding{}
	}
	p.replace(inv, branding)
	return nil
}

func (p *InvoicePanel) replace(inv *books.Invoice, branding *books.Branding) {
	var frag *printview.Fragment
	if p.svc.Renderer != nil && inv != nil {
		rendered, err := p.svc.Renderer.Invoice(inv, p.svc.Organization, branding)
		if err != nil {
			p.svc.Logger.Errorf("invoice %s: print view failed: %v", inv.ID, err)
		} else {
			frag = rendered
		}
	}
	p.mu.Lock()
	p.invoice = inv
	p.branding = branding
	p.fragment = frag
	p.mu.Unlock()
}

// MarkSent moves the invoice to SENT.
func (p *InvoicePanel) MarkSent() error {
	return p.mutate("Invoice marked as sent", "Failed to mark invoice as sent", func(ctx context.Context, inv *books.Invoice) error {
		return p.svc.Commands.ChangeStatus.Execute(ctx, command.ChangeStatus{InvoiceID: inv.ID, Status: books.StatusSent})
	})
}

// Void moves the invoice to VOID and closes the void dialog.
func (p *InvoicePanel) Void() error {
	err := p.mutate("Invoice voided successfully", "Failed to void invoice", func(ctx context.Context, inv *books.Invoice) error {
		return p.svc.Commands.ChangeStatus.Execute(ctx, command.ChangeStatus{InvoiceID: inv.ID, Status: books.StatusVoid})
	})
	if err == nil {
		p.CloseDialog()
	}
	return err
}

// RecordPayment records a payment and closes the payment dialog.
func (p *InvoicePanel) RecordPayment(req books.PaymentRequest) error {
	err := p.mutate("Payment recorded successfully", "Failed to record payment", func(ctx context.Context, inv *books.Invoice) error {
		return p.svc.Commands.RecordPayment.Execute(ctx, command.RecordPayment{InvoiceID: inv.ID, Payment: req})
	})
	if err == nil {
		p.CloseDialog()
	}
	return err
}

// Refund processes a refund. Pre-check failures and backend rejections are
// surfaced with their own message.
func (p *InvoicePanel) Refund(req books.RefundRequest) error {
	if err := p.life.closed(); err != nil {
		return err
	}
	inv := p.Invoice()
	err := p.svc.Commands.ProcessRefund.Execute(p.life.ctx, command.ProcessRefund{Invoice: inv, Refund: req})
	if err != nil {
		p.svc.Logger.Errorf("invoice %s: refund failed: %v", inv.ID, err)
		p.svc.Toaster.Toast(notify.Failure(books.UserMessage(err, "Failed to process refund"), ""))
		return err
	}
	p.svc.Toaster.Toast(notify.Success("Refund processed successfully", ""))
	p.CloseDialog()
	p.afterMutation()
	return nil
}

// Delete removes the invoice and closes the panel.
func (p *InvoicePanel) Delete() error {
	if err := p.life.closed(); err != nil {
		return err
	}
	defer p.CloseDialog()
	inv := p.Invoice()
	if err := p.svc.Commands.DeleteInvoice.Execute(p.life.ctx, command.DeleteInvoice{InvoiceID: inv.ID}); err != nil {
		p.svc.Logger.Errorf("invoice %s: delete failed: %v", inv.ID, err)
		p.svc.Toaster.Toast(notify.Failure("Failed to delete invoice", ""))
		return err
	}
	p.svc.Toaster.Toast(notify.Success("Invoice deleted successfully", ""))
	if p.cb.OnDelete != nil {
		p.cb.OnDelete(inv.ID)
	}
	p.cb.changed()
	p.Close()
	return nil
}

// DownloadPDF saves the drawn invoice PDF.
func (p *InvoicePanel) DownloadPDF() (pipeline.Result, error) {
	return p.export(pipeline.StrategyDraw)
}

// DownloadSnapshot saves the rasterized print view as a PDF.
func (p *InvoicePanel) DownloadSnapshot() (pipeline.Result, error) {
	return p.export(pipeline.StrategySnapshot)
}

func (p *InvoicePanel) export(strategy pipeline.Strategy) (pipeline.Result, error) {
	if err := p.life.closed(); err != nil {
		return pipeline.Result{}, err
	}
	if p.svc.Exports == nil {
		return pipeline.Result{}, books.NewError(books.KindNotImpl, "exports not configured", nil)
	}
	p.mu.Lock()
	inv, branding, frag := p.invoice, p.branding, p.fragment
	p.mu.Unlock()
	return p.svc.Exports.InvoicePDF(p.life.ctx, strategy, inv, branding, frag)
}

// Print sends the print view to the printer.
func (p *InvoicePanel) Print() error {
	if err := p.life.closed(); err != nil {
		return err
	}
	if p.svc.Exports == nil {
		return books.NewError(books.KindNotImpl, "exports not configured", nil)
	}
	return p.svc.Exports.Print(p.life.ctx, p.Fragment())
}

// ShareLink builds the invoice link and copies it to the clipboard.
func (p *InvoicePanel) ShareLink() (string, error) {
	link := strings.TrimRight(p.svc.Origin, "/") + "/invoices/" + p.Invoice().ID
	if p.svc.Clipboard != nil {
		if err := p.svc.Clipboard.Copy(link); err != nil {
			p.svc.Logger.Errorf("invoice %s: copy link failed: %v", p.Invoice().ID, err)
			p.svc.Toaster.Toast(notify.Failure("Failed to copy link", ""))
			return link, err
		}
	}
	p.svc.Toaster.Toast(notify.Success("Link copied to clipboard", ""))
	return link, nil
}

func (p *InvoicePanel) mutate(success, failure string, run func(ctx context.Context, inv *books.Invoice) error) error {
	if err := p.life.closed(); err != nil {
		return err
	}
	inv := p.Invoice()
	if err := run(p.life.ctx, inv); err != nil {
		p.svc.Logger.Errorf("invoice %s: %s: %v", inv.ID, strings.ToLower(failure), err)
		p.svc.Toaster.Toast(notify.Failure(failure, ""))
		return err
	}
	p.svc.Toaster.Toast(notify.Success(success, ""))
	p.afterMutation()
	return nil
}

func (p *InvoicePanel) afterMutation() {
	if err := p.Refetch(); err != nil {
		p.svc.Logger.Errorf("invoice %s: reload after change failed: %v", p.Invoice().ID, err)
	}
	p.cb.changed()
}
