// Package panel holds the view models behind the invoice list and the
// invoice and expense detail panels.
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

// Tab is the active tab of the invoice panel.
type Tab string

const (
	TabWhatsNext Tab = "whats-next"
	TabDetails   Tab = "details"
	TabComments  Tab = "comments"
)

// Dialog is the modal currently open on a panel.
type Dialog string

const (
	DialogNone    Dialog = ""
	DialogPayment Dialog = "payment"
	DialogRefund  Dialog = "refund"
	DialogVoid    Dialog = "void"
	DialogDelete  Dialog = "delete"
)

// Exporter produces and prints documents.
type Exporter interface {
	InvoicePDF(ctx context.Context, strategy pipeline.Strategy, inv *books.Invoice, branding *books.Branding, frag *printview.Fragment) (pipeline.Result, error)
	ExpensePDF(ctx context.Context, strategy pipeline.Strategy, exp *books.Expense, frag *printview.Fragment) (pipeline.Result, error)
	Print(ctx context.Context, frag *printview.Fragment) error
}

// Clipboard receives copied share links.
type Clipboard interface {
	Copy(text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) Copy(text string) error { return f(text) }

// Callbacks are the host hooks of a detail panel. Any of them may be nil.
type Callbacks struct {
	OnClose func()
	OnEdit  func(id string)
	// OnDelete runs after the record was deleted on the backend.
	OnDelete func(id string)
	// OnChanged runs after a successful mutation so lists can reload.
	OnChanged func()
}

// Services are the collaborators shared by every panel.
type Services struct {
	Commands     command.Handlers
	Queries      query.Handlers
	Exports      Exporter
	Renderer     *printview.Renderer
	Organization books.Organization
	Toaster      notify.Toaster
	Clipboard    Clipboard
	// Origin prefixes share links, e.g. https://books.example.com.
	Origin string
	Logger books.Logger
}

func (s Services) withDefaults() Services {
	if s.Logger == nil {
		s.Logger = books.NopLogger()
	}
	if s.Toaster == nil {
		s.Toaster = notify.ToasterFunc(func(notify.Toast) {})
	}
	return s
}

// lifetime is the cancellable scope shared by a panel's actions.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime(parent context.Context) lifetime {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return lifetime{ctx: ctx, cancel: cancel}
}

func (l lifetime) closed() error {
	if err := l.ctx.Err(); err != nil {
		return books.NewError(books.KindCanceled, "panel closed", err)
	}
	return nil
}

func (c Callbacks) changed() {
	if c.OnChanged != nil {
		c.OnChanged()
	}
}

func (c Callbacks) closed() {
	if c.OnClose != nil {
		c.OnClose()
	}
}
