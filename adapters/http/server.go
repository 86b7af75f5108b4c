// Package deskhttp serves a local preview of invoice lists, print views and
// exported PDFs over HTTP.
package deskhttp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/pipeline"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/goliatone/go-invoicedesk/query"
	"github.com/goliatone/go-router"
)

// Exporter produces invoice and expense PDFs.
type Exporter interface {
	InvoicePDF(ctx context.Context, strategy pipeline.Strategy, inv *books.Invoice, branding *books.Branding, frag *printview.Fragment) (pipeline.Result, error)
	ExpensePDF(ctx context.Context, strategy pipeline.Strategy, exp *books.Expense, frag *printview.Fragment) (pipeline.Result, error)
}

// Config configures the preview server.
type Config struct {
	Queries      query.Handlers
	Renderer     *printview.Renderer
	Exports      Exporter
	Organization books.Organization
	Logger       books.Logger
	Now          func() time.Time
	AppName      string
}

// Server exposes the preview routes through a go-router fiber adapter.
type Server struct {
	cfg Config
	srv router.Server[*fiber.App]
}

// NewServer creates a preview server with the preview routes registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Renderer == nil {
		renderer, err := printview.NewRenderer()
		if err != nil {
			return nil, err
		}
		cfg.Renderer = renderer
	}
	if cfg.Logger == nil {
		cfg.Logger = books.NopLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.AppName == "" {
		cfg.AppName = "invoicedesk"
	}
	s := &Server{cfg: cfg}
	s.srv = router.NewFiberAdapter(s.fiberApp)
	s.RegisterRoutes(s.srv.Router())
	return s, nil
}

func (s *Server) fiberApp(*fiber.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               s.cfg.AppName,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	return app
}

// App returns the wrapped fiber app.
func (s *Server) App() *fiber.App {
	return s.srv.WrappedRouter()
}

// Serve listens on addr until Shutdown.
func (s *Server) Serve(addr string) error {
	return s.srv.Serve(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// RegisterRoutes registers the preview routes on r.
func (s *Server) RegisterRoutes(r router.Router[*fiber.App]) {
	r.Get("/invoices", s.listInvoices)
	r.Get("/invoices/:id/print", s.invoicePrint)
	r.Get("/invoices/:id/pdf", s.invoicePDF)
	r.Get("/expenses/:id/print", s.expensePrint)
	r.Get("/expenses/:id/pdf", s.expensePDF)
}

func (s *Server) listInvoices(c router.Context) error {
	page, err := s.cfg.Queries.InvoiceList.Query(c.Context(), query.InvoiceList{
		Search:  c.Query("search"),
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", books.DefaultPerPage),
		Now:     s.cfg.Now(),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newListResponse(page))
}

func (s *Server) invoicePrint(c router.Context) error {
	inv, branding, err := s.loadInvoice(c)
	if err != nil {
		return s.fail(c, err)
	}
	frag, err := s.cfg.Renderer.Invoice(inv, s.cfg.Organization, branding)
	if err != nil {
		return s.fail(c, err)
	}
	return s.sendPrintDocument(c, frag)
}

func (s *Server) invoicePDF(c router.Context) error {
	strategy, err := pipeline.ParseStrategy(c.Query("strategy"))
	if err != nil {
		return s.fail(c, err)
	}
	if s.cfg.Exports == nil {
		return s.fail(c, books.NewError(books.KindNotImpl, "exports not configured", nil))
	}
	inv, branding, err := s.loadInvoice(c)
	if err != nil {
		return s.fail(c, err)
	}
	var frag *printview.Fragment
	if strategy == pipeline.StrategySnapshot {
		if frag, err = s.cfg.Renderer.Invoice(inv, s.cfg.Organization, branding); err != nil {
			return s.fail(c, err)
		}
	}
	result, err := s.cfg.Exports.InvoicePDF(c.Context(), strategy, inv, branding, frag)
	if err != nil {
		return s.fail(c, err)
	}
	return s.sendResult(c, result)
}

func (s *Server) expensePrint(c router.Context) error {
	exp, err := s.loadExpense(c)
	if err != nil {
		return s.fail(c, err)
	}
	frag, err := s.cfg.Renderer.Expense(exp)
	if err != nil {
		return s.fail(c, err)
	}
	return s.sendPrintDocument(c, frag)
}

func (s *Server) expensePDF(c router.Context) error {
	strategy, err := pipeline.ParseStrategy(c.Query("strategy"))
	if err != nil {
		return s.fail(c, err)
	}
	if s.cfg.Exports == nil {
		return s.fail(c, books.NewError(books.KindNotImpl, "exports not configured", nil))
	}
	exp, err := s.loadExpense(c)
	if err != nil {
		return s.fail(c, err)
	}
	var frag *printview.Fragment
	if strategy == pipeline.StrategySnapshot {
		if frag, err = s.cfg.Renderer.Expense(exp); err != nil {
			return s.fail(c, err)
		}
	}
	result, err := s.cfg.Exports.ExpensePDF(c.Context(), strategy, exp, frag)
	if err != nil {
		return s.fail(c, err)
	}
	return s.sendResult(c, result)
}

func (s *Server) loadInvoice(c router.Context) (*books.Invoice, *books.Branding, error) {
	ctx := c.Context()
	inv, err := s.cfg.Queries.InvoiceDetail.Query(ctx, query.InvoiceDetail{InvoiceID: c.Param("id")})
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, books.NewError(books.KindNotFound, "invoice not found", nil)
	}
	branding, err := s.cfg.Queries.Branding.Query(ctx, query.Branding{})
	if err != nil {
		return nil, nil, err
	}
	return inv, branding, nil
}

func (s *Server) loadExpense(c router.Context) (*books.Expense, error) {
	exp, err := s.cfg.Queries.ExpenseDetail.Query(c.Context(), query.ExpenseDetail{ExpenseID: c.Param("id")})
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, books.NewError(books.KindNotFound, "expense not found", nil)
	}
	return exp, nil
}

func (s *Server) sendPrintDocument(c router.Context, frag *printview.Fragment) error {
	doc, err := s.cfg.Renderer.PrintDocument(frag)
	if err != nil {
		return s.fail(c, err)
	}
	c.SetHeader(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(doc)
}

func (s *Server) sendResult(c router.Context, result pipeline.Result) error {
	c.SetHeader("X-Export-ID", result.JobID)
	if result.Ref.Path == "" {
		return c.JSON(http.StatusCreated, map[string]any{
			"id":       result.JobID,
			"filename": result.Filename,
			"url":      result.URL,
		})
	}
	data, err := os.ReadFile(result.Ref.Path)
	if err != nil {
		return s.fail(c, books.NewError(books.KindInternal, "read export", err))
	}
	c.SetHeader(fiber.HeaderContentType, "application/pdf")
	c.SetHeader(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	return c.Send(data)
}

func (s *Server) fail(c router.Context, err error) error {
	s.cfg.Logger.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return writeError(c, err)
}
