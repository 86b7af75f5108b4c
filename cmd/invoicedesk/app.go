package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	booksapi "github.com/goliatone/go-invoicedesk/adapters/api"
	"github.com/goliatone/go-invoicedesk/adapters/docpdf"
	"github.com/goliatone/go-invoicedesk/adapters/logging"
	"github.com/goliatone/go-invoicedesk/adapters/notifications/gonotifications"
	storefs "github.com/goliatone/go-invoicedesk/adapters/store/fs"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-invoicedesk/command"
	"github.com/goliatone/go-invoicedesk/config"
	"github.com/goliatone/go-invoicedesk/panel"
	"github.com/goliatone/go-invoicedesk/pipeline"
	"github.com/goliatone/go-invoicedesk/printview"
	"github.com/goliatone/go-invoicedesk/query"
)

// app holds the wired collaborators shared by every subcommand.
type app struct {
	cfg      config.Config
	log      *logging.Logger
	api      *booksapi.Client
	browser  *docpdf.Browser
	renderer *printview.Renderer
	exports  *pipeline.Pipeline
	services panel.Services
	subs     []dispatcher.Subscription
}

func newApp(ctx context.Context, cfg config.Config, stderr io.Writer) (*app, error) {
	base := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr})
	log := logging.NewLogger(base)

	api := booksapi.New(cfg.API.BaseURL,
		booksapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		booksapi.WithLogger(log.Component("api")),
		booksapi.WithRetry(int(cfg.API.MaxRetries), 0, 0),
	)

	renderer, err := printview.NewRenderer()
	if err != nil {
		return nil, err
	}

	browser := docpdf.NewBrowser(cfg.Chromium.Path, cfg.Chromium.Timeout, cfg.Chromium.Args...)
	rasterizer := docpdf.NewRasterizer(browser, log.Component("rasterizer"))
	if cfg.Chromium.Scale > 0 {
		rasterizer.Scale = cfg.Chromium.Scale
	}
	if cfg.Chromium.SettleDelay > 0 {
		rasterizer.Settle = cfg.Chromium.SettleDelay
	}
	printJob := &docpdf.PrintJob{
		Browser:  browser,
		Renderer: renderer,
		Printer: docpdf.CommandPrinter{
			Command:     cfg.Print.Command,
			Destination: cfg.Print.Destination,
			Args:        cfg.Print.Args,
		},
		AssetDelay: cfg.Chromium.AssetDelay,
		Logger:     log.Component("print"),
	}

	store := storefs.NewStore(cfg.Export.DownloadsDir)
	store.BaseURL = cfg.Export.LinkBaseURL
	store.Overwrite = cfg.Export.Overwrite

	toaster := notify.ToasterFunc(func(t notify.Toast) {
		printToast(stderr, t)
	})

	pcfg := pipeline.Config{
		Drawer:       docpdf.NewDrawer(api, log.Component("drawer")),
		Capturer:     rasterizer,
		Printer:      printJob,
		Store:        store,
		Toaster:      toaster,
		Organization: cfg.Organization.Organization(),
		Filenames: pipeline.Filenames{
			Drawn:    cfg.Export.DrawnFilename,
			Snapshot: cfg.Export.SnapshotFilename,
			Expense:  cfg.Export.ExpenseFilename,
		},
		Logger: log.Component("pipeline"),
	}
	if n := cfg.Notifications; n.Enabled && len(n.Recipients) > 0 {
		notifier, err := gonotifications.Setup(ctx, log.Component("notifications").Zerolog(), gonotifications.Options{
			Recipients:    n.Recipients,
			DefaultLocale: n.Locale,
			SMTP: gonotifications.SMTP{
				Host:          n.SMTP.Host,
				Port:          n.SMTP.Port,
				From:          n.SMTP.From,
				Username:      n.SMTP.Username,
				Password:      n.SMTP.Password,
				UseTLS:        n.SMTP.UseTLS,
				UseStartTLS:   n.SMTP.UseStartTLS,
				SkipTLSVerify: n.SMTP.SkipTLSVerify,
				AuthDisabled:  n.SMTP.AuthDisabled,
				PlainOnly:     n.SMTP.PlainOnly,
			},
		})
		if err != nil {
			return nil, err
		}
		pcfg.Notifier = notifier
		pcfg.Notification = pipeline.Notification{
			Recipients: n.Recipients,
			Channels:   n.Channels,
			Locale:     n.Locale,
		}
	}
	exports := pipeline.New(pcfg)

	subs, err := command.Register(gcmd.NewRegistry(), api, log.Component("query"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		api:      api,
		browser:  browser,
		renderer: renderer,
		exports:  exports,
		services: panel.Services{
			Commands:     command.NewHandlers(api),
			Queries:      query.NewHandlers(api, log.Component("query")),
			Exports:      exports,
			Renderer:     renderer,
			Organization: cfg.Organization.Organization(),
			Toaster:      toaster,
			Origin:       cfg.Export.LinkBaseURL,
			Logger:       log.Component("panel"),
		},
		subs: subs,
	}, nil
}

// Close releases the browser and the command subscriptions.
func (a *app) Close() {
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	if err := a.browser.Close(); err != nil {
		a.log.Errorf("close browser: %v", err)
	}
}

func printToast(w io.Writer, t notify.Toast) {
	mark := "ok"
	if t.Variant == notify.VariantDestructive {
		mark = "error"
	}
	if t.Description == "" {
		fmt.Fprintf(w, "[%s] %s\n", mark, t.Title)
		return
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", mark, t.Title, t.Description)
}
