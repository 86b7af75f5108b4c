package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-invoicedesk/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// cli carries flag values and the lazily wired app.
type cli struct {
	baseURL   string
	downloads string
	logLevel  string
	app       *app
}

// execute runs the command line and releases the wired app afterwards,
// including when the command failed.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer c.teardown()
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "invoicedesk",
		Short:             "Invoice and expense desk",
		Long:              `Browse invoices and expenses, run invoice actions and export documents against the accounting backend.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.baseURL, "api", "", "Backend base URL (overrides DESK_API_BASE_URL)")
	root.PersistentFlags().StringVar(&c.downloads, "downloads", "", "Downloads directory (overrides DESK_EXPORT_DOWNLOADS_DIR)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (overrides DESK_LOG_LEVEL)")

	root.AddCommand(c.invoicesCmd(), c.expensesCmd(), c.serveCmd())
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.baseURL != "" {
		cfg.API.BaseURL = c.baseURL
	}
	if c.downloads != "" {
		cfg.Export.DownloadsDir = c.downloads
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}
