package main

import (
	"context"
	"errors"
	"net"
	"time"

	deskhttp "github.com/goliatone/go-invoicedesk/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve invoice previews and exports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			if addr == "" {
				addr = net.JoinHostPort(a.cfg.Server.Host, a.cfg.Server.Port)
			}
			srv, err := deskhttp.NewServer(deskhttp.Config{
				Queries:      a.services.Queries,
				Renderer:     a.renderer,
				Exports:      a.exports,
				Organization: a.cfg.Organization.Organization(),
				Logger:       a.log.Component("http"),
			})
			if err != nil {
				return err
			}
			errCh := make(chan error, 1)
			go func() {
				a.log.Infof("listening on %s", addr)
				errCh <- srv.Serve(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			a.log.Infof("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to DESK_SERVER_HOST:DESK_SERVER_PORT)")
	return cmd
}
