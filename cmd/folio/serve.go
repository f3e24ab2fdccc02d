package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a web server with the JSON API and post previews",
		Long: `The serve subcommand starts a web server that serves the JSON API under /api and
post previews under the configured base path. After changing a post, changes are
immediately visible after reloading the page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			lib, err := cfg.Library()
			if err != nil {
				return err
			}
			log := cfg.Logger(os.Stderr)

			host, port, err := net.SplitHostPort(cfg.Server.Addr)
			if err != nil {
				return &usageError{err}
			}
			if host == "" {
				host = "0.0.0.0"
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           lib.Handler(log),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("listening", "url", "http://"+net.JoinHostPort(host, port)+lib.Base.Path, "content", cfg.Content.Dir)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "HTTP listen `address` (overrides server.addr)")
	return cmd
}
