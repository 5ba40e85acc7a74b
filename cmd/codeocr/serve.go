package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avezina/codeocr/internal/results"
	"github.com/avezina/codeocr/internal/web"
)

var serveAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored evaluation results, metrics, and live progress",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	return cmd
}

func runServeCmd(_ *cobra.Command, _ []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	deps := web.Deps{Hub: web.NewProgressHub()}
	if cfg.Server.DatabaseURL != "" {
		store, err := results.Open(cfg.Server.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open results store: %w", err)
		}
		defer store.Close()
		deps.Store = store
	} else {
		slog.Warn("no DATABASE_URL set, results endpoints disabled")
	}

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, deps)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("server shutdown", "error", err)
		}
	}()

	slog.Info("results server starting", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	slog.Info("results server stopped")
	return nil
}
