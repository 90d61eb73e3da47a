package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	stylisthttp "github.com/aretw0/stylist/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Exposes the guided flow as a JSON API with a websocket event stream per
session and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, cfg, err := loadRuntime(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		addr := cfg.HTTP.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		srv := &http.Server{
			Addr: addr,
			Handler: stylisthttp.NewHandler(rt.Engine,
				stylisthttp.WithStreams(rt.Streams),
				stylisthttp.WithMetricsHandler(rt.Metrics.Handler()),
				stylisthttp.WithLogger(rt.Logger),
				stylisthttp.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			rt.Logger.Info("Stylist Server listening", "address", addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			rt.Logger.Info("Shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				rt.Logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				_ = srv.Close()
			}
			rt.Logger.Info("Stylist Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides http.addr)")
}
