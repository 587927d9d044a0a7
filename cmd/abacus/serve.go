package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	httpadapter "github.com/aretw0/abacus/pkg/adapters/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves calculator sessions over a JSON API described by /openapi.yaml,
with live state diffs on /events and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := services.Config
		logger := services.Logger
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		opts := []httpadapter.Option{
			httpadapter.WithLogger(logger),
			httpadapter.WithMaxInputSize(services.Config.MaxInputSize),
		}
		if cfg.HTTP.Metrics {
			opts = append(opts, httpadapter.WithMetrics(services.Registry))
		}
		if archive, err := services.OpenArchive(); err != nil {
			logger.Warn("tape archive disabled", "dir", cfg.TapeDir, "err", err)
		} else {
			opts = append(opts, httpadapter.WithArchive(archive))
		}

		handler, err := httpadapter.NewHandler(services.Engine, services.Sessions, opts...)
		if err != nil {
			return fmt.Errorf("error initializing http handler: %w", err)
		}

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("Starting Abacus Server", "addr", srv.Addr, "store", cfg.Store.Kind)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			logger.Info("Abacus Server stopped gracefully")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides http.addr)")
}
