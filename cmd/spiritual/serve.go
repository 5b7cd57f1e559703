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

	"github.com/aretw0/spiritual"
	httpAdapter "github.com/aretw0/spiritual/internal/adapters/http"
	"github.com/aretw0/spiritual/internal/presentation/tui"
	"github.com/aretw0/spiritual/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves profiles and the catalog as JSON over HTTP, with Prometheus metrics on /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if cmd.Flags().Changed("addr") {
				c.cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			eng, closeFn, err := c.newEngine(reg)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeFn()) }()

			cat, err := eng.Catalog(cmd.Context())
			if err != nil {
				if !errors.Is(err, spiritual.ErrNoCatalog) {
					return fmt.Errorf("failed to load catalog: %w", err)
				}
			}
			tui.PrintBanner(cmd.ErrOrStderr())
			return serve(cmd.Context(), c, eng, cat, reg)
		},
	}
	cmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	return cmd
}

func serve(ctx context.Context, c *cli, eng *spiritual.Engine, cat *catalog.Catalog, reg *prometheus.Registry) error {
	srv := &http.Server{
		Addr: c.cfg.HTTP.Addr,
		Handler: httpAdapter.NewHandler(&httpAdapter.Server{
			Profiles: eng.Profiles(),
			Catalog:  cat,
			Gatherer: reg,
			Logger:   c.logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		c.logger.Info("Starting Spiritual server", "addr", srv.Addr, "store", c.cfg.Store, "catalog", c.cfg.CatalogDir)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		c.logger.Info("Shutting down", "signal", sig)
	case <-ctx.Done():
		c.logger.Info("Shutting down", "reason", ctx.Err())
	}

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("Graceful shutdown did not complete", "error", err)
		return srv.Close()
	}
	c.logger.Info("Spiritual server stopped gracefully")
	return nil
}
