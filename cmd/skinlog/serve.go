package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/httpapi"
	"github.com/unowned-ai/skinlog/pkg/metrics"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Serve ingredient analysis, recommendations, journal entries and products over HTTP.

Prometheus metrics are exposed on /metrics and a liveness probe on /healthz.
API routes live under /api and are rate limited per client IP.`,
	Example: `  skinlog serve
  skinlog serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := currentConfig()
		httpCfg := conf.HTTP
		if cmd.Flags().Changed("addr") || httpCfg.Addr == "" {
			httpCfg.Addr = serveAddr
		}

		dict, err := openDictionary()
		if err != nil {
			return err
		}

		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector := metrics.NewCollector(reg)

		limiter := httpapi.NewRateLimiter(httpapi.RateLimiterConfig{
			RatePerMinute: httpCfg.RatePerMinute,
			Burst:         httpCfg.Burst,
		})
		defer limiter.Stop()

		router := httpapi.NewRouter(&httpapi.RouterDeps{
			Handler: &httpapi.Handler{
				DB:         dbConn,
				Dictionary: dict,
				Conditions: conf.ConditionMapper(),
				Trend:      conf.TrendComparator(),
				Metrics:    collector,
			},
			Logger:         slog.Default(),
			RateLimiter:    limiter,
			MetricsHandler: metrics.Handler(reg),
		})

		srv := &http.Server{
			Addr:         httpCfg.Addr,
			Handler:      router,
			ReadTimeout:  httpCfg.ReadTimeout,
			WriteTimeout: httpCfg.WriteTimeout,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("http server starting", "addr", httpCfg.Addr, "db", path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("http server stopped")
		return nil
	},
}

func initServeCmd() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address (overrides http.addr)")
}
