package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"alfred/internal/config"
	"alfred/internal/instrumentation"
	"alfred/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		port        int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Long: `Start the HTTP webhook server that receives chat messages as form POSTs
(Body and From fields) and replies with the assistant's answer.

Requires:
  GOOGLE_GEMINI_API_KEY for the language model
  An authorized events credential (run 'alfred auth --scope events' first)

Metrics:
  When --metrics-addr (or METRICS_ADDR) is set, Prometheus metrics are
  served on a dedicated port at /metrics.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			config.Load()
			if port == 0 {
				port = config.Port()
			}
			if metricsAddr == "" {
				metricsAddr = config.MetricsAddr()
			}
			return runServe(port, metricsAddr, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().IntVar(&port, "port", 0, "Webhook listen port. Can also use PORT env var. Default: 8080")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (e.g. :9090). Can also use METRICS_ADDR env var. Empty disables metrics.")

	return cmd
}

func runServe(port int, metricsAddr string, debugMode bool) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(debugMode)

	provider, err := instrumentation.NewProvider(shutdownCtx, instrumentation.Config{
		Enabled:        metricsAddr != "",
		ServiceName:    "alfred",
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("error during instrumentation shutdown", "error", err)
		}
	}()

	dispatcher, store, err := buildDispatcher(shutdownCtx, provider.Metrics(), logger)
	if err != nil {
		return err
	}

	webhook, err := server.NewWebhook(server.WebhookConfig{
		Addr:       fmt.Sprintf(":%d", port),
		Dispatcher: dispatcher,
		History:    store,
		Metrics:    provider.Metrics(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create webhook server: %w", err)
	}

	var metricsServer *server.MetricsServer
	if provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := webhook.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("webhook server stopped with error: %w", err)
		}
		return nil
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer stopCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			logger.Error("error during metrics server shutdown", "error", err)
		}
	}
	if err := webhook.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("error shutting down webhook server: %w", err)
	}

	// Drain the server goroutine so its error is not lost.
	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("webhook server stopped with error: %w", err)
		}
	case <-time.After(time.Second):
	}
	return nil
}
