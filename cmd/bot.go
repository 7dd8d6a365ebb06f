package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alfred/internal/config"
	"alfred/internal/instrumentation"
	"alfred/internal/server"
	"alfred/internal/telegram"
)

func newBotCmd() *cobra.Command {
	var (
		debugMode   bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Run the assistant as a long-polling Telegram bot. Each chat keeps its
own recent-conversation window; /clear drops it.

Requires:
  TELEGRAM_BOT_TOKEN for the Telegram API
  GOOGLE_GEMINI_API_KEY for the language model
  An authorized events credential (run 'alfred auth --scope events' first)`,
		RunE: func(_ *cobra.Command, _ []string) error {
			config.Load()
			if metricsAddr == "" {
				metricsAddr = config.MetricsAddr()
			}
			return runBot(metricsAddr, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (e.g. :9090). Can also use METRICS_ADDR env var. Empty disables metrics.")

	return cmd
}

func runBot(metricsAddr string, debugMode bool) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(debugMode)

	token, err := config.TelegramBotToken()
	if err != nil {
		return err
	}

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

	bot, err := telegram.NewBot(telegram.Config{
		Token:      token,
		Dispatcher: dispatcher,
		History:    store,
		Metrics:    provider.Metrics(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
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
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer stopCancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				logger.Error("error during metrics server shutdown", "error", err)
			}
		}()
	}

	// Blocks until the shutdown context is cancelled.
	bot.Start(shutdownCtx)
	return nil
}
