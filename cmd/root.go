package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"alfred/internal/calendar"
	"alfred/internal/config"
	"alfred/internal/extractor"
	"alfred/internal/feature"
	"alfred/internal/history"
	"alfred/internal/instrumentation"
	"alfred/internal/llm"
	"alfred/internal/router"
)

// rootCmd represents the base command for the alfred application
var rootCmd = &cobra.Command{
	Use:   "alfred",
	Short: "Conversational assistant that turns chat messages into calendar events",
	Long: `alfred is a conversational assistant. It receives chat messages, decides
whether they describe calendar work or small talk, and converts calendar
requests into Google Calendar events through natural-language extraction.

It can run as:
  - A webhook server for form-POST chat providers (default)
  - A long-polling Telegram bot`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "alfred version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBotCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newAgendaCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// newLogger builds the process logger shared by the serving commands.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// buildDispatcher wires the model client, extractor, calendar gateway and
// features into a router. Shared by the serve and bot commands.
func buildDispatcher(ctx context.Context, metrics *instrumentation.Metrics, logger *slog.Logger) (*router.Router, *history.Store, error) {
	apiKey, err := config.GeminiAPIKey()
	if err != nil {
		return nil, nil, err
	}

	model, err := llm.NewClient(ctx, apiKey, config.GeminiModel(), metrics)
	if err != nil {
		return nil, nil, err
	}

	writer, err := calendar.NewWriter(ctx, config.CalendarID(), config.TimezoneName())
	if err != nil {
		return nil, nil, err
	}

	parser := extractor.New(model, config.Timezone(), logger)
	calendarFeature := feature.NewCalendar(parser, writer, metrics, logger)
	conversation := feature.NewConversation(model, logger)

	r := router.New(model, logger)
	r.Register(calendarFeature)
	r.Register(conversation)
	r.SetFallback(conversation)

	return r, history.NewStore(history.DefaultLimit), nil
}
