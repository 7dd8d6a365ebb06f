package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"alfred/internal/history"
	"alfred/internal/instrumentation"
	"alfred/internal/logging"
	"alfred/internal/router"
)

const (
	// DefaultWebhookAddr is the default address for the webhook server.
	DefaultWebhookAddr = ":8080"

	// DefaultWebhookReadTimeout is the default read timeout for the webhook server.
	DefaultWebhookReadTimeout = 10 * time.Second

	// DefaultWebhookWriteTimeout bounds reply generation, including the
	// model calls behind it.
	DefaultWebhookWriteTimeout = 60 * time.Second

	// DefaultWebhookIdleTimeout is the default idle timeout for the webhook server.
	DefaultWebhookIdleTimeout = 60 * time.Second
)

// Dispatcher routes one message to a feature and returns the reply plus
// the handling feature's name. Satisfied by *router.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg router.Message) (reply string, feature string)
}

// WebhookConfig holds configuration for the webhook server.
type WebhookConfig struct {
	// Addr is the address to bind the webhook server to (e.g., ":8080").
	Addr string

	// Dispatcher handles routed messages.
	Dispatcher Dispatcher

	// History is the per-sender conversation window. Optional; without it
	// every message is handled without context.
	History *history.Store

	// Metrics records per-message counters. Optional.
	Metrics *instrumentation.Metrics

	Logger *slog.Logger
}

// Webhook receives provider-delivered chat messages as form POSTs. The
// provider contract is narrow: Body and From form fields in, the reply as
// the plain-text response body out. An empty Body acknowledges with an
// empty 200 so provider status callbacks don't produce replies.
type Webhook struct {
	dispatcher Dispatcher
	store      *history.Store
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	httpServer *http.Server
	addr       string
}

// NewWebhook creates a webhook server.
func NewWebhook(config WebhookConfig) (*Webhook, error) {
	if config.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required for webhook server")
	}
	if config.Addr == "" {
		config.Addr = DefaultWebhookAddr
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Webhook{
		dispatcher: config.Dispatcher,
		store:      config.History,
		metrics:    config.Metrics,
		logger:     config.Logger,
		addr:       config.Addr,
	}, nil
}

// Handler returns the webhook routes. Exposed separately from Start so
// tests can drive the mux without binding a port.
func (s *Webhook) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start starts the webhook server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *Webhook) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultWebhookReadTimeout,
		WriteTimeout:      DefaultWebhookWriteTimeout,
		IdleTimeout:       DefaultWebhookIdleTimeout,
	}

	s.logger.Info("starting webhook server", slog.String("addr", s.addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the webhook server.
func (s *Webhook) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down webhook server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the webhook server.
func (s *Webhook) Addr() string {
	return s.addr
}

func (s *Webhook) handleWebhook(w http.ResponseWriter, r *http.Request) {
	// A fault anywhere below must not take the listener down; the provider
	// retries on 500.
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic while handling webhook message", slog.Any("panic", rec))
			w.WriteHeader(http.StatusInternalServerError)
		}
	}()

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	body := strings.TrimSpace(r.FormValue("Body"))
	sender := r.FormValue("From")
	if body == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := router.Message{
		Text:   body,
		Sender: sender,
	}
	if s.store != nil {
		msg.History = s.store.Recent(sender)
	}

	reply, feature := s.dispatcher.Dispatch(r.Context(), msg)

	if s.store != nil {
		s.store.Append(sender, history.RoleUser, body)
		s.store.Append(sender, history.RoleAssistant, reply)
	}

	s.metrics.RecordMessage(r.Context(), "webhook", feature, instrumentation.StatusSuccess)
	s.logger.Info("handled webhook message",
		slog.String(logging.KeyTransport, "webhook"),
		logging.Feature(feature),
		logging.Sender(sender))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(reply))
}

func (s *Webhook) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
