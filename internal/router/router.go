package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"alfred/internal/history"
	"alfred/internal/llm"
	"alfred/internal/logging"
)

// Message is the common inbound shape every transport adapts to.
type Message struct {
	Text    string
	Sender  string
	History []history.Entry
}

// Feature is one category of user request. All three members are required:
// Capabilities feeds the routing model verbatim, CanHandle is the
// deterministic keyword fallback, Handle produces the reply.
type Feature interface {
	// Name uniquely identifies the feature in the registry.
	Name() string

	// Capabilities describes what the feature can do, in free text
	// consumed by the routing prompt. The routing model's behavior
	// depends on this text verbatim.
	Capabilities() string

	// CanHandle reports whether the feature should handle the message
	// when model-based routing yields no usable answer.
	CanHandle(text string) bool

	// Handle processes the message and returns the reply text.
	Handle(ctx context.Context, msg Message) (string, error)
}

// ErrorReply is returned to the user when a feature handler fails in a way
// it could not explain itself.
const ErrorReply = "Sorry, something went wrong while handling your request. Please try again."

// Router selects exactly one feature per message. Registration happens at
// startup; after that the registry is read-only and safe for concurrent
// routing.
type Router struct {
	model    llm.Completer
	logger   *slog.Logger
	features []Feature
	byName   map[string]Feature
	fallback Feature
}

// New creates a Router that consults model for routing decisions.
func New(model llm.Completer, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		model:  model,
		logger: logger,
		byName: make(map[string]Feature),
	}
}

// Register adds a feature to the registry. Registration order matters: the
// keyword fallback scans features in this order.
func (r *Router) Register(f Feature) {
	r.features = append(r.features, f)
	r.byName[strings.ToLower(f.Name())] = f
}

// SetFallback designates the default feature used when nothing matches.
// Routing is total: with a fallback set, Route never returns nil.
func (r *Router) SetFallback(f Feature) {
	r.fallback = f
}

// Route decides which feature handles the message. One model call per
// decision, no caching; a model failure or an unrecognized answer falls
// through to the keyword scan, then to the designated fallback. Errors are
// never surfaced to the caller.
func (r *Router) Route(ctx context.Context, text string) Feature {
	if f := r.routeByModel(ctx, text); f != nil {
		return f
	}

	for _, f := range r.features {
		if f.CanHandle(text) {
			r.logger.Debug("routed by keyword fallback", logging.Feature(f.Name()))
			return f
		}
	}

	return r.fallback
}

// Dispatch routes the message and runs the selected handler. Any handler
// error is contained here and converted to a plain-text reply; the
// transport layer only ever sees a string.
func (r *Router) Dispatch(ctx context.Context, msg Message) (reply string, feature string) {
	f := r.Route(ctx, msg.Text)
	if f == nil {
		// No fallback configured; nothing can handle the message.
		r.logger.Error("no feature available for message", logging.Sender(msg.Sender))
		return ErrorReply, ""
	}

	reply, err := f.Handle(ctx, msg)
	if err != nil {
		r.logger.Error("feature handler failed",
			logging.Feature(f.Name()),
			logging.Sender(msg.Sender),
			logging.Err(err))
		return ErrorReply, f.Name()
	}
	return reply, f.Name()
}

// routeByModel asks the model to pick a feature by name. Returns nil when
// the model fails or answers with an unregistered name.
func (r *Router) routeByModel(ctx context.Context, text string) Feature {
	if len(r.features) == 0 {
		return nil
	}

	response, err := r.model.Complete(ctx, "route", r.buildPrompt(text))
	if err != nil {
		r.logger.Warn("routing model call failed, using keyword fallback", logging.Err(err))
		return nil
	}

	name := normalizeAnswer(response)
	if f, ok := r.byName[name]; ok {
		return f
	}

	r.logger.Warn("routing model returned unknown feature", slog.String("answer", response))
	return nil
}

func (r *Router) buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a request router for an assistant bot. Pick the single feature best suited to handle the user's message.\n\nAvailable features:\n\n")
	for _, f := range r.features {
		fmt.Fprintf(&b, "FEATURE: %s\n%s\n\n", f.Name(), f.Capabilities())
	}
	fmt.Fprintf(&b, "User message: %q\n\nRespond with ONLY the name of the best-matching feature, exactly as written above. No explanation, no punctuation.", text)
	return b.String()
}

// normalizeAnswer reduces a model answer to a registry key: fences,
// quotes and trailing punctuation stripped, first line only, lowercased.
func normalizeAnswer(answer string) string {
	answer = strings.TrimSpace(answer)
	if strings.HasPrefix(answer, "```") {
		answer = strings.TrimPrefix(answer, "```")
		if idx := strings.LastIndex(answer, "```"); idx >= 0 {
			answer = answer[:idx]
		}
		// Drop a language tag on the opening fence.
		if idx := strings.IndexByte(answer, '\n'); idx >= 0 && strings.TrimSpace(answer[:idx]) == "json" {
			answer = answer[idx+1:]
		}
		answer = strings.TrimSpace(answer)
	}
	if idx := strings.IndexByte(answer, '\n'); idx >= 0 {
		answer = answer[:idx]
	}
	answer = strings.Trim(answer, " \t`\"'.!")
	return strings.ToLower(answer)
}
