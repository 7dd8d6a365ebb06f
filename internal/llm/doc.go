// Package llm wraps the Gemini completion endpoint behind a one-method
// Completer interface. Every routing and extraction decision in the
// assistant is a single prompt-in, text-out call; no streaming, tools or
// chat state are used.
package llm
