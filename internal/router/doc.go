// Package router dispatches inbound chat messages to exactly one feature
// handler.
//
// Routing is model-first: one completion call asks the model to pick the
// best feature given each feature's free-text capability description. A
// failed call or an unrecognized answer falls back to a deterministic
// keyword scan over the features in registration order, and finally to a
// designated default handler, so routing is total — it never yields zero
// or many handlers.
package router
