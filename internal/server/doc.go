// Package server provides the HTTP surfaces: the webhook transport for
// chat providers that deliver messages via form POSTs, and a dedicated
// metrics server exposing Prometheus metrics on its own port so
// operational data never shares a listener with user traffic.
package server
