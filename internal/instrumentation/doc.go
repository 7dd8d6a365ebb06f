// Package instrumentation provides OpenTelemetry metrics for the assistant.
//
// Metrics are collected through the OTel metric API and exported via the
// Prometheus exporter, which registers with the default Prometheus registry;
// the webhook server exposes them on a dedicated metrics address through
// promhttp. A disabled provider hands out a no-op recorder so call sites
// never branch on whether metrics are on.
package instrumentation
