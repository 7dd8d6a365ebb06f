package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys used in metric labels.
const (
	AttrTransport = "transport"
	AttrFeature   = "feature"
	AttrOperation = "operation"
	AttrStatus    = "status"
)

// Status values for metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics records assistant-level counters. The zero value is a valid no-op
// recorder, so callers never have to nil-check before recording.
type Metrics struct {
	messagesTotal    metric.Int64Counter
	modelCallsTotal  metric.Int64Counter
	calendarOpsTotal metric.Int64Counter
}

// NewMetrics creates the counter instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	messages, err := meter.Int64Counter(
		"alfred_messages_total",
		metric.WithDescription("Inbound chat messages handled, by transport, feature and outcome"),
	)
	if err != nil {
		return nil, err
	}

	modelCalls, err := meter.Int64Counter(
		"alfred_model_calls_total",
		metric.WithDescription("Language model completion calls, by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	calendarOps, err := meter.Int64Counter(
		"alfred_calendar_ops_total",
		metric.WithDescription("Calendar provider operations, by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		messagesTotal:    messages,
		modelCallsTotal:  modelCalls,
		calendarOpsTotal: calendarOps,
	}, nil
}

// RecordMessage counts one handled inbound message.
func (m *Metrics) RecordMessage(ctx context.Context, transport, feature, status string) {
	if m == nil || m.messagesTotal == nil {
		return
	}
	m.messagesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrTransport, transport),
		attribute.String(AttrFeature, feature),
		attribute.String(AttrStatus, status),
	))
}

// RecordModelCall counts one language model completion call.
func (m *Metrics) RecordModelCall(ctx context.Context, operation, status string) {
	if m == nil || m.modelCallsTotal == nil {
		return
	}
	m.modelCallsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	))
}

// RecordCalendarOp counts one calendar provider operation.
func (m *Metrics) RecordCalendarOp(ctx context.Context, operation, status string) {
	if m == nil || m.calendarOpsTotal == nil {
		return
	}
	m.calendarOpsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	))
}

// StatusFor maps an error to a metric status label.
func StatusFor(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
