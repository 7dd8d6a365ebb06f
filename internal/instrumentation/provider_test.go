package instrumentation

import (
	"context"
	"testing"
)

func TestDisabledProviderIsNoOp(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.Enabled() {
		t.Error("Expected provider to report disabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("Expected a non-nil no-op metrics recorder")
	}

	// Recording on the no-op recorder must not panic.
	ctx := context.Background()
	provider.Metrics().RecordMessage(ctx, "webhook", "Calendar", StatusSuccess)
	provider.Metrics().RecordModelCall(ctx, "route", StatusError)
	provider.Metrics().RecordCalendarOp(ctx, "create", StatusSuccess)

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Unexpected shutdown error: %v", err)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordMessage(ctx, "bot", "Conversation", StatusSuccess)
	m.RecordModelCall(ctx, "extract", StatusSuccess)
	m.RecordCalendarOp(ctx, "update", StatusError)
}

func TestStatusFor(t *testing.T) {
	if StatusFor(nil) != StatusSuccess {
		t.Error("Expected success status for nil error")
	}
	if StatusFor(context.Canceled) != StatusError {
		t.Error("Expected error status for non-nil error")
	}
}
