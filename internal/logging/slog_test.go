package logging

import (
	"log/slog"
	"testing"
)

func TestAnonymizeSender(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		empty  bool
	}{
		{
			name:   "empty sender",
			sender: "",
			empty:  true,
		},
		{
			name:   "phone number",
			sender: "whatsapp:+14155551234",
		},
		{
			name:   "numeric chat id",
			sender: "123456789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeSender(tt.sender)
			if tt.empty {
				if got != "" {
					t.Errorf("Expected empty string, got %q", got)
				}
				return
			}
			if got == tt.sender {
				t.Errorf("Anonymized sender must not equal the raw sender: %q", got)
			}
			if len(got) == 0 {
				t.Error("Expected non-empty anonymized sender")
			}
		})
	}
}

func TestAnonymizeSenderIsStable(t *testing.T) {
	a := AnonymizeSender("whatsapp:+14155551234")
	b := AnonymizeSender("whatsapp:+14155551234")
	if a != b {
		t.Errorf("Expected stable hash, got %q and %q", a, b)
	}

	c := AnonymizeSender("whatsapp:+14155559999")
	if a == c {
		t.Error("Different senders must not collide on the short hash prefix")
	}
}

func TestErrWithNil(t *testing.T) {
	attr := Err(nil)
	// A nil error should produce an empty group that slog omits from output.
	if attr.Value.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind for nil error, got %v", attr.Value.Kind())
	}
	if len(attr.Value.Group()) != 0 {
		t.Error("Expected empty group for nil error")
	}
}

func TestStatusValues(t *testing.T) {
	if Status(StatusSuccess).Value.String() != "success" {
		t.Error("Expected success status value")
	}
	if Status(StatusError).Value.String() != "error" {
		t.Error("Expected error status value")
	}
}
