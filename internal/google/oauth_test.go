package google

import (
	"strings"
	"testing"
)

func TestScopeURL(t *testing.T) {
	if !strings.Contains(ScopeReadOnly.URL(), "calendar.readonly") {
		t.Errorf("Expected readonly scope URL, got %s", ScopeReadOnly.URL())
	}
	if !strings.Contains(ScopeEvents.URL(), "calendar.events") {
		t.Errorf("Expected events scope URL, got %s", ScopeEvents.URL())
	}
	if ScopeReadOnly.URL() == ScopeEvents.URL() {
		t.Error("The two credential scopes must not share an OAuth scope URL")
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Scope
		ok    bool
	}{
		{name: "readonly", input: "readonly", want: ScopeReadOnly, ok: true},
		{name: "events", input: "events", want: ScopeEvents, ok: true},
		{name: "unknown", input: "full", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScope(tt.input)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.want {
				t.Errorf("Expected scope %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTokenFilesAreScopeSeparated(t *testing.T) {
	if tokenFile(ScopeReadOnly) == tokenFile(ScopeEvents) {
		t.Error("Each credential scope must persist to its own token file")
	}
}
