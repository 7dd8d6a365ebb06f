package cmd

import (
	"testing"
)

func TestSubcommandsRegistered(t *testing.T) {
	expected := []string{"serve", "bot", "auth", "agenda", "parse", "version"}

	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q is not registered", name)
		}
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("rootCmd.Version = %q, want %q", rootCmd.Version, "1.2.3")
	}
	if version != "1.2.3" {
		t.Errorf("version = %q, want %q", version, "1.2.3")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger := newLogger(false)
	if logger == nil {
		t.Fatal("newLogger(false) returned nil")
	}
	if logger.Enabled(nil, -4) { // slog.LevelDebug
		t.Error("info logger should not enable debug level")
	}

	debugLogger := newLogger(true)
	if !debugLogger.Enabled(nil, -4) {
		t.Error("debug logger should enable debug level")
	}
}
