package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", FileName)

	logger, closer, err := New(Options{Path: path, Level: "debug", Prefix: "API"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("Capture status", "id", "abc")
	logger.Info("Capture completed")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"API", "Capture status", "id=abc", "Capture completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	logger, closer, err := New(Options{Path: path, Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("unexpected output:\n%s", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() with bad level returned nil error")
	}
}

func TestPathFor(t *testing.T) {
	tests := []struct{ db, want string }{
		{"shotpro.db", FileName},
		{filepath.Join("state", "shotpro.db"), filepath.Join("state", FileName)},
	}
	for _, tt := range tests {
		if got := PathFor(tt.db); got != tt.want {
			t.Errorf("PathFor(%q) = %q, want %q", tt.db, got, tt.want)
		}
	}
}
