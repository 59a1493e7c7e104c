package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type bufferCloser struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (b *bufferCloser) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *bufferCloser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *bufferCloser) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogWritesLevelAndMessage(t *testing.T) {
	w := &bufferCloser{}
	SetOutput(w)
	SetMinLevel(LevelDebug)
	defer SetMinLevel(LevelInfo)

	Error("cannot list %s", "/srv")
	Debug("debug line")
	Close()

	got := w.String()
	if !strings.Contains(got, "ERROR: cannot list /srv") {
		t.Errorf("missing error line in %q", got)
	}
	if !strings.Contains(got, "DEBUG: debug line") {
		t.Errorf("missing debug line in %q", got)
	}
	if !w.closed {
		t.Error("Close did not close the writer")
	}
}

func TestMinLevelFilters(t *testing.T) {
	w := &bufferCloser{}
	SetOutput(w)
	SetMinLevel(LevelWarn)
	defer SetMinLevel(LevelInfo)

	Info("hidden")
	Warn("shown")
	Close()

	got := w.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("info line should be filtered: %q", got)
	}
	if !strings.Contains(got, "WARN: shown") {
		t.Errorf("warn line missing: %q", got)
	}
}

func TestDisable(t *testing.T) {
	w := &bufferCloser{}
	SetOutput(w)
	Disable()
	Error("nothing")
	Enable()
	Close()

	if w.String() != "" {
		t.Errorf("expected no output while disabled, got %q", w.String())
	}
}

func TestLogWithoutInitDoesNotPanic(t *testing.T) {
	Close()
	Error("dropped %d", 1)
}

func TestInitCreatesLogFile(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", homeDir)

	if err := Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	Warn("hello")
	Close()

	data, err := os.ReadFile(filepath.Join(homeDir, ".config", "sitescout", "sitescout.log"))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "WARN: hello") {
		t.Errorf("log file content = %q", string(data))
	}
}
