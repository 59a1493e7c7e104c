package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "DEBUG"
	}
}

// Func is the shape of Log, so components can take a logger as a dependency.
type Func func(level Level, format string, args ...any)

var (
	mu       sync.Mutex
	out      io.WriteCloser
	lines    chan string
	done     chan struct{}
	enabled  = true
	minLevel = LevelInfo
)

const (
	maxLogSize = 5 * 1024 * 1024 // 5MB
	bufferSize = 256
)

// Init opens ~/.config/sitescout/sitescout.log and starts the writer.
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}

	logDir := filepath.Join(homeDir, ".config", "sitescout")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "sitescout.log")

	// Rotate by renaming to .old
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		oldPath := logPath + ".old"
		os.Remove(oldPath)
		os.Rename(logPath, oldPath)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}

	SetOutput(file)
	return nil
}

// SetOutput replaces the destination and (re)starts the background writer.
func SetOutput(w io.WriteCloser) {
	Close()

	mu.Lock()
	defer mu.Unlock()

	out = w
	lines = make(chan string, bufferSize)
	done = make(chan struct{})
	go drain(w, lines, done)
}

func drain(w io.Writer, in <-chan string, finished chan<- struct{}) {
	defer close(finished)
	for line := range in {
		io.WriteString(w, line)
	}
}

// Close flushes pending lines and closes the log file.
func Close() {
	mu.Lock()
	ch, fin, w := lines, done, out
	lines, done, out = nil, nil, nil
	mu.Unlock()

	if ch == nil {
		return
	}
	close(ch)
	<-fin
	w.Close()
}

// Disable disables logging (useful for tests)
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// Enable enables logging
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// SetMinLevel drops lines below l.
func SetMinLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

func Debug(format string, args ...any) { Log(LevelDebug, format, args...) }
func Info(format string, args ...any)  { Log(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { Log(LevelWarn, format, args...) }
func Error(format string, args ...any) { Log(LevelError, format, args...) }

// Log formats a line and hands it to the writer goroutine. It never blocks:
// when the buffer is full the line is dropped.
func Log(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || lines == nil || level < minLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s: %s\n", timestamp, level, message)

	select {
	case lines <- line:
	default:
	}
}
