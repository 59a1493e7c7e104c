// Package watch reports changes to the directory a local panel is showing.
package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/LFroesch/sitescout/internal/logger"
)

// DefaultDebounce coalesces bursts of events into one change.
const DefaultDebounce = 250 * time.Millisecond

var nextID atomic.Int64

// ChangedMsg says the watched directory changed.
type ChangedMsg struct {
	WatcherID int64
	Dir       string
}

// Watcher follows a single directory, non-recursively.
type Watcher struct {
	id      int64
	fs      *fsnotify.Watcher
	log     logger.Func
	delay   time.Duration
	changes chan ChangedMsg

	mu     sync.Mutex
	dir    string
	timer  *time.Timer
	closed bool
}

// New starts a watcher that is not yet following anything.
func New(log logger.Func) (*Watcher, error) {
	if log == nil {
		log = logger.Log
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		id:      nextID.Add(1),
		fs:      fw,
		log:     log,
		delay:   DefaultDebounce,
		changes: make(chan ChangedMsg, 1),
	}
	go w.loop()
	return w, nil
}

// ID distinguishes this watcher's messages from other panels'.
func (w *Watcher) ID() int64 { return w.id }

// SetDebounce changes the coalescing delay.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

// Watch switches to dir. Watching the current directory again is a no-op.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fs.Remove(w.dir); err != nil {
			w.log(logger.LevelDebug, "unwatch %s: %v", w.dir, err)
		}
	}
	w.dir = ""
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	return nil
}

// Dir is the directory being watched.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Next waits for the next change. Re-issue it after each ChangedMsg.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.changes
		if !ok {
			return nil
		}
		return msg
	}
}

// Close stops the watcher. Pending Next commands return nil.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) loop() {
	defer w.finish()
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ignored(event.Name) {
				continue
			}
			w.schedule(filepath.Dir(event.Name))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log(logger.LevelWarn, "watch error: %v", err)
		}
	}
}

func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed {
			return
		}
		select {
		case w.changes <- ChangedMsg{WatcherID: w.id, Dir: dir}:
		default:
		}
	})
}

func (w *Watcher) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.changes)
}

// ignored filters editor swap and backup files.
func ignored(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#")
}
