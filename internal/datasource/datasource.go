// Package datasource loads one directory listing at a time per panel and
// discards results that arrive for a target the panel has moved away from.
package datasource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/sorting"
)

// DefaultTimeout bounds a single listing call.
const DefaultTimeout = 30 * time.Second

var nextID atomic.Int64

// Target is the (connection, path) pair a load was issued for.
type Target struct {
	ConnID int
	Path   string
}

// LoadedMsg carries a finished listing back to the update loop.
type LoadedMsg struct {
	SourceID int64
	Seq      uint64
	Target   Target
	Entries  []listing.Entry
	Err      error
}

// Source is the listing state of one filesystem panel.
type Source struct {
	id         int64
	lister     listing.Lister
	log        logger.Func
	timeout    time.Duration
	showHidden bool

	conn    connection.Connection
	path    string
	seq     uint64
	cancel  context.CancelFunc
	loading bool

	entries    []listing.Entry
	err        error
	descriptor sorting.Descriptor
}

// New returns a source that lists through lister and reports through log.
func New(lister listing.Lister, log logger.Func) *Source {
	if log == nil {
		log = logger.Log
	}
	return &Source{
		id:      nextID.Add(1),
		lister:  lister,
		log:     log,
		timeout: DefaultTimeout,
		conn:    connection.Sentinel(),
	}
}

// ID distinguishes this source's messages from other panels'.
func (s *Source) ID() int64 { return s.id }

// SetTimeout bounds each subsequent listing call.
func (s *Source) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// SetShowHidden controls whether dotfiles are requested.
func (s *Source) SetShowHidden(show bool) { s.showHidden = show }

// ShowHidden reports the current hidden-file setting.
func (s *Source) ShowHidden() bool { return s.showHidden }

// Load starts listing path on conn and makes that pair the current target.
// Any load still in flight is cancelled and its result will be discarded.
func (s *Source) Load(conn connection.Connection, path string) tea.Cmd {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.seq++
	s.conn = conn
	s.path = path
	s.loading = true

	id, seq := s.id, s.seq
	target := Target{ConnID: conn.ID, Path: path}

	if conn.IsSentinel() {
		s.log(logger.LevelError, "cannot list %s: no connection selected", path)
		return func() tea.Msg {
			return LoadedMsg{SourceID: id, Seq: seq, Target: target, Entries: []listing.Entry{}}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	s.cancel = cancel
	lister, log, showHidden := s.lister, s.log, s.showHidden

	return func() tea.Msg {
		defer cancel()

		entries, err := lister.ListDirectory(ctx, path, conn, showHidden)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log(logger.LevelDebug, "listing %s on %s abandoned", path, conn.Label())
			} else {
				log(logger.LevelError, "cannot list %s on %s: %v", path, conn.Label(), err)
			}
			return LoadedMsg{SourceID: id, Seq: seq, Target: target, Entries: []listing.Entry{}, Err: err}
		}
		return LoadedMsg{SourceID: id, Seq: seq, Target: target, Entries: listing.WithoutDotEntries(entries)}
	}
}

// Reload repeats the most recent Load.
func (s *Source) Reload() tea.Cmd {
	return s.Load(s.conn, s.path)
}

// Apply installs msg if it answers the latest request for the current
// target. It reports whether the visible listing changed.
func (s *Source) Apply(msg LoadedMsg) bool {
	if msg.SourceID != s.id {
		return false
	}
	if msg.Target != s.Target() || msg.Seq != s.seq {
		s.log(logger.LevelDebug, "discarding stale listing of %s (seq %d, current %d)", msg.Target.Path, msg.Seq, s.seq)
		return false
	}

	s.loading = false
	s.cancel = nil
	s.err = msg.Err
	s.entries = msg.Entries
	if s.entries == nil {
		s.entries = []listing.Entry{}
	}
	sorting.Sort(s.entries, s.descriptor)
	return true
}

// Sort reorders the held entries.
func (s *Source) Sort(d sorting.Descriptor) {
	s.descriptor = d
	sorting.Sort(s.entries, d)
}

// Descriptor is the active sort.
func (s *Source) Descriptor() sorting.Descriptor { return s.descriptor }

// Entries returns the listing in display order.
func (s *Source) Entries() []listing.Entry { return s.entries }

// Order returns entry paths in display order.
func (s *Source) Order() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Path
	}
	return out
}

// Find returns the entry with the given path.
func (s *Source) Find(path string) (listing.Entry, bool) {
	for _, e := range s.entries {
		if e.Path == path {
			return e, true
		}
	}
	return listing.Entry{}, false
}

// IsLoading reports whether the latest request is still in flight.
func (s *Source) IsLoading() bool { return s.loading }

// Err is the failure of the last applied load, nil on success.
func (s *Source) Err() error { return s.err }

// Target is the current (connection, path) pair.
func (s *Source) Target() Target {
	return Target{ConnID: s.conn.ID, Path: s.path}
}

// Connection is the connection of the current target.
func (s *Source) Connection() connection.Connection { return s.conn }

// Path is the path of the current target.
func (s *Source) Path() string { return s.path }
