package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/sorting"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
	by    map[logger.Level]int
}

func (r *recorder) log(level logger.Level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.by == nil {
		r.by = make(map[logger.Level]int)
	}
	r.by[level]++
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recorder) count(level logger.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.by[level]
}

// pathLister returns one file named after the listed directory, plus the
// dot entries a server would send.
func pathLister(calls *int) listing.Lister {
	return listing.ListerFunc(func(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]listing.Entry, error) {
		if calls != nil {
			*calls++
		}
		return []listing.Entry{
			{Path: ".", Filename: ".", IsDir: true},
			{Path: "..", Filename: "..", IsDir: true},
			{Path: path + "/file", Filename: "file"},
			{Path: path + "/dir", Filename: "dir", IsDir: true},
		}, nil
	})
}

func testConn() connection.Connection {
	return connection.Connection{ID: 7, Name: "web", Host: "example.org", Port: 22}
}

func TestLoadFiltersDotEntries(t *testing.T) {
	rec := &recorder{}
	s := New(pathLister(nil), rec.log)

	cmd := s.Load(testConn(), "/srv")
	if !s.IsLoading() {
		t.Fatal("loading should be set as soon as Load is called")
	}
	if !s.Apply(cmd().(LoadedMsg)) {
		t.Fatal("current result was not applied")
	}
	if s.IsLoading() {
		t.Error("loading should clear once the result is applied")
	}

	got := s.Order()
	want := []string{"/srv/dir", "/srv/file"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
		}
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	tests := []struct {
		name      string
		newerLast bool
	}{
		{"older completes first", true},
		{"newer completes first", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(pathLister(nil), (&recorder{}).log)

			cmdA := s.Load(testConn(), "/a")
			cmdB := s.Load(testConn(), "/b")

			var msgA, msgB LoadedMsg
			if tt.newerLast {
				msgA = cmdA().(LoadedMsg)
				msgB = cmdB().(LoadedMsg)
				s.Apply(msgA)
				s.Apply(msgB)
			} else {
				msgB = cmdB().(LoadedMsg)
				msgA = cmdA().(LoadedMsg)
				s.Apply(msgB)
				s.Apply(msgA)
			}

			for _, e := range s.Entries() {
				if e.Path != "/b/dir" && e.Path != "/b/file" {
					t.Errorf("entry %q leaked from the stale load", e.Path)
				}
			}
			if len(s.Entries()) != 2 {
				t.Errorf("entries = %v", s.Entries())
			}
			if s.IsLoading() {
				t.Error("loading should be clear after both settle")
			}
		})
	}
}

func TestStaleLoadIsCancelled(t *testing.T) {
	var seen context.Context
	lister := listing.ListerFunc(func(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]listing.Entry, error) {
		if path == "/a" {
			seen = ctx
		}
		return nil, ctx.Err()
	})
	s := New(lister, (&recorder{}).log)

	cmdA := s.Load(testConn(), "/a")
	s.Load(testConn(), "/b")

	msg := cmdA().(LoadedMsg)
	if seen == nil || !errors.Is(seen.Err(), context.Canceled) {
		t.Fatal("superseded load should see a cancelled context")
	}
	if s.Apply(msg) {
		t.Error("cancelled load was applied")
	}
}

func TestSentinelShortCircuits(t *testing.T) {
	calls := 0
	rec := &recorder{}
	s := New(pathLister(&calls), rec.log)

	cmd := s.Load(connection.Sentinel(), "/anything")
	msg := cmd().(LoadedMsg)
	s.Apply(msg)

	if calls != 0 {
		t.Errorf("backend called %d times for the sentinel connection", calls)
	}
	if n := rec.count(logger.LevelError); n != 1 {
		t.Errorf("logged %d errors, want exactly 1", n)
	}
	if s.Entries() == nil || len(s.Entries()) != 0 {
		t.Errorf("entries = %#v, want empty slice", s.Entries())
	}
	if s.Err() != nil {
		t.Errorf("sentinel listing should not surface an error, got %v", s.Err())
	}
}

func TestFailureDegradesToEmpty(t *testing.T) {
	boom := errors.New("connection reset")
	rec := &recorder{}
	s := New(listing.ListerFunc(func(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]listing.Entry, error) {
		return nil, boom
	}), rec.log)

	s.Apply(s.Load(testConn(), "/srv")().(LoadedMsg))

	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err() = %v, want %v", s.Err(), boom)
	}
	if len(s.Entries()) != 0 {
		t.Errorf("entries = %v, want none", s.Entries())
	}
	if s.IsLoading() {
		t.Error("loading should clear on failure")
	}
	if s.Path() != "/srv" {
		t.Errorf("path rolled back to %q", s.Path())
	}
	if rec.count(logger.LevelError) != 1 {
		t.Errorf("failure should be logged once, got %d", rec.count(logger.LevelError))
	}
}

func TestReloadRepeatsLastTarget(t *testing.T) {
	calls := 0
	s := New(pathLister(&calls), (&recorder{}).log)

	s.Apply(s.Load(testConn(), "/srv")().(LoadedMsg))
	s.Apply(s.Reload()().(LoadedMsg))

	if calls != 2 {
		t.Errorf("backend calls = %d, want 2", calls)
	}
	if s.Target() != (Target{ConnID: 7, Path: "/srv"}) {
		t.Errorf("target = %+v", s.Target())
	}
}

func TestReloadSupersedesEarlierSameTarget(t *testing.T) {
	s := New(pathLister(nil), (&recorder{}).log)

	first := s.Load(testConn(), "/srv")
	second := s.Reload()

	if s.Apply(first().(LoadedMsg)) {
		t.Error("superseded load of the same target was applied")
	}
	if !s.IsLoading() {
		t.Error("loading should stay set until the newest request settles")
	}
	if !s.Apply(second().(LoadedMsg)) {
		t.Error("newest load was not applied")
	}
}

func TestSortReordersHeldEntries(t *testing.T) {
	s := New(pathLister(nil), (&recorder{}).log)
	s.Apply(s.Load(testConn(), "/srv")().(LoadedMsg))

	s.Sort(sorting.Descriptor{Column: sorting.ByFilename, Direction: sorting.Descending})
	if got := s.Order(); got[0] != "/srv/file" {
		t.Errorf("descending filename order = %v", got)
	}

	s.Sort(sorting.Descriptor{Column: sorting.ByType, Direction: sorting.Descending})
	if got := s.Order(); got[0] != "/srv/dir" {
		t.Errorf("directories should lead under Type in both directions, got %v", got)
	}
}

func TestMessagesFromOtherSourcesIgnored(t *testing.T) {
	a := New(pathLister(nil), (&recorder{}).log)
	b := New(pathLister(nil), (&recorder{}).log)

	msg := a.Load(testConn(), "/srv")().(LoadedMsg)
	b.Load(testConn(), "/srv")
	if b.Apply(msg) {
		t.Error("source b applied a listing loaded by source a")
	}
}
