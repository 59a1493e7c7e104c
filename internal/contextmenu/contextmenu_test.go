package contextmenu

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name             string
		originX, originY int
		viewW, viewH     int
		menuW, menuH     int
		want             Point
	}{
		{"offset left of pointer", 100, 5, 200, 50, 28, 20, Point{76, 5}},
		{"right edge", 220, 5, 200, 50, 28, 20, Point{172, 5}},
		{"bottom edge", 100, 40, 200, 50, 28, 20, Point{76, 30}},
		{"near left edge", 10, 0, 200, 50, 28, 20, Point{0, 0}},
		{"viewport smaller than menu", 10, 10, 20, 10, 28, 20, Point{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.originX, tt.originY, tt.viewW, tt.viewH, tt.menuW, tt.menuH)
			if got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOpenFitsInsideViewport(t *testing.T) {
	m := New(DefaultItems())
	w, h := m.Size()

	for _, origin := range []Point{{0, 0}, {79, 23}, {40, 12}, {5, 22}} {
		p := m.Open(origin.X, origin.Y, 80, 24, w, h)
		if p.X < 0 || p.Y < 0 {
			t.Errorf("origin %+v: negative position %+v", origin, p)
		}
		if p.X+w > 80 {
			t.Errorf("origin %+v: menu overflows right edge at %+v", origin, p)
		}
		if h <= 24 && p.Y+h > 24 {
			t.Errorf("origin %+v: menu overflows bottom edge at %+v", origin, p)
		}
	}
}

func TestCloseClearsTargetAndFocus(t *testing.T) {
	m := New(DefaultItems())
	m.Open(50, 5, 200, 50, 28, 20)
	m.SetTarget("/srv/www")

	if cmd := m.Close(); cmd == nil {
		t.Fatal("Close should schedule a reset")
	}
	if m.IsOpen() || m.Focused() {
		t.Error("menu should be closed and unfocused")
	}
	if m.Target() != "" {
		t.Errorf("target = %q, want empty", m.Target())
	}
}

func TestResetAfterClose(t *testing.T) {
	m := New(DefaultItems())
	m.SetCloseDelay(time.Millisecond)
	m.Open(100, 10, 200, 50, 28, 20)

	msg := m.Close()().(ResetMsg)
	if !m.HandleReset(msg) {
		t.Fatal("reset for the latest close was not applied")
	}
	if m.Position() != (Point{}) {
		t.Errorf("position = %+v, want origin", m.Position())
	}
}

func TestResetDoesNotClobberReopen(t *testing.T) {
	m := New(DefaultItems())
	m.SetCloseDelay(time.Millisecond)
	m.Open(100, 10, 200, 50, 28, 20)

	cmd := m.Close()
	reopened := m.Open(150, 20, 200, 50, 28, 20)

	msg := cmd().(ResetMsg)
	if m.HandleReset(msg) {
		t.Error("stale reset was applied after reopen")
	}
	if !m.IsOpen() || m.Position() != reopened {
		t.Errorf("reopened menu disturbed: open=%v pos=%+v", m.IsOpen(), m.Position())
	}
}

func TestResetIgnoresOtherMenus(t *testing.T) {
	a := New(DefaultItems())
	b := New(DefaultItems())
	a.SetCloseDelay(time.Millisecond)
	a.Open(100, 10, 200, 50, 28, 20)
	b.SetPosition(Point{3, 4})

	msg := a.Close()().(ResetMsg)
	if b.HandleReset(msg) {
		t.Error("menu b applied a reset addressed to menu a")
	}
}

func TestCloseWhenAlreadyClosed(t *testing.T) {
	m := New(DefaultItems())
	if cmd := m.Close(); cmd != nil {
		t.Error("closing a closed menu should not schedule a reset")
	}
}

func TestMoveCursorWraps(t *testing.T) {
	m := New(DefaultItems())
	n := len(m.Items())

	m.MoveCursor(-1)
	if m.Cursor() != n-1 {
		t.Errorf("cursor = %d, want %d", m.Cursor(), n-1)
	}
	m.MoveCursor(1)
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}

	it, ok := m.Current()
	if !ok || it.Action != ActionNewFolder {
		t.Errorf("Current() = %+v, %v", it, ok)
	}
}

func TestItemAt(t *testing.T) {
	m := New(DefaultItems())
	m.SetOpen(true)
	m.SetPosition(Point{10, 2})

	// border row, then the "Actions" header
	if got := m.ItemAt(12, 3); got != -1 {
		t.Errorf("header row mapped to item %d", got)
	}
	if got := m.ItemAt(12, 4); got != 0 {
		t.Errorf("first item row = %d, want 0", got)
	}
	if got := m.ItemAt(10, 4); got != -1 {
		t.Errorf("border column mapped to item %d", got)
	}
	if got := m.ItemAt(5, 4); got != -1 {
		t.Errorf("outside cell mapped to item %d", got)
	}
}

func TestSizeMatchesRender(t *testing.T) {
	m := New(DefaultItems())
	w, h := m.Size()
	out := m.Render(true)

	lines := 1
	for _, r := range out {
		if r == '\n' {
			lines++
		}
	}
	if lines != h {
		t.Errorf("rendered %d lines, Size says %d", lines, h)
	}
	if w != innerWidth+2 {
		t.Errorf("width = %d", w)
	}
}
