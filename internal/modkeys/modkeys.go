// Package modkeys tracks which modifier keys are held down.
package modkeys

import "sync"

// Modifier is one of the tracked modifier keys.
type Modifier int

const (
	Control Modifier = iota
	Shift
	Alt
)

func (m Modifier) String() string {
	switch m {
	case Control:
		return "Control"
	case Shift:
		return "Shift"
	case Alt:
		return "Alt"
	default:
		return "Unknown"
	}
}

// Set is a snapshot of pressed modifiers.
type Set struct {
	Control bool
	Shift   bool
	Alt     bool
}

// Has reports whether m is in the set.
func (s Set) Has(m Modifier) bool {
	switch m {
	case Control:
		return s.Control
	case Shift:
		return s.Shift
	case Alt:
		return s.Alt
	default:
		return false
	}
}

// Empty reports whether no modifier is pressed.
func (s Set) Empty() bool {
	return !s.Control && !s.Shift && !s.Alt
}

// Tracker is window-wide; all panels read the same instance.
type Tracker struct {
	mu      sync.Mutex
	pressed Set
}

// New returns a tracker with nothing pressed.
func New() *Tracker {
	return &Tracker{}
}

// KeyDown marks m pressed. Repeated key-down events are idempotent.
func (t *Tracker) KeyDown(m Modifier) {
	t.set(m, true)
}

// KeyUp marks m released.
func (t *Tracker) KeyUp(m Modifier) {
	t.set(m, false)
}

// Observe replaces the whole set with the flags reported by an input event.
func (t *Tracker) Observe(ctrl, shift, alt bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed = Set{Control: ctrl, Shift: shift, Alt: alt}
}

// Blur clears every modifier. Key-up events are lost while the window is
// unfocused, so anything still held would otherwise stick.
func (t *Tracker) Blur() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed = Set{}
}

// IsPressed reports whether m is currently held.
func (t *Tracker) IsPressed(m Modifier) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed.Has(m)
}

// Pressed returns a snapshot.
func (t *Tracker) Pressed() Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed
}

func (t *Tracker) set(m Modifier, down bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch m {
	case Control:
		t.pressed.Control = down
	case Shift:
		t.pressed.Shift = down
	case Alt:
		t.pressed.Alt = down
	}
}
