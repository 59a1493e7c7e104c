// Package contextmenu positions, opens and closes the per-panel action menu.
package contextmenu

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// OriginOffset shifts the menu left of the pointer so the pointer lands
// inside its first column of items.
const OriginOffset = 24

// DefaultCloseDelay is how long a closed menu keeps its position before
// snapping back to the origin.
const DefaultCloseDelay = 300 * time.Millisecond

var nextID atomic.Int64

// Point is a cell position, origin top-left.
type Point struct {
	X, Y int
}

// ResetMsg is delivered after the close delay.
type ResetMsg struct {
	MenuID     int64
	Generation uint64
}

// Menu is the state of one panel's context menu.
type Menu struct {
	id         int64
	open       bool
	focused    bool
	position   Point
	generation uint64
	target     string
	cursor     int
	items      []Item
	closeDelay time.Duration
}

// New returns a closed menu holding items.
func New(items []Item) *Menu {
	return &Menu{
		id:         nextID.Add(1),
		items:      items,
		closeDelay: DefaultCloseDelay,
	}
}

// ID distinguishes this menu's reset messages from other panels'.
func (m *Menu) ID() int64 { return m.id }

// SetCloseDelay sets the reset delay used by Close.
func (m *Menu) SetCloseDelay(d time.Duration) { m.closeDelay = d }

// Clamp computes the top-left corner for a menu opened at the origin.
// The result keeps the whole menu inside the viewport and is never negative.
func Clamp(originX, originY, viewportW, viewportH, menuW, menuH int) Point {
	x := originX - OriginOffset
	y := originY

	if x+menuW > viewportW {
		x = viewportW - menuW
	}
	if y+menuH > viewportH {
		y = viewportH - menuH
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Point{X: x, Y: y}
}

// Open places and opens the menu, and gives it input focus.
func (m *Menu) Open(originX, originY, viewportW, viewportH, menuW, menuH int) Point {
	m.position = Clamp(originX, originY, viewportW, viewportH, menuW, menuH)
	m.open = true
	m.focused = true
	m.cursor = 0
	m.generation++
	return m.position
}

// Close hides the menu and drops the active-row marker. The returned
// command resets the position after the close delay.
func (m *Menu) Close() tea.Cmd {
	if !m.open && m.target == "" {
		return nil
	}
	m.open = false
	m.focused = false
	m.target = ""

	id, gen := m.id, m.generation
	return tea.Tick(m.closeDelay, func(time.Time) tea.Msg {
		return ResetMsg{MenuID: id, Generation: gen}
	})
}

// Blur is a loss of input focus; the menu closes.
func (m *Menu) Blur() tea.Cmd {
	return m.Close()
}

// HandleReset applies a delayed reset if it still belongs to the latest
// close. A re-open in the meantime bumps the generation and wins.
func (m *Menu) HandleReset(msg ResetMsg) bool {
	if msg.MenuID != m.id || msg.Generation != m.generation || m.open {
		return false
	}
	m.position = Point{}
	return true
}

// SetPosition moves the menu without clamping.
func (m *Menu) SetPosition(p Point) { m.position = p }

// SetOpen opens in place or closes.
func (m *Menu) SetOpen(open bool) tea.Cmd {
	if !open {
		return m.Close()
	}
	m.open = true
	m.focused = true
	m.generation++
	return nil
}

// IsOpen reports whether the menu is visible.
func (m *Menu) IsOpen() bool { return m.open }

// Focused reports whether the menu holds input focus.
func (m *Menu) Focused() bool { return m.focused }

// Position is the current top-left corner.
func (m *Menu) Position() Point { return m.position }

// SetTarget marks the row the menu was opened on.
func (m *Menu) SetTarget(path string) { m.target = path }

// Target is the active row marker, empty when none.
func (m *Menu) Target() string { return m.target }

// Items returns the menu items.
func (m *Menu) Items() []Item { return m.items }

// Cursor is the highlighted item index.
func (m *Menu) Cursor() int { return m.cursor }

// MoveCursor moves the highlight, wrapping at both ends.
func (m *Menu) MoveCursor(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%len(m.items) + len(m.items)) % len(m.items)
}

// SetCursor highlights item i when it exists.
func (m *Menu) SetCursor(i int) {
	if i >= 0 && i < len(m.items) {
		m.cursor = i
	}
}

// Current returns the highlighted item.
func (m *Menu) Current() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}
