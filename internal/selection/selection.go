// Package selection implements click, ctrl-click and shift-range selection
// over a listing's display order.
package selection

import (
	"sort"

	"github.com/LFroesch/sitescout/internal/modkeys"
)

// Model holds the selected paths and the shift-range anchor.
type Model struct {
	selected map[string]struct{}
	anchor   string
}

// New returns an empty selection.
func New() *Model {
	return &Model{selected: make(map[string]struct{})}
}

// Click applies a click on path. order is the current display order and
// bounds shift-ranges. While the context menu is open clicks are ignored.
// It reports whether the selection changed.
func (m *Model) Click(path string, mods modkeys.Set, order []string, menuOpen bool) bool {
	if menuOpen {
		return false
	}

	switch {
	case mods.Control:
		m.toggle(path)
	case mods.Shift && len(m.selected) > 0 && m.anchor != "":
		if !m.selectRange(path, order) {
			m.plain(path)
		}
	default:
		m.plain(path)
	}
	return true
}

// SelectOnly makes path the sole selection and anchor.
func (m *Model) SelectOnly(path string) {
	m.selected = map[string]struct{}{path: {}}
	m.anchor = path
}

// ClearAll resets selection and anchor.
func (m *Model) ClearAll() {
	m.selected = make(map[string]struct{})
	m.anchor = ""
}

// Prune drops paths that are not in order. The anchor goes with them.
func (m *Model) Prune(order []string) {
	present := make(map[string]struct{}, len(order))
	for _, p := range order {
		present[p] = struct{}{}
	}
	for p := range m.selected {
		if _, ok := present[p]; !ok {
			delete(m.selected, p)
		}
	}
	if _, ok := present[m.anchor]; !ok {
		m.anchor = ""
	}
	if len(m.selected) == 0 {
		m.anchor = ""
	}
}

// IsSelected reports whether path is selected.
func (m *Model) IsSelected(path string) bool {
	_, ok := m.selected[path]
	return ok
}

// IsOnly reports whether path is the one and only selected path.
func (m *Model) IsOnly(path string) bool {
	return len(m.selected) == 1 && m.IsSelected(path)
}

// Len is the number of selected paths.
func (m *Model) Len() int {
	return len(m.selected)
}

// Anchor returns the shift-range anchor and whether one is set.
func (m *Model) Anchor() (string, bool) {
	return m.anchor, m.anchor != ""
}

// Selected returns the selection in the given display order. Selected
// paths missing from order are appended in lexical order.
func (m *Model) Selected(order []string) []string {
	out := make([]string, 0, len(m.selected))
	seen := make(map[string]struct{}, len(m.selected))
	for _, p := range order {
		if _, ok := m.selected[p]; ok {
			out = append(out, p)
			seen[p] = struct{}{}
		}
	}

	var rest []string
	for p := range m.selected {
		if _, ok := seen[p]; !ok {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (m *Model) plain(path string) {
	if m.IsOnly(path) {
		m.ClearAll()
		return
	}
	m.SelectOnly(path)
}

func (m *Model) toggle(path string) {
	if m.IsSelected(path) {
		delete(m.selected, path)
	} else {
		m.selected[path] = struct{}{}
	}

	switch {
	case len(m.selected) == 0:
		m.anchor = ""
	case m.IsOnly(path):
		m.anchor = path
	}
}

func (m *Model) selectRange(path string, order []string) bool {
	from, to := -1, -1
	for i, p := range order {
		if p == m.anchor {
			from = i
		}
		if p == path {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return false
	}
	if from > to {
		from, to = to, from
	}

	m.selected = make(map[string]struct{}, to-from+1)
	for _, p := range order[from : to+1] {
		m.selected[p] = struct{}{}
	}
	return true
}
