// Package breadcrumb splits a path into clickable segments and rebuilds
// paths from them.
package breadcrumb

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RootLabel is shown for the leading empty segment.
const RootLabel = "root"

// Segment is one crumb. Raw is the path component, Label what is shown.
type Segment struct {
	Index int
	Raw   string
	Label string
}

// Decompose splits path on "/" keeping empty components, so that
// Recompose(Decompose(p), last) reproduces p for any absolute path.
func Decompose(path string) []Segment {
	if path == "" || path == "/" {
		return []Segment{{Index: 0, Raw: "", Label: RootLabel}}
	}

	parts := strings.Split(path, "/")
	segs := make([]Segment, len(parts))
	for i, p := range parts {
		label := p
		if i == 0 && p == "" {
			label = RootLabel
		}
		segs[i] = Segment{Index: i, Raw: p, Label: label}
	}
	return segs
}

// Recompose joins segments 0..i. An empty result is "/".
func Recompose(segs []Segment, i int) string {
	if i >= len(segs) {
		i = len(segs) - 1
	}
	if i < 0 {
		return "/"
	}

	raw := make([]string, i+1)
	for j := 0; j <= i; j++ {
		raw[j] = segs[j].Raw
	}
	joined := strings.Join(raw, "/")
	if joined == "" {
		return "/"
	}
	return joined
}

// Child appends name to dir, collapsing a doubled separator.
func Child(dir, name string) string {
	joined := dir + "/" + name
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return joined
}

// Parent returns the directory above path, "/" at the top.
func Parent(path string) string {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return "/"
	}
	return trimmed[:idx]
}

var (
	crumbStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("105"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true)
	sepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const separator = " / "

// Trail is the breadcrumb bar of one panel.
type Trail struct {
	segments     []Segment
	onPathChange func(string)
}

// New returns a trail for path. onPathChange receives the recomposed path
// when a segment is activated.
func New(path string, onPathChange func(string)) *Trail {
	return &Trail{segments: Decompose(path), onPathChange: onPathChange}
}

// SetPath replaces the displayed path.
func (t *Trail) SetPath(path string) {
	t.segments = Decompose(path)
}

// Segments returns the current segments.
func (t *Trail) Segments() []Segment { return t.segments }

// Activate jumps to segment i.
func (t *Trail) Activate(i int) string {
	path := Recompose(t.segments, i)
	if t.onPathChange != nil {
		t.onPathChange(path)
	}
	return path
}

// HitTest maps a column offset within the rendered trail to a segment
// index, or -1 when it falls on a separator or past the end.
func (t *Trail) HitTest(col int) int {
	pos := 0
	for i, s := range t.segments {
		if i > 0 {
			pos += len(separator)
		}
		w := lipgloss.Width(s.Label)
		if col >= pos && col < pos+w {
			return i
		}
		pos += w
	}
	return -1
}

// Render draws the trail, highlighting the last segment.
func (t *Trail) Render() string {
	var b strings.Builder
	last := len(t.segments) - 1
	for i, s := range t.segments {
		if i > 0 {
			b.WriteString(sepStyle.Render(separator))
		}
		if i == last {
			b.WriteString(activeStyle.Render(s.Label))
		} else {
			b.WriteString(crumbStyle.Render(s.Label))
		}
	}
	return b.String()
}
