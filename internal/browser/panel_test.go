package browser

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestOverlay(t *testing.T) {
	tests := []struct {
		name string
		base string
		top  string
		x, y int
		want string
	}{
		{"inside", "aaaa\nbbbb\ncccc", "XY", 1, 1, "aaaa\nbXYb\ncccc"},
		{"past line end", "ab", "XYZ", 4, 0, "ab  XYZ"},
		{"clipped at bottom", "aa\nbb", "X\nY\nZ", 0, 1, "aa\nXb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlay(tt.base, tt.top, tt.x, tt.y); got != tt.want {
				t.Errorf("overlay = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrameFillsRect(t *testing.T) {
	r := Rect{W: 12, H: 5}
	out := frame(r, []string{"title", strings.Repeat("x", 40)}, true)
	lines := strings.Split(out, "\n")
	if len(lines) != r.H {
		t.Fatalf("frame has %d lines, want %d", len(lines), r.H)
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != r.W {
			t.Errorf("line %d width = %d, want %d", i, w, r.W)
		}
	}
}

func TestCollapsedBar(t *testing.T) {
	out := collapsedView(Rect{W: 40, H: collapsedHeight}, ContentRemoteTerminal, false)
	if !strings.Contains(out, "Remote terminal") {
		t.Errorf("collapsed bar %q does not name its content", out)
	}
	if lipgloss.Width(out) != 40 {
		t.Errorf("collapsed bar width = %d", lipgloss.Width(out))
	}
}
