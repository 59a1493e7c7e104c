package browser

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// panel is the content of one quadrant.
type panel interface {
	Content() Content
	Init() tea.Cmd
	SetRect(r Rect, screenW, screenH int)
	HandleKey(msg tea.KeyMsg) tea.Cmd
	HandleMouse(msg tea.MouseMsg) tea.Cmd
	// HandleMsg offers an asynchronous result to the panel. It reports
	// whether the message belonged to it.
	HandleMsg(msg tea.Msg) (tea.Cmd, bool)
	// Capturing reports whether the panel is editing text and wants every
	// key, including the browser's own bindings.
	Capturing() bool
	View(focused bool) string
	Close()
}

var (
	borderColor      = lipgloss.Color("240")
	focusBorderColor = lipgloss.Color("99")

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	dimTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	errorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// frame draws lines inside a bordered box that exactly fills r.
func frame(r Rect, lines []string, focused bool) string {
	innerW, innerH := r.W-2, r.H-2
	if innerW < 1 || innerH < 1 {
		return strings.Repeat(" ", max(r.W, 0))
	}

	out := make([]string, innerH)
	for i := range out {
		if i < len(lines) {
			out[i] = ansi.Truncate(lines[i], innerW, "")
		}
	}

	color := borderColor
	if focused {
		color = focusBorderColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(out, "\n"))
}

// collapsedView is the strip left behind by a collapsed quadrant.
func collapsedView(r Rect, c Content, focused bool) string {
	style := dimTitleStyle
	if focused {
		style = panelTitleStyle
	}
	if r.H == collapsedHeight {
		bar := style.Render("▸ "+c.Title()) + hintStyle.Render("  (click to expand)")
		return lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Width(r.W).
			Render(ansi.Truncate(bar, r.W, ""))
	}

	lines := make([]string, r.H-2)
	for i := range lines {
		lines[i] = " "
	}
	if len(lines) > 0 {
		lines[0] = style.Render("▸")
	}
	return frame(r, lines, focused)
}

// overlay draws top over base with its top-left corner at (x, y).
func overlay(base, top string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		under := baseLines[row]
		w := ansi.StringWidth(line)

		left := ansi.Truncate(under, x, "")
		if lw := ansi.StringWidth(left); lw < x {
			left += strings.Repeat(" ", x-lw)
		}
		right := ansi.TruncateLeft(under, x+w, "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}
