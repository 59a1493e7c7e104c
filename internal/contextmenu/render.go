package contextmenu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// innerWidth is the width of a row between the borders.
const innerWidth = 26

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Background(lipgloss.Color("235"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105")).
			Width(innerWidth)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(innerWidth)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("57")).
			Bold(true).
			Width(innerWidth)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(innerWidth)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Width(innerWidth)

	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowItem
	rowDivider
)

type row struct {
	kind    rowKind
	section Section
	item    int
}

func (m *Menu) rows() []row {
	var rows []row
	var current Section
	for i, it := range m.items {
		if i == 0 || it.Section != current {
			if i > 0 {
				rows = append(rows, row{kind: rowDivider})
			}
			rows = append(rows, row{kind: rowHeader, section: it.Section})
			current = it.Section
		}
		rows = append(rows, row{kind: rowItem, item: i})
	}
	return rows
}

// Size is the rendered width and height in cells, borders included.
func (m *Menu) Size() (int, int) {
	return innerWidth + 2, len(m.rows()) + 2
}

// Render draws the menu. hasTarget disables the item actions when false.
func (m *Menu) Render(hasTarget bool) string {
	var lines []string
	for _, r := range m.rows() {
		switch r.kind {
		case rowDivider:
			lines = append(lines, dividerStyle.Render(strings.Repeat("─", innerWidth)))
		case rowHeader:
			lines = append(lines, headerStyle.Render(string(r.section)))
		case rowItem:
			lines = append(lines, m.renderItem(r.item, hasTarget))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *Menu) renderItem(i int, hasTarget bool) string {
	it := m.items[i]
	text := " " + it.Title
	if it.Shortcut != "" {
		pad := innerWidth - lipgloss.Width(text) - len(it.Shortcut) - 1
		if pad < 1 {
			pad = 1
		}
		text += strings.Repeat(" ", pad) + it.Shortcut
	}

	switch {
	case it.NeedsTarget && !hasTarget:
		return disabledStyle.Render(text)
	case i == m.cursor:
		return cursorStyle.Render(text)
	case it.Section == SectionDanger:
		return dangerStyle.Render(text)
	default:
		return itemStyle.Render(text)
	}
}

// ItemAt maps a screen cell to an item index, or -1 when the cell is not
// on an item row.
func (m *Menu) ItemAt(x, y int) int {
	if !m.open {
		return -1
	}
	w, h := m.Size()
	if x <= m.position.X || x >= m.position.X+w-1 {
		return -1
	}
	if y <= m.position.Y || y >= m.position.Y+h-1 {
		return -1
	}
	r := m.rows()[y-m.position.Y-1]
	if r.kind != rowItem {
		return -1
	}
	return r.item
}

// Contains reports whether the cell lies inside the menu box.
func (m *Menu) Contains(x, y int) bool {
	if !m.open {
		return false
	}
	w, h := m.Size()
	return x >= m.position.X && x < m.position.X+w &&
		y >= m.position.Y && y < m.position.Y+h
}
