package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/sitescout/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("240")).
			Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("124")).
				Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	selectedStyle    = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230"))
	defaultMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dangerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	switch m.mode {
	case modeConnections:
		body = m.center(m.renderPicker())
	case modeConfirmConnectionDelete:
		body = m.center(m.renderConfirmDelete())
	case modeConnectionForm:
		body = m.center(m.form.view())
	case modeHelp:
		body = m.center(m.renderHelp())
	default:
		body = m.browser.Render()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
	if m.mode == modeBrowse {
		screen = m.browser.OverlayMenu(screen)
	}
	return screen
}

// center places a dialog in the area between header and status bar.
func (m *model) center(s string) string {
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, s)
}

func (m *model) renderHeader() string {
	conn := m.browser.Connection()
	title := "🌐 sitescout"
	if !conn.IsSentinel() {
		title += fmt.Sprintf(" - %s (%s)", conn.Label(), conn.Address())
	}
	path := m.browser.Path()

	pad := m.width - 2 - lipgloss.Width(title) - lipgloss.Width(path)
	if pad < 1 {
		return headerStyle.Width(m.width).Render(title)
	}
	return headerStyle.Width(m.width).Render(title + strings.Repeat(" ", pad) + path)
}

func (m *model) renderStatusBar() string {
	style := statusStyle
	left := m.statusMsg
	if m.statusMsg != "" && m.statusError {
		style = statusErrorStyle
	}
	if left == "" {
		left = fmt.Sprintf("focus: %s", m.browser.Focus())
	}

	var right string
	switch m.mode {
	case modeConnections:
		right = "enter: connect | n: new | e: edit | *: default | d: delete | esc: back"
	case modeConnectionForm, modeConfirmConnectionDelete:
		right = ""
	default:
		right = "tab: focus | alt+1-4: collapse | ctrl+o: connections | ?: help | q: quit"
	}

	pad := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		return style.Width(m.width).Render(left)
	}
	return style.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}

func (m *model) renderPicker() string {
	list := m.store.List()
	lines := []string{dialogTitleStyle.Render("Connections"), ""}
	if len(list) == 0 {
		lines = append(lines, hintStyle.Render("No saved connections. Press n to add one."))
	}

	active := m.browser.Connection()
	for i, c := range list {
		mark := "  "
		if c.Default {
			mark = defaultMarkStyle.Render("★ ")
		}
		line := fmt.Sprintf("%-20s %s@%s", c.Label(), c.Username, c.Address())
		if c.RemotePath != "" {
			line += "  " + c.RemotePath
		}
		switch {
		case c.ID == active.ID:
			line += "  (open)"
		case m.pool.Connected(c.ID):
			line += "  (connected)"
		}
		if !c.LastConnectedAt.IsZero() {
			line += hintStyle.Render("  last used " + utils.FormatModified(c.LastConnectedAt.Unix()))
		}
		if i == m.pickerCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, mark+line)
	}
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) renderConfirmDelete() string {
	c, ok := m.selectedConnection()
	if !ok {
		return ""
	}
	lines := []string{
		dangerStyle.Render("Delete connection?"),
		"",
		fmt.Sprintf("%s (%s@%s)", c.Label(), c.Username, c.Address()),
		"",
		hintStyle.Render("y: delete | n: cancel"),
	}
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"Panels", [][2]string{
		{"tab / shift+tab", "move focus between panels"},
		{"alt+1..4", "collapse top, left, right, bottom"},
		{"ctrl+o / C", "connections"},
		{"q / ctrl+c", "quit"},
	}},
	{"Files", [][2]string{
		{"↑↓ / j k", "move"},
		{"enter / →", "open folder or file"},
		{"backspace / ←", "parent folder"},
		{"click / ctrl+click / shift+click", "select / toggle / range"},
		{"space / shift+↑↓", "toggle / extend selection"},
		{"right-click / x", "context menu"},
		{"/", "filter"},
		{"s / S", "sort column / direction"},
		{".", "hidden files"},
		{"ctrl+r", "reload"},
	}},
	{"Console and editor", [][2]string{
		{"enter", "run command"},
		{"↑↓", "history"},
		{"ctrl+s", "save file"},
		{"esc", "leave the editor"},
	}},
}

func (m *model) renderHelp() string {
	lines := []string{dialogTitleStyle.Render("Keys"), ""}
	for i, s := range helpSections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, defaultMarkStyle.Render(s.title))
		for _, k := range s.keys {
			lines = append(lines, fmt.Sprintf("  %-34s %s", k[0], k[1]))
		}
	}
	lines = append(lines, "", hintStyle.Render("press any key to close"))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}
