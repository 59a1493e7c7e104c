package browser

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/sitescout/internal/breadcrumb"
	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/logger"
)

const maxScrollback = 2000

var nextPanelID atomic.Int64

var (
	commandEchoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("105")).Bold(true)
	outputErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type consoleOutputMsg struct {
	PanelID int64
	Output  string
	Err     error
}

// consolePanel runs one command at a time in the browser's directory,
// either over SSH or on the local machine.
type consolePanel struct {
	id      int64
	content Content
	env     *Env
	files   Files
	conn    connection.Connection
	dir     string

	input   textinput.Model
	view    viewport.Model
	lines   []string
	history []string
	histPos int
	running bool

	rect Rect
}

func newConsolePanel(c Content, env *Env) *consolePanel {
	in := textinput.New()
	in.Prompt = "$ "
	in.Placeholder = "command"
	in.CharLimit = 4096

	p := &consolePanel{
		id:      nextPanelID.Add(1),
		content: c,
		env:     env,
		files:   env.files(c),
		conn:    connection.Sentinel(),
		input:   in,
		view:    viewport.New(0, 0),
	}
	if c == ContentLocalTerminal {
		p.dir = homeDir()
	}
	return p
}

func (p *consolePanel) Content() Content { return p.content }

func (p *consolePanel) Init() tea.Cmd { return nil }

func (p *consolePanel) Close() {}

func (p *consolePanel) Capturing() bool { return false }

func (p *consolePanel) SetRect(r Rect, _, _ int) {
	p.rect = r
	p.view.Width = max(r.W-2, 0)
	p.view.Height = max(r.H-4, 0)
	p.input.Width = max(r.W-2-lipgloss.Width(p.input.Prompt)-1, 1)
	p.refresh()
}

// SetConnection switches the host commands run on.
func (p *consolePanel) SetConnection(conn connection.Connection) {
	p.conn = conn
}

// SetPath follows the browser's directory. A local console keeps its
// directory when the path does not exist on this machine.
func (p *consolePanel) SetPath(path string) {
	if p.content == ContentLocalTerminal && !dirExists(path) {
		return
	}
	p.dir = path
}

func (p *consolePanel) focus() tea.Cmd {
	return p.input.Focus()
}

func (p *consolePanel) append(lines ...string) {
	p.lines = append(p.lines, lines...)
	if over := len(p.lines) - maxScrollback; over > 0 {
		p.lines = p.lines[over:]
	}
	p.refresh()
}

func (p *consolePanel) refresh() {
	p.view.SetContent(strings.Join(p.lines, "\n"))
	p.view.GotoBottom()
}

func (p *consolePanel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if !p.input.Focused() {
		cmd := p.input.Focus()
		if msg.String() == "enter" {
			return cmd
		}
	}

	switch msg.String() {
	case "enter":
		line := strings.TrimSpace(p.input.Value())
		p.input.SetValue("")
		if line == "" {
			return nil
		}
		p.history = append(p.history, line)
		p.histPos = len(p.history)
		return p.execute(line)

	case "up":
		if p.histPos > 0 {
			p.histPos--
			p.input.SetValue(p.history[p.histPos])
			p.input.CursorEnd()
		}
		return nil

	case "down":
		if p.histPos < len(p.history)-1 {
			p.histPos++
			p.input.SetValue(p.history[p.histPos])
		} else {
			p.histPos = len(p.history)
			p.input.SetValue("")
		}
		p.input.CursorEnd()
		return nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		p.view, cmd = p.view.Update(msg)
		return cmd

	case "ctrl+l":
		p.lines = nil
		p.refresh()
		return nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *consolePanel) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return p.focus()
	}
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return cmd
}

// execute handles cd and clear itself and sends everything else to the
// backend.
func (p *consolePanel) execute(line string) tea.Cmd {
	p.append(commandEchoStyle.Render(p.promptLabel() + line))

	switch {
	case line == "clear":
		p.lines = nil
		p.refresh()
		return nil
	case line == "cd" || strings.HasPrefix(line, "cd "):
		target := strings.TrimSpace(strings.TrimPrefix(line, "cd"))
		switch {
		case target == "" || target == "~":
			target = "~"
			if p.content == ContentLocalTerminal {
				target = homeDir()
			}
		case target == "..":
			target = breadcrumb.Parent(p.dir)
		case !strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "~"):
			target = breadcrumb.Child(p.dir, target)
		}
		p.dir = target
		return nil
	}

	if p.content.IsRemote() && p.conn.IsSentinel() {
		p.append(outputErrorStyle.Render(errNoConnection.Error()))
		return nil
	}
	if p.running {
		p.append(outputErrorStyle.Render("a command is still running"))
		return nil
	}

	p.running = true
	id, files, conn, dir, env := p.id, p.files, p.conn, p.dir, p.env
	return func() tea.Msg {
		ctx, cancel := env.actionContext()
		defer cancel()
		env.log(logger.LevelDebug, "console %d: %s (in %s)", id, line, dir)
		out, err := files.Run(ctx, conn, dir, line)
		return consoleOutputMsg{PanelID: id, Output: out, Err: err}
	}
}

func (p *consolePanel) promptLabel() string {
	host := "local"
	if p.content.IsRemote() {
		host = p.conn.Label()
	}
	return fmt.Sprintf("%s:%s$ ", host, p.dir)
}

func (p *consolePanel) HandleMsg(msg tea.Msg) (tea.Cmd, bool) {
	out, ok := msg.(consoleOutputMsg)
	if !ok || out.PanelID != p.id {
		return nil, false
	}
	p.running = false
	if text := strings.TrimRight(out.Output, "\n"); text != "" {
		p.append(strings.Split(text, "\n")...)
	}
	if out.Err != nil {
		p.append(outputErrorStyle.Render(out.Err.Error()))
	}
	return nil, true
}

func (p *consolePanel) View(focused bool) string {
	style := dimTitleStyle
	if focused {
		style = panelTitleStyle
	}
	title := style.Render("🖥️ "+p.content.Title()) + countStyle.Render(" · "+p.promptLabel())
	if p.running {
		title += countStyle.Render(" (running)")
	}

	lines := []string{title}
	lines = append(lines, strings.Split(p.view.View(), "\n")...)
	for len(lines) < p.rect.H-3 {
		lines = append(lines, "")
	}
	lines = append(lines[:max(p.rect.H-3, 1)], p.input.View())
	return frame(p.rect, lines, focused)
}
