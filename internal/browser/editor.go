package browser

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/utils"
)

var errBinaryFile = errors.New("binary file")

type editorLoadedMsg struct {
	PanelID int64
	Path    string
	Data    []byte
	Err     error
}

type editorSavedMsg struct {
	PanelID int64
	Path    string
	Err     error
}

// editorPanel edits one text file at a time through the same backend the
// file was listed with.
type editorPanel struct {
	id     int64
	env    *Env
	area   textarea.Model
	conn   connection.Connection
	remote bool
	path   string
	saved  string

	loading bool
	saving  bool
	err     error

	rect Rect
}

func newEditorPanel(env *Env) *editorPanel {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "Choose Edit on a file to open it here"
	ta.Blur()

	return &editorPanel{
		id:   nextPanelID.Add(1),
		env:  env,
		area: ta,
		conn: connection.Sentinel(),
	}
}

func (p *editorPanel) Content() Content { return ContentCodeEditor }

func (p *editorPanel) Init() tea.Cmd { return nil }

func (p *editorPanel) Close() {}

func (p *editorPanel) Capturing() bool { return p.area.Focused() }

func (p *editorPanel) SetRect(r Rect, _, _ int) {
	p.rect = r
	p.area.SetWidth(max(r.W-2, 1))
	p.area.SetHeight(max(r.H-4, 1))
}

func (p *editorPanel) dirty() bool {
	return p.path != "" && p.area.Value() != p.saved
}

// Open loads a file. Unsaved edits to another file block the switch.
func (p *editorPanel) Open(msg EditMsg) tea.Cmd {
	if p.dirty() && msg.Path != p.path {
		return status("Unsaved changes in %s: ctrl+s to save or ctrl+w to discard", path.Base(p.path))
	}

	if utils.IsBinaryFile(msg.Path) {
		return statusError(fmt.Errorf("%s: %w", path.Base(msg.Path), errBinaryFile))
	}

	p.conn, p.remote, p.path = msg.Conn, msg.Remote, msg.Path
	p.loading = true
	p.err = nil

	files := p.env.Local
	if msg.Remote {
		files = p.env.Remote
	}
	id, env, conn, name := p.id, p.env, msg.Conn, msg.Path
	return func() tea.Msg {
		ctx, cancel := env.actionContext()
		defer cancel()
		data, err := files.ReadFile(ctx, conn, name)
		if err == nil && utils.LooksBinary(data) {
			err = fmt.Errorf("%s: %w", name, errBinaryFile)
		}
		if err != nil {
			env.log(logger.LevelError, "cannot edit %s: %v", name, err)
		}
		return editorLoadedMsg{PanelID: id, Path: name, Data: data, Err: err}
	}
}

func (p *editorPanel) save() tea.Cmd {
	if p.path == "" || p.saving {
		return nil
	}
	p.saving = true

	files := p.env.Local
	if p.remote {
		files = p.env.Remote
	}
	id, env, conn, name, data := p.id, p.env, p.conn, p.path, []byte(p.area.Value())
	saved := p.area.Value()
	return func() tea.Msg {
		ctx, cancel := env.actionContext()
		defer cancel()
		err := files.WriteFile(ctx, conn, name, data)
		if err != nil {
			env.log(logger.LevelError, "cannot save %s: %v", name, err)
		} else {
			env.log(logger.LevelInfo, "saved %s (%d bytes)", name, len(saved))
		}
		return editorSavedMsg{PanelID: id, Path: name, Err: err}
	}
}

func (p *editorPanel) close() {
	p.path = ""
	p.saved = ""
	p.err = nil
	p.area.Reset()
	p.area.Blur()
}

func (p *editorPanel) HandleMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case editorLoadedMsg:
		if msg.PanelID != p.id {
			return nil, false
		}
		if msg.Path != p.path {
			return nil, true
		}
		p.loading = false
		if msg.Err != nil {
			p.err = msg.Err
			p.path = ""
			return statusError(msg.Err), true
		}
		p.saved = string(msg.Data)
		p.area.SetValue(p.saved)
		for p.area.Line() > 0 {
			p.area.CursorUp()
		}
		p.area.CursorStart()
		return p.area.Focus(), true

	case editorSavedMsg:
		if msg.PanelID != p.id {
			return nil, false
		}
		p.saving = false
		if msg.Err != nil {
			p.err = msg.Err
			return statusError(msg.Err), true
		}
		if msg.Path == p.path {
			p.saved = p.area.Value()
		}
		p.err = nil
		return status("Saved %s", path.Base(msg.Path)), true
	}
	return nil, false
}

func (p *editorPanel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return p.save()
	case "ctrl+w":
		p.close()
		return nil
	case "esc":
		p.area.Blur()
		return nil
	}

	if !p.area.Focused() {
		if p.path != "" && (msg.String() == "enter" || msg.String() == "i") {
			return p.area.Focus()
		}
		return nil
	}

	var cmd tea.Cmd
	p.area, cmd = p.area.Update(msg)
	return cmd
}

func (p *editorPanel) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && p.path != "" {
		return p.area.Focus()
	}
	return nil
}

func (p *editorPanel) View(focused bool) string {
	style := dimTitleStyle
	if focused {
		style = panelTitleStyle
	}

	name := "no file"
	if p.path != "" {
		name = p.path
		if p.remote {
			name = p.conn.Label() + ":" + name
		}
	}
	title := style.Render("📝 Editor") + countStyle.Render(" · "+name)
	if p.dirty() {
		title += modifiedStyle.Render(" [+]")
	}
	if p.loading {
		title += countStyle.Render(" (loading)")
	}

	footer := hintStyle.Render("ctrl+s: save | esc: leave editor | ctrl+w: close")
	if p.err != nil {
		footer = errorLineStyle.Render("⚠ " + p.err.Error())
	}

	lines := []string{title}
	lines = append(lines, strings.Split(p.area.View(), "\n")...)
	for len(lines) < p.rect.H-3 {
		lines = append(lines, "")
	}
	lines = append(lines[:max(p.rect.H-3, 1)], footer)
	return frame(p.rect, lines, focused)
}
