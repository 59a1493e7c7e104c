package browser

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/modkeys"
	"github.com/LFroesch/sitescout/internal/sorting"
)

// View is the four-quadrant browser. Filesystem quadrants share one
// connection and one path.
type View struct {
	env       *Env
	mapping   Mapping
	panels    [4]panel
	collapsed [4]bool
	rects     [4]Rect
	focus     Quadrant

	conn connection.Connection
	path string

	area             Rect
	screenW, screenH int

	// OnPathChange is called after the shared path changes.
	OnPathChange func(path string)
}

// New builds the panels for m. Hidden quadrants and ContentNone stay empty.
func New(env *Env, m Mapping) *View {
	if env.Tracker == nil {
		env.Tracker = modkeys.New()
	}
	v := &View{env: env, mapping: m, conn: connection.Sentinel(), focus: -1}

	for _, q := range Quadrants {
		if !m[q].Shown() {
			continue
		}
		switch c := m[q].Content; {
		case c.IsFilesystem():
			v.panels[q] = newFSPanel(c, env)
		case c == ContentRemoteTerminal || c == ContentLocalTerminal:
			v.panels[q] = newConsolePanel(c, env)
		case c == ContentCodeEditor:
			v.panels[q] = newEditorPanel(env)
		}
	}
	v.focusNext(1)
	return v
}

func (v *View) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range v.panels {
		if p != nil {
			cmds = append(cmds, p.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Close stops background watchers.
func (v *View) Close() {
	for _, p := range v.panels {
		if p != nil {
			p.Close()
		}
	}
}

// Connection is the active connection.
func (v *View) Connection() connection.Connection { return v.conn }

// Path is the shared filesystem path.
func (v *View) Path() string { return v.path }

// Focus is the quadrant receiving keys, -1 when none is shown.
func (v *View) Focus() Quadrant { return v.focus }

// Mapping is the quadrant configuration.
func (v *View) Mapping() Mapping { return v.mapping }

// Collapsed reports whether q is collapsed.
func (v *View) Collapsed(q Quadrant) bool { return v.collapsed[q] }

// ToggleCollapse folds or unfolds q. Only the layout changes; the panel
// keeps its data, selection and scroll position.
func (v *View) ToggleCollapse(q Quadrant) {
	if !v.mapping[q].Shown() {
		return
	}
	v.collapsed[q] = !v.collapsed[q]
	v.relayout()
}

// Capturing reports whether the focused panel is editing text.
func (v *View) Capturing() bool {
	p := v.focused()
	return p != nil && p.Capturing()
}

// Typing reports whether plain letters go to a text field.
func (v *View) Typing() bool {
	p := v.focused()
	if p == nil {
		return false
	}
	if _, ok := p.(*consolePanel); ok {
		return true
	}
	return p.Capturing()
}

func (v *View) focused() panel {
	if v.focus < 0 {
		return nil
	}
	return v.panels[v.focus]
}

// focusNext moves focus by dir through the shown, expanded quadrants.
func (v *View) focusNext(dir int) tea.Cmd {
	order := Quadrants[:]
	start := -1
	for i, q := range order {
		if q == v.focus {
			start = i
		}
	}
	for step := 1; step <= len(order); step++ {
		i := ((start+dir*step)%len(order) + len(order)) % len(order)
		q := order[i]
		if v.panels[q] != nil && v.mapping[q].Shown() && !v.collapsed[q] {
			return v.setFocus(q)
		}
	}
	if v.focus >= 0 && (v.panels[v.focus] == nil || !v.mapping[v.focus].Shown()) {
		v.focus = -1
	}
	return nil
}

func (v *View) setFocus(q Quadrant) tea.Cmd {
	if q == v.focus {
		return nil
	}
	var cmd tea.Cmd
	if fs, ok := v.focused().(*fsPanel); ok {
		cmd = fs.menu.Close()
	}
	v.focus = q
	if c, ok := v.panels[q].(*consolePanel); ok {
		return tea.Batch(cmd, c.focus())
	}
	return cmd
}

// SetSize places the browser in area of a screenW x screenH terminal.
func (v *View) SetSize(area Rect, screenW, screenH int) {
	v.area = area
	v.screenW, v.screenH = screenW, screenH
	v.relayout()
}

func (v *View) relayout() {
	v.rects = Layout(v.mapping, v.collapsed, v.area)
	for q, p := range v.panels {
		if p != nil && !v.collapsed[q] {
			p.SetRect(v.rects[q], v.screenW, v.screenH)
		}
	}
}

func (v *View) filesystems() []*fsPanel {
	var out []*fsPanel
	for _, p := range v.panels {
		if fs, ok := p.(*fsPanel); ok {
			out = append(out, fs)
		}
	}
	return out
}

func (v *View) consoles() []*consolePanel {
	var out []*consolePanel
	for _, p := range v.panels {
		if c, ok := p.(*consolePanel); ok {
			out = append(out, c)
		}
	}
	return out
}

func (v *View) editor() *editorPanel {
	for _, q := range Quadrants {
		if e, ok := v.panels[q].(*editorPanel); ok {
			return e
		}
	}
	return nil
}

// SetConnection switches every panel to conn and opens its start path.
func (v *View) SetConnection(conn connection.Connection) tea.Cmd {
	path := conn.RemotePath
	if path == "" {
		path = "/"
	}
	return v.SetConnectionAt(conn, path)
}

// SetConnectionAt switches every panel to conn at path.
func (v *View) SetConnectionAt(conn connection.Connection, path string) tea.Cmd {
	v.env.log(logger.LevelInfo, "browsing %s at %s", conn.Label(), path)
	v.conn = conn
	for _, c := range v.consoles() {
		c.SetConnection(conn)
	}
	return v.SetPath(path)
}

// SetPath moves every filesystem panel to path. Each panel drops its
// selection and reloads, even when the path is unchanged.
func (v *View) SetPath(path string) tea.Cmd {
	if path == "" {
		path = "/"
	}
	v.path = path

	var cmds []tea.Cmd
	for _, fs := range v.filesystems() {
		cmds = append(cmds, fs.Load(v.conn, path))
	}
	for _, c := range v.consoles() {
		c.SetPath(path)
	}
	if v.OnPathChange != nil {
		v.OnPathChange(path)
	}
	return tea.Batch(cmds...)
}

// SetSort reorders every filesystem panel by d.
func (v *View) SetSort(d sorting.Descriptor) {
	for _, fs := range v.filesystems() {
		fs.source.Sort(d)
		fs.refreshRows()
	}
}

// Reload lists every filesystem panel again.
func (v *View) Reload() tea.Cmd {
	var cmds []tea.Cmd
	for _, fs := range v.filesystems() {
		cmds = append(cmds, fs.Reload())
	}
	return tea.Batch(cmds...)
}

// menuOwner is the panel whose context menu is open, if any.
func (v *View) menuOwner() *fsPanel {
	for _, fs := range v.filesystems() {
		if fs.menu.IsOpen() {
			return fs
		}
	}
	return nil
}

// Update routes a message. Messages that belong to no panel are ignored.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)

	case tea.BlurMsg:
		v.env.Tracker.Blur()
		var cmds []tea.Cmd
		for _, fs := range v.filesystems() {
			cmds = append(cmds, fs.menu.Blur())
		}
		return tea.Batch(cmds...)

	case NavigateMsg:
		return v.SetPath(msg.Path)

	case actionDoneMsg:
		var cmd tea.Cmd
		if msg.Err != nil {
			cmd = statusError(msg.Err)
		} else {
			cmd = status("%s", msg.Text)
		}
		if msg.Reload {
			return tea.Batch(cmd, v.Reload())
		}
		return cmd

	case EditMsg:
		ed := v.editor()
		if ed == nil {
			return status("No editor panel: set one of the panels to code_editor")
		}
		for _, q := range Quadrants {
			if v.panels[q] == ed {
				v.collapsed[q] = false
				v.relayout()
				return tea.Batch(v.setFocus(q), ed.Open(msg))
			}
		}
	}

	for _, p := range v.panels {
		if p == nil {
			continue
		}
		if cmd, ok := p.HandleMsg(msg); ok {
			return cmd
		}
	}
	return nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	p := v.focused()
	if p != nil && p.Capturing() {
		return p.HandleKey(msg)
	}

	switch msg.String() {
	case "tab":
		return v.focusNext(1)
	case "shift+tab":
		return v.focusNext(-1)
	case "alt+1", "alt+2", "alt+3", "alt+4":
		q := Quadrants[msg.String()[4]-'1']
		v.ToggleCollapse(q)
		if v.focus == q && v.collapsed[q] {
			return v.focusNext(1)
		}
		return nil
	}

	if p != nil {
		return p.HandleKey(msg)
	}
	return nil
}

func (v *View) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// An open menu sees every mouse event first and closes on a click
	// elsewhere.
	if owner := v.menuOwner(); owner != nil {
		if owner.rect.Contains(msg.X, msg.Y) || owner.menu.Contains(msg.X, msg.Y) || msg.Action == tea.MouseActionPress {
			return owner.HandleMouse(msg)
		}
		return nil
	}

	if msg.Action == tea.MouseActionMotion {
		return nil
	}

	for _, q := range Quadrants {
		r := v.rects[q]
		if v.panels[q] == nil || !r.Contains(msg.X, msg.Y) {
			continue
		}
		if v.collapsed[q] {
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
				v.ToggleCollapse(q)
				return v.setFocus(q)
			}
			return nil
		}
		var cmd tea.Cmd
		if msg.Action == tea.MouseActionPress && msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
			cmd = v.setFocus(q)
		}
		return tea.Batch(cmd, v.panels[q].HandleMouse(msg))
	}
	return nil
}

// Render draws the quadrants. The context menu is drawn by OverlayMenu.
func (v *View) Render() string {
	render := func(q Quadrant) string {
		r := v.rects[q]
		if v.panels[q] == nil || r.Empty() {
			return ""
		}
		if v.collapsed[q] {
			return collapsedView(r, v.mapping[q].Content, q == v.focus)
		}
		return v.panels[q].View(q == v.focus)
	}

	var rows []string
	if s := render(Top); s != "" {
		rows = append(rows, s)
	}
	if mid := lipgloss.JoinHorizontal(lipgloss.Top, render(Left), render(Right)); strings.TrimSpace(mid) != "" {
		rows = append(rows, mid)
	}
	if s := render(Bottom); s != "" {
		rows = append(rows, s)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// OverlayMenu draws the open context menu, if any, onto a full-screen
// frame whose top-left cell is (0, 0).
func (v *View) OverlayMenu(screen string) string {
	owner := v.menuOwner()
	if owner == nil {
		return screen
	}
	pos := owner.menu.Position()
	return overlay(screen, owner.menu.Render(len(owner.selectedEntries()) > 0), pos.X, pos.Y)
}
