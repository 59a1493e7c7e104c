package browser

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/sitescout/internal/breadcrumb"
	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/contextmenu"
	"github.com/LFroesch/sitescout/internal/datasource"
	"github.com/LFroesch/sitescout/internal/git"
	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/modkeys"
	"github.com/LFroesch/sitescout/internal/search"
	"github.com/LFroesch/sitescout/internal/selection"
	"github.com/LFroesch/sitescout/internal/sorting"
	"github.com/LFroesch/sitescout/internal/watch"
)

const defaultDoubleClick = 400 * time.Millisecond

type panelMode int

const (
	modeNormal panelMode = iota
	modeFilter
	modePrompt
	modeConfirmDelete
)

type gitStatusMsg struct {
	PanelID int64
	Dir     string
	Status  git.Status
}

// fsPanel is a directory table with breadcrumb, selection and context menu.
type fsPanel struct {
	content Content
	env     *Env
	files   Files
	source  *datasource.Source
	sel     *selection.Model
	menu    *contextmenu.Menu
	trail   *breadcrumb.Trail
	watcher *watch.Watcher
	git     git.Status
	spinner spinner.Model
	spin    bool

	rect             Rect
	screenW, screenH int

	rows   []search.Match
	cursor int
	scroll int

	mode    panelMode
	filter  textinput.Model
	prompt  textinput.Model
	pending contextmenu.Action
	targets []listing.Entry

	lastClickTime        time.Time
	lastClickRow         int
	doubleClickThreshold time.Duration
}

func newFSPanel(c Content, env *Env) *fsPanel {
	src := datasource.New(env.files(c), env.Log)
	src.SetShowHidden(env.ShowHidden)
	if env.LoadTimeout > 0 {
		src.SetTimeout(env.LoadTimeout)
	}

	menu := contextmenu.New(contextmenu.DefaultItems())
	if env.MenuDelay > 0 {
		menu.SetCloseDelay(env.MenuDelay)
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"
	filter.CharLimit = 256

	prompt := textinput.New()
	prompt.CharLimit = 4096
	prompt.ShowSuggestions = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	threshold := env.DoubleClick
	if threshold <= 0 {
		threshold = defaultDoubleClick
	}

	p := &fsPanel{
		content:              c,
		env:                  env,
		files:                env.files(c),
		source:               src,
		sel:                  selection.New(),
		menu:                 menu,
		trail:                breadcrumb.New("", nil),
		spinner:              sp,
		filter:               filter,
		prompt:               prompt,
		doubleClickThreshold: threshold,
		lastClickRow:         -1,
	}

	if c == ContentLocalFilesystem && env.Watch {
		w, err := watch.New(env.Log)
		if err != nil {
			env.log(logger.LevelWarn, "local panel will not auto-reload: %v", err)
		} else {
			p.watcher = w
		}
	}
	return p
}

func (p *fsPanel) Content() Content { return p.content }

func (p *fsPanel) id() int64 { return p.source.ID() }

func (p *fsPanel) Init() tea.Cmd {
	if p.watcher != nil {
		return p.watcher.Next()
	}
	return nil
}

func (p *fsPanel) SetRect(r Rect, screenW, screenH int) {
	p.rect = r
	p.screenW, p.screenH = screenW, screenH
	p.ensureVisible()
}

func (p *fsPanel) Close() {
	if p.watcher != nil {
		p.watcher.Close()
	}
}

func (p *fsPanel) Capturing() bool {
	return p.mode != modeNormal || p.menu.IsOpen()
}

// Load moves the panel to (conn, path). Selection and any open menu are
// dropped.
func (p *fsPanel) Load(conn connection.Connection, path string) tea.Cmd {
	changed := p.source.Target() != datasource.Target{ConnID: conn.ID, Path: path}
	p.sel.ClearAll()
	closeCmd := p.menu.Close()
	p.trail.SetPath(path)
	if changed {
		// pending prompts and rows still name the old directory
		p.endPrompt()
		p.rows = nil
		p.cursor, p.scroll = 0, 0
		p.git = git.Status{}
	}

	cmds := []tea.Cmd{closeCmd, p.source.Load(conn, path), p.startSpinner()}
	if p.content == ContentLocalFilesystem {
		if p.watcher != nil {
			if err := p.watcher.Watch(filepath.FromSlash(path)); err != nil {
				p.env.log(logger.LevelDebug, "not watching %s: %v", path, err)
			}
		}
		cmds = append(cmds, p.readGit(path))
	}
	return tea.Batch(cmds...)
}

// Reload lists the current target again.
func (p *fsPanel) Reload() tea.Cmd {
	return p.Load(p.source.Connection(), p.source.Path())
}

func (p *fsPanel) startSpinner() tea.Cmd {
	if p.spin {
		return nil
	}
	p.spin = true
	return p.spinner.Tick
}

func (p *fsPanel) readGit(dir string) tea.Cmd {
	id := p.id()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return gitStatusMsg{PanelID: id, Dir: dir, Status: git.Read(ctx, filepath.FromSlash(dir))}
	}
}

func (p *fsPanel) HandleMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case datasource.LoadedMsg:
		if msg.SourceID != p.id() {
			return nil, false
		}
		if p.source.Apply(msg) {
			p.sel.Prune(p.source.Order())
			p.refreshRows()
		}
		return nil, true

	case contextmenu.ResetMsg:
		if msg.MenuID != p.menu.ID() {
			return nil, false
		}
		p.menu.HandleReset(msg)
		return nil, true

	case spinner.TickMsg:
		if msg.ID != p.spinner.ID() {
			return nil, false
		}
		if !p.source.IsLoading() {
			p.spin = false
			return nil, true
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, true

	case watch.ChangedMsg:
		if p.watcher == nil || msg.WatcherID != p.watcher.ID() {
			return nil, false
		}
		p.env.log(logger.LevelDebug, "%s changed on disk, reloading", msg.Dir)
		return tea.Batch(p.Reload(), p.watcher.Next()), true

	case gitStatusMsg:
		if msg.PanelID != p.id() {
			return nil, false
		}
		if msg.Dir == p.source.Path() {
			p.git = msg.Status
		}
		return nil, true
	}
	return nil, false
}

// refreshRows recomputes the visible rows from the listing and the filter.
func (p *fsPanel) refreshRows() {
	p.rows = search.Filter(p.filter.Value(), p.source.Entries(), search.Fuzzy)
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.ensureVisible()
}

// displayOrder is the path order the user currently sees.
func (p *fsPanel) displayOrder() []string {
	order := make([]string, len(p.rows))
	for i, r := range p.rows {
		order[i] = r.Entry.Path
	}
	return order
}

func (p *fsPanel) cursorEntry() (listing.Entry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return listing.Entry{}, false
	}
	return p.rows[p.cursor].Entry, true
}

// selectedEntries is what item actions apply to: the selection, or the
// cursor row when nothing is selected.
func (p *fsPanel) selectedEntries() []listing.Entry {
	paths := p.sel.Selected(p.displayOrder())
	if len(paths) == 0 {
		if e, ok := p.cursorEntry(); ok {
			return []listing.Entry{e}
		}
		return nil
	}
	out := make([]listing.Entry, 0, len(paths))
	for _, path := range paths {
		if e, ok := p.source.Find(path); ok {
			out = append(out, e)
		}
	}
	return out
}

// fullPath is where e lives. Listings carry absolute paths, so this holds
// even after the panel has moved on.
func (p *fsPanel) fullPath(e listing.Entry) string {
	if e.Path != "" {
		return e.Path
	}
	return breadcrumb.Child(p.source.Path(), e.Filename)
}

func (p *fsPanel) moveCursor(delta int) {
	if len(p.rows) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	p.ensureVisible()
}

func (p *fsPanel) sortBy(col sorting.Column) {
	p.source.Sort(p.source.Descriptor().Next(col))
	p.refreshRows()
}

// open enters a directory or hands a file to the opener.
func (p *fsPanel) open(e listing.Entry) tea.Cmd {
	if e.IsDir {
		return navigate(p.fullPath(e))
	}
	return p.openFile(e)
}

func (p *fsPanel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.mode {
	case modePrompt:
		return p.handlePromptKey(msg)
	case modeConfirmDelete:
		return p.handleConfirmKey(msg)
	case modeFilter:
		return p.handleFilterKey(msg)
	}

	if p.menu.IsOpen() {
		return p.handleMenuKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		p.moveCursor(-1)
	case "down", "j":
		p.moveCursor(1)
	case "pgup":
		p.moveCursor(-p.listHeight())
	case "pgdown":
		p.moveCursor(p.listHeight())
	case "home":
		p.moveCursor(-len(p.rows))
	case "end":
		p.moveCursor(len(p.rows))

	case "shift+up", "shift+down":
		if msg.String() == "shift+up" {
			p.moveCursor(-1)
		} else {
			p.moveCursor(1)
		}
		if e, ok := p.cursorEntry(); ok {
			p.sel.Click(e.Path, modkeys.Set{Shift: true}, p.displayOrder(), p.menu.IsOpen())
		}

	case " ":
		if e, ok := p.cursorEntry(); ok {
			p.sel.Click(e.Path, modkeys.Set{Control: true}, p.displayOrder(), p.menu.IsOpen())
		}

	case "esc":
		p.sel.ClearAll()

	case "enter", "right", "l":
		if e, ok := p.cursorEntry(); ok {
			return p.open(e)
		}

	case "backspace", "left", "h":
		return navigate(breadcrumb.Parent(p.source.Path()))

	case "/":
		p.mode = modeFilter
		return p.filter.Focus()

	case "s":
		cols := sorting.Columns()
		cur := p.source.Descriptor().Column
		next := cols[0]
		for i, c := range cols {
			if c == cur {
				next = cols[(i+1)%len(cols)]
			}
		}
		p.source.Sort(sorting.Descriptor{Column: next, Direction: sorting.Ascending})
		p.refreshRows()

	case "S":
		p.sortBy(p.source.Descriptor().Column)

	case ".":
		p.source.SetShowHidden(!p.source.ShowHidden())
		return p.Reload()

	case "ctrl+r", "f5":
		return p.Reload()

	case "x":
		return p.openMenuAtCursor()

	default:
		if a, ok := p.shortcut(msg.String()); ok {
			return p.runAction(a)
		}
	}
	return nil
}

func (p *fsPanel) shortcut(key string) (contextmenu.Action, bool) {
	for _, it := range p.menu.Items() {
		if it.Shortcut != "" && it.Shortcut == key {
			return it.Action, true
		}
	}
	return "", false
}

func (p *fsPanel) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		p.menu.MoveCursor(-1)
	case "down", "j":
		p.menu.MoveCursor(1)
	case "enter":
		if it, ok := p.menu.Current(); ok {
			return p.runAction(it.Action)
		}
	case "esc", "x", "q":
		return p.menu.Close()
	default:
		if a, ok := p.shortcut(msg.String()); ok {
			return p.runAction(a)
		}
	}
	return nil
}

func (p *fsPanel) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.filter.SetValue("")
		p.filter.Blur()
		p.mode = modeNormal
		p.refreshRows()
		return nil
	case "enter":
		p.filter.Blur()
		p.mode = modeNormal
		return nil
	case "up":
		p.moveCursor(-1)
		return nil
	case "down":
		p.moveCursor(1)
		return nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.cursor = 0
	p.scroll = 0
	p.refreshRows()
	return cmd
}

// openMenuAtCursor opens the context menu from the keyboard, anchored to
// the cursor row.
func (p *fsPanel) openMenuAtCursor() tea.Cmd {
	x := p.rect.X + p.rect.W/2
	y := p.rowY(p.cursor)
	target := ""
	if e, ok := p.cursorEntry(); ok {
		if !p.sel.IsSelected(e.Path) {
			p.sel.Click(e.Path, modkeys.Set{}, p.displayOrder(), false)
		}
		target = e.Path
	}
	p.openMenu(x, y, target)
	return nil
}

func (p *fsPanel) openMenu(x, y int, target string) {
	w, h := p.menu.Size()
	p.menu.Open(x, y, p.screenW, p.screenH, w, h)
	p.menu.SetTarget(target)
}

func (p *fsPanel) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if p.menu.IsOpen() {
		if cmd, done := p.handleMenuMouse(msg); done {
			return cmd
		}
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.moveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		p.moveCursor(1)
		return nil
	case tea.MouseButtonLeft:
		return p.leftClick(msg)
	case tea.MouseButtonRight:
		return p.rightClick(msg)
	}
	return nil
}

// handleMenuMouse gives the open menu first look at a mouse event.
func (p *fsPanel) handleMenuMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	inside := p.menu.Contains(msg.X, msg.Y)

	if msg.Action == tea.MouseActionMotion {
		if i := p.menu.ItemAt(msg.X, msg.Y); i >= 0 {
			p.menu.SetCursor(i)
		}
		return nil, true
	}
	if msg.Action != tea.MouseActionPress {
		return nil, true
	}

	switch {
	case inside && msg.Button == tea.MouseButtonLeft:
		if i := p.menu.ItemAt(msg.X, msg.Y); i >= 0 {
			p.menu.SetCursor(i)
			return p.runAction(p.menu.Items()[i].Action), true
		}
		return nil, true
	case inside:
		return nil, true
	case msg.Button == tea.MouseButtonRight && p.rect.Contains(msg.X, msg.Y):
		// reopen at the new row
		return nil, false
	}

	// A click outside closes the menu and is not a selection click.
	if idx := p.rowAt(msg.X, msg.Y); idx >= 0 {
		p.sel.Click(p.rows[idx].Entry.Path, p.env.Tracker.Pressed(), p.displayOrder(), true)
	}
	return p.menu.Close(), true
}

func (p *fsPanel) leftClick(msg tea.MouseMsg) tea.Cmd {
	innerX, innerY := p.rect.X+1, p.rect.Y+1

	switch {
	case msg.Y == innerY+1:
		if seg := p.trail.HitTest(msg.X - innerX); seg >= 0 {
			return navigate(p.trail.Activate(seg))
		}
		return nil

	case msg.Y == innerY+2:
		for _, c := range p.columns() {
			if msg.X-innerX >= c.x && msg.X-innerX < c.x+c.w {
				p.sortBy(c.col)
				break
			}
		}
		return nil
	}

	idx := p.rowAt(msg.X, msg.Y)
	if idx < 0 {
		return nil
	}
	p.env.Tracker.Observe(msg.Ctrl, msg.Shift, msg.Alt)
	mods := p.env.Tracker.Pressed()
	entry := p.rows[idx].Entry

	now := time.Now()
	isDoubleClick := !p.lastClickTime.IsZero() &&
		now.Sub(p.lastClickTime) <= p.doubleClickThreshold &&
		p.lastClickRow == idx &&
		p.cursor == idx &&
		mods.Empty()

	p.cursor = idx
	p.ensureVisible()

	if isDoubleClick {
		p.lastClickTime = time.Time{}
		return p.open(entry)
	}

	p.lastClickTime = now
	p.lastClickRow = idx
	p.sel.Click(entry.Path, mods, p.displayOrder(), p.menu.IsOpen())
	return nil
}

func (p *fsPanel) rightClick(msg tea.MouseMsg) tea.Cmd {
	p.env.Tracker.Observe(msg.Ctrl, msg.Shift, msg.Alt)

	target := ""
	if idx := p.rowAt(msg.X, msg.Y); idx >= 0 {
		entry := p.rows[idx].Entry
		if !p.sel.IsSelected(entry.Path) {
			p.sel.Click(entry.Path, modkeys.Set{}, p.displayOrder(), false)
		}
		p.cursor = idx
		target = entry.Path
	}
	p.openMenu(msg.X, msg.Y, target)
	return nil
}

// Geometry inside the border: title, breadcrumb, column header, rows,
// footer.

func (p *fsPanel) listTop() int { return p.rect.Y + 4 }

func (p *fsPanel) listHeight() int {
	h := p.rect.H - 2 - 4
	if h < 1 {
		h = 1
	}
	return h
}

// window is the slice of rows on screen and whether scroll markers take
// the first or last line.
func (p *fsPanel) window() (start, end int, above, below bool) {
	h := p.listHeight()
	n := len(p.rows)
	start = p.scroll
	above = start > 0
	avail := h
	if above {
		avail--
	}
	if start+avail < n {
		below = true
		avail--
	}
	if avail < 1 {
		avail = 1
	}
	end = start + avail
	if end > n {
		end = n
	}
	return start, end, above, below
}

func (p *fsPanel) ensureVisible() {
	n := len(p.rows)
	if n == 0 {
		p.scroll = 0
		return
	}
	if p.scroll > p.cursor {
		p.scroll = p.cursor
	}
	if p.scroll >= n {
		p.scroll = n - 1
	}
	for {
		_, end, _, _ := p.window()
		if p.cursor < end || p.scroll >= p.cursor {
			return
		}
		p.scroll++
	}
}

// rowAt maps a screen cell to a row index, or -1.
func (p *fsPanel) rowAt(x, y int) int {
	if x <= p.rect.X || x >= p.rect.X+p.rect.W-1 {
		return -1
	}
	line := y - p.listTop()
	if line < 0 || line >= p.listHeight() {
		return -1
	}
	start, end, above, _ := p.window()
	if above {
		if line == 0 {
			return -1
		}
		line--
	}
	idx := start + line
	if idx >= end {
		return -1
	}
	return idx
}

// rowY is the screen line of row idx, clamped to the list area.
func (p *fsPanel) rowY(idx int) int {
	start, _, above, _ := p.window()
	y := p.listTop() + idx - start
	if above {
		y++
	}
	if y < p.listTop() {
		y = p.listTop()
	}
	return y
}
