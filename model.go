package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/browser"
	"github.com/LFroesch/sitescout/internal/config"
	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/fileops"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/remote"
	"github.com/LFroesch/sitescout/internal/sorting"
)

// Terminal dimension constants
const (
	minTerminalWidth  = 60
	minTerminalHeight = 20
)

const (
	statusDuration      = 3 * time.Second
	errorStatusDuration = 6 * time.Second
)

type mode int

const (
	modeBrowse mode = iota
	modeConnections
	modeConnectionForm
	modeConfirmConnectionDelete
	modeHelp
)

type clearStatusMsg struct{}

type model struct {
	mode    mode
	browser *browser.View
	store   *connection.Store
	pool    *remote.Pool
	config  *config.Config

	pickerCursor int
	form         *connectionForm

	width        int
	height       int
	statusMsg    string
	statusError  bool
	statusExpiry time.Time

	// set from flags before the program starts
	startConn int
	startPath string
}

// newModel wires the browser to its backends. A bad panel layout in the
// config is reported but still yields a usable model.
func newModel(cfg *config.Config, store *connection.Store, pool *remote.Pool, local fileops.Local) (*model, error) {
	mapping, layoutErr := browser.MappingFromConfig(cfg.Panels)

	env := &browser.Env{
		Remote:        pool,
		Local:         local,
		Transfer:      pool,
		Connections:   store,
		Log:           logger.Log,
		Editor:        cfg.Editor,
		ShowHidden:    cfg.ShowHidden,
		LoadTimeout:   time.Duration(cfg.LoadTimeoutSeconds) * time.Second,
		MenuDelay:     time.Duration(cfg.MenuCloseDelayMs) * time.Millisecond,
		DoubleClick:   time.Duration(cfg.DoubleClickMs) * time.Millisecond,
		ActionTimeout: 10 * time.Minute,
		Watch:         true,
	}

	b := browser.New(env, mapping)
	b.SetSort(sorting.Descriptor{
		Column:    sorting.ParseColumn(cfg.DefaultSort.Column),
		Direction: sorting.ParseDirection(cfg.DefaultSort.Direction),
	})

	m := &model{
		mode:    modeBrowse,
		browser: b,
		store:   store,
		pool:    pool,
		config:  cfg,
	}
	b.OnPathChange = func(path string) {
		logger.Debug("path changed to %s", path)
	}
	return m, layoutErr
}

// initialConnection picks the flag's connection, then the last one used,
// then the store default.
func (m *model) initialConnection() (connection.Connection, error) {
	if m.startConn != 0 {
		return m.store.Find(m.startConn)
	}
	if id := m.config.LastConnectionID; id != connection.SentinelID {
		if c := m.store.GetByID(id); !c.IsSentinel() {
			return c, nil
		}
	}
	return m.store.Default(), nil
}

func (m *model) connect(c connection.Connection) tea.Cmd {
	return m.connectAt(c, "")
}

// connectAt opens c at path, or at its remote path when path is empty.
func (m *model) connectAt(c connection.Connection, path string) tea.Cmd {
	m.mode = modeBrowse
	if !c.IsSentinel() {
		m.config.LastConnectionID = c.ID
	}

	var cmd tea.Cmd
	if path == "" {
		cmd = m.browser.SetConnection(c)
	} else {
		cmd = m.browser.SetConnectionAt(c, path)
	}
	if c.IsSentinel() {
		return cmd
	}
	return tea.Batch(cmd, m.setStatus("Connecting to "+c.Label()+"...", false))
}

func (m *model) setStatus(text string, isError bool) tea.Cmd {
	d := statusDuration
	if isError {
		d = errorStatusDuration
	}
	m.statusMsg = text
	m.statusError = isError
	m.statusExpiry = time.Now().Add(d)
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// saveState remembers the last connection. Errors are logged only.
func (m *model) saveState() {
	if c := m.browser.Connection(); !c.IsSentinel() {
		m.config.LastConnectionID = c.ID
	}
	if err := config.Save(m.config); err != nil {
		logger.Error("cannot save config: %v", err)
	}
}
