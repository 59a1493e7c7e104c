package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/browser"
	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/logger"
)

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("🌐 sitescout"),
		m.browser.Init(),
	}

	c, err := m.initialConnection()
	switch {
	case err != nil:
		logger.Error("cannot open connection %d: %v", m.startConn, err)
		cmds = append(cmds, m.setStatus(err.Error(), true))
		m.mode = modeConnections
	case c.IsSentinel():
		m.mode = modeConnections
		if len(m.store.List()) == 0 {
			cmds = append(cmds, m.setStatus("No saved connections: press n to add one", false))
		}
	default:
		cmds = append(cmds, m.connectAt(c, m.startPath))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Clear expired status messages
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width == m.width && msg.Height == m.height {
			return m, nil
		}
		m.width = max(msg.Width, minTerminalWidth)
		m.height = max(msg.Height, minTerminalHeight)
		// header and status bar take one line each
		m.browser.SetSize(browser.Rect{X: 0, Y: 1, W: m.width, H: m.height - 2}, m.width, m.height)
		return m, nil

	case tea.FocusMsg, clearStatusMsg:
		return m, nil

	case browser.StatusMsg:
		return m, m.setStatus(msg.Text, msg.Error)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if m.mode != modeBrowse {
			return m, nil
		}
		return m, m.browser.Update(msg)
	}

	// BlurMsg and every asynchronous result belong to the browser.
	return m, m.browser.Update(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case modeConnections:
		return m.handlePickerKey(msg)
	case modeConnectionForm:
		return m.handleFormKey(msg)
	case modeConfirmConnectionDelete:
		return m.handleConfirmDeleteKey(msg)
	case modeHelp:
		m.mode = modeBrowse
		return nil
	}

	if !m.browser.Capturing() && msg.String() == "ctrl+o" {
		m.openPicker()
		return nil
	}
	if !m.browser.Typing() {
		switch msg.String() {
		case "q":
			return m.quit()
		case "?":
			m.mode = modeHelp
			return nil
		case "C":
			m.openPicker()
			return nil
		}
	}
	return m.browser.Update(msg)
}

func (m *model) quit() tea.Cmd {
	m.saveState()
	m.browser.Close()
	logger.Info("sitescout exiting")
	return tea.Quit
}

func (m *model) openPicker() {
	m.mode = modeConnections
	list := m.store.List()
	m.pickerCursor = 0
	active := m.browser.Connection()
	for i, c := range list {
		if c.ID == active.ID {
			m.pickerCursor = i
		}
	}
}

func (m *model) selectedConnection() (connection.Connection, bool) {
	list := m.store.List()
	if m.pickerCursor < 0 || m.pickerCursor >= len(list) {
		return connection.Connection{}, false
	}
	return list[m.pickerCursor], true
}

func (m *model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.store.List())

	switch msg.String() {
	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case "down", "j":
		if m.pickerCursor < n-1 {
			m.pickerCursor++
		}
	case "enter":
		if c, ok := m.selectedConnection(); ok {
			return m.connect(c)
		}
	case "n":
		m.form = newConnectionForm(connection.Connection{})
		m.mode = modeConnectionForm
		return m.form.focusField(0)
	case "e":
		if c, ok := m.selectedConnection(); ok {
			m.form = newConnectionForm(c)
			m.mode = modeConnectionForm
			return m.form.focusField(0)
		}
	case "*":
		if c, ok := m.selectedConnection(); ok {
			if err := m.store.SetDefault(c.ID); err != nil {
				return m.setStatus(err.Error(), true)
			}
			return m.setStatus(c.Label()+" opens on startup", false)
		}
	case "d":
		if _, ok := m.selectedConnection(); ok {
			m.mode = modeConfirmConnectionDelete
		}
	case "esc", "q":
		m.mode = modeBrowse
	}
	return nil
}

func (m *model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	cmd, done, saved := m.form.update(msg)
	if !done {
		return cmd
	}
	form := m.form
	m.form = nil
	m.mode = modeConnections
	if !saved {
		return nil
	}

	c, _ := form.result()
	if form.isNew() {
		added, err := m.store.Add(c)
		if err != nil {
			logger.Error("cannot add connection: %v", err)
			return m.setStatus(err.Error(), true)
		}
		logger.Info("added connection %d (%s)", added.ID, added.Label())
		m.pickerCursor = len(m.store.List()) - 1
		return m.setStatus("Added "+added.Label(), false)
	}

	if err := m.store.Update(c); err != nil {
		logger.Error("cannot update connection %d: %v", c.ID, err)
		return m.setStatus(err.Error(), true)
	}
	// the cached session may use the old credentials
	m.pool.Disconnect(c.ID)
	if m.browser.Connection().ID == c.ID {
		return tea.Batch(m.connectAt(c, m.browser.Path()), m.setStatus("Saved "+c.Label(), false))
	}
	return m.setStatus("Saved "+c.Label(), false)
}

func (m *model) handleConfirmDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		c, ok := m.selectedConnection()
		m.mode = modeConnections
		if !ok {
			return nil
		}
		if err := m.store.Delete(c.ID); err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.pool.Disconnect(c.ID)
		if m.pickerCursor >= len(m.store.List()) {
			m.pickerCursor = max(len(m.store.List())-1, 0)
		}
		logger.Info("deleted connection %d", c.ID)
		if m.browser.Connection().ID == c.ID {
			return tea.Batch(m.browser.SetConnection(connection.Sentinel()), m.setStatus("Deleted "+c.Label(), false))
		}
		return m.setStatus("Deleted "+c.Label(), false)
	case "n", "N", "esc":
		m.mode = modeConnections
	}
	return nil
}
