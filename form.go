package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/sitescout/internal/connection"
)

const (
	fieldName = iota
	fieldHost
	fieldPort
	fieldUsername
	fieldPassword
	fieldPrivateKey
	fieldRemotePath
	fieldLocalPath
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name", "Host", "Port", "Username", "Password", "Private key", "Remote path", "Local path",
}

var errHostRequired = errors.New("host is required")

// connectionForm edits one connection. A zero ID means a new one.
type connectionForm struct {
	conn   connection.Connection
	inputs [fieldCount]textinput.Model
	focus  int
	err    error
}

func newConnectionForm(c connection.Connection) *connectionForm {
	f := &connectionForm{conn: c}
	values := [fieldCount]string{
		c.Name, c.Host, strconv.Itoa(c.Port), c.Username, c.Password, c.PrivateKey, c.RemotePath, c.LocalPath,
	}
	if c.Port == 0 {
		values[fieldPort] = "22"
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 1024
		in.Width = 40
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	f.inputs[fieldPrivateKey].Placeholder = "path to key file, or paste the key"
	f.inputs[fieldRemotePath].Placeholder = "/"
	return f
}

func (f *connectionForm) isNew() bool { return f.conn.ID == 0 }

func (f *connectionForm) focusField(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// result builds the edited connection.
func (f *connectionForm) result() (connection.Connection, error) {
	c := f.conn
	value := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

	c.Name = value(fieldName)
	c.Host = value(fieldHost)
	c.Username = value(fieldUsername)
	c.Password = f.inputs[fieldPassword].Value()
	c.PrivateKey = value(fieldPrivateKey)
	c.RemotePath = value(fieldRemotePath)
	c.LocalPath = value(fieldLocalPath)

	if c.Host == "" {
		return c, errHostRequired
	}
	port, err := strconv.Atoi(value(fieldPort))
	if err != nil || port <= 0 || port > 65535 {
		return c, fmt.Errorf("invalid port %q", value(fieldPort))
	}
	c.Port = port
	c.Protocol = connection.SFTP
	return c, nil
}

// update handles a key. done reports that the form was submitted or
// cancelled; saved distinguishes the two.
func (f *connectionForm) update(msg tea.KeyMsg) (cmd tea.Cmd, done, saved bool) {
	switch msg.String() {
	case "esc":
		return nil, true, false
	case "tab", "down":
		return f.focusField(f.focus + 1), false, false
	case "shift+tab", "up":
		return f.focusField(f.focus - 1), false, false
	case "enter", "ctrl+s":
		if _, err := f.result(); err != nil {
			f.err = err
			return nil, false, false
		}
		return nil, true, true
	}

	f.err = nil
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false, false
}

var (
	formLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	formActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Width(14)
	formErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (f *connectionForm) view() string {
	title := "New connection"
	if !f.isNew() {
		title = "Edit " + f.conn.Label()
	}

	lines := []string{dialogTitleStyle.Render(title), ""}
	for i, in := range f.inputs {
		label := formLabelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = formActiveStyle.Render(fieldLabels[i])
		}
		lines = append(lines, label+" "+in.View())
	}
	lines = append(lines, "")
	if f.err != nil {
		lines = append(lines, formErrorStyle.Render("⚠ "+f.err.Error()))
	}
	lines = append(lines, hintStyle.Render("tab: next field | enter: save | esc: cancel"))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}
