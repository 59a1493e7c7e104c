package browser

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/modkeys"
)

// Files is a filesystem backend. The SFTP pool and the local disk both
// implement it.
type Files interface {
	listing.Lister
	Mkdir(ctx context.Context, conn connection.Connection, dir string) error
	CreateFile(ctx context.Context, conn connection.Connection, name string) error
	Rename(ctx context.Context, conn connection.Connection, from, to string) error
	Remove(ctx context.Context, conn connection.Connection, target string) error
	Copy(ctx context.Context, conn connection.Connection, from, to string) error
	ReadFile(ctx context.Context, conn connection.Connection, name string) ([]byte, error)
	WriteFile(ctx context.Context, conn connection.Connection, name string, data []byte) error
	Archive(ctx context.Context, conn connection.Connection, target string) (string, error)
	Run(ctx context.Context, conn connection.Connection, dir, command string) (string, error)
}

// Transfer moves files between the local disk and the connection.
type Transfer interface {
	Download(ctx context.Context, conn connection.Connection, remotePath, localDir string) (string, error)
	Upload(ctx context.Context, conn connection.Connection, localPath, remoteDir string) (string, error)
}

// Connections persists edits to the active connection.
type Connections interface {
	Update(c connection.Connection) error
}

// Env holds the collaborators shared by every panel.
type Env struct {
	Remote      Files
	Local       Files
	Transfer    Transfer
	Connections Connections
	Tracker     *modkeys.Tracker
	Log         logger.Func

	// Editor, when set, opens local files instead of the system handler.
	Editor string

	ShowHidden    bool
	LoadTimeout   time.Duration
	ActionTimeout time.Duration
	MenuDelay     time.Duration
	DoubleClick   time.Duration
	// Watch enables change notification on local filesystem panels.
	Watch bool
}

func (e *Env) files(c Content) Files {
	if c.IsRemote() {
		return e.Remote
	}
	return e.Local
}

func (e *Env) log(level logger.Level, format string, args ...any) {
	if e.Log != nil {
		e.Log(level, format, args...)
		return
	}
	logger.Log(level, format, args...)
}

func (e *Env) actionContext() (context.Context, context.CancelFunc) {
	d := e.ActionTimeout
	if d <= 0 {
		d = 5 * time.Minute
	}
	return context.WithTimeout(context.Background(), d)
}

// NavigateMsg asks the browser to move every filesystem panel to Path.
type NavigateMsg struct {
	Path string
}

// StatusMsg is a transient line for the application's status bar.
type StatusMsg struct {
	Text  string
	Error bool
}

// EditMsg asks the editor panel to open a file.
type EditMsg struct {
	Conn   connection.Connection
	Remote bool
	Path   string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

func status(format string, args ...any) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: fmt.Sprintf(format, args...)} }
}

func statusError(err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: err.Error(), Error: true} }
}
