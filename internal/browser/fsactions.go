package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"

	"github.com/LFroesch/sitescout/internal/breadcrumb"
	"github.com/LFroesch/sitescout/internal/contextmenu"
	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/utils"
)

var errNoConnection = errors.New("no connection selected")

// actionDoneMsg reports a finished file action.
type actionDoneMsg struct {
	PanelID int64
	Action  contextmenu.Action
	Text    string
	Err     error
	Reload  bool
}

// runAction closes the menu and starts a.
func (p *fsPanel) runAction(a contextmenu.Action) tea.Cmd {
	targets := p.selectedEntries()
	closeCmd := p.menu.Close()

	for _, it := range p.menu.Items() {
		if it.Action == a && it.NeedsTarget && len(targets) == 0 {
			return tea.Batch(closeCmd, status("%s: nothing selected", it.Title))
		}
	}
	return tea.Batch(closeCmd, p.dispatch(a, targets))
}

func (p *fsPanel) dispatch(a contextmenu.Action, targets []listing.Entry) tea.Cmd {
	dir := p.source.Path()
	conn := p.source.Connection()

	switch a {
	case contextmenu.ActionNewFolder:
		return p.startPrompt(a, nil, "New folder name", "", nil)
	case contextmenu.ActionNewFile:
		return p.startPrompt(a, nil, "New file name", "", nil)
	case contextmenu.ActionGoTo:
		return p.startPrompt(a, nil, "Go to", dir, p.goToSuggestions())

	case contextmenu.ActionUpload:
		if conn.IsSentinel() {
			return statusError(errNoConnection)
		}
		if p.content == ContentLocalFilesystem {
			return p.upload(targets)
		}
		return p.startPrompt(a, nil, "Upload local file", conn.LocalPath, utils.LocalPlaces(conn.LocalPath, homeDir()))

	case contextmenu.ActionSetDefault:
		return p.setDefault()

	case contextmenu.ActionOpen:
		return p.open(targets[0])

	case contextmenu.ActionRename:
		if len(targets) != 1 {
			return status("Rename works on a single item")
		}
		return p.startPrompt(a, targets, "Rename to", targets[0].Filename, nil)

	case contextmenu.ActionMove:
		return p.startPrompt(a, targets, fmt.Sprintf("Move %s to", describe(targets)), dir, p.goToSuggestions())
	case contextmenu.ActionCopy:
		return p.startPrompt(a, targets, fmt.Sprintf("Copy %s to", describe(targets)), dir, p.goToSuggestions())

	case contextmenu.ActionCopyPath:
		paths := p.fullPaths(targets)
		if err := clipboard.WriteAll(strings.Join(paths, "\n")); err != nil {
			return status("Failed to copy: %v", err)
		}
		return status("Copied: %s", strings.Join(paths, ", "))

	case contextmenu.ActionArchive:
		paths := p.fullPaths(targets)
		files := p.files
		return p.perform(a, true, func(ctx context.Context) (string, error) {
			var made []string
			for _, path := range paths {
				archive, err := files.Archive(ctx, conn, path)
				if err != nil {
					return "", err
				}
				made = append(made, filepath.Base(archive))
			}
			return "Created " + strings.Join(made, ", "), nil
		})

	case contextmenu.ActionDownload:
		if p.content != ContentRemoteFilesystem {
			return status("Download works on remote panels")
		}
		return p.download(targets)

	case contextmenu.ActionEdit:
		e := targets[0]
		if e.IsDir {
			return status("%s is a folder", e.Filename)
		}
		return p.edit(e)

	case contextmenu.ActionDelete:
		p.pending = a
		p.targets = targets
		p.mode = modeConfirmDelete
		return nil
	}
	return nil
}

func (p *fsPanel) fullPaths(targets []listing.Entry) []string {
	paths := make([]string, len(targets))
	for i, e := range targets {
		paths[i] = p.fullPath(e)
	}
	return paths
}

func describe(targets []listing.Entry) string {
	if len(targets) == 1 {
		return targets[0].Filename
	}
	return fmt.Sprintf("%d items", len(targets))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// goToSuggestions offers the subfolders of the current listing, plus local
// places for local panels.
func (p *fsPanel) goToSuggestions() []string {
	var out []string
	for _, e := range p.source.Entries() {
		if e.IsDir {
			out = append(out, p.fullPath(e))
		}
	}
	if p.content == ContentLocalFilesystem {
		out = append(out, utils.LocalPlaces(homeDir())...)
	}
	return out
}

func (p *fsPanel) startPrompt(a contextmenu.Action, targets []listing.Entry, title, value string, suggestions []string) tea.Cmd {
	p.pending = a
	p.targets = targets
	p.mode = modePrompt
	p.prompt.Prompt = title + ": "
	p.prompt.SetValue(value)
	p.prompt.CursorEnd()
	p.prompt.SetSuggestions(suggestions)
	return p.prompt.Focus()
}

func (p *fsPanel) endPrompt() {
	p.mode = modeNormal
	p.pending = ""
	p.targets = nil
	p.prompt.Blur()
	p.filter.Blur()
	p.prompt.SetValue("")
	p.prompt.SetSuggestions(nil)
}

func (p *fsPanel) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.endPrompt()
		return nil
	case "enter":
		value := strings.TrimSpace(p.prompt.Value())
		a, targets := p.pending, p.targets
		p.endPrompt()
		if value == "" {
			return nil
		}
		return p.submit(a, targets, value)
	}

	var cmd tea.Cmd
	p.prompt, cmd = p.prompt.Update(msg)
	return cmd
}

func (p *fsPanel) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		targets := p.targets
		p.endPrompt()
		return p.remove(targets)
	case "n", "N", "esc", "q":
		p.endPrompt()
	}
	return nil
}

// resolve turns prompt input into a path: absolute input is kept, anything
// else is relative to the current directory.
func (p *fsPanel) resolve(input string) string {
	if strings.HasPrefix(input, "/") || strings.HasPrefix(input, "~") || filepath.IsAbs(input) {
		return input
	}
	return breadcrumb.Child(p.source.Path(), input)
}

func (p *fsPanel) submit(a contextmenu.Action, targets []listing.Entry, value string) tea.Cmd {
	conn := p.source.Connection()
	files := p.files

	switch a {
	case contextmenu.ActionGoTo:
		return navigate(p.resolve(value))

	case contextmenu.ActionNewFolder:
		target := p.resolve(value)
		return p.perform(a, true, func(ctx context.Context) (string, error) {
			return "Created folder " + value, files.Mkdir(ctx, conn, target)
		})

	case contextmenu.ActionNewFile:
		target := p.resolve(value)
		return p.perform(a, true, func(ctx context.Context) (string, error) {
			return "Created " + value, files.CreateFile(ctx, conn, target)
		})

	case contextmenu.ActionRename:
		from := p.fullPath(targets[0])
		to := breadcrumb.Child(breadcrumb.Parent(from), value)
		return p.perform(a, true, func(ctx context.Context) (string, error) {
			return fmt.Sprintf("Renamed %s to %s", targets[0].Filename, value), files.Rename(ctx, conn, from, to)
		})

	case contextmenu.ActionMove, contextmenu.ActionCopy:
		dest := p.resolve(value)
		verb := "Moved"
		if a == contextmenu.ActionCopy {
			verb = "Copied"
		}
		paths := p.fullPaths(targets)
		return p.perform(a, true, func(ctx context.Context) (string, error) {
			for i, e := range targets {
				from, to := paths[i], breadcrumb.Child(dest, e.Filename)
				var err error
				if a == contextmenu.ActionMove {
					err = files.Rename(ctx, conn, from, to)
				} else {
					err = files.Copy(ctx, conn, from, to)
				}
				if err != nil {
					return "", err
				}
			}
			return fmt.Sprintf("%s %s to %s", verb, describe(targets), dest), nil
		})

	case contextmenu.ActionUpload:
		local := value
		remoteDir := p.source.Path()
		transfer := p.env.Transfer
		return p.perform(a, true, func(ctx context.Context) (string, error) {
			dst, err := transfer.Upload(ctx, conn, local, remoteDir)
			return "Uploaded to " + dst, err
		})
	}
	return nil
}

func (p *fsPanel) remove(targets []listing.Entry) tea.Cmd {
	conn := p.source.Connection()
	paths := p.fullPaths(targets)
	files := p.files
	return p.perform(contextmenu.ActionDelete, true, func(ctx context.Context) (string, error) {
		var errs []error
		for _, path := range paths {
			if err := files.Remove(ctx, conn, path); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			return "", err
		}
		return "Deleted " + describe(targets), nil
	})
}

// upload sends local entries to the same path on the connection.
func (p *fsPanel) upload(targets []listing.Entry) tea.Cmd {
	if len(targets) == 0 {
		return status("Upload: nothing selected")
	}
	conn := p.source.Connection()
	dir := p.source.Path()
	paths := p.fullPaths(targets)
	transfer := p.env.Transfer
	return p.perform(contextmenu.ActionUpload, true, func(ctx context.Context) (string, error) {
		for i, e := range targets {
			if e.IsDir {
				return "", fmt.Errorf("cannot upload folder %s: archive it first", e.Filename)
			}
			if _, err := transfer.Upload(ctx, conn, filepath.FromSlash(paths[i]), dir); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Uploaded %s to %s:%s", describe(targets), conn.Label(), dir), nil
	})
}

func downloadDir(localPath string) string {
	if localPath != "" {
		return localPath
	}
	home := homeDir()
	if dl := filepath.Join(home, "Downloads"); dirExists(dl) {
		return dl
	}
	return home
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (p *fsPanel) download(targets []listing.Entry) tea.Cmd {
	conn := p.source.Connection()
	dest := downloadDir(conn.LocalPath)
	paths := p.fullPaths(targets)
	transfer := p.env.Transfer
	return p.perform(contextmenu.ActionDownload, true, func(ctx context.Context) (string, error) {
		for i, e := range targets {
			if e.IsDir {
				return "", fmt.Errorf("cannot download folder %s: archive it first", e.Filename)
			}
			if _, err := transfer.Download(ctx, conn, paths[i], dest); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Downloaded %s to %s", describe(targets), dest), nil
	})
}

// setDefault stores the current directory as the connection's start path.
func (p *fsPanel) setDefault() tea.Cmd {
	conn := p.source.Connection()
	if conn.IsSentinel() {
		return statusError(errNoConnection)
	}
	dir := p.source.Path()
	if p.content == ContentLocalFilesystem {
		conn.LocalPath = dir
	} else {
		conn.RemotePath = dir
	}
	store := p.env.Connections
	return p.perform(contextmenu.ActionSetDefault, false, func(context.Context) (string, error) {
		if store == nil {
			return "", errors.New("connection store unavailable")
		}
		return fmt.Sprintf("%s now opens in %s", conn.Label(), dir), store.Update(conn)
	})
}

func (p *fsPanel) edit(e listing.Entry) tea.Cmd {
	msg := EditMsg{
		Conn:   p.source.Connection(),
		Remote: p.content.IsRemote(),
		Path:   p.fullPath(e),
	}
	return func() tea.Msg { return msg }
}

// openFile sends remote files to the editor panel. Local files go to the
// configured editor, or the system handler when none is set.
func (p *fsPanel) openFile(e listing.Entry) tea.Cmd {
	if p.content.IsRemote() {
		return p.edit(e)
	}
	path := filepath.FromSlash(p.fullPath(e))
	log := p.env.log
	if args := strings.Fields(p.env.Editor); len(args) > 0 {
		cmd := exec.Command(args[0], append(args[1:], path)...)
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			if err != nil {
				log(logger.LevelError, "%s %s: %v", args[0], path, err)
				return StatusMsg{Text: fmt.Sprintf("%s failed: %v", args[0], err), Error: true}
			}
			return StatusMsg{Text: "Closed " + filepath.Base(path)}
		})
	}
	return func() tea.Msg {
		if err := open.Run(path); err != nil {
			log(logger.LevelError, "failed to open %s: %v", path, err)
			return StatusMsg{Text: fmt.Sprintf("Failed to open %s: %v", filepath.Base(path), err), Error: true}
		}
		return StatusMsg{Text: "Opened " + filepath.Base(path)}
	}
}

// perform runs fn off the update loop and reports the outcome.
func (p *fsPanel) perform(a contextmenu.Action, reload bool, fn func(ctx context.Context) (string, error)) tea.Cmd {
	env, id := p.env, p.id()
	return func() tea.Msg {
		ctx, cancel := env.actionContext()
		defer cancel()

		text, err := fn(ctx)
		if err != nil {
			env.log(logger.LevelError, "%s failed: %v", a, err)
		} else {
			env.log(logger.LevelInfo, "%s: %s", a, text)
		}
		return actionDoneMsg{PanelID: id, Action: a, Text: text, Err: err, Reload: reload}
	}
}
