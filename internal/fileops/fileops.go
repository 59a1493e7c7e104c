// Package fileops lists and manipulates the local filesystem with the same
// shape of operations the remote backend offers.
package fileops

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/listing"
)

// ErrExists is returned when creating something that is already there.
var ErrExists = errors.New("already exists")

// Local is the backend for local panels. The connection argument every
// method takes is ignored.
type Local struct {
	// UseTrash sends deletions to the desktop trash when a trash tool exists.
	UseTrash bool
}

// ListDirectory reads dir. Symlinks report their target's kind and size.
func (l Local) ListDirectory(ctx context.Context, dir string, _ connection.Connection, showHidden bool) ([]listing.Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	entries := make([]listing.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !showHidden && strings.HasPrefix(de.Name(), ".") {
			continue
		}

		itemPath := filepath.Join(dir, de.Name())
		linfo, err := os.Lstat(itemPath)
		if err != nil {
			continue
		}

		info := linfo
		symlink := linfo.Mode()&os.ModeSymlink != 0
		if symlink {
			if target, err := os.Stat(itemPath); err == nil {
				info = target
			}
		}

		owner, group := ownership(linfo)
		entries = append(entries, listing.Entry{
			Path:        itemPath,
			Filename:    de.Name(),
			IsDir:       info.IsDir(),
			Symlink:     symlink,
			Size:        info.Size(),
			Modified:    info.ModTime().Unix(),
			Permissions: uint32(info.Mode().Perm()),
			Owner:       owner,
			Group:       group,
		})
	}
	return entries, nil
}

// Mkdir creates dir and any missing parents.
func (l Local) Mkdir(_ context.Context, _ connection.Connection, dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		return fmt.Errorf("%s: %w", dir, ErrExists)
	}
	return os.MkdirAll(dir, 0755)
}

// CreateFile creates an empty file, failing if it exists.
func (l Local) CreateFile(_ context.Context, _ connection.Connection, name string) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", name, ErrExists)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// Rename renames or moves a path, copying across devices when needed.
func (l Local) Rename(_ context.Context, _ connection.Connection, from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("%s: %w", to, ErrExists)
	}
	if err := os.Rename(from, to); err != nil {
		if err := CopyFileOrDir(from, to); err != nil {
			return err
		}
		return os.RemoveAll(from)
	}
	return nil
}

// Remove deletes target, through the trash when enabled.
func (l Local) Remove(_ context.Context, _ connection.Connection, target string) error {
	if l.UseTrash {
		if err := MoveToTrash(target); err == nil {
			return nil
		}
	}
	return os.RemoveAll(target)
}

// Copy copies a file or directory tree.
func (l Local) Copy(_ context.Context, _ connection.Connection, from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("%s: %w", to, ErrExists)
	}
	return CopyFileOrDir(from, to)
}

// ReadFile returns the contents of name.
func (l Local) ReadFile(_ context.Context, _ connection.Connection, name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile replaces the contents of name, keeping its mode.
func (l Local) WriteFile(_ context.Context, _ connection.Connection, name string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(name); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(name, data, mode)
}

// Run executes command through the user's shell in dir.
func (l Local) Run(ctx context.Context, _ connection.Connection, dir, command string) (string, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "sh"
		}
		cmd = exec.CommandContext(ctx, shell, "-c", command)
	}
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Archive writes target into target.tar.gz beside it and returns that path.
func (l Local) Archive(ctx context.Context, _ connection.Connection, target string) (string, error) {
	archive := target + ".tar.gz"
	if _, err := os.Lstat(archive); err == nil {
		return "", fmt.Errorf("%s: %w", archive, ErrExists)
	}

	f, err := os.Create(archive)
	if err != nil {
		return "", err
	}
	if err := writeTarGz(ctx, f, target); err != nil {
		f.Close()
		os.Remove(archive)
		return "", fmt.Errorf("failed to archive %s: %w", target, err)
	}
	return archive, f.Close()
}

func writeTarGz(ctx context.Context, w io.Writer, root string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	base := filepath.Dir(root)

	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// MoveToTrash moves a file or directory to the system trash/recycle bin
func MoveToTrash(path string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, path)
		return exec.Command("osascript", "-e", script).Run()

	case "windows":
		cmd := exec.Command("powershell", "-Command", fmt.Sprintf(`Add-Type -AssemblyName Microsoft.VisualBasic; [Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile('%s', 'OnlyErrorDialogs', 'SendToRecycleBin')`, path))
		return cmd.Run()

	default:
		if commandExists("gio") {
			return exec.Command("gio", "trash", path).Run()
		}
		if commandExists("trash-put") {
			return exec.Command("trash-put", path).Run()
		}
		return fmt.Errorf("trash command not available (install trash-cli or gvfs)")
	}
}

// CopyFileOrDir copies a file or directory from src to dst
func CopyFileOrDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if srcInfo.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst, srcInfo.Mode().Perm())
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
			return err
		}
	}

	return nil
}

func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
