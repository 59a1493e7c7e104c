package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/sftp"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/logger"
)

// ListDirectory lists dir on the remote side of conn.
func (p *Pool) ListDirectory(ctx context.Context, dir string, conn connection.Connection, showHidden bool) ([]listing.Entry, error) {
	s, err := p.get(ctx, conn)
	if err != nil {
		return nil, err
	}

	dir = resolveHome(s.sftp, dir)
	infos, err := run(ctx, func() ([]os.FileInfo, error) {
		return s.sftp.ReadDir(dir)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", dir, err)
	}

	entries := make([]listing.Entry, 0, len(infos))
	for _, info := range infos {
		if !showHidden && strings.HasPrefix(info.Name(), ".") {
			continue
		}
		entries = append(entries, entryFromInfo(dir, info))
	}
	return entries, nil
}

func entryFromInfo(dir string, info os.FileInfo) listing.Entry {
	e := listing.Entry{
		Path:        path.Join(dir, info.Name()),
		Filename:    info.Name(),
		IsDir:       info.IsDir(),
		Size:        info.Size(),
		Modified:    info.ModTime().Unix(),
		Permissions: uint32(info.Mode().Perm()),
	}
	if st, ok := info.Sys().(*sftp.FileStat); ok {
		e.Owner = st.UID
		e.Group = st.GID
		e.Permissions = st.Mode & 0o7777
	}
	return e
}

// resolveHome expands a leading ~ using the SFTP working directory, which
// servers start in the user's home.
func resolveHome(c *sftp.Client, p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := c.Getwd()
	if err != nil {
		return p
	}
	return home + strings.TrimPrefix(p, "~")
}

// Mkdir creates a directory and any missing parents.
func (p *Pool) Mkdir(ctx context.Context, conn connection.Connection, dir string) error {
	s, err := p.get(ctx, conn)
	if err != nil {
		return err
	}
	_, err = run(ctx, func() (struct{}, error) {
		return struct{}{}, s.sftp.MkdirAll(dir)
	})
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", dir, err)
	}
	return nil
}

// CreateFile creates an empty file, failing if it exists.
func (p *Pool) CreateFile(ctx context.Context, conn connection.Connection, name string) error {
	s, err := p.get(ctx, conn)
	if err != nil {
		return err
	}
	_, err = run(ctx, func() (struct{}, error) {
		f, err := s.sftp.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, f.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", name, err)
	}
	return nil
}

// Rename renames or moves a remote path.
func (p *Pool) Rename(ctx context.Context, conn connection.Connection, from, to string) error {
	s, err := p.get(ctx, conn)
	if err != nil {
		return err
	}
	_, err = run(ctx, func() (struct{}, error) {
		return struct{}{}, s.sftp.Rename(from, to)
	})
	if err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", from, to, err)
	}
	return nil
}

// Remove deletes a file, or a directory and everything under it.
func (p *Pool) Remove(ctx context.Context, conn connection.Connection, target string) error {
	s, err := p.get(ctx, conn)
	if err != nil {
		return err
	}
	_, err = run(ctx, func() (struct{}, error) {
		return struct{}{}, removeAll(s.sftp, target, p.log)
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", target, err)
	}
	return nil
}

func removeAll(c *sftp.Client, root string, log logger.Func) error {
	info, err := c.Lstat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return c.Remove(root)
	}

	var files, dirs []string
	walker := c.Walk(root)
	for walker.Step() {
		if err := walker.Err(); err != nil {
			log(logger.LevelWarn, "walk error under %s: %v", root, err)
			continue
		}
		if walker.Path() == root {
			continue
		}
		if walker.Stat().IsDir() {
			dirs = append([]string{walker.Path()}, dirs...)
		} else {
			files = append(files, walker.Path())
		}
	}

	for _, f := range files {
		if err := c.Remove(f); err != nil {
			log(logger.LevelWarn, "failed to delete %s: %v", f, err)
		}
	}
	for _, d := range dirs {
		if err := c.RemoveDirectory(d); err != nil {
			log(logger.LevelWarn, "failed to delete directory %s: %v", d, err)
		}
	}
	return c.RemoveDirectory(root)
}

// Copy duplicates a remote file next to itself or into another directory.
func (p *Pool) Copy(ctx context.Context, conn connection.Connection, from, to string) error {
	s, err := p.get(ctx, conn)
	if err != nil {
		return err
	}
	_, err = run(ctx, func() (int64, error) {
		src, err := s.sftp.Open(from)
		if err != nil {
			return 0, err
		}
		defer src.Close()
		dst, err := s.sftp.Create(to)
		if err != nil {
			return 0, err
		}
		defer dst.Close()
		return io.Copy(dst, src)
	})
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", from, to, err)
	}
	return nil
}

// Download copies a remote file into localDir and returns the local path.
func (p *Pool) Download(ctx context.Context, conn connection.Connection, remotePath, localDir string) (string, error) {
	s, err := p.get(ctx, conn)
	if err != nil {
		return "", err
	}

	localPath := filepath.Join(localDir, path.Base(remotePath))
	written, err := run(ctx, func() (int64, error) {
		src, err := s.sftp.Open(remotePath)
		if err != nil {
			return 0, err
		}
		defer src.Close()

		dst, err := os.Create(localPath)
		if err != nil {
			return 0, err
		}
		defer dst.Close()

		n, err := io.Copy(dst, src)
		if err != nil {
			os.Remove(localPath)
		}
		return n, err
	})
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", remotePath, err)
	}

	p.log(logger.LevelInfo, "downloaded %s to %s (%d bytes)", remotePath, localPath, written)
	return localPath, nil
}

// Upload copies a local file into remoteDir and returns the remote path.
func (p *Pool) Upload(ctx context.Context, conn connection.Connection, localPath, remoteDir string) (string, error) {
	s, err := p.get(ctx, conn)
	if err != nil {
		return "", err
	}

	remotePath := path.Join(remoteDir, filepath.Base(localPath))
	written, err := run(ctx, func() (int64, error) {
		src, err := os.Open(localPath)
		if err != nil {
			return 0, err
		}
		defer src.Close()

		dst, err := s.sftp.Create(remotePath)
		if err != nil {
			return 0, err
		}
		defer dst.Close()

		n, err := io.Copy(dst, src)
		if err != nil {
			s.sftp.Remove(remotePath)
		}
		return n, err
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}

	p.log(logger.LevelInfo, "uploaded %s to %s (%d bytes)", localPath, remotePath, written)
	return remotePath, nil
}

// ReadFile returns the contents of a remote file.
func (p *Pool) ReadFile(ctx context.Context, conn connection.Connection, name string) ([]byte, error) {
	s, err := p.get(ctx, conn)
	if err != nil {
		return nil, err
	}
	data, err := run(ctx, func() ([]byte, error) {
		f, err := s.sftp.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// WriteFile replaces the contents of a remote file.
func (p *Pool) WriteFile(ctx context.Context, conn connection.Connection, name string, data []byte) error {
	s, err := p.get(ctx, conn)
	if err != nil {
		return err
	}
	_, err = run(ctx, func() (int64, error) {
		f, err := s.sftp.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		return io.Copy(f, bytes.NewReader(data))
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Run executes command in dir on the remote host and returns its combined
// output. A non-zero exit still returns the output alongside the error.
func (p *Pool) Run(ctx context.Context, conn connection.Connection, dir, command string) (string, error) {
	s, err := p.get(ctx, conn)
	if err != nil {
		return "", err
	}

	sess, err := s.ssh.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open ssh session: %w", err)
	}
	defer sess.Close()

	line := command
	switch {
	case dir == "" || dir == "~":
	case strings.HasPrefix(dir, "~/"):
		line = fmt.Sprintf("cd \"$HOME\"/%s && %s", ShellQuote(dir[2:]), command)
	default:
		line = fmt.Sprintf("cd %s && %s", ShellQuote(dir), command)
	}
	out, err := run(ctx, func() ([]byte, error) {
		return sess.CombinedOutput(line)
	})
	return string(out), err
}

// Archive packs target into a gzipped tarball beside it using the remote
// tar binary, and returns the archive path.
func (p *Pool) Archive(ctx context.Context, conn connection.Connection, target string) (string, error) {
	archive := target + ".tar.gz"
	cmd := fmt.Sprintf("tar -czf %s %s", ShellQuote(path.Base(archive)), ShellQuote(path.Base(target)))
	if out, err := p.Run(ctx, conn, path.Dir(target), cmd); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w: %s", target, err, strings.TrimSpace(out))
	}
	return archive, nil
}

// ShellQuote wraps s in single quotes for a POSIX shell.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
