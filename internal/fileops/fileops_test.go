package fileops

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/LFroesch/sitescout/internal/connection"
)

var (
	ctx  = context.Background()
	none = connection.Sentinel()
)

func TestListDirectory(t *testing.T) {
	tempDir := t.TempDir()
	os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("hello"), 0644)
	os.WriteFile(filepath.Join(tempDir, ".hidden"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(tempDir, "sub"), 0755)

	entries, err := Local{}.ListDirectory(ctx, tempDir, none, false)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 visible entries, got %d", len(entries))
	}

	byName := map[string]bool{}
	for _, e := range entries {
		byName[e.Filename] = e.IsDir
		if e.Path != filepath.Join(tempDir, e.Filename) {
			t.Errorf("entry path %q does not join dir and name", e.Path)
		}
		if e.Filename == "a.txt" && e.Size != 5 {
			t.Errorf("a.txt size = %d, want 5", e.Size)
		}
	}
	if isDir, ok := byName["sub"]; !ok || !isDir {
		t.Error("sub should be listed as a directory")
	}

	entries, err = Local{}.ListDirectory(ctx, tempDir, none, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("showHidden should include dotfiles, got %d entries", len(entries))
	}
}

func TestListDirectoryFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tempDir := t.TempDir()
	os.Mkdir(filepath.Join(tempDir, "real"), 0755)
	if err := os.Symlink(filepath.Join(tempDir, "real"), filepath.Join(tempDir, "link")); err != nil {
		t.Fatal(err)
	}

	entries, err := Local{}.ListDirectory(ctx, tempDir, none, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Filename == "link" && (!e.Symlink || !e.IsDir) {
			t.Errorf("link should be a symlink to a directory: %+v", e)
		}
	}
}

func TestListDirectoryMissing(t *testing.T) {
	_, err := Local{}.ListDirectory(ctx, filepath.Join(t.TempDir(), "nope"), none, false)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestCreateFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "testfile.txt")

	if err := (Local{}).CreateFile(ctx, none, path); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("File was not created")
	}

	if err := (Local{}).CreateFile(ctx, none, path); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists when creating existing file, got %v", err)
	}
}

func TestMkdir(t *testing.T) {
	tempDir := t.TempDir()
	dirPath := filepath.Join(tempDir, "a", "b")

	if err := (Local{}).Mkdir(ctx, none, dirPath); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	info, err := os.Stat(dirPath)
	if err != nil || !info.IsDir() {
		t.Fatal("Directory was not created")
	}

	if err := (Local{}).Mkdir(ctx, none, dirPath); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestRename(t *testing.T) {
	tempDir := t.TempDir()
	oldPath := filepath.Join(tempDir, "old.txt")
	newPath := filepath.Join(tempDir, "new.txt")
	os.WriteFile(oldPath, []byte("content"), 0644)

	if err := (Local{}).Rename(ctx, none, oldPath, newPath); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Old file still exists")
	}
	if content, _ := os.ReadFile(newPath); string(content) != "content" {
		t.Errorf("renamed content = %q", content)
	}

	os.WriteFile(oldPath, []byte("again"), 0644)
	if err := (Local{}).Rename(ctx, none, oldPath, newPath); !errors.Is(err, ErrExists) {
		t.Errorf("rename onto existing path should fail, got %v", err)
	}
}

func TestCopyDir(t *testing.T) {
	tempDir := t.TempDir()
	srcDir := filepath.Join(tempDir, "src")
	os.MkdirAll(filepath.Join(srcDir, "nested"), 0755)
	os.WriteFile(filepath.Join(srcDir, "file1.txt"), []byte("content1"), 0644)
	os.WriteFile(filepath.Join(srcDir, "nested", "file2.txt"), []byte("content2"), 0600)

	dstDir := filepath.Join(tempDir, "dst")
	if err := (Local{}).Copy(ctx, none, srcDir, dstDir); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	if content, _ := os.ReadFile(filepath.Join(dstDir, "file1.txt")); string(content) != "content1" {
		t.Errorf("file1 content = %q", content)
	}
	info, err := os.Stat(filepath.Join(dstDir, "nested", "file2.txt"))
	if err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("nested file mode = %o, want 600", info.Mode().Perm())
	}
}

func TestRemove(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, "gone")
	os.MkdirAll(filepath.Join(dir, "deep"), 0755)
	os.WriteFile(filepath.Join(dir, "deep", "f"), []byte("x"), 0644)

	if err := (Local{}).Remove(ctx, none, dir); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("directory still exists")
	}
}

func TestReadWriteFileKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "script.sh")
	os.WriteFile(path, []byte("old"), 0755)

	if err := (Local{}).WriteFile(ctx, none, path, []byte("new")); err != nil {
		t.Fatal(err)
	}
	data, err := Local{}.ReadFile(ctx, none, path)
	if err != nil || string(data) != "new" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %o, want 755", info.Mode().Perm())
	}
}

func TestArchive(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "site")
	os.MkdirAll(filepath.Join(target, "css"), 0755)
	os.WriteFile(filepath.Join(target, "index.html"), []byte("<html>"), 0644)
	os.WriteFile(filepath.Join(target, "css", "main.css"), []byte("body{}"), 0644)

	archive, err := Local{}.Archive(ctx, none, target)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if archive != target+".tar.gz" {
		t.Errorf("archive path = %q", archive)
	}

	f, err := os.Open(archive)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gz)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"site", "site/index.html", "site/css/main.css"} {
		if !strings.Contains(joined, want) {
			t.Errorf("archive missing %s: %v", want, names)
		}
	}

	if _, err := (Local{}).Archive(ctx, none, target); !errors.Is(err, ErrExists) {
		t.Errorf("second archive should report ErrExists, got %v", err)
	}
}

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell")
	}
	tempDir := t.TempDir()
	out, err := Local{}.Run(ctx, none, tempDir, "pwd")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(tempDir)
	if got := strings.TrimSpace(out); got != tempDir && got != resolved {
		t.Errorf("pwd = %q, want %q", got, tempDir)
	}
}

func TestCommandExists(t *testing.T) {
	if !commandExists("sh") && runtime.GOOS != "windows" {
		t.Error("'sh' command should exist")
	}
	if commandExists("nonexistentcommandxyz123") {
		t.Error("Nonexistent command should return false")
	}
}
