package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command("git", "init", "-q", "-b", "main")
	cmd.Dir = resolved
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("git init failed: %v: %s", err, out)
	}
	return resolved
}

func TestReadOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	st := Read(context.Background(), t.TempDir())
	if st.InRepo() {
		t.Errorf("temp dir reported as repository on branch %q", st.Branch)
	}
}

func TestReadModifiedFiles(t *testing.T) {
	dir := initRepo(t)
	os.MkdirAll(filepath.Join(dir, "web", "css"), 0755)
	os.WriteFile(filepath.Join(dir, "web", "css", "site.css"), []byte("body{}"), 0644)

	st := Read(context.Background(), dir)
	if st.Branch != "main" {
		t.Errorf("Branch = %q, want main", st.Branch)
	}
	// untracked directories are reported by their top-level name
	if !st.Modified[filepath.Join(dir, "web")] {
		t.Errorf("web should be marked modified: %v", st.Modified)
	}
}
