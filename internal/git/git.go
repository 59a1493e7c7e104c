// Package git reads branch and working-tree state for local panels.
package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status is the repository state of a directory.
type Status struct {
	Branch   string
	Modified map[string]bool
}

// InRepo reports whether the directory is inside a git work tree.
func (s Status) InRepo() bool {
	return s.Branch != ""
}

// Read collects branch and modified files for dir. A directory outside any
// repository, or a machine without git, yields the zero Status.
func Read(ctx context.Context, dir string) Status {
	branch := GetBranch(ctx, dir)
	if branch == "" {
		return Status{}
	}
	return Status{Branch: branch, Modified: GetModifiedFiles(ctx, dir)}
}

// GetModifiedFiles returns the paths git reports as changed under dir,
// keyed by absolute path. Parent directories of a change are included.
func GetModifiedFiles(ctx context.Context, dir string) map[string]bool {
	modified := make(map[string]bool)

	top, err := output(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return modified
	}

	out, err := output(ctx, dir, "status", "--porcelain")
	if err != nil {
		return modified
	}

	for _, line := range strings.Split(out, "\n") {
		if len(line) <= 3 {
			continue
		}
		// XY path, or XY old -> new for renames
		name := strings.TrimSpace(line[3:])
		if i := strings.Index(name, " -> "); i >= 0 {
			name = name[i+4:]
		}
		name = strings.Trim(name, `"`)
		if name == "" {
			continue
		}

		full := filepath.Join(top, filepath.FromSlash(name))
		for p := full; strings.HasPrefix(p, top) && p != top; p = filepath.Dir(p) {
			modified[p] = true
		}
	}

	return modified
}

// GetBranch returns the current git branch name
func GetBranch(ctx context.Context, dir string) string {
	if out, err := output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		return out
	}
	// unborn branch in a fresh repository
	out, err := output(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

func output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
