// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// WriteTree creates files below root. Keys are slash separated paths, values
// the file content. Parent directories are created as needed.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), dirPermissions); err != nil {
			t.Fatalf("create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), filePermissions); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// MkdirAll creates the slash separated directories below root.
func MkdirAll(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), dirPermissions); err != nil {
			t.Fatalf("create directory %s: %v", d, err)
		}
	}
}

// SetupGitRepo initializes a git repository in a temporary directory. A
// non-empty origin is registered as the origin remote.
func SetupGitRepo(t *testing.T, origin string) (*git.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	if origin != "" {
		if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{origin}}); err != nil {
			t.Fatalf("failed to create origin remote: %v", err)
		}
	}
	return repo, dir
}
