// Package gittest provides repository fixtures for tests: temporary on-disk
// repositories built with go-git, and an in-memory commit graph implementing
// the loader interface the walker and ranker consume.
package gittest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	gitx "github.com/poy5861R/scutiger/internal/git"
)

// InitRepo creates a temporary non-bare repository, removed when the test
// finishes.
func InitRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return dir, repo
}

// Commit writes a file derived from the message, stages it, and commits with
// the given timestamp for both author and committer.
func Commit(t *testing.T, repo *gogit.Repository, message string, when time.Time) plumbing.Hash {
	t.Helper()
	return CommitFile(t, repo, message, "file.txt", fmt.Sprintf("%s at %s\n", message, when), when)
}

// CommitFile commits specific file content, for tests that need control over
// the tree (e.g. merge fixtures).
func CommitFile(t *testing.T, repo *gogit.Repository, message, name, content string, when time.Time) plumbing.Hash {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	path := filepath.Join(w.Filesystem.Root(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := w.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}

	sig := &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  when,
	}
	hash, err := w.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

// Branch creates a branch ref pointing at target.
func Branch(t *testing.T, repo *gogit.Repository, name string, target plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), target)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("create branch %s: %v", name, err)
	}
}

// Tag creates a lightweight tag pointing at target.
func Tag(t *testing.T, repo *gogit.Repository, name string, target plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), target)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
}

// Checkout moves the worktree to a branch.
func Checkout(t *testing.T, repo *gogit.Repository, branch string) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	err = w.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)})
	if err != nil {
		t.Fatalf("checkout %s: %v", branch, err)
	}
}

// Open wraps a fixture directory in the production Repository type.
func Open(t *testing.T, dir string) *gitx.Repository {
	t.Helper()
	repo, err := gitx.Open(dir)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	return repo
}
