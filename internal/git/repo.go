package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrNotFound reports that a revision, ref, or commit does not resolve.
// It is an expected outcome, not a failure of the repository itself.
var ErrNotFound = errors.New("no such revision")

// Repository reads commits and refs from a Git repository.
type Repository struct {
	repo *gogit.Repository
}

// Open discovers and opens the repository containing path, searching parent
// directories for a .git the way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return &Repository{repo: repo}, nil
}

// Resolve resolves a revision expression (e.g. "HEAD", "main", "v1.0^") to a
// commit id. Unresolvable expressions report ErrNotFound.
func (r *Repository) Resolve(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", rev, ErrNotFound)
	}
	return *hash, nil
}

// Load fetches the commit metadata for id. Missing or non-commit objects
// report ErrNotFound.
func (r *Repository) Load(id plumbing.Hash) (*CommitRecord, error) {
	commit, err := r.repo.CommitObject(id)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("commit %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return newRecord(commit), nil
}

func newRecord(commit *object.Commit) *CommitRecord {
	parents := make([]plumbing.Hash, len(commit.ParentHashes))
	copy(parents, commit.ParentHashes)
	return &CommitRecord{
		ID:         commit.Hash,
		Parents:    parents,
		When:       commit.Committer.When,
		AuthorWhen: commit.Author.When,
		Message:    commit.Message,
	}
}

// ListRefs enumerates non-symbolic refs with their tip commit ids. When
// prefixes are given, only refs under one of those paths are returned.
func (r *Repository) ListRefs(prefixes ...string) ([]RefBinding, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var bindings []RefBinding
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name().String()
		if len(prefixes) > 0 {
			matched := false
			for _, p := range prefixes {
				if strings.HasPrefix(name, p) {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}
		bindings = append(bindings, RefBinding{Name: name, Hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bindings, nil
}

// Head returns the current checkout as a Subject: the full branch name when
// HEAD is symbolic, or a bare commit id when detached.
func (r *Repository) Head() (Subject, error) {
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return Subject{}, fmt.Errorf("read HEAD: %w", ErrNotFound)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return RefSubject(ref.Target().String()), nil
	}
	return CommitSubject(ref.Hash()), nil
}

// GitDir returns the repository's metadata directory (the .git directory for
// a standard checkout).
func (r *Repository) GitDir() (string, error) {
	storage, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("repository storage is not filesystem-backed")
	}
	return storage.Filesystem().Root(), nil
}

// VisitLogPath returns the location of the per-repository visit log, kept
// under the metadata directory so it is never part of tracked content.
func (r *Repository) VisitLogPath(fileName string) (string, error) {
	dir, err := r.GitDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scutiger", fileName), nil
}
