package gittest

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	gitx "github.com/poy5861R/scutiger/internal/git"
)

// MemRepo is an in-memory commit graph implementing the resolver and loader
// interfaces, so traversal and ranking logic can be exercised without a real
// repository on disk.
type MemRepo struct {
	commits map[plumbing.Hash]*gitx.CommitRecord
	names   map[string]plumbing.Hash

	// ResolveCalls counts Resolve invocations, for asserting that an
	// operation failed before touching the repository.
	ResolveCalls int
}

// NewMemRepo returns an empty in-memory graph.
func NewMemRepo() *MemRepo {
	return &MemRepo{
		commits: make(map[plumbing.Hash]*gitx.CommitRecord),
		names:   make(map[string]plumbing.Hash),
	}
}

// Hash returns a synthetic, stable commit id for a small integer.
func Hash(n int) plumbing.Hash {
	return plumbing.NewHash(fmt.Sprintf("%040d", n))
}

// AddCommit inserts a commit with identical author and committer timestamps.
func (m *MemRepo) AddCommit(id plumbing.Hash, parents []plumbing.Hash, when time.Time, message string) {
	m.AddCommitTimes(id, parents, when, when, message)
}

// AddCommitTimes inserts a commit with distinct committer and author
// timestamps.
func (m *MemRepo) AddCommitTimes(id plumbing.Hash, parents []plumbing.Hash, when, authorWhen time.Time, message string) {
	m.commits[id] = &gitx.CommitRecord{
		ID:         id,
		Parents:    parents,
		When:       when,
		AuthorWhen: authorWhen,
		Message:    message,
	}
}

// Name binds a revision name to a commit for Resolve.
func (m *MemRepo) Name(rev string, id plumbing.Hash) {
	m.names[rev] = id
}

// Load implements gitx.CommitLoader.
func (m *MemRepo) Load(id plumbing.Hash) (*gitx.CommitRecord, error) {
	record, ok := m.commits[id]
	if !ok {
		return nil, fmt.Errorf("commit %s: %w", id, gitx.ErrNotFound)
	}
	return record, nil
}

// Resolve resolves a previously bound revision name.
func (m *MemRepo) Resolve(rev string) (plumbing.Hash, error) {
	m.ResolveCalls++
	id, ok := m.names[rev]
	if !ok {
		return plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", rev, gitx.ErrNotFound)
	}
	return id, nil
}

var _ gitx.CommitLoader = (*MemRepo)(nil)
