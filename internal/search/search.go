package search

import (
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/walk"
)

// First walks the ancestry of start and returns the first commit the matcher
// accepts. Because the walker emits newer commits before their ancestors,
// the first hit is the most recent matching commit. It reports
// git.ErrNotFound when the reachable history holds no match, and stops
// pulling from the walker the moment a match is found.
func First(source git.CommitLoader, start plumbing.Hash, m *Matcher) (*git.CommitRecord, error) {
	walker, err := walk.New(source, start)
	if err != nil {
		return nil, err
	}

	var found *git.CommitRecord
	err = walker.ForEach(func(c *git.CommitRecord) error {
		if m.Matches(c) {
			found = c
			return walk.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, git.ErrNotFound
	}
	return found, nil
}

// Repository is the slice of repository access the search operation needs.
type Repository interface {
	git.CommitLoader
	// Resolve resolves a revision expression to a commit id.
	Resolve(rev string) (plumbing.Hash, error)
}

// Run is the full pattern-search operation: compile the pattern, resolve the
// start revision, walk. The pattern is compiled first so a bad pattern fails
// before any revision resolution or traversal.
func Run(repo Repository, rev, pattern string, summaryOnly bool) (plumbing.Hash, error) {
	matcher, err := NewMatcher(pattern, summaryOnly)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	start, err := repo.Resolve(rev)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	record, err := First(repo, start, matcher)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return record.ID, nil
}
