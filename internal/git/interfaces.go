package git

import "github.com/go-git/go-git/v5/plumbing"

// CommitLoader fetches commit metadata by id. The history walker and the
// ranker consume this narrow interface so tests can drive them from an
// in-memory commit graph.
type CommitLoader interface {
	// Load returns the CommitRecord for id, or ErrNotFound.
	Load(id plumbing.Hash) (*CommitRecord, error)
}

// Compile-time interface conformance check.
var _ CommitLoader = (*Repository)(nil)
