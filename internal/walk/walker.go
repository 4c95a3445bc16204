// Package walk produces lazy reverse-chronological traversals of commit
// ancestry, equivalent in order to a default `git log` listing.
package walk

import (
	"container/heap"
	"errors"
	"io"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/poy5861R/scutiger/internal/git"
)

// ErrStop aborts a ForEach iteration without reporting an error.
var ErrStop = errors.New("stop iteration")

// Walker emits the commits reachable from a start point, newest first.
// Ordering is by committer timestamp descending; a parent only becomes
// eligible once a child has been emitted, so descendants always precede
// ancestors. Each commit is emitted exactly once even when merge commits
// make ancestry converge. A Walker is single-use: once exhausted it cannot
// be rewound, only rebuilt from the same start point.
type Walker struct {
	source  git.CommitLoader
	pending commitQueue
	seen    map[plumbing.Hash]struct{}
	seq     int
}

// New creates a Walker seeded with the commit at start. It reports
// git.ErrNotFound when start does not resolve to a commit; no partial
// traversal is produced in that case.
func New(source git.CommitLoader, start plumbing.Hash) (*Walker, error) {
	record, err := source.Load(start)
	if err != nil {
		return nil, err
	}
	w := &Walker{
		source: source,
		seen:   map[plumbing.Hash]struct{}{start: {}},
	}
	heap.Push(&w.pending, &queuedCommit{record: record, seq: w.seq})
	w.seq++
	return w, nil
}

// Next returns the next commit in traversal order, or io.EOF once the
// reachable history is exhausted.
func (w *Walker) Next() (*git.CommitRecord, error) {
	if w.pending.Len() == 0 {
		return nil, io.EOF
	}
	newest := heap.Pop(&w.pending).(*queuedCommit).record

	for _, parent := range newest.Parents {
		if _, ok := w.seen[parent]; ok {
			continue
		}
		w.seen[parent] = struct{}{}
		record, err := w.source.Load(parent)
		if err != nil {
			if errors.Is(err, git.ErrNotFound) {
				// Shallow clones truncate ancestry; treat the cut edge
				// as the end of that line of history.
				continue
			}
			return nil, err
		}
		heap.Push(&w.pending, &queuedCommit{record: record, seq: w.seq})
		w.seq++
	}
	return newest, nil
}

// ForEach walks the remaining commits, invoking fn for each. Returning
// ErrStop from fn ends the walk cleanly.
func (w *Walker) ForEach(fn func(*git.CommitRecord) error) error {
	for {
		record, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
}

// queuedCommit is a heap entry: a discovered, not-yet-emitted commit.
type queuedCommit struct {
	record *git.CommitRecord
	seq    int
}

// commitQueue is a max-heap on committer timestamp. Equal timestamps pop in
// discovery order, which keeps the traversal deterministic.
type commitQueue []*queuedCommit

func (q commitQueue) Len() int { return len(q) }

func (q commitQueue) Less(i, j int) bool {
	if !q[i].record.When.Equal(q[j].record.When) {
		return q[i].record.When.After(q[j].record.When)
	}
	return q[i].seq < q[j].seq
}

func (q commitQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *commitQueue) Push(x any) { *q = append(*q, x.(*queuedCommit)) }

func (q *commitQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
