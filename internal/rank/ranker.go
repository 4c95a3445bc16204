// Package rank merges refs, bare commits, and recorded visits into one
// descending-time "recently interacted with" listing.
package rank

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/visits"
)

// SortKey selects which timestamp source orders the listing.
type SortKey int

const (
	// ByCommitterDate orders by each subject's tip committer date.
	ByCommitterDate SortKey = iota
	// ByAuthorDate orders by each subject's tip author date.
	ByAuthorDate
	// ByVisitDate orders by the most recent recorded checkout.
	ByVisitDate
)

// String returns the key's CLI spelling.
func (k SortKey) String() string {
	switch k {
	case ByCommitterDate:
		return "committerdate"
	case ByAuthorDate:
		return "authordate"
	case ByVisitDate:
		return "visitdate"
	default:
		return "unknown"
	}
}

// ParseSortKey parses a CLI sort key spelling.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "committerdate", "":
		return ByCommitterDate, nil
	case "authordate":
		return ByAuthorDate, nil
	case "visitdate":
		return ByVisitDate, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q (want committerdate, authordate, or visitdate)", s)
	}
}

// Entry is one ranked subject with the timestamp that placed it.
type Entry struct {
	Subject git.Subject
	When    time.Time
}

// Inputs are the three timestamp sources a ranking pass merges.
type Inputs struct {
	// Refs are the current ref bindings to rank.
	Refs []git.RefBinding
	// Commits are bare commit ids to include directly, e.g. a detached HEAD.
	Commits []plumbing.Hash
	// Visits is the full recorded visit log.
	Visits []visits.Record
}

// Rank produces the merged listing for the given sort key: descending by
// effective timestamp, at most one entry per subject (greatest timestamp
// wins), equal timestamps broken by lexical subject name so repeated calls
// over unchanged input are reproducible.
func Rank(loader git.CommitLoader, in Inputs, key SortKey) ([]Entry, error) {
	var candidates []Entry
	var err error
	if key == ByVisitDate {
		candidates, err = visitCandidates(loader, in)
	} else {
		candidates, err = tipCandidates(loader, in, key)
	}
	if err != nil {
		return nil, err
	}
	return dedupeAndOrder(candidates), nil
}

// tipCandidates draws timestamps from each subject's tip commit. A ref or
// commit that no longer resolves is skipped, not an error: refs move and
// objects get pruned between invocations.
func tipCandidates(loader git.CommitLoader, in Inputs, key SortKey) ([]Entry, error) {
	candidates := make([]Entry, 0, len(in.Refs)+len(in.Commits))

	appendTip := func(subject git.Subject, id plumbing.Hash) error {
		record, err := loader.Load(id)
		if err != nil {
			if errors.Is(err, git.ErrNotFound) {
				return nil
			}
			return err
		}
		when := record.When
		if key == ByAuthorDate {
			when = record.AuthorWhen
		}
		candidates = append(candidates, Entry{Subject: subject, When: when})
		return nil
	}

	for _, ref := range in.Refs {
		if err := appendTip(git.RefSubject(ref.Name), ref.Hash); err != nil {
			return nil, err
		}
	}
	for _, id := range in.Commits {
		if err := appendTip(git.CommitSubject(id), id); err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

// visitCandidates draws timestamps from the visit log. A subject that was
// never visited gets no entry at all; there is no synthetic fallback
// timestamp. Visited refs that have since been deleted are dropped; visited
// bare commits stay as long as the object itself still exists.
func visitCandidates(loader git.CommitLoader, in Inputs) ([]Entry, error) {
	liveRefs := make(map[git.Subject]struct{}, len(in.Refs))
	for _, ref := range in.Refs {
		liveRefs[git.RefSubject(ref.Name)] = struct{}{}
	}

	candidates := make([]Entry, 0, len(in.Visits))
	for _, v := range in.Visits {
		switch v.Subject.Kind {
		case git.SubjectRef:
			if _, ok := liveRefs[v.Subject]; !ok {
				continue
			}
		case git.SubjectCommit:
			if _, err := loader.Load(plumbing.NewHash(v.Subject.Name)); err != nil {
				if errors.Is(err, git.ErrNotFound) {
					continue
				}
				return nil, err
			}
		}
		candidates = append(candidates, Entry{Subject: v.Subject, When: v.At})
	}
	return candidates, nil
}

// dedupeAndOrder keeps the greatest timestamp per subject and applies the
// final ordering.
func dedupeAndOrder(candidates []Entry) []Entry {
	best := make(map[git.Subject]time.Time, len(candidates))
	for _, c := range candidates {
		if prev, ok := best[c.Subject]; !ok || c.When.After(prev) {
			best[c.Subject] = c.When
		}
	}

	out := make([]Entry, 0, len(best))
	for subject, when := range best {
		out = append(out, Entry{Subject: subject, When: when})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].When.Equal(out[j].When) {
			return out[i].When.After(out[j].When)
		}
		return out[i].Subject.Name < out[j].Subject.Name
	})
	return out
}
