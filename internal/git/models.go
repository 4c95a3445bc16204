package git

import (
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// CommitRecord holds the commit metadata this tool family operates on.
// Records are read-only snapshots produced by a Repository.
type CommitRecord struct {
	ID         plumbing.Hash
	Parents    []plumbing.Hash
	When       time.Time // committer date
	AuthorWhen time.Time
	Message    string
}

// Summary returns the first line of the commit message.
func (c *CommitRecord) Summary() string {
	if idx := strings.IndexByte(c.Message, '\n'); idx != -1 {
		return c.Message[:idx]
	}
	return c.Message
}

// RefBinding pairs a ref name with the commit it currently points at.
// The binding is a point-in-time snapshot; the repository owns the ref.
type RefBinding struct {
	Name string
	Hash plumbing.Hash
}

// SubjectKind discriminates the two things a visit can point at.
type SubjectKind int

const (
	// SubjectRef names a branch or tag by its full ref path.
	SubjectRef SubjectKind = iota
	// SubjectCommit names a bare commit id (detached checkouts).
	SubjectCommit
)

// String returns a string representation of the subject kind.
func (k SubjectKind) String() string {
	switch k {
	case SubjectRef:
		return "ref"
	case SubjectCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// Subject identifies something that can be checked out and ranked: either a
// named ref or a bare commit id.
type Subject struct {
	Kind SubjectKind
	Name string
}

// RefSubject returns a Subject for a full ref name.
func RefSubject(name string) Subject {
	return Subject{Kind: SubjectRef, Name: name}
}

// CommitSubject returns a Subject for a bare commit id.
func CommitSubject(id plumbing.Hash) Subject {
	return Subject{Kind: SubjectCommit, Name: id.String()}
}

// String returns the subject's display form: the ref name, or the hex id.
func (s Subject) String() string {
	return s.Name
}

// ShortName returns the conventional short display form: branch and tag
// prefixes stripped, commit ids abbreviated.
func (s Subject) ShortName() string {
	if s.Kind == SubjectCommit {
		if len(s.Name) > 12 {
			return s.Name[:12]
		}
		return s.Name
	}
	for _, prefix := range []string{"refs/heads/", "refs/tags/", "refs/remotes/"} {
		if strings.HasPrefix(s.Name, prefix) {
			return strings.TrimPrefix(s.Name, prefix)
		}
	}
	return s.Name
}
