package git_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	gitx "github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/git/gittest"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	dir, fixture := gittest.InitRepo(t)
	first := gittest.Commit(t, fixture, "first", baseTime)
	second := gittest.Commit(t, fixture, "second", baseTime.Add(time.Hour))
	gittest.Branch(t, fixture, "feature", first)

	repo := gittest.Open(t, dir)

	head, err := repo.Resolve("HEAD")
	if err != nil {
		t.Fatalf("Resolve(HEAD): %v", err)
	}
	if head != second {
		t.Errorf("Resolve(HEAD) = %s, expected %s", head, second)
	}

	branch, err := repo.Resolve("feature")
	if err != nil {
		t.Fatalf("Resolve(feature): %v", err)
	}
	if branch != first {
		t.Errorf("Resolve(feature) = %s, expected %s", branch, first)
	}

	if _, err := repo.Resolve("no-such-branch"); !errors.Is(err, gitx.ErrNotFound) {
		t.Errorf("Resolve(no-such-branch) error = %v, expected ErrNotFound", err)
	}
}

func TestLoad(t *testing.T) {
	dir, fixture := gittest.InitRepo(t)
	first := gittest.Commit(t, fixture, "first", baseTime)
	second := gittest.Commit(t, fixture, "second\n\nwith a body", baseTime.Add(time.Hour))

	repo := gittest.Open(t, dir)

	record, err := repo.Load(second)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if record.ID != second {
		t.Errorf("ID = %s, expected %s", record.ID, second)
	}
	if len(record.Parents) != 1 || record.Parents[0] != first {
		t.Errorf("Parents = %v, expected [%s]", record.Parents, first)
	}
	if !record.When.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("When = %v, expected %v", record.When, baseTime.Add(time.Hour))
	}
	if record.Summary() != "second" {
		t.Errorf("Summary() = %q, expected %q", record.Summary(), "second")
	}

	if _, err := repo.Load(gittest.Hash(999)); !errors.Is(err, gitx.ErrNotFound) {
		t.Errorf("Load(unknown) error = %v, expected ErrNotFound", err)
	}
}

func TestListRefs(t *testing.T) {
	dir, fixture := gittest.InitRepo(t)
	first := gittest.Commit(t, fixture, "first", baseTime)
	gittest.Branch(t, fixture, "feature", first)
	gittest.Tag(t, fixture, "v1.0", first)

	repo := gittest.Open(t, dir)

	all, err := repo.ListRefs()
	if err != nil {
		t.Fatalf("ListRefs: %v", err)
	}
	names := make(map[string]plumbing.Hash, len(all))
	for _, ref := range all {
		names[ref.Name] = ref.Hash
	}
	if names["refs/heads/feature"] != first {
		t.Errorf("refs/heads/feature = %s, expected %s", names["refs/heads/feature"], first)
	}
	if names["refs/tags/v1.0"] != first {
		t.Errorf("refs/tags/v1.0 = %s, expected %s", names["refs/tags/v1.0"], first)
	}

	tags, err := repo.ListRefs("refs/tags/")
	if err != nil {
		t.Fatalf("ListRefs(refs/tags/): %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "refs/tags/v1.0" {
		t.Errorf("ListRefs(refs/tags/) = %v, expected just the tag", tags)
	}
}

func TestHead(t *testing.T) {
	dir, fixture := gittest.InitRepo(t)
	gittest.Commit(t, fixture, "first", baseTime)

	repo := gittest.Open(t, dir)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head.Kind != gitx.SubjectRef {
		t.Fatalf("Head kind = %v, expected ref", head.Kind)
	}
	if head.Name != "refs/heads/master" && head.Name != "refs/heads/main" {
		t.Errorf("Head = %q, expected the default branch", head.Name)
	}
}

func TestSubjectShortName(t *testing.T) {
	tests := []struct {
		name     string
		subject  gitx.Subject
		expected string
	}{
		{name: "branch", subject: gitx.RefSubject("refs/heads/main"), expected: "main"},
		{name: "tag", subject: gitx.RefSubject("refs/tags/v1.0"), expected: "v1.0"},
		{name: "remote", subject: gitx.RefSubject("refs/remotes/origin/main"), expected: "origin/main"},
		{name: "other ref", subject: gitx.RefSubject("refs/stash"), expected: "refs/stash"},
		{name: "commit", subject: gitx.CommitSubject(gittest.Hash(7)), expected: gittest.Hash(7).String()[:12]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.subject.ShortName(); got != tt.expected {
				t.Errorf("ShortName() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
