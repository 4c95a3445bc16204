package main

import (
	"testing"
	"time"

	gitx "github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/git/gittest"
)

func binding(name string) gitx.RefBinding {
	return gitx.RefBinding{Name: name}
}

func TestFilterRefs(t *testing.T) {
	refs := []gitx.RefBinding{
		binding("refs/heads/main"),
		binding("refs/heads/feature/login"),
		binding("refs/tags/v1.0"),
		binding("refs/tags/v2.0"),
	}

	tests := []struct {
		name     string
		include  []string
		exclude  []string
		expected []string
	}{
		{
			name:     "no patterns keeps everything",
			expected: []string{"refs/heads/main", "refs/heads/feature/login", "refs/tags/v1.0", "refs/tags/v2.0"},
		},
		{
			name:     "include by short name glob",
			include:  []string{"v*"},
			expected: []string{"refs/tags/v1.0", "refs/tags/v2.0"},
		},
		{
			name:     "include by full path glob",
			include:  []string{"refs/heads/**"},
			expected: []string{"refs/heads/main", "refs/heads/feature/login"},
		},
		{
			name:     "exclude wins over include",
			include:  []string{"refs/**"},
			exclude:  []string{"refs/tags/**"},
			expected: []string{"refs/heads/main", "refs/heads/feature/login"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filterRefs(refs, tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("filterRefs: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("filterRefs kept %d refs, expected %d", len(got), len(tt.expected))
			}
			for i := range tt.expected {
				if got[i].Name != tt.expected[i] {
					t.Errorf("got[%d] = %q, expected %q", i, got[i].Name, tt.expected[i])
				}
			}
		})
	}
}

func TestFilterRefsInvalidPattern(t *testing.T) {
	if _, err := filterRefs([]gitx.RefBinding{binding("refs/heads/main")}, []string{"[unclosed"}, nil); err == nil {
		t.Error("filterRefs accepted an invalid glob")
	}
}

func TestResolveSubject(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	dir, fixture := gittest.InitRepo(t)
	first := gittest.Commit(t, fixture, "first", when)
	gittest.Branch(t, fixture, "feature", first)
	gittest.Tag(t, fixture, "v1.0", first)

	repo := gittest.Open(t, dir)

	t.Run("empty means HEAD", func(t *testing.T) {
		subject, err := resolveSubject(repo, "")
		if err != nil {
			t.Fatalf("resolveSubject: %v", err)
		}
		if subject.Kind != gitx.SubjectRef {
			t.Errorf("kind = %v, expected ref", subject.Kind)
		}
	})

	t.Run("full ref path", func(t *testing.T) {
		subject, err := resolveSubject(repo, "refs/heads/feature")
		if err != nil {
			t.Fatalf("resolveSubject: %v", err)
		}
		if subject != gitx.RefSubject("refs/heads/feature") {
			t.Errorf("subject = %v, expected the full ref", subject)
		}
	})

	t.Run("short branch name canonicalizes", func(t *testing.T) {
		subject, err := resolveSubject(repo, "feature")
		if err != nil {
			t.Fatalf("resolveSubject: %v", err)
		}
		if subject != gitx.RefSubject("refs/heads/feature") {
			t.Errorf("subject = %v, expected refs/heads/feature", subject)
		}
	})

	t.Run("short tag name canonicalizes", func(t *testing.T) {
		subject, err := resolveSubject(repo, "v1.0")
		if err != nil {
			t.Fatalf("resolveSubject: %v", err)
		}
		if subject != gitx.RefSubject("refs/tags/v1.0") {
			t.Errorf("subject = %v, expected refs/tags/v1.0", subject)
		}
	})

	t.Run("raw commit id", func(t *testing.T) {
		subject, err := resolveSubject(repo, first.String())
		if err != nil {
			t.Fatalf("resolveSubject: %v", err)
		}
		if subject != gitx.CommitSubject(first) {
			t.Errorf("subject = %v, expected the bare commit", subject)
		}
	})

	t.Run("unknown revision", func(t *testing.T) {
		if _, err := resolveSubject(repo, "no-such-thing"); err == nil {
			t.Error("resolveSubject accepted an unknown revision")
		}
	})
}
