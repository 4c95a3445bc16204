package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// MergeOutcome reports the result of a trial merge. When Clean is true,
// TreeID is the id of the merged tree.
type MergeOutcome struct {
	Clean  bool
	TreeID plumbing.Hash
}

// MergeTrial probes whether two revisions merge cleanly, without touching the
// worktree or the index. go-git has no tree-level merge, so this delegates to
// `git merge-tree --write-tree`, which reports the merged tree id on success
// and a conflict listing otherwise.
func (r *Repository) MergeTrial(ctx context.Context, revA, revB string) (MergeOutcome, error) {
	dir, err := r.GitDir()
	if err != nil {
		return MergeOutcome{}, err
	}

	// Validate both sides up front so unknown revisions surface as
	// ErrNotFound rather than a git usage error.
	if _, err := r.Resolve(revA); err != nil {
		return MergeOutcome{}, err
	}
	if _, err := r.Resolve(revB); err != nil {
		return MergeOutcome{}, err
	}

	args := []string{
		"--git-dir", dir,
		"merge-tree", "--write-tree",
		revA, revB,
	}
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			// Exit 1 means the merge has conflicts; stdout still carries
			// the (conflicted) tree id on the first line.
			return MergeOutcome{Clean: false}, nil
		}
		return MergeOutcome{}, fmt.Errorf("git merge-tree failed: %w", err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	tree := plumbing.NewHash(strings.TrimSpace(line))
	if tree.IsZero() {
		return MergeOutcome{}, fmt.Errorf("unexpected git merge-tree output: %q", line)
	}
	return MergeOutcome{Clean: true, TreeID: tree}, nil
}
