// git-recent lists refs and commits by how recently they were committed,
// authored, or checked out. The checkout signal comes from a visit log fed
// by the post-checkout hook calling `git-recent record`.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/urfave/cli/v2"

	"github.com/poy5861R/scutiger/config"
	clix "github.com/poy5861R/scutiger/internal/cli"
	gitx "github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/output"
	"github.com/poy5861R/scutiger/internal/rank"
	"github.com/poy5861R/scutiger/internal/visits"
)

func app() *cli.App {
	return &cli.App{
		Name:      "git-recent",
		Usage:     "List recently used refs and commits",
		ArgsUsage: " ",
		Flags: append(clix.CommonFlags(),
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "Sort key (committerdate, authordate, visitdate)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Ref glob patterns to include (can be specified multiple times)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Ref glob patterns to exclude (can be specified multiple times)",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of entries to show (0 = all)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (console, json)",
				Value:   "console",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show full ref paths",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Include remote-tracking refs",
			},
		),
		Commands: []*cli.Command{
			recordCmd(),
			compactCmd(),
		},
		Action: list,
	}
}

func list(c *cli.Context) error {
	cfg, err := clix.LoadConfig(c)
	if err != nil {
		return clix.Exit(err, false)
	}
	repo, err := clix.OpenRepository(c)
	if err != nil {
		return err
	}

	sortSpelling := c.String("sort")
	if sortSpelling == "" {
		sortSpelling = cfg.Recent.DefaultSort
	}
	key, err := rank.ParseSortKey(sortSpelling)
	if err != nil {
		return clix.Exit(err, false)
	}

	prefixes := []string{"refs/heads/", "refs/tags/"}
	if c.Bool("all") {
		prefixes = append(prefixes, "refs/remotes/")
	}
	refs, err := repo.ListRefs(prefixes...)
	if err != nil {
		return clix.Exit(err, false)
	}
	refs, err = filterRefs(refs, includePatterns(c, cfg), excludePatterns(c, cfg))
	if err != nil {
		return clix.Exit(err, false)
	}

	in := rank.Inputs{Refs: refs}

	// A detached HEAD is something the user is interacting with right now,
	// so it joins the candidates as a bare commit.
	if head, err := repo.Head(); err == nil && head.Kind == gitx.SubjectCommit {
		in.Commits = append(in.Commits, plumbing.NewHash(head.Name))
	}

	if key == rank.ByVisitDate {
		in.Visits, err = readVisits(repo, cfg)
		if err != nil {
			return clix.Exit(err, false)
		}
	}

	entries, err := rank.Rank(repo, in, key)
	if err != nil {
		return clix.Exit(err, false)
	}

	count := c.Int("count")
	if count == 0 {
		count = cfg.Recent.MaxEntries
	}
	writer := output.NewListingWriter(output.ParseFormat(c.String("format")), c.String("output"))
	if err := writer.Write(entries, output.Options{Top: count, Verbose: c.Bool("verbose")}); err != nil {
		return clix.Exit(err, false)
	}
	return nil
}

func recordCmd() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "Record a checkout visit (invoked by the post-checkout hook)",
		ArgsUsage: "[subject]",
		Flags: append(clix.CommonFlags(),
			&cli.Int64Flag{
				Name:  "at",
				Usage: "Visit time as a unix timestamp (default: now)",
			},
		),
		Action: func(c *cli.Context) error {
			cfg, err := clix.LoadConfig(c)
			if err != nil {
				return clix.Exit(err, false)
			}
			repo, err := clix.OpenRepository(c)
			if err != nil {
				return err
			}

			subject, err := resolveSubject(repo, c.Args().First())
			if err != nil {
				return clix.Exit(err, false)
			}

			at := time.Now()
			if unix := c.Int64("at"); unix != 0 {
				at = time.Unix(unix, 0)
			}

			store, err := openStore(repo, cfg)
			if err != nil {
				return clix.Exit(err, false)
			}
			defer store.Close()
			if err := store.Record(subject, at); err != nil {
				return clix.Exit(err, false)
			}
			return nil
		},
	}
}

func compactCmd() *cli.Command {
	return &cli.Command{
		Name:  "compact",
		Usage: "Drop superseded visit records to bound log growth",
		Flags: clix.CommonFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := clix.LoadConfig(c)
			if err != nil {
				return clix.Exit(err, false)
			}
			repo, err := clix.OpenRepository(c)
			if err != nil {
				return err
			}
			store, err := openStore(repo, cfg)
			if err != nil {
				return clix.Exit(err, false)
			}
			defer store.Close()
			if err := store.Compact(); err != nil {
				return clix.Exit(err, false)
			}
			return nil
		},
	}
}

func openStore(repo *gitx.Repository, cfg *config.Config) (*visits.Store, error) {
	path, err := repo.VisitLogPath(cfg.Store.FileName)
	if err != nil {
		return nil, err
	}
	return visits.Open(path, visits.Options{
		LockTimeout: cfg.Store.LockTimeout(),
		LockRetries: cfg.Store.LockRetries,
		LockBackoff: cfg.Store.LockBackoff(),
	})
}

func readVisits(repo *gitx.Repository, cfg *config.Config) ([]visits.Record, error) {
	store, err := openStore(repo, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.ReadAll()
}

// resolveSubject canonicalizes what the hook hands us: nothing means the
// current HEAD, a full ref path stays a ref, a commit-ish resolves to a bare
// commit id. Canonical names keep duplicate display forms out of the log.
func resolveSubject(repo *gitx.Repository, arg string) (gitx.Subject, error) {
	if arg == "" {
		return repo.Head()
	}
	if strings.HasPrefix(arg, "refs/") {
		return gitx.RefSubject(arg), nil
	}
	// Short branch or tag name?
	refs, err := repo.ListRefs("refs/heads/"+arg, "refs/tags/"+arg)
	if err == nil {
		for _, ref := range refs {
			if ref.Name == "refs/heads/"+arg || ref.Name == "refs/tags/"+arg {
				return gitx.RefSubject(ref.Name), nil
			}
		}
	}
	id, err := repo.Resolve(arg)
	if err != nil {
		return gitx.Subject{}, err
	}
	return gitx.CommitSubject(id), nil
}

func includePatterns(c *cli.Context, cfg *config.Config) []string {
	if patterns := c.StringSlice("include"); len(patterns) > 0 {
		return patterns
	}
	return cfg.Recent.Include
}

func excludePatterns(c *cli.Context, cfg *config.Config) []string {
	if patterns := c.StringSlice("exclude"); len(patterns) > 0 {
		return patterns
	}
	return cfg.Recent.Exclude
}

// filterRefs applies include/exclude globs against both the full ref path
// and its short display form.
func filterRefs(refs []gitx.RefBinding, include, exclude []string) ([]gitx.RefBinding, error) {
	matches := func(patterns []string, ref gitx.RefBinding) (bool, error) {
		short := gitx.RefSubject(ref.Name).ShortName()
		for _, pattern := range patterns {
			full, err := doublestar.Match(pattern, ref.Name)
			if err != nil {
				return false, fmt.Errorf("invalid ref pattern %q: %w", pattern, err)
			}
			if full {
				return true, nil
			}
			if ok, _ := doublestar.Match(pattern, short); ok {
				return true, nil
			}
		}
		return false, nil
	}

	filtered := make([]gitx.RefBinding, 0, len(refs))
	for _, ref := range refs {
		if len(include) > 0 {
			ok, err := matches(include, ref)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		skip, err := matches(exclude, ref)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		filtered = append(filtered, ref)
	}
	return filtered, nil
}

func main() {
	clix.Run(app())
}
