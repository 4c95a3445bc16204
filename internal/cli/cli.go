// Package cli carries the plumbing shared by the scutiger front-ends:
// common flags, repository discovery, and the mapping from the error
// taxonomy to exit statuses.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/poy5861R/scutiger/config"
	gitx "github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/search"
	"github.com/poy5861R/scutiger/internal/visits"
)

// Exit statuses shared by the tool family. A missing revision or match is
// non-fatal; everything else that goes wrong is fatal.
const (
	ExitSuccess               = 0
	ExitNonFatal              = 1
	ExitFatal                 = 2
	ExitExternalProgramFailed = 3
	ExitNoRepository          = 4
)

// CommonFlags are accepted by every front-end.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"C"},
			Usage:   "Run as if started in this directory",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
	}
}

// LoadConfig loads configuration honoring the --config flag.
func LoadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// OpenRepository discovers the repository for the --repo flag. Failure to
// find one is its own exit status, matching the original tools.
func OpenRepository(c *cli.Context) (*gitx.Repository, error) {
	repo, err := gitx.Open(c.String("repo"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, cli.Exit("", ExitNoRepository)
	}
	return repo, nil
}

// Exit converts an error from the core into the front-end contract: the
// git-compatible message on stderr and the right exit status. quiet
// suppresses the message for non-fatal outcomes only.
func Exit(err error, quiet bool) error {
	if err == nil {
		return nil
	}

	var invalid *search.InvalidPatternError
	switch {
	case errors.Is(err, gitx.ErrNotFound):
		// Not fatal in our sense, but git prints this wording and scripts
		// match on it.
		return exitWith("fatal: needed a single revision", ExitNonFatal, quiet)
	case errors.As(err, &invalid):
		return exitWith(fmt.Sprintf("fatal: invalid regular expression: %v", invalid.Err), ExitFatal, false)
	case errors.Is(err, visits.ErrLockTimeout):
		return exitWith("fatal: could not lock the visit log", ExitFatal, false)
	case errors.Is(err, visits.ErrCorrupt):
		return exitWith(fmt.Sprintf("fatal: %v", err), ExitFatal, false)
	default:
		return exitWith(fmt.Sprintf("fatal: %v", err), ExitFatal, false)
	}
}

func exitWith(message string, status int, quiet bool) error {
	if !quiet {
		fmt.Fprintln(os.Stderr, message)
	}
	return cli.Exit("", status)
}

// Run executes an app and maps its error to the process exit code.
func Run(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(ExitFatal)
	}
}
