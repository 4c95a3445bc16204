// git-at finds the most recent commit whose message matches a regular
// expression, searching backwards from a revision.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v2"

	clix "github.com/poy5861R/scutiger/internal/cli"
	"github.com/poy5861R/scutiger/internal/search"
)

func app() *cli.App {
	return &cli.App{
		Name:      "git-at",
		Usage:     "Find a commit based on commit message",
		ArgsUsage: "[revision] <pattern>",
		Flags: append(clix.CommonFlags(),
			&cli.BoolFlag{
				Name:    "summary",
				Aliases: []string{"s"},
				Usage:   "Search only the commit summary",
			},
			&cli.BoolFlag{
				Name:  "show",
				Usage: "Invoke git show to show the commit",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Exit 1 silently if no commit is found",
			},
		),
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg, err := clix.LoadConfig(c)
	if err != nil {
		return clix.Exit(err, false)
	}

	// One positional is the pattern; two are revision then pattern.
	revision := cfg.Search.DefaultRevision
	pattern := ""
	switch c.NArg() {
	case 1:
		pattern = c.Args().Get(0)
	case 2:
		revision = c.Args().Get(0)
		pattern = c.Args().Get(1)
	default:
		cli.ShowAppHelp(c)
		return cli.Exit("", clix.ExitFatal)
	}

	repo, err := clix.OpenRepository(c)
	if err != nil {
		return err
	}

	summaryOnly := c.Bool("summary") || cfg.Search.SummaryOnly
	oid, err := search.Run(repo, revision, pattern, summaryOnly)
	if err != nil {
		return clix.Exit(err, c.Bool("quiet"))
	}

	if c.Bool("show") {
		show := exec.Command("git", "show", oid.String())
		show.Stdout = os.Stdout
		show.Stderr = os.Stderr
		show.Stdin = os.Stdin
		if err := show.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				return cli.Exit("", exitErr.ExitCode())
			}
			return cli.Exit("", clix.ExitExternalProgramFailed)
		}
		return nil
	}

	fmt.Println(oid)
	return nil
}

func main() {
	clix.Run(app())
}
