// git-test-merge probes whether two revisions merge cleanly without
// touching the worktree.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	clix "github.com/poy5861R/scutiger/internal/cli"
)

func app() *cli.App {
	return &cli.App{
		Name:      "git-test-merge",
		Usage:     "Check whether two revisions merge cleanly",
		ArgsUsage: "<revision> [<revision>]",
		Flags: append(clix.CommonFlags(),
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Exit 1 silently if the merge has conflicts",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Print the id of the merged tree",
			},
		),
		Action: run,
	}
}

func run(c *cli.Context) error {
	// One positional merges it with HEAD; two name both sides.
	var revA, revB string
	switch c.NArg() {
	case 1:
		revA = "HEAD"
		revB = c.Args().Get(0)
	case 2:
		revA = c.Args().Get(0)
		revB = c.Args().Get(1)
	default:
		cli.ShowAppHelp(c)
		return cli.Exit("", clix.ExitFatal)
	}

	repo, err := clix.OpenRepository(c)
	if err != nil {
		return err
	}

	outcome, err := repo.MergeTrial(c.Context, revA, revB)
	if err != nil {
		return clix.Exit(err, c.Bool("quiet"))
	}
	if !outcome.Clean {
		if !c.Bool("quiet") {
			fmt.Fprintf(os.Stderr, "error: %s and %s do not merge cleanly\n", revA, revB)
		}
		return cli.Exit("", clix.ExitNonFatal)
	}
	if c.Bool("write") {
		fmt.Println(outcome.TreeID)
	}
	return nil
}

func main() {
	clix.Run(app())
}
