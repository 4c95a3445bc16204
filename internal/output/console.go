package output

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/rank"
)

// ConsoleListingWriter renders a ranked listing as an aligned console table.
type ConsoleListingWriter struct {
	// OutputPath redirects output to a file when non-empty.
	OutputPath string
}

var (
	branchColor = color.New(color.FgGreen)
	tagColor    = color.New(color.FgYellow)
	remoteColor = color.New(color.FgRed)
)

// Write outputs the listing, newest first.
func (w *ConsoleListingWriter) Write(entries []rank.Entry, options Options) error {
	out, file, err := openOutputWriter(w.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, entry := range limitTop(entries, options.Top) {
		name := entry.Subject.ShortName()
		if options.Verbose {
			name = entry.Subject.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			colorize(entry.Subject, name),
			entry.Subject.Kind,
			entry.When.Format(listingTimeLayout),
		)
	}
	return tw.Flush()
}

// colorize applies git's conventional ref coloring when writing to a
// terminal; color.New degrades to plain text otherwise.
func colorize(subject git.Subject, name string) string {
	if subject.Kind == git.SubjectCommit {
		return name
	}
	switch {
	case strings.HasPrefix(subject.Name, "refs/tags/"):
		return tagColor.Sprint(name)
	case strings.HasPrefix(subject.Name, "refs/remotes/"):
		return remoteColor.Sprint(name)
	default:
		return branchColor.Sprint(name)
	}
}
