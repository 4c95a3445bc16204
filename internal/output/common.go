// Package output renders ranked listings for the CLI front-ends.
package output

import (
	"io"
	"os"
)

const listingTimeLayout = "2006-01-02 15:04:05 -0700"

// OutputFormat selects a listing renderer.
type OutputFormat int

const (
	FormatConsole OutputFormat = iota
	FormatJSON
)

// ParseFormat maps a CLI format flag to an OutputFormat. Unrecognized values
// fall back to the console renderer.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	default:
		return FormatConsole
	}
}

// Options shared by the listing writers.
type Options struct {
	// Top limits the number of entries written; <= 0 means all.
	Top int
	// Verbose adds the tip commit summary to each line when available.
	Verbose bool
}

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
