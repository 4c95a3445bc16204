package output

import "github.com/poy5861R/scutiger/internal/rank"

// ListingWriter is implemented by all listing renderers.
type ListingWriter interface {
	Write(entries []rank.Entry, options Options) error
}

// NewListingWriter returns the writer for a format.
func NewListingWriter(format OutputFormat, outputPath string) ListingWriter {
	switch format {
	case FormatJSON:
		return &JSONListingWriter{OutputPath: outputPath}
	default:
		return &ConsoleListingWriter{OutputPath: outputPath}
	}
}
