package output

import (
	"encoding/json"
	"time"

	"github.com/poy5861R/scutiger/internal/rank"
)

// JSONListingWriter renders a ranked listing as a JSON array.
type JSONListingWriter struct {
	// OutputPath redirects output to a file when non-empty.
	OutputPath string
}

type jsonEntry struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Write outputs the listing as JSON.
func (w *JSONListingWriter) Write(entries []rank.Entry, options Options) error {
	out, file, err := openOutputWriter(w.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	items := make([]jsonEntry, 0, len(entries))
	for _, entry := range limitTop(entries, options.Top) {
		items = append(items, jsonEntry{
			Name:      entry.Subject.Name,
			Kind:      entry.Subject.Kind.String(),
			Timestamp: entry.When,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
