package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gitx "github.com/poy5861R/scutiger/internal/git"
	"github.com/poy5861R/scutiger/internal/rank"
)

var listTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleEntries() []rank.Entry {
	return []rank.Entry{
		{Subject: gitx.RefSubject("refs/heads/main"), When: listTime.Add(2 * time.Hour)},
		{Subject: gitx.RefSubject("refs/tags/v1.0"), When: listTime.Add(time.Hour)},
		{Subject: gitx.RefSubject("refs/heads/feature"), When: listTime},
	}
}

func TestJSONListingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	writer := &JSONListingWriter{OutputPath: path}
	if err := writer.Write(sampleEntries(), Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var items []struct {
		Name      string    `json:"name"`
		Kind      string    `json:"kind"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("wrote %d items, expected 3", len(items))
	}
	if items[0].Name != "refs/heads/main" || items[0].Kind != "ref" {
		t.Errorf("items[0] = %+v, expected refs/heads/main ref", items[0])
	}
	if !items[0].Timestamp.Equal(listTime.Add(2 * time.Hour)) {
		t.Errorf("items[0].Timestamp = %v, expected %v", items[0].Timestamp, listTime.Add(2*time.Hour))
	}
}

func TestJSONListingWriterTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	writer := &JSONListingWriter{OutputPath: path}
	if err := writer.Write(sampleEntries(), Options{Top: 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("wrote %d items, expected 2 with Top=2", len(items))
	}
}

func TestConsoleListingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	writer := &ConsoleListingWriter{OutputPath: path}
	if err := writer.Write(sampleEntries(), Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("wrote %d lines, expected 3:\n%s", len(lines), text)
	}
	if !strings.Contains(lines[0], "main") {
		t.Errorf("lines[0] = %q, expected the newest subject first", lines[0])
	}
	if !strings.Contains(lines[1], "v1.0") {
		t.Errorf("lines[1] = %q, expected the tag", lines[1])
	}
}

func TestConsoleListingWriterVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	writer := &ConsoleListingWriter{OutputPath: path}
	if err := writer.Write(sampleEntries(), Options{Verbose: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "refs/heads/main") {
		t.Errorf("verbose output %q lacks the full ref path", string(data))
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Error("ParseFormat(json) != FormatJSON")
	}
	if ParseFormat("console") != FormatConsole {
		t.Error("ParseFormat(console) != FormatConsole")
	}
	if ParseFormat("") != FormatConsole {
		t.Error("ParseFormat of unknown value should fall back to console")
	}
}

func TestNewListingWriter(t *testing.T) {
	if _, ok := NewListingWriter(FormatJSON, "").(*JSONListingWriter); !ok {
		t.Error("NewListingWriter(FormatJSON) is not the JSON writer")
	}
	if _, ok := NewListingWriter(FormatConsole, "").(*ConsoleListingWriter); !ok {
		t.Error("NewListingWriter(FormatConsole) is not the console writer")
	}
}
