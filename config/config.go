package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure shared by the utilities.
type Config struct {
	Search Search `json:"search"`
	Recent Recent `json:"recent"`
	Store  Store  `json:"store"`
}

// Search holds git-at defaults.
type Search struct {
	DefaultRevision string `json:"defaultRevision"` // Default: "HEAD"
	SummaryOnly     bool   `json:"summaryOnly"`     // Default: false
}

// Recent holds git-recent listing defaults.
type Recent struct {
	DefaultSort string   `json:"defaultSort"` // Default: "committerdate"
	MaxEntries  int      `json:"maxEntries"`  // Default: 0 (all)
	Include     []string `json:"include"`     // Ref glob patterns to include
	Exclude     []string `json:"exclude"`     // Ref glob patterns to exclude
}

// Store holds visit log settings.
type Store struct {
	FileName          string `json:"fileName"`          // Default: "recent.db"
	LockTimeoutMillis int    `json:"lockTimeoutMillis"` // Default: 500
	LockRetries       int    `json:"lockRetries"`       // Default: 3
	LockBackoffMillis int    `json:"lockBackoffMillis"` // Default: 50
}

// LockTimeout returns the lock timeout as a duration.
func (s Store) LockTimeout() time.Duration {
	return time.Duration(s.LockTimeoutMillis) * time.Millisecond
}

// LockBackoff returns the retry backoff as a duration.
func (s Store) LockBackoff() time.Duration {
	return time.Duration(s.LockBackoffMillis) * time.Millisecond
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: Search{
			DefaultRevision: "HEAD",
			SummaryOnly:     false,
		},
		Recent: Recent{
			DefaultSort: "committerdate",
			MaxEntries:  0,
			Include:     []string{},
			Exclude:     []string{},
		},
		Store: Store{
			FileName:          "recent.db",
			LockTimeoutMillis: 500,
			LockRetries:       3,
			LockBackoffMillis: 50,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults. An
// empty path searches the working directory and then the home directory for
// .scutiger.json; a missing file just yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidates := []string{".scutiger.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".scutiger.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
