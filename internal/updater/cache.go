package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	recordFile = "release-check.json"
	// RecheckAfter is how long a check result stays fresh.
	RecheckAfter = 24 * time.Hour
)

// Record is the cached outcome of the last release check.
type Record struct {
	Latest    string    `json:"latest"`
	CheckedAt time.Time `json:"checked_at"`
	URL       string    `json:"url,omitempty"`
}

// Stale reports whether r is missing or older than maxAge.
func (r *Record) Stale(maxAge time.Duration, now time.Time) bool {
	return r == nil || now.Sub(r.CheckedAt) > maxAge
}

// ReadRecord loads the cached record from dir. A missing file returns nil, nil.
func ReadRecord(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, recordFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading release check: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing release check: %w", err)
	}
	return &r, nil
}

// WriteRecord stores r in dir, creating dir when needed.
func WriteRecord(dir string, r *Record) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding release check: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, recordFile), data, 0644); err != nil {
		return fmt.Errorf("writing release check: %w", err)
	}
	return nil
}
