// Package artifact manages the JSON artifacts each pipeline stage writes to
// the shared output directory. The file-based contract exists so stages can
// run standalone; the orchestrated run passes results in memory and writes
// these files as a side effect.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Well-known artifact file names.
const (
	InventoryFile = "component-inventory.json"
	ReportFile    = "audit-report.json"
	SummaryFile   = "summary.json"
	NarrativeFile = "audit-report.md"
)

// DomainFiles maps analyzer domain names to their artifact file names.
var DomainFiles = map[string]string{
	"motion":        "motion.json",
	"fixtures":      "fixture-coverage.json",
	"principles":    "principle-compliance.json",
	"checklist":     "checklist.json",
	"performance":   "performance.json",
	"accessibility": "accessibility.json",
	"material":      "cross-cutting-material.json",
	"library":       "library-usage.json",
}

// ErrMissingArtifact is returned when a required artifact does not exist.
// Dependent stages use errors.Is against this to fail fast instead of
// producing a degraded result.
var ErrMissingArtifact = errors.New("missing prerequisite artifact")

// Store reads and writes artifacts under a single output directory.
type Store struct {
	Dir string
}

// NewStore creates a store, creating the output directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

// Path returns the full path of a named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Exists reports whether a named artifact is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// WriteJSON writes v as indented JSON, atomically via a temp file rename so
// a concurrent standalone reader never sees a half-written artifact.
func (s *Store) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := s.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s into place: %w", name, err)
	}
	return nil
}

// ReadJSON reads a named artifact into target. A missing file yields an
// error satisfying errors.Is(err, ErrMissingArtifact).
func (s *Store) ReadJSON(name string, target any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingArtifact, name)
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// WriteText writes a plain-text artifact (the narrative document).
func (s *Store) WriteText(name, content string) error {
	if err := os.WriteFile(s.Path(name), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
