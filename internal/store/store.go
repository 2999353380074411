// Package store persists schema snapshots as per-entity JSON documents
// in a cache directory, one directory per org.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/orglens/orglens/internal/schema"
)

const (
	indexFile   = "_index.json"
	metaFile    = "_meta.json"
	orgsFile    = "_orgs.json"
	journalFile = "_journal.db"
)

// ErrNotFound is returned when no document for the requested entity
// exists in the store.
type ErrNotFound struct {
	Name string
}

func (e ErrNotFound) Error() string {
	return "entity not found in store: " + e.Name
}

// IsNotFound checks if an error is a missing-entity error
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}

// Store reads and writes the snapshot documents for a single org directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is not created until
// the first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory this store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the store directory if it does not exist yet.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// SaveEntity writes one entity document as {name}.json.
func (s *Store) SaveEntity(e *schema.Entity) error {
	if e == nil || e.Name == "" {
		return fmt.Errorf("cannot save entity without a name")
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entity %s: %w", e.Name, err)
	}

	path := filepath.Join(s.dir, e.Name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write entity %s: %w", e.Name, err)
	}

	return nil
}

// LoadEntity reads one entity document by name. Lookup is case-insensitive:
// when {name}.json does not exist verbatim, the directory is scanned for a
// document whose filename matches the name ignoring case.
func (s *Store) LoadEntity(name string) (*schema.Entity, error) {
	path := filepath.Join(s.dir, name+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		path = s.findInsensitive(name)
		if path == "" {
			return nil, ErrNotFound{Name: name}
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entity %s: %w", name, err)
	}

	var entity schema.Entity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &entity, nil
}

// findInsensitive scans the store directory for a document whose basename
// matches name ignoring case. Returns "" when nothing matches.
func (s *Store) findInsensitive(name string) string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		base := entry.Name()
		if entry.IsDir() || strings.HasPrefix(base, "_") || !strings.HasSuffix(base, ".json") {
			continue
		}
		if strings.EqualFold(strings.TrimSuffix(base, ".json"), name) {
			return filepath.Join(s.dir, base)
		}
	}

	return ""
}

// LoadSnapshot reads every entity document in the store directory, skipping
// bookkeeping files with a "_" prefix. The snapshot is keyed by the entity
// name recorded inside each document, not by filename.
func (s *Store) LoadSnapshot() (schema.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	snap := schema.Snapshot{}
	for _, entry := range entries {
		base := entry.Name()
		if entry.IsDir() || strings.HasPrefix(base, "_") || !strings.HasSuffix(base, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, base))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", base, err)
		}

		var entity schema.Entity
		if err := json.Unmarshal(data, &entity); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", base, err)
		}
		if entity.Name == "" {
			continue
		}
		snap[entity.Name] = &entity
	}

	return snap, nil
}

// HasSnapshot reports whether the store directory contains at least one
// entity document.
func (s *Store) HasSnapshot() bool {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		base := entry.Name()
		if !entry.IsDir() && !strings.HasPrefix(base, "_") && strings.HasSuffix(base, ".json") {
			return true
		}
	}
	return false
}
