package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/orglens/orglens/internal/schema"
)

// IndexEntry is one row of the search index, a lightweight summary of an
// entity document.
type IndexEntry struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Custom     bool   `json:"custom"`
	FieldCount int    `json:"field_count"`
}

// BuildIndex summarizes a snapshot into index entries sorted by name.
func BuildIndex(snap schema.Snapshot) []IndexEntry {
	entries := make([]IndexEntry, 0, len(snap))
	for _, name := range snap.Names() {
		e := snap[name]
		entries = append(entries, IndexEntry{
			Name:       e.Name,
			Label:      e.DisplayLabel(),
			Custom:     e.Custom,
			FieldCount: len(e.Fields),
		})
	}
	return entries
}

// SaveIndex writes the search index to _index.json.
func (s *Store) SaveIndex(entries []IndexEntry) error {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, indexFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	return nil
}

// LoadIndex reads _index.json, rebuilding the index from the entity
// documents when the file is missing. The rebuilt index is not written
// back; only a sync refreshes the file.
func (s *Store) LoadIndex() ([]IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if os.IsNotExist(err) {
		snap, err := s.LoadSnapshot()
		if err != nil {
			return nil, err
		}
		return BuildIndex(snap), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}

	return entries, nil
}
