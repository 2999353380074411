package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxAge is how old a snapshot may grow before it is considered
// stale and a fresh sync is suggested.
const DefaultMaxAge = 24 * time.Hour

// Meta records when and how the snapshot in a store directory was synced.
type Meta struct {
	RunID         string    `json:"run_id"`
	SyncedAt      time.Time `json:"synced_at"`
	InstanceURL   string    `json:"instance_url,omitempty"`
	APIVersion    string    `json:"api_version"`
	ObjectsSynced int       `json:"objects_synced"`
	ObjectsFailed int       `json:"objects_failed"`
}

// SaveMeta writes the sync metadata to _meta.json.
func (s *Store) SaveMeta(m *Meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, metaFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write meta: %w", err)
	}

	return nil
}

// LoadMeta reads _meta.json. A missing file is an error; callers that only
// care about staleness should use IsStale instead.
func (s *Store) LoadMeta() (*Meta, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metaFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse meta: %w", err)
	}

	return &m, nil
}

// IsStale reports whether the snapshot is older than maxAge. Missing or
// unreadable metadata counts as stale.
func (s *Store) IsStale(maxAge time.Duration) bool {
	m, err := s.LoadMeta()
	if err != nil || m.SyncedAt.IsZero() {
		return true
	}
	return time.Since(m.SyncedAt) > maxAge
}
