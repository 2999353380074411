package schema

import (
	"sort"
	"strings"
)

// Snapshot is the full set of entities captured at one point in time, keyed
// by API name. Keys equal each contained Entity's own Name.
type Snapshot map[string]*Entity

// Names returns the entity names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether the snapshot holds an entity with the given name.
func (s Snapshot) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Canonical resolves name to the snapshot's exact key, matching
// case-insensitively when no exact entry exists. The boolean reports
// whether any entity matched.
func (s Snapshot) Canonical(name string) (string, bool) {
	if s.Contains(name) {
		return name, true
	}
	for key := range s {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return name, false
}
