package mcp

import (
	"fmt"
	"sync"

	"github.com/orglens/orglens/internal/store"
)

// Session tracks which org's snapshot the tools read. Tool handlers may
// run concurrently, so all access goes through the mutex.
type Session struct {
	mu       sync.Mutex
	registry *store.Registry
	alias    string
	dir      string
}

// NewSession creates the session state for one server. With exactly one
// registered org that org starts active; otherwise the cache root itself
// is used, the single-org layout.
func NewSession(registry *store.Registry) *Session {
	s := &Session{registry: registry, dir: registry.Root()}

	orgs, err := registry.Load()
	if err == nil && len(orgs) == 1 {
		for alias := range orgs {
			s.alias = alias
			s.dir = registry.Resolve(alias)
		}
	}

	return s
}

// Registry returns the org registry behind the session.
func (s *Session) Registry() *store.Registry {
	return s.registry
}

// Current returns the active org alias (possibly empty) and snapshot
// directory.
func (s *Session) Current() (alias, dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alias, s.dir
}

// Store returns a store over the active snapshot directory.
func (s *Session) Store() *store.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.New(s.dir)
}

// Switch makes another org's snapshot directory active. The directory
// must already hold a synced snapshot.
func (s *Session) Switch(alias string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.registry.Resolve(alias)
	if !store.New(dir).HasSnapshot() {
		return "", fmt.Errorf("no snapshot found for org %q in %s; run `orglens sync --org %s` first", alias, dir, alias)
	}

	s.alias = alias
	s.dir = dir
	return dir, nil
}
