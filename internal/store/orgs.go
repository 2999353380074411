package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// OrgInfo is one entry in the org registry.
type OrgInfo struct {
	Alias       string    `json:"alias"`
	Dir         string    `json:"cache_dir"`
	InstanceURL string    `json:"instance_url,omitempty"`
	Username    string    `json:"username,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// Registry tracks which org aliases have snapshot directories under the
// cache root. It is stored as _orgs.json in the root itself.
type Registry struct {
	root string
}

// NewRegistry creates a registry over the given cache root.
func NewRegistry(root string) *Registry {
	return &Registry{root: root}
}

// Root returns the cache root directory.
func (r *Registry) Root() string {
	return r.root
}

// Load reads the registry. A missing file yields an empty registry.
func (r *Registry) Load() (map[string]*OrgInfo, error) {
	data, err := os.ReadFile(filepath.Join(r.root, orgsFile))
	if os.IsNotExist(err) {
		return map[string]*OrgInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read org registry: %w", err)
	}

	orgs := map[string]*OrgInfo{}
	if err := json.Unmarshal(data, &orgs); err != nil {
		return nil, fmt.Errorf("failed to parse org registry: %w", err)
	}

	return orgs, nil
}

// Register records an org alias and its snapshot directory, creating the
// cache root if needed. Re-registering an alias keeps its original AddedAt.
func (r *Registry) Register(info *OrgInfo) error {
	if info == nil || info.Alias == "" {
		return fmt.Errorf("cannot register org without an alias")
	}

	orgs, err := r.Load()
	if err != nil {
		return err
	}
	if info.AddedAt.IsZero() {
		if existing, ok := orgs[info.Alias]; ok && !existing.AddedAt.IsZero() {
			info.AddedAt = existing.AddedAt
		} else {
			info.AddedAt = time.Now().UTC()
		}
	}
	orgs[info.Alias] = info

	if err := os.MkdirAll(r.root, 0755); err != nil {
		return fmt.Errorf("failed to create cache root: %w", err)
	}

	data, err := json.MarshalIndent(orgs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal org registry: %w", err)
	}

	if err := os.WriteFile(filepath.Join(r.root, orgsFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write org registry: %w", err)
	}

	return nil
}

// List returns the registered orgs sorted by alias.
func (r *Registry) List() ([]*OrgInfo, error) {
	orgs, err := r.Load()
	if err != nil {
		return nil, err
	}

	list := make([]*OrgInfo, 0, len(orgs))
	for _, info := range orgs {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Alias < list[j].Alias })

	return list, nil
}

// Resolve maps an org alias to its snapshot directory. Registered aliases
// use their recorded directory; unknown aliases default to a subdirectory
// of the cache root named after the alias. An empty alias resolves to the
// root itself, the single-org layout.
func (r *Registry) Resolve(alias string) string {
	if alias == "" {
		return r.root
	}

	orgs, err := r.Load()
	if err == nil {
		if info, ok := orgs[alias]; ok && info.Dir != "" {
			return info.Dir
		}
	}

	return filepath.Join(r.root, alias)
}
