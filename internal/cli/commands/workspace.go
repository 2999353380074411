package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/config"
	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

// workspace is the resolved environment a command runs against: loaded
// config, the org registry at the cache root, and the store over the
// selected org's snapshot directory.
type workspace struct {
	Config   *config.Config
	Registry *store.Registry
	Store    *store.Store
	Alias    string
}

// loadConfig loads orglens.yaml and applies the persistent flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		cfg.CacheDir = dir
	}
	if org, _ := cmd.Flags().GetString("org"); org != "" {
		cfg.Org = org
	}

	return cfg, nil
}

// openWorkspace resolves config, flags, and the org registry into the
// snapshot store a command should read.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	registry := store.NewRegistry(cfg.CacheDir)
	alias, dir, err := selectOrg(registry, cfg.Org)
	if err != nil {
		return nil, err
	}

	return &workspace{
		Config:   cfg,
		Registry: registry,
		Store:    store.New(dir),
		Alias:    alias,
	}, nil
}

// selectOrg picks the snapshot directory to read. An explicit alias wins;
// otherwise a single registered org is used as-is, several prompt when a
// terminal is attached, and none falls back to the cache root itself.
func selectOrg(registry *store.Registry, alias string) (string, string, error) {
	if alias != "" {
		return alias, registry.Resolve(alias), nil
	}

	orgs, err := registry.List()
	if err != nil {
		return "", "", fmt.Errorf("failed to read org registry: %w", err)
	}

	switch len(orgs) {
	case 0:
		return "", registry.Root(), nil
	case 1:
		return orgs[0].Alias, registry.Resolve(orgs[0].Alias), nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", "", fmt.Errorf("%d orgs are registered; pass --org or set org in orglens.yaml", len(orgs))
	}

	picked, err := pickOrg(orgs)
	if err != nil {
		return "", "", err
	}
	return picked, registry.Resolve(picked), nil
}

// pickOrg prompts for an org alias on the terminal.
func pickOrg(orgs []*store.OrgInfo) (string, error) {
	aliases := make([]string, len(orgs))
	for i, org := range orgs {
		aliases[i] = org.Alias
	}

	var choice string
	prompt := &survey.Select{
		Message: "Which org?",
		Options: aliases,
		Description: func(value string, index int) string {
			return orgs[index].InstanceURL
		},
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("org selection canceled: %w", err)
	}
	return choice, nil
}

// requireSnapshot loads the store's snapshot and turns an empty cache
// into a pointer at sync.
func requireSnapshot(st *store.Store) (schema.Snapshot, error) {
	snap, err := st.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	if len(snap) == 0 {
		return nil, fmt.Errorf("no snapshot in %s (run 'orglens sync' first)", st.Dir())
	}
	return snap, nil
}

// knownObjectNames lists the cached object names for did-you-mean
// suggestions. Best effort; a broken index just means no suggestions.
func knownObjectNames(st *store.Store) []string {
	entries, err := st.LoadIndex()
	if err != nil {
		return nil
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
