package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/store"
)

type orgSummary struct {
	Alias       string `json:"alias"`
	CacheDir    string `json:"cache_dir"`
	InstanceURL string `json:"instance_url,omitempty"`
	Username    string `json:"username,omitempty"`
	HasSnapshot bool   `json:"has_snapshot"`
	Stale       bool   `json:"stale"`
	Active      bool   `json:"active"`
}

func (t *Tools) ListOrgs(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	orgs, err := t.session.Registry().List()
	if err != nil {
		return toolError("Failed to read org registry: %v", err), nil, nil
	}

	activeAlias, activeDir := t.session.Current()

	if len(orgs) == 0 {
		// Single-org layout: snapshot lives at the cache root without a
		// registry entry.
		if meta, err := store.New(activeDir).LoadMeta(); err == nil {
			return toolText(fmt.Sprintf("Single org (unregistered): %s\nActive: %s",
				meta.InstanceURL, activeDir)), nil, nil
		}
		return toolText("No orgs are registered yet. Run `orglens sync --org <alias>` to create a snapshot."), nil, nil
	}

	summaries := make([]orgSummary, 0, len(orgs))
	for _, info := range orgs {
		dir := t.session.Registry().Resolve(info.Alias)
		st := store.New(dir)
		summaries = append(summaries, orgSummary{
			Alias:       info.Alias,
			CacheDir:    dir,
			InstanceURL: info.InstanceURL,
			Username:    info.Username,
			HasSnapshot: st.HasSnapshot(),
			Stale:       st.IsStale(store.DefaultMaxAge),
			Active:      info.Alias == activeAlias || dir == activeDir,
		})
	}

	return toolJSON(summaries)
}

type SwitchOrgInput struct {
	Org string `json:"org" jsonschema:"Registered org alias to make active"`
}

func (t *Tools) SwitchOrg(_ context.Context, _ *mcp.CallToolRequest, input SwitchOrgInput) (*mcp.CallToolResult, any, error) {
	if input.Org == "" {
		return toolError("Org alias is required"), nil, nil
	}

	dir, err := t.session.Switch(input.Org)
	if err != nil {
		available := "none"
		if orgs, listErr := t.session.Registry().List(); listErr == nil && len(orgs) > 0 {
			aliases := make([]string, len(orgs))
			for i, info := range orgs {
				aliases[i] = info.Alias
			}
			available = strings.Join(aliases, ", ")
		}
		return toolError("%v. Available orgs: %s", err, available), nil, nil
	}

	t.logger.Info("switched active org", zap.String("org", input.Org), zap.String("dir", dir))

	lastSynced := "unknown"
	if meta, err := store.New(dir).LoadMeta(); err == nil {
		lastSynced = meta.SyncedAt.Format(time.RFC3339)
	}
	return toolText(fmt.Sprintf("Switched to %q (%s). Last synced: %s", input.Org, dir, lastSynced)), nil, nil
}

type SchemaMetaInput struct {
	CacheDir string `json:"cache_dir,omitempty" jsonschema:"Org alias or snapshot directory to inspect; defaults to the active org"`
}

type metaView struct {
	Alias         string       `json:"alias,omitempty"`
	CacheDir      string       `json:"cache_dir"`
	RunID         string       `json:"run_id"`
	SyncedAt      time.Time    `json:"synced_at"`
	InstanceURL   string       `json:"instance_url,omitempty"`
	APIVersion    string       `json:"api_version"`
	ObjectsSynced int          `json:"objects_synced"`
	ObjectsFailed int          `json:"objects_failed"`
	Stale         bool         `json:"stale"`
	RecentRuns    []*store.Run `json:"recent_runs,omitempty"`
}

func (t *Tools) SchemaMeta(_ context.Context, _ *mcp.CallToolRequest, input SchemaMetaInput) (*mcp.CallToolResult, any, error) {
	alias, dir := t.session.Current()
	if input.CacheDir != "" {
		dir = t.snapshotDirFor(input.CacheDir)
		alias = ""
		if orgs, err := t.session.Registry().Load(); err == nil {
			if _, ok := orgs[input.CacheDir]; ok {
				alias = input.CacheDir
			}
		}
	}

	st := store.New(dir)
	meta, err := st.LoadMeta()
	if err != nil {
		return toolError("No sync metadata found in %s. Run `orglens sync` first.", dir), nil, nil
	}

	view := metaView{
		Alias:         alias,
		CacheDir:      dir,
		RunID:         meta.RunID,
		SyncedAt:      meta.SyncedAt,
		InstanceURL:   meta.InstanceURL,
		APIVersion:    meta.APIVersion,
		ObjectsSynced: meta.ObjectsSynced,
		ObjectsFailed: meta.ObjectsFailed,
		Stale:         st.IsStale(store.DefaultMaxAge),
	}

	// History is skipped for a directory override with no registry entry;
	// the journal is keyed by alias.
	root := t.session.Registry().Root()
	if (input.CacheDir == "" || alias != "") && store.HasJournal(root) {
		if journal, err := store.OpenJournal(root); err == nil {
			if runs, err := journal.History(alias, 5); err == nil {
				view.RecentRuns = runs
			}
			journal.Close()
		}
	}

	return toolJSON(view)
}
