package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

// Tools holds the state shared by every tool handler.
type Tools struct {
	session *Session
	logger  *zap.Logger
}

// NewTools wires the handlers to a session. A nil logger disables logging.
func NewTools(session *Session, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{session: session, logger: logger}
}

// snapshot loads the active org's snapshot from disk. Reading per call
// keeps the tools consistent with refresh_object and external syncs.
func (t *Tools) snapshot() (schema.Snapshot, error) {
	snap, err := t.session.Store().LoadSnapshot()
	if err != nil {
		_, dir := t.session.Current()
		return nil, fmt.Errorf("no snapshot loaded from %s (run `orglens sync` first): %w", dir, err)
	}
	return snap, nil
}

// canonicalName maps a possibly miscased object name onto the snapshot's
// exact entity name. Unknown names pass through unchanged.
func canonicalName(snap schema.Snapshot, name string) string {
	canon, _ := snap.Canonical(name)
	return canon
}

// snapshotDirFor resolves an org reference that may be either a literal
// snapshot directory or a registered alias.
func (t *Tools) snapshotDirFor(ref string) string {
	if store.New(ref).HasSnapshot() {
		return ref
	}
	return t.session.Registry().Resolve(ref)
}

// --- Result helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
