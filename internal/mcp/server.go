// Package mcp exposes the schema snapshot tooling over the Model Context
// Protocol so LLM clients can explore an org without touching the live API.
// One server instance serves one process; the active org is per-session
// state guarded by Session.
package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/store"
)

// New builds the MCP server with every tool registered. The caller picks
// the transport: RunStdio for `orglens mcp`, or HTTPHandler for serve mode.
func New(registry *store.Registry, version string, logger *zap.Logger) *mcp.Server {
	return NewWithSession(NewSession(registry), version, logger)
}

// NewWithSession builds the server around an existing session. Serve mode
// uses this so org switches made over MCP repoint the HTTP API too.
func NewWithSession(session *Session, version string, logger *zap.Logger) *mcp.Server {
	tools := NewTools(session, logger)

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "orglens",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_orgs",
		Description: "List the registered Salesforce orgs, their snapshot state, and which one is active.",
	}, tools.ListOrgs)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "switch_org",
		Description: "Switch the active org. Subsequent schema tools read that org's snapshot.",
	}, tools.SwitchOrg)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "refresh_object",
		Description: "Re-describe a single object from the live org and update the local snapshot. Requires org credentials (sf CLI or SF_* env vars).",
	}, tools.RefreshObject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_object_schema",
		Description: "Get an object's full schema: fields with types, required flags, picklist values, and child relationships. Set key_fields_only to trim the response to identifying and relationship fields.",
	}, tools.GetObjectSchema)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_objects",
		Description: "Search object API names and labels by case-insensitive substring.",
	}, tools.SearchObjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_all_objects",
		Description: "List every object in the active snapshot with label, custom flag, and field count.",
	}, tools.ListAllObjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_object_relationships",
		Description: "List an object's relationship fields: outbound lookups and master-details plus inbound references from other objects.",
	}, tools.GetObjectRelationships)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_er_diagram",
		Description: "Render an entity-relationship diagram (Mermaid or PlantUML) for one or more objects and their neighbors up to a relationship depth.",
	}, tools.GenerateERDiagram)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_hierarchy_diagram",
		Description: "Render a parent-child hierarchy diagram for a self-referencing object such as Account or Case.",
	}, tools.GenerateHierarchyDiagram)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "compare_schemas",
		Description: "Diff two org snapshots (aliases or snapshot directories) and report added, removed, and changed objects and fields, flagging breaking changes.",
	}, tools.CompareSchemas)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_schema_meta",
		Description: "Show when the active snapshot was synced, against which instance and API version, and the recent sync history.",
	}, tools.SchemaMeta)

	return srv
}

// RunStdio serves MCP over stdin/stdout until ctx is done.
func RunStdio(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler wraps the server in the streamable HTTP transport for
// mounting on a mux.
func HTTPHandler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return srv
	}, nil)
}
