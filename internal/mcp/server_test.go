package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

// connect spins up the server over an in-memory transport and returns a
// connected client session.
func connect(t *testing.T, registry *store.Registry) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	srv := New(registry, "test", nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	_, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func TestServerListTools(t *testing.T) {
	root := t.TempDir()
	seedSnapshot(t, root)
	session := connect(t, store.NewRegistry(root))

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	want := []string{
		"list_orgs", "switch_org", "refresh_object",
		"get_object_schema", "search_objects", "list_all_objects",
		"get_object_relationships", "generate_er_diagram",
		"generate_hierarchy_diagram", "compare_schemas", "get_schema_meta",
	}

	got := make(map[string]bool, len(result.Tools))
	for _, tool := range result.Tools {
		got[tool.Name] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "missing tool %s", name)
	}
	assert.Len(t, result.Tools, len(want))
}

func TestServerCallToolRoundTrip(t *testing.T) {
	root := t.TempDir()
	seedSnapshot(t, root)
	session := connect(t, store.NewRegistry(root))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_object_schema",
		Arguments: map[string]any{"object_name": "Account"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var entity schema.Entity
	require.NoError(t, json.Unmarshal([]byte(text.Text), &entity))
	assert.Equal(t, "Account", entity.Name)
	assert.Len(t, entity.Fields, 4)
}
