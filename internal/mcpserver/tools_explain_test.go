package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docproj/projection"
)

func TestProjectExplainTool_Inclusion(t *testing.T) {
	input := projectExplainInput{
		Spec: documentInput{Content: `{name: 1, address: {city: 1}, alias: $name, total: {$cel: "2 * 3"}}`},
	}
	result, output, err := handleProjectExplain(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "inclusion", output.Mode)
	assert.Equal(t, []string{"_id", "address.city", "name"}, output.ProjectedPaths)
	assert.Equal(t, []string{"total"}, output.ComputedPaths)
	assert.Equal(t, map[string]string{"alias": "name"}, output.Renames)
	assert.True(t, output.NeedsWholeDocument)
	assert.Equal(t,
		`{"_id":true,"name":true,"address":{"city":true},"alias":"$name","total":{"$literal":6}}`,
		output.Specification, "constant programs should be folded")
	assert.Contains(t, output.Summary, "3 projected path(s)")
}

func TestProjectExplainTool_Exclusion(t *testing.T) {
	_, output, err := handleProjectExplain(context.Background(), &mcp.CallToolRequest{},
		projectExplainInput{Spec: documentInput{Content: `{secret: 0, "a.b": false}`}})
	require.NoError(t, err)

	assert.Equal(t, "exclusion", output.Mode)
	assert.Equal(t, []string{"a.b", "secret"}, output.ProjectedPaths)
	assert.Empty(t, output.ComputedPaths)
	assert.Nil(t, output.Renames)
	assert.Equal(t, `{"secret":false,"a":{"b":false}}`, output.Specification)
	assert.Contains(t, output.Summary, "Requires the whole input document")
}

func TestProjectExplainTool_Verbose(t *testing.T) {
	_, output, err := handleProjectExplain(context.Background(), &mcp.CallToolRequest{},
		projectExplainInput{Spec: documentInput{Content: `{ok: {$cel: "root.age > 1"}}`}, Verbose: true})
	require.NoError(t, err)

	assert.Contains(t, output.Specification, `"returns":"bool"`)
}

func TestProjectExplainTool_InvalidSpec(t *testing.T) {
	result, _, err := handleProjectExplain(context.Background(), &mcp.CallToolRequest{},
		projectExplainInput{Spec: documentInput{Content: `{a: {$cel: "1 +"}}`}})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestBuildExplainSummary(t *testing.T) {
	summary := buildExplainSummary(projection.Dependencies{
		Mode:      projection.Inclusion,
		Projected: []string{"a"},
		Renames:   map[string]string{"b": "c"},
	})
	assert.Equal(t, "inclusion projection: 1 projected path(s), 0 computed path(s), 1 rename(s).", summary)
}
