package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/projection"
)

type projectExplainInput struct {
	Spec      documentInput `json:"spec"                 jsonschema:"The projection specification"`
	AddFields bool          `json:"add_fields,omitempty" jsonschema:"Treat the specification as computed fields added to every document"`
	Verbose   bool          `json:"verbose,omitempty"    jsonschema:"Include expression result types"`
}

type projectExplainOutput struct {
	Mode               string            `json:"mode"`
	Specification      string            `json:"specification"`
	ProjectedPaths     []string          `json:"projected_paths"`
	ComputedPaths      []string          `json:"computed_paths"`
	Renames            map[string]string `json:"renames,omitempty"`
	NeedsWholeDocument bool              `json:"needs_whole_document"`
	Summary            string            `json:"summary"`
}

func handleProjectExplain(_ context.Context, _ *mcp.CallToolRequest, input projectExplainInput) (*mcp.CallToolResult, projectExplainOutput, error) {
	tree, err := input.Spec.resolveTree(input.AddFields)
	if err != nil {
		return errResult(fmt.Errorf("spec: %w", err)), projectExplainOutput{}, nil
	}

	verbosity := projection.NoExplain
	if input.Verbose {
		verbosity = projection.ExplainPlanner
	}
	data, err := document.Doc(tree.Serialize(verbosity)).MarshalJSON()
	if err != nil {
		return errResult(err), projectExplainOutput{}, nil
	}

	deps := tree.Dependencies()
	output := projectExplainOutput{
		Mode:               deps.Mode.String(),
		Specification:      string(data),
		ProjectedPaths:     deps.Projected,
		ComputedPaths:      deps.Computed,
		NeedsWholeDocument: deps.NeedsWholeDocument,
	}
	if len(deps.Renames) > 0 {
		output.Renames = deps.Renames
	}
	output.Summary = buildExplainSummary(deps)

	return nil, output, nil
}

func buildExplainSummary(deps projection.Dependencies) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s projection: %d projected path(s), %d computed path(s), %d rename(s).",
		deps.Mode, len(deps.Projected), len(deps.Computed), len(deps.Renames))
	if deps.NeedsWholeDocument {
		b.WriteString(" Requires the whole input document.")
	}
	return b.String()
}
