package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/expression"
	"github.com/erraggy/docproj/internal/fileutil"
	"github.com/erraggy/docproj/projection"
)

type projectApplyInput struct {
	Spec      documentInput  `json:"spec"                jsonschema:"The projection specification"`
	Documents documentInput  `json:"documents"           jsonschema:"The documents to project"`
	AddFields bool           `json:"add_fields,omitempty" jsonschema:"Treat the specification as computed fields added to every document"`
	Variables map[string]any `json:"variables,omitempty" jsonschema:"Variables available to computed fields"`
	Format    string         `json:"format,omitempty"    jsonschema:"Output format: json (default) or yaml"`
	Offset    int            `json:"offset,omitempty"    jsonschema:"Skip the first N projected documents"`
	Limit     int            `json:"limit,omitempty"     jsonschema:"Return at most N projected documents"`
	Output    string         `json:"output,omitempty"    jsonschema:"File path to write result. If omitted the result is returned inline."`
}

type projectApplyOutput struct {
	Total     int    `json:"total"`
	Returned  int    `json:"returned"`
	Mode      string `json:"mode"`
	WrittenTo string `json:"written_to,omitempty"`
	Documents string `json:"documents,omitempty"`
	Summary   string `json:"summary"`
}

func handleProjectApply(ctx context.Context, _ *mcp.CallToolRequest, input projectApplyInput) (*mcp.CallToolResult, projectApplyOutput, error) {
	if input.Output != "" {
		cleaned, err := validateOutputPath(input.Output)
		if err != nil {
			return errResult(err), projectApplyOutput{}, nil
		}
		input.Output = cleaned
	}

	tree, err := input.Spec.resolveTree(input.AddFields)
	if err != nil {
		return errResult(fmt.Errorf("spec: %w", err)), projectApplyOutput{}, nil
	}

	docs, err := input.Documents.resolveDocuments()
	if err != nil {
		return errResult(fmt.Errorf("documents: %w", err)), projectApplyOutput{}, nil
	}

	vars, err := toVariables(input.Variables)
	if err != nil {
		return errResult(err), projectApplyOutput{}, nil
	}

	projected, err := tree.ApplyBatch(ctx, docs,
		projection.WithWorkers(cfg.Workers),
		projection.WithVariables(vars),
	)
	if err != nil {
		return errResult(err), projectApplyOutput{}, nil
	}

	page := paginate(projected, input.Offset, input.Limit)
	data, err := encodeDocuments(input.Format, page)
	if err != nil {
		return errResult(err), projectApplyOutput{}, nil
	}

	output := projectApplyOutput{
		Total:    len(projected),
		Returned: len(page),
		Mode:     tree.Mode().String(),
	}
	output.Summary = fmt.Sprintf("Projected %d document(s) with an %s projection; returned %d.", output.Total, output.Mode, output.Returned)

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, fileutil.OwnerReadWrite); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), projectApplyOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Documents = string(data)
	}

	return nil, output, nil
}

// toVariables converts JSON tool arguments into expression variables.
func toVariables(in map[string]any) (*expression.Variables, error) {
	if len(in) == 0 {
		return nil, nil
	}
	vars := expression.NewVariables()
	for name, raw := range in {
		v, err := document.FromNative(raw)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars.Set(name, v)
	}
	return vars, nil
}

func encodeDocuments(format string, docs []*document.Document) ([]byte, error) {
	switch format {
	case "", "json":
		return document.EncodeJSON(docs...)
	case "yaml":
		return document.EncodeYAML(docs...)
	default:
		return nil, fmt.Errorf("unsupported format %q: must be json or yaml", format)
	}
}
