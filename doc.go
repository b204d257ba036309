// Package docproj projects YAML and JSON documents through projection trees.
//
// A projection specification names the fields to keep (inclusion), the
// fields to drop (exclusion), and computed fields whose values come from
// expressions. docproj compiles a specification into a tree once and applies
// it to any number of documents.
//
// # Overview
//
// The module is organized into the following packages:
//
//   - document: ordered document model and YAML/JSON codec
//   - fieldpath: dotted field paths such as "address.city"
//   - expression: computed field expressions (field references, literals, CEL programs)
//   - projection: projection trees, their application and analysis
//   - projerrors: structured error types shared by all packages
//
// # Quick Start
//
// Build a tree from a specification and apply it:
//
//	import (
//		"github.com/erraggy/docproj/document"
//		"github.com/erraggy/docproj/projection"
//	)
//
//	spec := document.MustDecode(`{name: 1, address.city: 1, label: {$cel: "root.name + '!'"}}`)
//	tree, err := projection.Build(spec, projection.DefaultPolicies())
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := tree.ApplyToDocument(document.MustDecode(`{_id: 1, name: Ann, address: {city: Oslo, zip: "0150"}}`))
//	if err != nil {
//		log.Fatal(err)
//	}
//	// out: {_id: 1, name: Ann, address: {city: Oslo}, label: Ann!}
//
// Trees can also be assembled directly with projection.NewInclusion and
// projection.NewExclusion together with AddProjectionForPath and
// AddExpressionForPath.
//
// # Policies
//
// projection.Policies controls how arrays nested directly inside arrays are
// treated, whether computed fields are allowed, and whether the identifier
// field ("_id" unless configured otherwise) is kept when a specification does
// not mention it.
//
// # Error Handling
//
// Errors returned by the library wrap the types in projerrors, so callers can
// use errors.Is with the sentinels (projerrors.ErrSpec, projerrors.ErrExpression,
// and so on) or errors.As to recover details such as the path of a failing
// computed field:
//
//	var exprErr *projerrors.ExpressionError
//	if errors.As(err, &exprErr) {
//		fmt.Println("computed field failed:", exprErr.Path)
//	}
//
// Using a tree that is internally inconsistent panics with a
// *projerrors.ContractError.
//
// # Command-Line Tool
//
// The docproj command applies and explains specifications from the shell and
// serves both operations to MCP clients:
//
//	docproj apply -p projection.yaml people.yaml
//	docproj explain -p projection.yaml -f json
//	docproj mcp
//
// # Concurrency
//
// A tree is safe for concurrent Apply calls once it is built and optimized.
// projection.Node.ApplyBatch projects a slice of documents with a bounded
// worker pool and returns results in input order.
package docproj
