// Package projection evaluates document projections.
//
// A projection rewrites a document according to a precompiled tree. In
// inclusion mode only the named fields (plus computed fields) survive; in
// exclusion mode everything survives except the named fields, and computed
// fields are overlaid on top.
//
// # Quick Start
//
// Build a tree from a specification document and apply it:
//
//	spec := document.MustDecode(`{name: 1, "address.city": 1, age: {$literal: 30}}`)
//	tree, err := projection.Build(spec, projection.DefaultPolicies())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := tree.ApplyToDocument(input)
//
// Or build a tree by hand:
//
//	tree := projection.NewNode(projection.Exclusion, projection.DefaultPolicies())
//	if err := tree.AddProjectionForPath(fieldpath.MustParse("secret")); err != nil {
//	    log.Fatal(err)
//	}
//
// # Tree Lifecycle
//
// A tree is built once (AddProjectionForPath, AddExpressionForPath, or
// Build), optionally optimized with Optimize, and then applied any number of
// times. After construction the tree is read-only: ApplyToDocument, Apply,
// ApplyBatch, the analysis methods and Serialize may be called concurrently
// from many goroutines.
//
// # Application
//
// Applying a tree runs two passes over each level:
//
//   - The structural pass walks the input's fields in input order, keeping or
//     clearing plain fields and recursing into child nodes. Arrays are
//     projected element by element; nested arrays are passed through as a
//     whole unless [Policies.ArrayRecursion] allows recursing into them.
//   - The overlay pass walks computed fields and children in declaration
//     order and writes expression results, always evaluated against the
//     top-level input document. A child holding computed fields replaces a
//     scalar it finds with a fresh document built from its computed fields.
//
// Input metadata is copied onto every output document.
//
// # Analysis
//
// ProjectedPaths, ComputedPaths and Dependencies report which paths a tree
// keeps, computes or renames, for query planners that move projections
// around. Serialize reconstructs a specification-shaped document, used for
// explain output.
package projection
