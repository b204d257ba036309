package projection

import (
	"maps"
	"slices"

	"github.com/erraggy/docproj/expression"
	"github.com/erraggy/docproj/fieldpath"
)

// ProjectedPaths returns the fully qualified paths of every plain field in
// the subtree, sorted.
func (n *Node) ProjectedPaths() []string {
	set := make(map[string]struct{})
	n.reportProjectedPaths(set)
	return slices.Sorted(maps.Keys(set))
}

func (n *Node) reportProjectedPaths(set map[string]struct{}) {
	for name := range n.projected {
		set[fieldpath.Qualify(n.path, name)] = struct{}{}
	}
	for _, child := range n.children {
		child.reportProjectedPaths(set)
	}
}

// ComputedPaths returns the paths written by computed fields in the subtree
// and the renames among them.
func (n *Node) ComputedPaths() expression.ComputedPaths {
	var out expression.ComputedPaths
	n.reportComputedPaths(&out)
	if out.Paths == nil {
		out.Paths = []string{}
	}
	return out
}

func (n *Node) reportComputedPaths(out *expression.ComputedPaths) {
	for _, name := range n.order {
		if child, ok := n.children[name]; ok {
			child.reportComputedPaths(out)
			continue
		}
		if expr, ok := n.expressions[name]; ok {
			out.Merge(expr.ComputedPaths(fieldpath.Qualify(n.path, name)))
		}
	}
}

// Dependencies summarizes what a tree reads and writes.
type Dependencies struct {
	Mode Mode

	// Projected are the plain field paths, sorted.
	Projected []string

	// Computed are the computed field paths, sorted.
	Computed []string

	// Renames maps a computed path to the input path it copies.
	Renames map[string]string

	// NeedsWholeDocument is true when the output may depend on fields not
	// listed in Projected: always the case for exclusion trees and for
	// computed fields that are not plain renames.
	NeedsWholeDocument bool
}

// Dependencies reports the projected and computed paths of the subtree.
func (n *Node) Dependencies() Dependencies {
	computed := n.ComputedPaths()
	deps := Dependencies{
		Mode:      n.mode,
		Projected: n.ProjectedPaths(),
		Computed:  computed.Paths,
		Renames:   computed.Renames,
	}
	if deps.Renames == nil {
		deps.Renames = map[string]string{}
	}
	deps.NeedsWholeDocument = n.mode == Exclusion || len(deps.Computed) > 0
	return deps
}

// SubtreeContainsComputedFields reports whether this node or any descendant
// holds a computed field. It is recomputed on every call.
func (n *Node) SubtreeContainsComputedFields() bool {
	if len(n.expressions) > 0 {
		return true
	}
	for _, child := range n.children {
		if child.SubtreeContainsComputedFields() {
			return true
		}
	}
	return false
}

// Optimize replaces every computed field with its optimized form. It must
// not run concurrently with Apply. Running it twice is the same as once.
func (n *Node) Optimize() {
	for name, expr := range n.expressions {
		n.expressions[name] = expr.Optimize()
	}
	for _, child := range n.children {
		child.Optimize()
	}
}
