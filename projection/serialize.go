package projection

import (
	"fmt"
	"slices"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/projerrors"
)

// Verbosity selects how much detail Serialize includes.
type Verbosity uint8

const (
	// NoExplain produces a specification that Build accepts.
	NoExplain Verbosity = iota
	// ExplainPlanner adds expression diagnostics.
	ExplainPlanner
	// ExplainExecStats is accepted for compatibility and behaves like ExplainPlanner.
	ExplainExecStats
)

// String returns the verbosity name.
func (v Verbosity) String() string {
	switch v {
	case NoExplain:
		return "none"
	case ExplainPlanner:
		return "planner"
	case ExplainExecStats:
		return "execStats"
	default:
		return fmt.Sprintf("Verbosity(%d)", v)
	}
}

// Serialize reconstructs a specification document from the tree. At every
// level the identifier field comes first when it is a plain field, then the
// other plain fields in sorted order marked true for inclusion or false for
// exclusion, then computed fields and children in declaration order.
func (n *Node) Serialize(verbosity Verbosity) *document.Document {
	out := document.New()
	marker := document.Bool(n.mode.plainFieldMarker())

	id := n.policies.idField()
	if _, ok := n.projected[id]; ok {
		out.Set(id, marker)
	}
	names := make([]string, 0, len(n.projected))
	for name := range n.projected {
		if name == id {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		out.Set(name, marker)
	}

	explain := verbosity != NoExplain
	for _, name := range n.order {
		if child, ok := n.children[name]; ok {
			out.Set(name, document.Doc(child.Serialize(verbosity)))
			continue
		}
		if n.policies.ComputedFields == BanComputedFields {
			panic(&projerrors.ContractError{Op: "Serialize", Field: name, Message: "computed field in a tree that bans them"})
		}
		out.Set(name, n.expressions[name].Serialize(explain))
	}
	return out
}
