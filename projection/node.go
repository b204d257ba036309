package projection

import (
	"strings"

	"github.com/erraggy/docproj/expression"
	"github.com/erraggy/docproj/fieldpath"
	"github.com/erraggy/docproj/projerrors"
)

// Node is one level of a projection tree. The root node has an empty path;
// every other node is owned by its parent and reached through Child.
//
// A field name appears in at most one of the node's projected fields,
// computed fields and children. Computed fields and children are also kept
// in declaration order, which the overlay pass and Serialize follow.
type Node struct {
	mode     Mode
	policies Policies
	path     string

	projected   map[string]struct{}
	expressions map[string]expression.Expression
	children    map[string]*Node
	order       []string
}

// NewNode creates an empty root node.
func NewNode(mode Mode, policies Policies) *Node {
	return newNode(mode, policies, "")
}

// NewInclusion creates an empty inclusion root.
func NewInclusion(policies Policies) *Node {
	return NewNode(Inclusion, policies)
}

// NewExclusion creates an empty exclusion root.
func NewExclusion(policies Policies) *Node {
	return NewNode(Exclusion, policies)
}

func newNode(mode Mode, policies Policies, path string) *Node {
	return &Node{
		mode:        mode,
		policies:    policies,
		path:        path,
		projected:   make(map[string]struct{}),
		expressions: make(map[string]expression.Expression),
		children:    make(map[string]*Node),
	}
}

// Mode returns the tree's mode.
func (n *Node) Mode() Mode { return n.mode }

// Policies returns the tree's policies.
func (n *Node) Policies() Policies { return n.policies }

// Path returns the dotted path from the root to this node.
func (n *Node) Path() string { return n.path }

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// AddProjectionForPath records a plain field at path, creating intermediate
// children as needed.
func (n *Node) AddProjectionForPath(path fieldpath.Path) error {
	if path.IsZero() {
		return &projerrors.ContractError{Op: "AddProjectionForPath", Message: "empty path"}
	}
	name := path.First()
	if path.Len() == 1 {
		if _, ok := n.children[name]; ok {
			return n.collision("AddProjectionForPath", name, "field already has nested projections")
		}
		if _, ok := n.expressions[name]; ok {
			return n.collision("AddProjectionForPath", name, "field is already computed")
		}
		n.projected[name] = struct{}{}
		return nil
	}
	child, err := n.addOrGetChild("AddProjectionForPath", name)
	if err != nil {
		return err
	}
	return child.AddProjectionForPath(path.Tail())
}

// AddExpressionForPath records a computed field at path, creating
// intermediate children as needed. Re-adding an expression for the same
// path replaces it in place.
func (n *Node) AddExpressionForPath(path fieldpath.Path, expr expression.Expression) error {
	if n.policies.ComputedFields == BanComputedFields {
		return &projerrors.ContractError{Op: "AddExpressionForPath", Field: fieldpath.Qualify(n.path, path.String()), Message: "computed fields are banned"}
	}
	if expr == nil {
		return &projerrors.ContractError{Op: "AddExpressionForPath", Field: fieldpath.Qualify(n.path, path.String()), Message: "nil expression"}
	}
	if path.IsZero() {
		return &projerrors.ContractError{Op: "AddExpressionForPath", Message: "empty path"}
	}
	name := path.First()
	if path.Len() == 1 {
		if _, ok := n.projected[name]; ok {
			return n.collision("AddExpressionForPath", name, "field is already projected")
		}
		if _, ok := n.children[name]; ok {
			return n.collision("AddExpressionForPath", name, "field already has nested projections")
		}
		if _, ok := n.expressions[name]; !ok {
			n.order = append(n.order, name)
		}
		n.expressions[name] = expr
		return nil
	}
	child, err := n.addOrGetChild("AddExpressionForPath", name)
	if err != nil {
		return err
	}
	return child.AddExpressionForPath(path.Tail(), expr)
}

// ExpressionForPath returns the computed field stored at path, or nil.
func (n *Node) ExpressionForPath(path fieldpath.Path) expression.Expression {
	if path.IsZero() {
		return nil
	}
	if path.Len() == 1 {
		return n.expressions[path.First()]
	}
	child := n.children[path.First()]
	if child == nil {
		return nil
	}
	return child.ExpressionForPath(path.Tail())
}

// addOrGetChild returns the named child, creating it when absent. A computed
// field of the same name gives way to the child and keeps its position in
// the declaration order.
func (n *Node) addOrGetChild(op, name string) (*Node, error) {
	if child, ok := n.children[name]; ok {
		return child, nil
	}
	if _, ok := n.projected[name]; ok {
		return nil, n.collision(op, name, "field is already projected as a whole")
	}
	child := n.makeChild(name)
	n.children[name] = child
	if _, ok := n.expressions[name]; ok {
		delete(n.expressions, name)
	} else {
		n.order = append(n.order, name)
	}
	return child, nil
}

// makeChild creates a child of the same mode and policies.
func (n *Node) makeChild(name string) *Node {
	if strings.Contains(name, fieldpath.Separator) {
		panic(&projerrors.ContractError{Op: "makeChild", Field: name, Message: "child name contains a path separator"})
	}
	return newNode(n.mode, n.policies, fieldpath.Qualify(n.path, name))
}

func (n *Node) collision(op, name, msg string) error {
	return &projerrors.ContractError{Op: op, Field: fieldpath.Qualify(n.path, name), Message: msg}
}
