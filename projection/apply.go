package projection

import (
	"errors"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/expression"
	"github.com/erraggy/docproj/fieldpath"
	"github.com/erraggy/docproj/projerrors"
)

// ApplyToDocument applies the tree to in without variables.
// The input is never modified.
func (n *Node) ApplyToDocument(in *document.Document) (*document.Document, error) {
	return n.Apply(in, nil)
}

// Apply applies the tree to in, evaluating computed fields with vars.
// The returned error is a *projerrors.ExpressionError naming the computed
// field that failed.
func (n *Node) Apply(in *document.Document, vars *expression.Variables) (*document.Document, error) {
	out := n.mode.seed(in)
	n.applyProjections(in, out)
	if err := n.applyExpressions(in, out, vars); err != nil {
		return nil, err
	}
	out.CopyMetadataFrom(in)
	return out, nil
}

// applyProjections writes the structural result of projecting in onto out,
// walking in's fields in input order.
func (n *Node) applyProjections(in, out *document.Document) {
	for name, v := range in.All() {
		if _, ok := n.projected[name]; ok {
			out.Set(name, n.mode.projectLeaf(v))
			continue
		}
		if child, ok := n.children[name]; ok {
			out.Set(name, child.projectValue(v))
		}
	}
}

// projectValue projects a value found at this node's path.
func (n *Node) projectValue(v document.Value) document.Value {
	switch v.Kind() {
	case document.KindDocument:
		sub := n.mode.seed(v.Document())
		n.applyProjections(v.Document(), sub)
		return document.Doc(sub)
	case document.KindArray:
		// Missing elements keep their slot until the overlay pass, which may
		// still materialize them and drops whatever stays missing.
		elems := v.ArrayValues()
		out := make([]document.Value, len(elems))
		for i, elem := range elems {
			if elem.IsArray() && n.policies.ArrayRecursion == DoNotRecurseNestedArrays {
				out[i] = n.mode.transformSkipped(elem)
			} else {
				out[i] = n.projectValue(elem)
			}
		}
		return document.Array(out)
	default:
		return n.mode.transformSkipped(v)
	}
}

// applyExpressions overlays computed fields and children onto out in
// declaration order. Expressions always see the top-level input as root.
func (n *Node) applyExpressions(root, out *document.Document, vars *expression.Variables) error {
	for _, name := range n.order {
		if child, ok := n.children[name]; ok {
			v, err := child.overlayValue(root, out.Get(name), vars)
			if err != nil {
				return err
			}
			out.Set(name, v)
			continue
		}
		expr, ok := n.expressions[name]
		if !ok {
			panic(&projerrors.ContractError{
				Op:      "Apply",
				Field:   fieldpath.Qualify(n.path, name),
				Message: "declared field is neither a child nor a computed field",
			})
		}
		v, err := expr.Evaluate(root, vars)
		if err != nil {
			return n.expressionError(name, expr, err)
		}
		out.Set(name, v)
	}
	return nil
}

// overlayValue overlays computed fields onto a value found at this node's
// path after the structural pass.
func (n *Node) overlayValue(root *document.Document, v document.Value, vars *expression.Variables) (document.Value, error) {
	switch v.Kind() {
	case document.KindDocument:
		sub := v.Document().Clone()
		if err := n.applyExpressions(root, sub, vars); err != nil {
			return document.Missing(), err
		}
		return document.Doc(sub), nil
	case document.KindArray:
		elems := v.ArrayValues()
		out := make([]document.Value, 0, len(elems))
		for _, elem := range elems {
			overlaid, err := n.overlayValue(root, elem, vars)
			if err != nil {
				return document.Missing(), err
			}
			if !overlaid.IsMissing() {
				out = append(out, overlaid)
			}
		}
		return document.Array(out), nil
	default:
		if !n.SubtreeContainsComputedFields() {
			return n.mode.transformSkipped(v), nil
		}
		sub := document.New()
		if err := n.applyExpressions(root, sub, vars); err != nil {
			return document.Missing(), err
		}
		return document.Doc(sub), nil
	}
}

func (n *Node) expressionError(name string, expr expression.Expression, err error) error {
	path := fieldpath.Qualify(n.path, name)
	var exprErr *projerrors.ExpressionError
	if errors.As(err, &exprErr) && exprErr.Path == "" {
		qualified := *exprErr
		qualified.Path = path
		return &qualified
	}
	return &projerrors.ExpressionError{
		Path:   path,
		Source: expr.Serialize(false).String(),
		Cause:  err,
	}
}
