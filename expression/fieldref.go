package expression

import (
	"strings"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/fieldpath"
	"github.com/erraggy/docproj/projerrors"
)

// FieldRef reads a value from the root document ("$a.b") or from a variable
// ("$$name.a").
type FieldRef struct {
	variable string
	path     []string
}

// ParseFieldRef parses "$a.b" or "$$name[.a.b]".
func ParseFieldRef(ref string) (*FieldRef, error) {
	switch {
	case strings.HasPrefix(ref, "$$"):
		name, rest, _ := strings.Cut(ref[2:], fieldpath.Separator)
		if name == "" {
			return nil, &projerrors.ExpressionError{Source: ref, Message: "empty variable name"}
		}
		f := &FieldRef{variable: name}
		if rest != "" {
			p, err := fieldpath.Parse(rest)
			if err != nil {
				return nil, &projerrors.ExpressionError{Source: ref, Cause: err}
			}
			f.path = p.Components()
		}
		return f, nil
	case strings.HasPrefix(ref, "$"):
		p, err := fieldpath.Parse(ref[1:])
		if err != nil {
			return nil, &projerrors.ExpressionError{Source: ref, Cause: err}
		}
		return &FieldRef{path: p.Components()}, nil
	default:
		return nil, &projerrors.ExpressionError{Source: ref, Message: "field references start with '$'"}
	}
}

// Variable returns the referenced variable, or "" for the root document.
func (f *FieldRef) Variable() string {
	return f.variable
}

// Path returns the dotted path below the root or variable.
func (f *FieldRef) Path() string {
	return strings.Join(f.path, fieldpath.Separator)
}

// Evaluate walks the path. Arrays along the way are traversed element-wise and
// yield an array of the non-missing results.
func (f *FieldRef) Evaluate(root *document.Document, vars *Variables) (document.Value, error) {
	start := document.Doc(root)
	if f.variable != "" {
		v, ok := vars.Get(f.variable)
		if !ok {
			return document.Missing(), &projerrors.ExpressionError{
				Source:  f.String(),
				Message: "undefined variable " + f.variable,
			}
		}
		start = v
	}
	if root == nil && f.variable == "" {
		start = document.Doc(document.New())
	}
	return traverse(start, f.path), nil
}

func traverse(v document.Value, path []string) document.Value {
	if len(path) == 0 {
		return v
	}
	switch v.Kind() {
	case document.KindDocument:
		return traverse(v.Document().Get(path[0]), path[1:])
	case document.KindArray:
		out := make([]document.Value, 0, len(v.ArrayValues()))
		for _, elem := range v.ArrayValues() {
			if !elem.IsDocument() && !elem.IsArray() {
				continue
			}
			if r := traverse(elem, path); !r.IsMissing() {
				out = append(out, r)
			}
		}
		return document.Array(out)
	default:
		return document.Missing()
	}
}

// Optimize returns f.
func (f *FieldRef) Optimize() Expression {
	return f
}

// Serialize returns the reference string.
func (f *FieldRef) Serialize(bool) document.Value {
	return document.String(f.String())
}

// ComputedPaths reports a rename when f copies a single top-level field of the
// root. Dotted references may cross arrays and are reported as computed.
func (f *FieldRef) ComputedPaths(exprPath string) ComputedPaths {
	if f.variable == "" && len(f.path) == 1 {
		return ComputedPaths{Renames: map[string]string{exprPath: f.path[0]}}
	}
	return ComputedPaths{Paths: []string{exprPath}}
}

// String returns the reference in specification form.
func (f *FieldRef) String() string {
	if f.variable == "" {
		return "$" + f.Path()
	}
	if len(f.path) == 0 {
		return "$$" + f.variable
	}
	return "$$" + f.variable + fieldpath.Separator + f.Path()
}
