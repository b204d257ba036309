package expression

import (
	"maps"
	"slices"

	"github.com/erraggy/docproj/document"
)

// Expression is a computed value. Implementations must be safe for
// concurrent Evaluate calls once constructed.
type Expression interface {
	// Evaluate computes the value against the root document and variables.
	Evaluate(root *document.Document, vars *Variables) (document.Value, error)

	// Optimize returns an equivalent, possibly simplified expression. It may
	// return the receiver. Optimizing an optimized expression is a no-op.
	Optimize() Expression

	// Serialize returns the specification form of the expression. explain
	// requests diagnostic detail and the result need not parse back.
	Serialize(explain bool) document.Value

	// ComputedPaths reports the paths produced by the expression when its
	// result is stored at exprPath, and any rename it represents.
	ComputedPaths(exprPath string) ComputedPaths
}

// ComputedPaths describes what an expression writes.
type ComputedPaths struct {
	// Paths are fully qualified paths whose values are computed.
	Paths []string

	// Renames maps a new path to the existing path it copies unchanged.
	Renames map[string]string
}

// Merge folds other into c. Paths stay sorted and unique.
func (c *ComputedPaths) Merge(other ComputedPaths) {
	for _, p := range other.Paths {
		if i, found := slices.BinarySearch(c.Paths, p); !found {
			c.Paths = slices.Insert(c.Paths, i, p)
		}
	}
	if len(other.Renames) > 0 {
		if c.Renames == nil {
			c.Renames = make(map[string]string, len(other.Renames))
		}
		maps.Copy(c.Renames, other.Renames)
	}
}

// Variables holds named values available to expressions. A nil *Variables
// is an empty set.
type Variables struct {
	values map[string]document.Value
}

// NewVariables returns an empty variable set.
func NewVariables() *Variables {
	return &Variables{values: make(map[string]document.Value)}
}

// Set binds name to v.
func (vs *Variables) Set(name string, v document.Value) {
	if vs.values == nil {
		vs.values = make(map[string]document.Value)
	}
	vs.values[name] = v
}

// Get returns the value bound to name.
func (vs *Variables) Get(name string) (document.Value, bool) {
	if vs == nil {
		return document.Missing(), false
	}
	v, ok := vs.values[name]
	return v, ok
}

// Names returns the bound names in sorted order.
func (vs *Variables) Names() []string {
	if vs == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(vs.values))
}

// Native converts the variables into a map of plain Go values.
func (vs *Variables) Native() map[string]any {
	out := make(map[string]any)
	if vs == nil {
		return out
	}
	for name, v := range vs.values {
		out[name] = v.Native()
	}
	return out
}
