package fieldpath

import (
	"strings"

	"github.com/erraggy/docproj/projerrors"
)

// Separator is the component separator used in dotted paths.
const Separator = "."

// Path is an immutable dotted field path with at least one component.
type Path struct {
	components []string
	full       string
}

// Parse parses a dotted path such as "a.b.c".
//
// Returns a *projerrors.PathError if the path is empty, has an empty component,
// or a component starts with '$' (reserved for expressions).
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, &projerrors.PathError{Path: s, Message: "path cannot be empty"}
	}
	return New(strings.Split(s, Separator)...)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// New creates a path from individual components.
func New(components ...string) (Path, error) {
	if len(components) == 0 {
		return Path{}, &projerrors.PathError{Message: "path must have at least one component"}
	}
	full := strings.Join(components, Separator)
	for _, c := range components {
		switch {
		case c == "":
			return Path{}, &projerrors.PathError{Path: full, Message: "path contains an empty component"}
		case strings.Contains(c, Separator):
			return Path{}, &projerrors.PathError{Path: full, Message: "component " + c + " contains a separator"}
		case c[0] == '$':
			return Path{}, &projerrors.PathError{Path: full, Message: "component " + c + " cannot start with '$'"}
		}
	}
	return Path{components: append([]string(nil), components...), full: full}, nil
}

// Len returns the number of components.
func (p Path) Len() int {
	return len(p.components)
}

// Component returns the i-th component.
func (p Path) Component(i int) string {
	return p.components[i]
}

// Components returns a copy of all components.
func (p Path) Components() []string {
	return append([]string(nil), p.components...)
}

// First returns the first component.
func (p Path) First() string {
	return p.components[0]
}

// Tail returns the path without its first component.
// It panics when called on a single-component path.
func (p Path) Tail() Path {
	if len(p.components) < 2 {
		panic(&projerrors.ContractError{Op: "Tail", Field: p.full, Message: "tail of a single-component path"})
	}
	rest := p.components[1:]
	return Path{components: rest, full: p.full[len(p.components[0])+1:]}
}

// String returns the dotted representation.
func (p Path) String() string {
	return p.full
}

// IsZero reports whether p is the zero Path (never returned by Parse or New).
func (p Path) IsZero() bool {
	return len(p.components) == 0
}

// Concat returns p followed by the components of other.
func (p Path) Concat(other Path) Path {
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}
	components := make([]string, 0, len(p.components)+len(other.components))
	components = append(components, p.components...)
	components = append(components, other.components...)
	return Path{components: components, full: p.full + Separator + other.full}
}

// Qualify joins a (possibly empty) prefix path with a field name.
func Qualify(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + Separator + field
}
