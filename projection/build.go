package projection

import (
	"fmt"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/expression"
	"github.com/erraggy/docproj/fieldpath"
	"github.com/erraggy/docproj/projerrors"
)

// BuildOption configures Build and BuildAddFields.
type BuildOption func(*buildConfig)

type buildConfig struct {
	env *expression.Env
}

// WithEnv compiles CEL computed fields in env instead of the default environment.
func WithEnv(env *expression.Env) BuildOption {
	return func(cfg *buildConfig) {
		cfg.env = env
	}
}

type entryKind uint8

const (
	entryInclude entryKind = iota
	entryExclude
	entryCompute
)

type specEntry struct {
	path  fieldpath.Path
	kind  entryKind
	value document.Value
}

// Build turns a specification document into a tree.
//
// Booleans and numbers select plain fields: true or non-zero includes, false
// or zero excludes. Nested documents descend; dotted keys are split into
// paths. Any other value is a computed field parsed with expression.Parse.
// A specification that excludes anything besides the identifier field is an
// exclusion; mixing it with inclusions or computed fields is a
// *projerrors.SpecError.
func Build(spec *document.Document, policies Policies, opts ...BuildOption) (*Node, error) {
	cfg := newBuildConfig(opts)
	entries, err := flattenSpec(spec, false)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &projerrors.SpecError{Message: "projection specification must have at least one field"}
	}

	id := policies.idField()
	mode := Inclusion
	idMentioned := false
	idExcluded := false
	var firstInclude, firstCompute string
	for _, e := range entries {
		if e.path.First() == id {
			idMentioned = true
		}
		isID := e.path.Len() == 1 && e.path.First() == id
		switch e.kind {
		case entryExclude:
			if isID {
				idExcluded = true
			} else {
				mode = Exclusion
			}
		case entryInclude:
			if !isID && firstInclude == "" {
				firstInclude = e.path.String()
			}
		case entryCompute:
			if firstCompute == "" {
				firstCompute = e.path.String()
			}
		}
	}
	// {_id: 0} alone excludes only the identifier.
	if idExcluded && firstInclude == "" && firstCompute == "" {
		mode = Exclusion
	}
	if mode == Exclusion {
		if firstInclude != "" {
			return nil, &projerrors.SpecError{Path: firstInclude, Message: "cannot do inclusion in an exclusion projection"}
		}
		if firstCompute != "" {
			return nil, &projerrors.SpecError{Path: firstCompute, Message: "computed fields are not allowed in an exclusion projection"}
		}
	}

	root := NewNode(mode, policies)
	for _, e := range entries {
		switch {
		case e.kind == entryCompute:
			if err := root.addComputed(e, cfg.env); err != nil {
				return nil, err
			}
		case mode == Inclusion && e.kind == entryInclude, mode == Exclusion && e.kind == entryExclude:
			if err := root.addPlain(e.path); err != nil {
				return nil, err
			}
		}
		// An identifier entry of the opposite kind only overrides the default.
	}
	if !idMentioned {
		addDefaultID := (mode == Inclusion && policies.DefaultID == IncludeID) ||
			(mode == Exclusion && policies.DefaultID == ExcludeID)
		if addDefaultID {
			if err := root.addPlain(fieldpath.MustParse(id)); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

// BuildAddFields turns a specification document into an exclusion tree
// holding only computed fields: every input field is kept and each entry
// overwrites or appends a value. Booleans and numbers are literal values here.
func BuildAddFields(spec *document.Document, policies Policies, opts ...BuildOption) (*Node, error) {
	cfg := newBuildConfig(opts)
	entries, err := flattenSpec(spec, true)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &projerrors.SpecError{Message: "add fields specification must have at least one field"}
	}
	root := NewNode(Exclusion, policies)
	for _, e := range entries {
		if err := root.addComputed(e, cfg.env); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func newBuildConfig(opts []BuildOption) *buildConfig {
	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (n *Node) addPlain(path fieldpath.Path) error {
	if err := n.AddProjectionForPath(path); err != nil {
		return &projerrors.SpecError{Path: path.String(), Message: "conflicting paths", Cause: err}
	}
	return nil
}

func (n *Node) addComputed(e specEntry, env *expression.Env) error {
	expr, err := expression.Parse(e.value, env)
	if err != nil {
		return &projerrors.SpecError{Path: e.path.String(), Message: "invalid computed field", Cause: err}
	}
	if err := n.AddExpressionForPath(e.path, expr); err != nil {
		return &projerrors.SpecError{Path: e.path.String(), Message: "conflicting paths", Cause: err}
	}
	return nil
}

// flattenSpec lists the leaves of a specification in declaration order.
// When computeAll is set every leaf is a computed field.
func flattenSpec(spec *document.Document, computeAll bool) ([]specEntry, error) {
	b := fieldpath.GetBuilder()
	defer fieldpath.PutBuilder(b)

	var entries []specEntry
	var walk func(d *document.Document) error
	walk = func(d *document.Document) error {
		for key, v := range d.All() {
			b.Push(key)
			path, err := b.Path()
			if err != nil {
				return &projerrors.SpecError{Path: b.String(), Message: "invalid field name", Cause: err}
			}
			if v.IsDocument() && !expression.IsOperatorDocument(v) {
				if v.Document().Len() == 0 {
					return &projerrors.SpecError{Path: path.String(), Message: "an empty nested specification is not allowed"}
				}
				if err := walk(v.Document()); err != nil {
					return err
				}
			} else {
				entries = append(entries, classify(path, v, computeAll))
			}
			b.Pop()
		}
		return nil
	}
	if err := walk(spec); err != nil {
		return nil, err
	}
	return entries, nil
}

func classify(path fieldpath.Path, v document.Value, computeAll bool) specEntry {
	if computeAll {
		return specEntry{path: path, kind: entryCompute, value: v}
	}
	switch v.Kind() {
	case document.KindBool, document.KindInt, document.KindDouble:
		if v.Truthy() {
			return specEntry{path: path, kind: entryInclude, value: v}
		}
		return specEntry{path: path, kind: entryExclude, value: v}
	default:
		return specEntry{path: path, kind: entryCompute, value: v}
	}
}

// String describes the tree for diagnostics.
func (n *Node) String() string {
	return fmt.Sprintf("%s projection %s", n.mode, document.Doc(n.Serialize(NoExplain)))
}
