package expression

import (
	"encoding/base64"
	"fmt"
	"slices"
	"sync"

	"github.com/google/cel-go/cel"
	celast "github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/projerrors"
)

// CELOperator is the operator name of a CEL program in specification form.
const CELOperator = "$cel"

const (
	rootVariable = "root"
	varsVariable = "vars"
)

// Env is a compilation environment for CEL expressions.
type Env struct {
	env *cel.Env
}

// NewEnv creates an environment exposing `root` (the document being
// projected) and `vars` (the variable bindings), both as map(string, dyn).
func NewEnv() (*Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(rootVariable, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(varsVariable, cel.MapType(cel.StringType, cel.DynType)),
		ext.Strings(),
		ext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("expression: failed to create CEL environment: %w", err)
	}
	return &Env{env: env}, nil
}

var defaultEnv = sync.OnceValues(NewEnv)

// DefaultEnv returns a shared environment created on first use.
func DefaultEnv() (*Env, error) {
	return defaultEnv()
}

// CEL is a compiled CEL program.
type CEL struct {
	env     *Env
	source  string
	ast     *cel.Ast
	program cel.Program
}

// NewCEL compiles source in env. A nil env uses DefaultEnv.
func NewCEL(env *Env, source string) (*CEL, error) {
	if env == nil {
		var err error
		if env, err = DefaultEnv(); err != nil {
			return nil, err
		}
	}
	ast, iss := env.env.Compile(source)
	if iss != nil && iss.Err() != nil {
		return nil, &projerrors.ExpressionError{Source: source, Message: "failed to compile", Cause: iss.Err()}
	}
	return newCELFromAST(env, source, ast)
}

func newCELFromAST(env *Env, source string, ast *cel.Ast) (*CEL, error) {
	prg, err := env.env.Program(ast)
	if err != nil {
		return nil, &projerrors.ExpressionError{Source: source, Message: "failed to build program", Cause: err}
	}
	return &CEL{env: env, source: source, ast: ast, program: prg}, nil
}

// Source returns the program text.
func (c *CEL) Source() string {
	return c.source
}

// Evaluate runs the program.
func (c *CEL) Evaluate(root *document.Document, vars *Variables) (document.Value, error) {
	out, _, err := c.program.Eval(map[string]any{
		rootVariable: root.Native(),
		varsVariable: vars.Native(),
	})
	if err != nil {
		return document.Missing(), fmt.Errorf("cel: %w", err)
	}
	return fromCEL(out)
}

// Optimize folds constant sub-expressions. A program that folds to a single
// literal becomes a *Literal.
func (c *CEL) Optimize() Expression {
	folder, err := cel.NewConstantFoldingOptimizer()
	if err != nil {
		return c
	}
	optimized, iss := cel.NewStaticOptimizer(folder).Optimize(c.env.env, c.ast)
	if iss != nil && iss.Err() != nil {
		return c
	}
	if expr := optimized.NativeRep().Expr(); expr.Kind() == celast.LiteralKind {
		if v, err := fromCEL(expr.AsLiteral()); err == nil {
			return NewLiteral(v)
		}
	}
	source, err := cel.AstToString(optimized)
	if err != nil || source == c.source {
		return c
	}
	folded, err := newCELFromAST(c.env, source, optimized)
	if err != nil {
		return c
	}
	return folded
}

// Serialize returns {$cel: <source>}; with explain the result type is added.
func (c *CEL) Serialize(explain bool) document.Value {
	d := document.FromFields(document.Field{Name: CELOperator, Value: document.String(c.source)})
	if explain {
		d.Set("returns", document.String(c.ast.OutputType().String()))
	}
	return document.Doc(d)
}

// ComputedPaths reports exprPath as computed.
func (c *CEL) ComputedPaths(exprPath string) ComputedPaths {
	return ComputedPaths{Paths: []string{exprPath}}
}

// fromCEL converts a CEL result into a document value. Map keys are sorted
// since CEL maps are unordered.
func fromCEL(v ref.Val) (document.Value, error) {
	switch val := v.(type) {
	case types.Null:
		return document.Null(), nil
	case types.Bool:
		return document.Bool(bool(val)), nil
	case types.Int:
		return document.Int(int64(val)), nil
	case types.Uint:
		return document.FromNative(uint64(val))
	case types.Double:
		return document.Double(float64(val)), nil
	case types.String:
		return document.String(string(val)), nil
	case types.Bytes:
		return document.String(base64.StdEncoding.EncodeToString([]byte(val))), nil
	case *types.Err:
		return document.Missing(), fmt.Errorf("cel: %v", val)
	case traits.Mapper:
		return mapFromCEL(val)
	case traits.Lister:
		var elems []document.Value
		for it := val.Iterator(); it.HasNext() == types.True; {
			e, err := fromCEL(it.Next())
			if err != nil {
				return document.Missing(), err
			}
			elems = append(elems, e)
		}
		return document.Array(elems), nil
	default:
		s := v.ConvertToType(types.StringType)
		if types.IsError(s) {
			return document.Missing(), fmt.Errorf("cel: cannot convert %s result", v.Type().TypeName())
		}
		return document.String(fmt.Sprint(s.Value())), nil
	}
}

func mapFromCEL(m traits.Mapper) (document.Value, error) {
	type entry struct {
		key string
		val ref.Val
	}
	var entries []entry
	for it := m.Iterator(); it.HasNext() == types.True; {
		k := it.Next()
		entries = append(entries, entry{key: fmt.Sprint(k.Value()), val: m.Get(k)})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		default:
			return 0
		}
	})
	d := document.New()
	for _, e := range entries {
		v, err := fromCEL(e.val)
		if err != nil {
			return document.Missing(), err
		}
		d.Set(e.key, v)
	}
	return document.Doc(d), nil
}
