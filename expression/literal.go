package expression

import "github.com/erraggy/docproj/document"

// LiteralOperator is the operator name of a literal in specification form.
const LiteralOperator = "$literal"

// Literal is a constant expression.
type Literal struct {
	value document.Value
}

// NewLiteral returns a literal yielding v.
func NewLiteral(v document.Value) *Literal {
	return &Literal{value: v}
}

// Value returns the constant.
func (l *Literal) Value() document.Value {
	return l.value
}

// Evaluate returns the constant.
func (l *Literal) Evaluate(*document.Document, *Variables) (document.Value, error) {
	return l.value, nil
}

// Optimize returns l.
func (l *Literal) Optimize() Expression {
	return l
}

// Serialize returns {$literal: <value>}.
func (l *Literal) Serialize(bool) document.Value {
	return document.Doc(document.FromFields(document.Field{Name: LiteralOperator, Value: l.value}))
}

// ComputedPaths reports exprPath as computed.
func (l *Literal) ComputedPaths(exprPath string) ComputedPaths {
	return ComputedPaths{Paths: []string{exprPath}}
}
