package expression

import (
	"strings"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/projerrors"
)

// IsOperatorDocument reports whether v is a document of the form
// {$operator: argument}.
func IsOperatorDocument(v document.Value) bool {
	if !v.IsDocument() || v.Document().Len() != 1 {
		return false
	}
	for name := range v.Document().All() {
		return strings.HasPrefix(name, "$")
	}
	return false
}

// Parse converts a specification value into an expression:
//
//   - "$a.b" and "$$name.a" become a *FieldRef
//   - {$literal: v} and any other string become a *Literal
//   - {$cel: "<program>"} becomes a *CEL compiled in env (nil uses DefaultEnv)
//
// Numbers, booleans, arrays and null are taken literally. Documents that are
// not operator documents are rejected: nested specifications are the caller's
// business.
func Parse(v document.Value, env *Env) (Expression, error) {
	switch v.Kind() {
	case document.KindString:
		if strings.HasPrefix(v.StringValue(), "$") {
			return ParseFieldRef(v.StringValue())
		}
		return NewLiteral(v), nil
	case document.KindDocument:
		if !IsOperatorDocument(v) {
			return nil, &projerrors.ExpressionError{Source: v.String(), Message: "expected a single-operator document"}
		}
		var op string
		var arg document.Value
		for name, val := range v.Document().All() {
			op, arg = name, val
		}
		switch op {
		case LiteralOperator:
			return NewLiteral(arg), nil
		case CELOperator:
			if arg.Kind() != document.KindString {
				return nil, &projerrors.ExpressionError{Source: v.String(), Message: CELOperator + " requires a string program"}
			}
			return NewCEL(env, arg.StringValue())
		default:
			return nil, &projerrors.ExpressionError{Source: v.String(), Message: "unknown operator " + op}
		}
	case document.KindMissing:
		return nil, &projerrors.ExpressionError{Message: "missing value"}
	default:
		return NewLiteral(v), nil
	}
}
