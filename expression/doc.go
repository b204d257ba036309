// Package expression defines the computed-field contract consumed by
// projection trees, together with the concrete expressions docproj ships.
//
// An [Expression] evaluates against the root document being projected and a
// set of [Variables]. It can optimize itself, serialize back into its
// specification form and report the paths it produces (and, for pure field
// references, the rename it represents) so that a planner can reason about
// dependencies without evaluating anything.
//
// Concrete expressions:
//
//   - [Literal]: a constant, written as {$literal: <value>} or as a plain
//     string that does not start with '$'.
//   - [FieldRef]: a field reference, "$a.b" reads the root document and
//     "$$name.a" reads a variable.
//   - [CEL]: a Common Expression Language program, written as
//     {$cel: "<program>"}, evaluated with the root document bound to `root`
//     and variables bound to `vars`. Optimize folds constants and collapses
//     constant programs into literals.
//
// Use [Parse] to turn a specification value into an expression:
//
//	expr, err := expression.Parse(document.String("$name"), nil)
package expression
