// Package projerrors provides structured error types for the docproj library.
//
// Import path: github.com/erraggy/docproj/projerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between malformed input documents, invalid
// projection specifications, failing computed fields and misuse of the tree API.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON decoding failures of documents and specifications
//   - [PathError]: malformed dotted field paths
//   - [SpecError]: projection specifications that cannot be turned into a tree
//   - [ExpressionError]: computed fields that fail to compile or evaluate
//   - [ContractError]: misuse of the projection tree API (a bug in the caller)
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrPath]: Matches any [PathError]
//   - [ErrSpec]: Matches any [SpecError]
//   - [ErrExpression]: Matches any [ExpressionError]
//   - [ErrContract]: Matches any [ContractError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage
//
//	tree, err := projection.Build(spec, projection.DefaultPolicies())
//	if err != nil {
//	    var specErr *projerrors.SpecError
//	    if errors.As(err, &specErr) {
//	        fmt.Println("bad field:", specErr.Path)
//	    }
//	}
//
// Contract violations detected while a tree is being applied indicate a corrupt
// tree and are raised as panics carrying a *[ContractError].
package projerrors
