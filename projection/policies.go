package projection

import "fmt"

// ArrayRecursionPolicy controls whether arrays nested directly inside arrays
// are projected element-wise.
type ArrayRecursionPolicy uint8

const (
	// RecurseNestedArrays projects elements of nested arrays.
	RecurseNestedArrays ArrayRecursionPolicy = iota
	// DoNotRecurseNestedArrays passes nested arrays through the mode's
	// skipped-value transform as a whole.
	DoNotRecurseNestedArrays
)

// String returns the policy name.
func (p ArrayRecursionPolicy) String() string {
	switch p {
	case RecurseNestedArrays:
		return "recurse"
	case DoNotRecurseNestedArrays:
		return "no-recurse"
	default:
		return fmt.Sprintf("ArrayRecursionPolicy(%d)", p)
	}
}

// ComputedFieldsPolicy controls whether a tree may hold computed fields.
type ComputedFieldsPolicy uint8

const (
	// AllowComputedFields permits AddExpressionForPath.
	AllowComputedFields ComputedFieldsPolicy = iota
	// BanComputedFields rejects AddExpressionForPath.
	BanComputedFields
)

// String returns the policy name.
func (p ComputedFieldsPolicy) String() string {
	switch p {
	case AllowComputedFields:
		return "allow"
	case BanComputedFields:
		return "ban"
	default:
		return fmt.Sprintf("ComputedFieldsPolicy(%d)", p)
	}
}

// DefaultIDPolicy controls what happens to the identifier field when a
// specification does not mention it.
type DefaultIDPolicy uint8

const (
	// IncludeID keeps the identifier field by default.
	IncludeID DefaultIDPolicy = iota
	// ExcludeID drops the identifier field by default.
	ExcludeID
)

// String returns the policy name.
func (p DefaultIDPolicy) String() string {
	switch p {
	case IncludeID:
		return "include"
	case ExcludeID:
		return "exclude"
	default:
		return fmt.Sprintf("DefaultIDPolicy(%d)", p)
	}
}

// DefaultIDField is the conventional identifier field name.
const DefaultIDField = "_id"

// Policies is fixed when a tree is created and shared unchanged by every node.
type Policies struct {
	ArrayRecursion ArrayRecursionPolicy
	ComputedFields ComputedFieldsPolicy
	DefaultID      DefaultIDPolicy

	// IDField is the identifier field name. Empty means DefaultIDField.
	IDField string
}

// DefaultPolicies recurses into nested arrays, allows computed fields and
// includes "_id" by default.
func DefaultPolicies() Policies {
	return Policies{
		ArrayRecursion: RecurseNestedArrays,
		ComputedFields: AllowComputedFields,
		DefaultID:      IncludeID,
		IDField:        DefaultIDField,
	}
}

// idField returns the effective identifier field name.
func (p Policies) idField() string {
	if p.IDField == "" {
		return DefaultIDField
	}
	return p.IDField
}

// ParseArrayRecursionPolicy parses "recurse" or "no-recurse".
func ParseArrayRecursionPolicy(s string) (ArrayRecursionPolicy, error) {
	switch s {
	case "recurse":
		return RecurseNestedArrays, nil
	case "no-recurse":
		return DoNotRecurseNestedArrays, nil
	default:
		return 0, fmt.Errorf("projection: invalid array recursion policy %q: must be recurse or no-recurse", s)
	}
}

// ParseDefaultIDPolicy parses "include" or "exclude".
func ParseDefaultIDPolicy(s string) (DefaultIDPolicy, error) {
	switch s {
	case "include":
		return IncludeID, nil
	case "exclude":
		return ExcludeID, nil
	default:
		return 0, fmt.Errorf("projection: invalid default id policy %q: must be include or exclude", s)
	}
}
