package document

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindMissing is the zero Kind: no value at all.
	KindMissing Kind = iota
	// KindNull is an explicit null.
	KindNull
	// KindBool is a boolean.
	KindBool
	// KindInt is a 64-bit signed integer.
	KindInt
	// KindDouble is a 64-bit float.
	KindDouble
	// KindString is a UTF-8 string.
	KindString
	// KindDocument is a nested document.
	KindDocument
	// KindArray is an array of values.
	KindArray
)

var kindNames = [...]string{
	KindMissing:  "missing",
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindDouble:   "double",
	KindString:   "string",
	KindDocument: "document",
	KindArray:    "array",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable document value. The zero Value is missing.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	doc  *Document
	arr  []Value
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double returns a floating point value.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Doc returns a nested document value. A nil document yields missing.
func Doc(d *Document) Value {
	if d == nil {
		return Missing()
	}
	return Value{kind: KindDocument, doc: d}
}

// Array returns an array value holding elems. The slice is owned by the value
// afterwards and must not be modified by the caller.
func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNull reports whether v is an explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsDocument reports whether v holds a nested document.
func (v Value) IsDocument() bool { return v.kind == KindDocument }

// IsArray reports whether v holds an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsNumber reports whether v holds an int or a double.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindDouble }

// Document returns the nested document, or nil if v is not a document.
func (v Value) Document() *Document { return v.doc }

// ArrayValues returns the array elements, or nil if v is not an array.
// The returned slice must not be modified.
func (v Value) ArrayValues() []Value { return v.arr }

// BoolValue returns the boolean held by v.
func (v Value) BoolValue() bool { return v.b }

// IntValue returns the integer held by v.
func (v Value) IntValue() int64 { return v.i }

// DoubleValue returns the float held by v.
func (v Value) DoubleValue() float64 { return v.f }

// StringValue returns the string held by v.
func (v Value) StringValue() string { return v.s }

// Float returns v as a float64 when v is numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDouble:
		return v.f, true
	default:
		return 0, false
	}
}

// Truthy reports whether v counts as "true": any value except missing, null,
// false and numeric zero.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindMissing, KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindDouble:
		return v.f != 0
	default:
		return true
	}
}

// Equal reports whether v and other hold the same value. Ints and doubles
// compare numerically; documents compare field by field in order.
func (v Value) Equal(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.i == other.i
		}
		a, _ := v.Float()
		b, _ := other.Float()
		return a == b
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindMissing, KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindDocument:
		return v.doc.Equal(other.doc)
	case KindArray:
		return slices.EqualFunc(v.arr, other.arr, Value.Equal)
	default:
		return false
	}
}

// Native converts v into plain Go values: map[string]any, []any, bool, int64,
// float64, string or nil. Missing and null both become nil; missing fields of
// nested documents are omitted.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	case KindDocument:
		return v.doc.Native()
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// String returns a compact JSON-like rendering for diagnostics.
func (v Value) String() string {
	if v.kind == KindMissing {
		return "<missing>"
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(data)
}

// FromNative converts plain Go values into a Value. Supported inputs are the
// outputs of Native, the results of encoding/json and YAML decoding into any,
// all Go integer and float types, and *Document/Value themselves. Map keys are
// sorted because Go maps carry no order.
func FromNative(x any) (Value, error) {
	switch val := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case *Document:
		return Doc(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUnsigned(uint64(val))
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return fromUnsigned(val)
	case float32:
		return Double(float64(val)), nil
	case float64:
		return Double(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(string(val)), nil
	case []any:
		elems := make([]Value, len(val))
		for i, e := range val {
			ev, err := FromNative(e)
			if err != nil {
				return Missing(), fmt.Errorf("document: element %d: %w", i, err)
			}
			elems[i] = ev
		}
		return Array(elems), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		d := New()
		for _, k := range keys {
			fv, err := FromNative(val[k])
			if err != nil {
				return Missing(), fmt.Errorf("document: field %q: %w", k, err)
			}
			d.Set(k, fv)
		}
		return Doc(d), nil
	default:
		return Missing(), fmt.Errorf("document: unsupported native type %T", x)
	}
}

func fromUnsigned(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Double(float64(u)), nil
	}
	return Int(int64(u)), nil
}
