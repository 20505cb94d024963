// Typed, immutable views over stored values.
//
// A Value is produced by Find and never constructed by callers. It carries
// one of six kinds and exposes a checked projection per kind. Projections
// never convert between kinds: AsNumber on a string fails rather than
// parsing it. Arrays and objects are copied out so a Value cannot be used
// to reach back into the tree it came from.
package docfile

import (
	"bytes"
	"slices"
	"strconv"
)

// Kind identifies the shape of a stored value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a read-only view of one stored entry. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    uint64
	s    string
	arr  []string
	obj  *Tree
}

func nullValue() Value            { return Value{kind: KindNull} }
func boolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func numberValue(n uint64) Value  { return Value{kind: KindNumber, n: n} }
func stringValue(s string) Value  { return Value{kind: KindString, s: s} }
func arrayValue(a []string) Value { return Value{kind: KindArray, arr: slices.Clone(a)} }
func objectValue(t *Tree) Value   { return Value{kind: KindObject, obj: t.Clone()} }

// Kind returns the stored kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) mismatch(want Kind) error {
	return &TypeMismatchError{Want: want, Got: v.kind}
}

// AsString returns the stored string.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.s, nil
}

// AsNumber returns the stored unsigned integer.
func (v Value) AsNumber() (uint64, error) {
	if v.kind != KindNumber {
		return 0, v.mismatch(KindNumber)
	}
	return v.n, nil
}

// AsBool returns the stored boolean.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.b, nil
}

// AsArray returns a copy of the stored string array.
func (v Value) AsArray() ([]string, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return slices.Clone(v.arr), nil
}

// AsTree returns a detached copy of the stored sub-document.
func (v Value) AsTree() (*Tree, error) {
	if v.kind != KindObject {
		return nil, v.mismatch(KindObject)
	}
	return v.obj.Clone(), nil
}

// String renders the value for display. Null is empty, scalars are their
// literal text, arrays and objects are pretty-printed JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatUint(v.n, 10)
	case KindString:
		return v.s
	case KindArray, KindObject:
		out, err := prettyValue(v)
		if err != nil {
			return ""
		}
		return string(out)
	default:
		return ""
	}
}

// equal compares two values structurally. Object comparison ignores key order.
func (v Value) equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindArray:
		return slices.Equal(v.arr, o.arr)
	case KindObject:
		return v.obj.Equal(o.obj)
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler with the compact encoding.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler, keeping object key order.
func (v Value) MarshalYAML() (any, error) {
	return yamlValueNode(v), nil
}
