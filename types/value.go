package types

import "fmt"

type ValueKind int

const (
	NullKind ValueKind = iota
	ScalarKind
	SequenceKind
	StructuredKind
	EnumeratedKind
)

func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case ScalarKind:
		return "scalar"
	case SequenceKind:
		return "sequence"
	case StructuredKind:
		return "structured"
	case EnumeratedKind:
		return "enumerated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one named member of a structured value
type Entry struct {
	Name  string
	Value Value
}

// Value is the closed variant every declared document field is decoded into.
// The zero Value is the null value and stands for an absent field.
type Value struct {
	kind    ValueKind
	scalar  any
	items   []Value
	entries []Entry
	code    string
}

func NullValue() Value {
	return Value{}
}

// Scalar wraps a plain JSON leaf (string, int64, float64, bool); nil yields NullValue
func Scalar(v any) Value {
	if v == nil {
		return NullValue()
	}
	return Value{kind: ScalarKind, scalar: v}
}

func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: SequenceKind, items: items}
}

func Structured(entries ...Entry) Value {
	if entries == nil {
		entries = []Entry{}
	}
	return Value{kind: StructuredKind, entries: entries}
}

func Enumerated(code string) Value {
	return Value{kind: EnumeratedKind, code: code}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) Scalar() any {
	return v.scalar
}

func (v Value) Items() []Value {
	return v.items
}

func (v Value) Entries() []Entry {
	return v.entries
}

func (v Value) Code() string {
	return v.code
}

// Field returns the member called name of a structured value
func (v Value) Field(name string) (Value, bool) {
	for _, entry := range v.entries {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return NullValue(), false
}

// Raw returns the plain Go form of a scalar or enumerated value, nil otherwise
func (v Value) Raw() any {
	switch v.kind {
	case ScalarKind:
		return v.scalar
	case EnumeratedKind:
		return v.code
	default:
		return nil
	}
}
