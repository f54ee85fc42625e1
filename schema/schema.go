package schema

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/cyfronet-fid/eosc-analyses/types"
)

type Kind int

const (
	ScalarKind Kind = iota
	EnumKind
	StructKind
	MapKind
	ListKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case EnumKind:
		return "enum"
	case StructKind:
		return "struct"
	case MapKind:
		return "map"
	case ListKind:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Type describes the shape a declared field value is coerced into
type Type struct {
	Kind   Kind           `json:"kind"`
	Scalar types.DataType `json:"scalar,omitempty"` // ScalarKind
	Codes  []string       `json:"codes,omitempty"`  // EnumKind
	Fields []Field        `json:"fields,omitempty"` // StructKind
	Elem   *Type          `json:"elem,omitempty"`   // ListKind, MapKind
}

// Field is a named member of an entity or of a struct type
type Field struct {
	Name   string `json:"name"`
	Type   Type   `json:"type"`
	Nested bool   `json:"nested,omitempty"`
}

func String() Type {
	return Type{Kind: ScalarKind, Scalar: types.String}
}

func Integer() Type {
	return Type{Kind: ScalarKind, Scalar: types.Int64}
}

func Number() Type {
	return Type{Kind: ScalarKind, Scalar: types.Float64}
}

func Boolean() Type {
	return Type{Kind: ScalarKind, Scalar: types.Bool}
}

func Enum(codes ...string) Type {
	return Type{Kind: EnumKind, Codes: codes}
}

func Struct(fields ...Field) Type {
	return Type{Kind: StructKind, Fields: fields}
}

func List(elem Type) Type {
	return Type{Kind: ListKind, Elem: &elem}
}

// Map is an object with free-form keys whose values share one type
func Map(elem Type) Type {
	return Type{Kind: MapKind, Elem: &elem}
}

func NewField(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// IsStructured reports whether the element of t is a struct: a struct itself or a list of structs
func (t Type) IsStructured() bool {
	return t.element().Kind == StructKind
}

// SubFields lists the declared member names of the structured element, nil otherwise
func (t Type) SubFields() []string {
	element := t.element()
	if element.Kind != StructKind {
		return nil
	}
	names := make([]string, 0, len(element.Fields))
	for _, field := range element.Fields {
		names = append(names, field.Name)
	}
	return names
}

func (t Type) element() Type {
	if t.Kind == ListKind && t.Elem != nil {
		return *t.Elem
	}
	return t
}

func (t Type) String() string {
	switch t.Kind {
	case ScalarKind:
		return string(t.Scalar)
	case ListKind, MapKind:
		return fmt.Sprintf("%s<%s>", t.Kind, t.Elem)
	default:
		return t.Kind.String()
	}
}

// EntitySchema is the static description of one record type. It is never mutated;
// WithNested returns a new value.
type EntitySchema struct {
	Version string
	Name    string
	fields  []Field
	index   map[string]int
}

func newEntitySchema(version, name string, fields ...Field) *EntitySchema {
	s := &EntitySchema{
		Version: version,
		Name:    name,
		fields:  fields,
		index:   make(map[string]int, len(fields)),
	}
	for idx, field := range fields {
		s.index[field.Name] = idx
	}
	return s
}

func (s *EntitySchema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

func (s *EntitySchema) Field(name string) (Field, bool) {
	idx, found := s.index[name]
	if !found {
		return Field{}, false
	}
	return s.fields[idx], true
}

func (s *EntitySchema) NestedFields() []Field {
	return s.filter(func(field Field) bool { return field.Nested })
}

func (s *EntitySchema) ScalarFields() []Field {
	return s.filter(func(field Field) bool { return !field.Nested })
}

func (s *EntitySchema) filter(keep func(Field) bool) []Field {
	fields := []Field{}
	for _, field := range s.fields {
		if keep(field) {
			fields = append(fields, field)
		}
	}
	return fields
}

// WithNested returns a copy where exactly the declared fields among names are nested
func (s *EntitySchema) WithNested(names []string) *EntitySchema {
	nested := types.NewSet(names...)
	fields := make([]Field, len(s.fields))
	for idx, field := range s.fields {
		field.Nested = nested.Exists(field.Name)
		fields[idx] = field
	}
	return newEntitySchema(s.Version, s.Name, fields...)
}

// UnknownFields returns the names that are not declared fields of the schema
func (s *EntitySchema) UnknownFields(names []string) []string {
	unknown := []string{}
	for _, name := range names {
		if _, found := s.index[name]; !found {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func (s *EntitySchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Version string  `json:"version"`
		Name    string  `json:"name"`
		Fields  []Field `json:"fields"`
	}{
		Version: s.Version,
		Name:    s.Name,
		Fields:  s.fields,
	})
}
