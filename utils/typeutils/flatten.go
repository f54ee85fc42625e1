package typeutils

import (
	"errors"
	"fmt"

	"github.com/cyfronet-fid/eosc-analyses/schema"
	"github.com/cyfronet-fid/eosc-analyses/types"
)

// ShapeCoercionWarning reports a nested field value that did not have its declared shape.
// The value is still emitted, wrapped as {field: value}.
type ShapeCoercionWarning struct {
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Found    string `json:"found"`
}

func (w *ShapeCoercionWarning) Error() string {
	return fmt.Sprintf("record[%s] field[%s]: expected %s, found %s", w.RecordID, w.Field, w.Expected, w.Found)
}

// NestedRows are the child table rows one record contributes for a nested field
type NestedRows struct {
	Field string
	Rows  []*types.Row
}

// Flattened is one record decomposed into table rows
type Flattened struct {
	Primary  *types.Row
	Nested   []NestedRows
	Warnings []*ShapeCoercionWarning
}

type Flattener interface {
	Flatten(record *types.Record) (*Flattened, error)
}

type FlattenerImpl struct {
	schema *schema.EntitySchema
}

func NewFlattener(entity *schema.EntitySchema) Flattener {
	return &FlattenerImpl{
		schema: entity,
	}
}

// Flatten builds exactly one primary row holding every scalar field and, for each nested
// field in schema order, the rows of its child table. A structured nested field always
// yields at least one row, a placeholder when the record has no data for it.
func (f *FlattenerImpl) Flatten(record *types.Record) (*Flattened, error) {
	if record == nil || record.ID() == "" {
		return nil, errors.New("record without id can not be flattened")
	}

	result := &Flattened{Primary: types.NewRow()}
	for _, field := range f.schema.Fields() {
		value := record.Get(field.Name)
		if !field.Nested {
			result.Primary.Set(field.Name, Collapse(value, ""))
			continue
		}

		if expected, found, mismatch := shapeMismatch(field.Type, value); mismatch {
			result.Warnings = append(result.Warnings, &ShapeCoercionWarning{
				RecordID: record.ID(),
				Field:    field.Name,
				Expected: expected,
				Found:    found,
			})
		}

		result.Nested = append(result.Nested, NestedRows{
			Field: field.Name,
			Rows:  emit(field, Collapse(value, ""), record.ForeignKeys()),
		})
	}

	return result, nil
}

// emit applies the nested field emission policy to an already collapsed value
func emit(field schema.Field, collapsed any, foreignKeys *types.Row) []*types.Row {
	if IsEmpty(collapsed) {
		if !field.Type.IsStructured() {
			return []*types.Row{foreignKeys}
		}
		placeholder := types.NewRow()
		for _, name := range field.Type.SubFields() {
			placeholder.Set(name, nil)
		}
		return []*types.Row{placeholder.Merge(foreignKeys)}
	}

	switch value := collapsed.(type) {
	case []any:
		rows := make([]*types.Row, 0, len(value))
		for _, item := range value {
			rows = append(rows, wrap(field.Name, item, foreignKeys))
		}
		return rows
	default:
		return []*types.Row{wrap(field.Name, value, foreignKeys)}
	}
}

// wrap turns one element into a child row merged with the foreign-key triad
func wrap(fieldName string, item any, foreignKeys *types.Row) *types.Row {
	if row, ok := item.(*types.Row); ok {
		return row.Clone().Merge(foreignKeys)
	}
	return types.NewRow().Set(fieldName, item).Merge(foreignKeys)
}

// Collapse reduces a value bottom-up: structured values become rows keyed
// parentKey_member, enumerations their code, sequences element-wise collapses.
func Collapse(value types.Value, parentKey string) any {
	switch value.Kind() {
	case types.ScalarKind:
		return value.Scalar()
	case types.EnumeratedKind:
		return value.Code()
	case types.SequenceKind:
		items := make([]any, 0, len(value.Items()))
		for _, item := range value.Items() {
			items = append(items, Collapse(item, parentKey))
		}
		return items
	case types.StructuredKind:
		row := types.NewRow()
		for _, entry := range value.Entries() {
			key := entry.Name
			if parentKey != "" {
				key = parentKey + "_" + entry.Name
			}
			row.Set(key, Collapse(entry.Value, entry.Name))
		}
		return row
	default:
		return nil
	}
}

// IsEmpty is true for nil, empty strings, empty sequences and empty rows
func IsEmpty(collapsed any) bool {
	switch value := collapsed.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case []any:
		return len(value) == 0
	case *types.Row:
		return value == nil || value.Len() == 0
	default:
		return false
	}
}

// shapeMismatch compares a present value with the declared type of its field
func shapeMismatch(declared schema.Type, value types.Value) (string, string, bool) {
	if value.IsNull() {
		return "", "", false
	}

	if !matches(declared, value) {
		return declared.String(), value.Kind().String(), true
	}

	if declared.Kind == schema.ListKind && declared.Elem != nil {
		for _, item := range value.Items() {
			if !item.IsNull() && !matches(*declared.Elem, item) {
				return declared.String(), fmt.Sprintf("sequence<%s>", item.Kind()), true
			}
		}
	}
	return "", "", false
}

func matches(declared schema.Type, value types.Value) bool {
	switch declared.Kind {
	case schema.StructKind, schema.MapKind:
		return value.Kind() == types.StructuredKind
	case schema.ListKind:
		return value.Kind() == types.SequenceKind
	case schema.EnumKind:
		return value.Kind() == types.EnumeratedKind
	default:
		return value.Kind() == types.ScalarKind
	}
}
