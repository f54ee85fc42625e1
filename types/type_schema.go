package types

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/parquet-go/parquet-go"
)

// TypeSchema is the union column schema of a table: columns in order of first appearance,
// each with every data type observed for it.
type TypeSchema struct {
	columns    []string
	properties map[string]*Property
}

func NewTypeSchema() *TypeSchema {
	return &TypeSchema{
		properties: make(map[string]*Property),
	}
}

func (t *TypeSchema) AddTypes(column string, types ...DataType) {
	property, found := t.properties[column]
	if !found {
		t.columns = append(t.columns, column)
		t.properties[column] = &Property{
			Type: NewSet(types...),
		}
		return
	}

	property.Type.Insert(types...)
}

func (t *TypeSchema) GetType(column string) (DataType, error) {
	p, found := t.properties[column]
	if !found {
		return "", fmt.Errorf("column [%s] missing from type schema", column)
	}
	return p.DataType(), nil
}

func (t *TypeSchema) GetProperty(column string) (bool, *Property) {
	p, found := t.properties[column]
	return found, p
}

func (t *TypeSchema) Columns() []string {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return columns
}

func (t *TypeSchema) Len() int {
	return len(t.columns)
}

func (t *TypeSchema) ToParquet(name string) *parquet.Schema {
	groupNode := parquet.Group{}
	for _, column := range t.columns {
		groupNode[column] = t.properties[column].DataType().ToNewParquet()
	}

	return parquet.NewSchema(name, groupNode)
}

// MarshalJSON writes columns in order of appearance with their resolved type
func (t *TypeSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, column := range t.columns {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(t.properties[column])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Property is a dto for column type representation
type Property struct {
	Type *Set[DataType] `json:"type,omitempty"`
}

// returns datatype according to typecast chain if multiple types present
func (p *Property) DataType() DataType {
	commonType := Null
	for _, t := range p.Type.Array() {
		commonType = GetCommonAncestorType(commonType, t)
	}
	return commonType
}

func (p *Property) Nullable() bool {
	return p.Type.Exists(Null)
}
