package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCommonAncestorType(t *testing.T) {
	tests := []struct {
		t1, t2   DataType
		expected DataType
	}{
		{Null, Int64, Int64},
		{Bool, Null, Bool},
		{Bool, Int64, Int64},
		{Int64, Float64, Float64},
		{Float64, String, String},
		{Int64, Int64, Int64},
		{Object, Null, Object},
		{Object, Int64, String},
		{Array, Object, String},
	}

	for _, tc := range tests {
		t.Run(string(tc.t1)+"_"+string(tc.t2), func(t *testing.T) {
			assert.Equal(t, tc.expected, GetCommonAncestorType(tc.t1, tc.t2))
			assert.Equal(t, tc.expected, GetCommonAncestorType(tc.t2, tc.t1))
		})
	}
}

func TestTypeSchema(t *testing.T) {
	schema := NewTypeSchema()
	schema.AddTypes("views", Int64)
	schema.AddTypes("fullname", Null)
	schema.AddTypes("views", Float64, Null)
	schema.AddTypes("fullname", String)

	assert.Equal(t, []string{"views", "fullname"}, schema.Columns())
	assert.Equal(t, 2, schema.Len())

	views, err := schema.GetType("views")
	require.NoError(t, err)
	assert.Equal(t, Float64, views)

	found, property := schema.GetProperty("fullname")
	require.True(t, found)
	assert.True(t, property.Nullable())
	assert.Equal(t, String, property.DataType())

	_, err = schema.GetType("missing")
	assert.Error(t, err)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Equal(t, `{"views":{"type":["integer","number","null"]},"fullname":{"type":["null","string"]}}`, string(data))
}

func TestTypeSchemaToParquet(t *testing.T) {
	schema := NewTypeSchema()
	schema.AddTypes("views", Int64)
	schema.AddTypes("score", Float64)
	schema.AddTypes("open", Bool)
	schema.AddTypes("pid", Object)
	schema.AddTypes("empty", Null)

	parquetSchema := schema.ToParquet("indicator")
	assert.Equal(t, "indicator", parquetSchema.Name())

	fields := map[string]bool{}
	for _, field := range parquetSchema.Fields() {
		fields[field.Name()] = true
		assert.True(t, field.Optional(), field.Name())
		assert.True(t, field.Leaf(), field.Name())
	}
	assert.Len(t, fields, 5)

	kinds := map[string]string{
		"views": "INT64",
		"score": "DOUBLE",
		"open":  "BOOLEAN",
		"pid":   "BYTE_ARRAY",
		"empty": "BYTE_ARRAY",
	}
	for _, field := range parquetSchema.Fields() {
		assert.Equal(t, kinds[field.Name()], field.Type().Kind().String(), field.Name())
	}
}
