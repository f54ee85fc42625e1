package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyfronet-fid/eosc-analyses/constants"
)

func TestRowKeepsColumnOrder(t *testing.T) {
	row := NewRow().Set("b", 1).Set("a", "x").Set("b", 2)

	assert.Equal(t, []string{"b", "a"}, row.Keys())
	assert.Equal(t, 2, row.Len())
	value, found := row.Get("b")
	assert.True(t, found)
	assert.Equal(t, 2, value)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":"x"}`, string(data))
}

func TestRowMergeAndClone(t *testing.T) {
	base := NewRow().Set("fullname", "A").Set(constants.RPID, "old")
	clone := base.Clone().Merge(NewRow().Set(constants.RPID, "X").Set(constants.RPType, nil))

	assert.Equal(t, []string{"fullname", constants.RPID, constants.RPType}, clone.Keys())
	id, _ := clone.Get(constants.RPID)
	assert.Equal(t, "X", id)
	assert.True(t, clone.Has(constants.RPType))

	// base row is untouched
	id, _ = base.Get(constants.RPID)
	assert.Equal(t, "old", id)
	assert.False(t, base.Has(constants.RPType))

	assert.Same(t, base, base.Merge(nil))
}

func TestRowToMap(t *testing.T) {
	row := NewRow().
		Set("pid", NewRow().Set("pid_id", "0000")).
		Set("items", []any{NewRow().Set("a", 1), "b"}).
		Set("empty", nil)

	assert.Equal(t, map[string]any{
		"pid":   map[string]any{"pid_id": "0000"},
		"items": []any{map[string]any{"a": 1}, "b"},
		"empty": nil,
	}, row.ToMap())
}

func TestValue(t *testing.T) {
	structured := Structured(
		Entry{Name: "code", Value: Enumerated("eng")},
		Entry{Name: "label", Value: NullValue()},
	)

	tests := []struct {
		name  string
		value Value
		kind  ValueKind
		raw   any
	}{
		{name: "zero value", value: Value{}, kind: NullKind, raw: nil},
		{name: "null", value: NullValue(), kind: NullKind, raw: nil},
		{name: "nil scalar", value: Scalar(nil), kind: NullKind, raw: nil},
		{name: "scalar", value: Scalar(int64(3)), kind: ScalarKind, raw: int64(3)},
		{name: "enumerated", value: Enumerated("eng"), kind: EnumeratedKind, raw: "eng"},
		{name: "sequence", value: Sequence(), kind: SequenceKind, raw: nil},
		{name: "structured", value: structured, kind: StructuredKind, raw: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.value.Kind())
			assert.Equal(t, tc.kind == NullKind, tc.value.IsNull())
			assert.Equal(t, tc.raw, tc.value.Raw())
		})
	}

	assert.NotNil(t, Sequence().Items())
	assert.Empty(t, Sequence().Items())

	code, found := structured.Field("code")
	assert.True(t, found)
	assert.Equal(t, "eng", code.Code())
	_, found = structured.Field("missing")
	assert.False(t, found)
	assert.Equal(t, "structured", StructuredKind.String())
}

func TestRecord(t *testing.T) {
	record := NewRecord("X")
	record.Set(constants.RecordType, Scalar("software"))
	record.Set(constants.RecordID, Scalar("ignored"))

	assert.Equal(t, "X", record.ID())
	assert.Equal(t, "X", record.Get(constants.RecordID).Raw())
	assert.Equal(t, "software", record.Type())
	assert.Nil(t, record.Publisher())
	assert.True(t, record.Get("author").IsNull())

	keys := record.ForeignKeys()
	assert.Equal(t, []string{constants.RPID, constants.RPType, constants.RPPublisher}, keys.Keys())
	assert.Equal(t, map[string]any{
		constants.RPID:        "X",
		constants.RPType:      "software",
		constants.RPPublisher: nil,
	}, keys.ToMap())
}
