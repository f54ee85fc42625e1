package types

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Row is an ordered map of column name to cell value. Cells hold nil, plain scalars,
// []any or nested *Row values.
type Row struct {
	keys  []string
	cells map[string]any
}

func NewRow() *Row {
	return &Row{cells: make(map[string]any)}
}

// Set stores value under key, keeping the position of an existing key
func (r *Row) Set(key string, value any) *Row {
	if _, exists := r.cells[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = value
	return r
}

func (r *Row) Get(key string) (any, bool) {
	value, exists := r.cells[key]
	return value, exists
}

func (r *Row) Has(key string) bool {
	_, exists := r.cells[key]
	return exists
}

func (r *Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Row) Len() int {
	return len(r.keys)
}

// Merge copies every cell of other into r, other wins on conflicts
func (r *Row) Merge(other *Row) *Row {
	if other == nil {
		return r
	}
	for _, key := range other.keys {
		r.Set(key, other.cells[key])
	}
	return r
}

func (r *Row) Clone() *Row {
	clone := &Row{
		keys:  make([]string, len(r.keys)),
		cells: make(map[string]any, len(r.cells)),
	}
	copy(clone.keys, r.keys)
	for key, value := range r.cells {
		clone.cells[key] = value
	}
	return clone
}

// ToMap returns the cells as a plain map, nested rows included
func (r *Row) ToMap() map[string]any {
	out := make(map[string]any, len(r.cells))
	for key, value := range r.cells {
		out[key] = plain(value)
	}
	return out
}

func plain(value any) any {
	switch v := value.(type) {
	case *Row:
		return v.ToMap()
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = plain(item)
		}
		return items
	default:
		return value
	}
}

// MarshalJSON keeps column order
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range r.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.cells[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
