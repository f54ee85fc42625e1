package parser

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/cyfronet-fid/eosc-analyses/schema"
	"github.com/cyfronet-fid/eosc-analyses/types"
)

// coerce converts a decoded JSON value into the Value matching the declared type.
// Values that cannot take the declared shape are kept as they came so the
// flattener can fall back on them.
func coerce(t schema.Type, raw any) types.Value {
	if raw == nil {
		return types.NullValue()
	}

	switch t.Kind {
	case schema.ScalarKind:
		if value, ok := coerceScalar(t.Scalar, raw); ok {
			return types.Scalar(value)
		}
	case schema.EnumKind:
		if code, ok := raw.(string); ok {
			for _, declared := range t.Codes {
				if code == declared {
					return types.Enumerated(code)
				}
			}
		}
	case schema.StructKind:
		if object, ok := raw.(map[string]any); ok {
			// every declared member is present, absent ones as Null
			entries := make([]types.Entry, 0, len(t.Fields))
			for _, field := range t.Fields {
				entries = append(entries, types.Entry{Name: field.Name, Value: coerce(field.Type, object[field.Name])})
			}
			return types.Structured(entries...)
		}
	case schema.ListKind:
		if items, ok := raw.([]any); ok {
			values := make([]types.Value, 0, len(items))
			for _, item := range items {
				values = append(values, coerce(*t.Elem, item))
			}
			return types.Sequence(values...)
		}
	case schema.MapKind:
		if object, ok := raw.(map[string]any); ok {
			entries := make([]types.Entry, 0, len(object))
			for _, key := range sortedKeys(object) {
				entries = append(entries, types.Entry{Name: key, Value: coerce(*t.Elem, object[key])})
			}
			return types.Structured(entries...)
		}
	}

	return rawValue(raw)
}

func coerceScalar(dataType types.DataType, raw any) (any, bool) {
	switch dataType {
	case types.String:
		switch v := raw.(type) {
		case string:
			return v, true
		case json.Number:
			return v.String(), true
		}
	case types.Int64:
		switch v := raw.(type) {
		case json.Number:
			return numberToInt(v)
		case string:
			return numberToInt(json.Number(strings.TrimSpace(v)))
		case bool:
			if v {
				return int64(1), true
			}
			return int64(0), true
		}
	case types.Float64:
		switch v := raw.(type) {
		case json.Number:
			f, err := v.Float64()
			return f, err == nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			return f, err == nil
		}
	case types.Bool:
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			return b, err == nil
		case json.Number:
			switch v.String() {
			case "0":
				return false, true
			case "1":
				return true, true
			}
		}
	}
	return nil, false
}

// numberToInt accepts integers and floats without a fractional part
func numberToInt(n json.Number) (any, bool) {
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

// rawValue wraps an undeclared shape without conversion
func rawValue(raw any) types.Value {
	switch v := raw.(type) {
	case nil:
		return types.NullValue()
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return types.Scalar(i)
		}
		if f, err := v.Float64(); err == nil {
			return types.Scalar(f)
		}
		return types.Scalar(v.String())
	case []any:
		values := make([]types.Value, 0, len(v))
		for _, item := range v {
			values = append(values, rawValue(item))
		}
		return types.Sequence(values...)
	case map[string]any:
		entries := make([]types.Entry, 0, len(v))
		for _, key := range sortedKeys(v) {
			entries = append(entries, types.Entry{Name: key, Value: rawValue(v[key])})
		}
		return types.Structured(entries...)
	default:
		return types.Scalar(v)
	}
}

func sortedKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
