package typeutils

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/cyfronet-fid/eosc-analyses/types"
)

// TypeOf maps a collapsed cell to its column data type
func TypeOf(value any) types.DataType {
	switch value.(type) {
	case nil:
		return types.Null
	case bool:
		return types.Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return types.Int64
	case uint64, float32, float64:
		return types.Float64
	case string:
		return types.String
	case *types.Row, map[string]any:
		return types.Object
	case []any:
		return types.Array
	default:
		return types.Unknown
	}
}

// Resolve adds the columns and observed types of rows to schema
func Resolve(schema *types.TypeSchema, rows ...*types.Row) {
	for _, row := range rows {
		for _, key := range row.Keys() {
			value, _ := row.Get(key)
			schema.AddTypes(key, TypeOf(value))
		}
	}
}

// ReformatValue casts a cell into the physical representation of its resolved column type.
// Composite cells are written as JSON text.
func ReformatValue(dataType types.DataType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch dataType {
	case types.Bool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case types.Int64:
		switch v := value.(type) {
		case bool:
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		}
	case types.Float64:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case uint64:
			return float64(v), nil
		case bool:
			if v {
				return float64(1), nil
			}
			return float64(0), nil
		default:
			i, err := ReformatValue(types.Int64, value)
			if err != nil {
				return nil, err
			}
			return float64(i.(int64)), nil
		}
	default:
		return toText(value)
	}

	return nil, fmt.Errorf("can not cast value[%v] of type %T to %s", value, value, dataType)
}

func toText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to stringify value of type %T: %s", value, err)
		}
		return string(b), nil
	}
}
