package types

import (
	"github.com/parquet-go/parquet-go"
)

type DataType string

const (
	Null    DataType = "null"
	Int64   DataType = "integer"
	Float64 DataType = "number"
	String  DataType = "string"
	Bool    DataType = "boolean"
	Object  DataType = "object"
	Array   DataType = "array"
	Unknown DataType = "unknown"
)

// Typecast chain used to widen a column holding several types:
//
//	0 (Bool) -> 1 (Int64) -> 2 (Float64) -> 3 (String)
//
// Object and Array cells are stored as JSON text and therefore widen to String.
var TypeWeights = map[DataType]int{
	Bool:    0,
	Int64:   1,
	Float64: 2,
	String:  3,
}

// GetCommonAncestorType returns the narrowest type both t1 and t2 can be cast into
func GetCommonAncestorType(t1, t2 DataType) DataType {
	if t1 == Null {
		return t2
	}
	if t2 == Null {
		return t1
	}

	wt1, t1Exist := TypeWeights[t1]
	wt2, t2Exist := TypeWeights[t2]
	if !t1Exist || !t2Exist {
		return String
	}
	if wt1 >= wt2 {
		return t1
	}
	return t2
}

func (d DataType) ToNewParquet() parquet.Node {
	var n parquet.Node

	switch d {
	case Int64:
		n = parquet.Leaf(parquet.Int64Type)
	case Float64:
		n = parquet.Leaf(parquet.DoubleType)
	case Bool:
		n = parquet.Leaf(parquet.BooleanType)
	default:
		// strings, JSON encoded objects/arrays and all-null columns
		n = parquet.String()
	}

	// every column of a union schema may be missing in some row
	return parquet.Optional(n)
}
