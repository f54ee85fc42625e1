package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	pqgo "github.com/parquet-go/parquet-go"
)

const readBatchSize = 256

// TableData is a decoded parquet file: leaf column names and rows of plain Go values,
// nil for nulls.
type TableData struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of column, -1 when absent
func (t *TableData) ColumnIndex(column string) int {
	for idx, name := range t.Columns {
		if name == column {
			return idx
		}
	}
	return -1
}

// ReadFile loads a flat parquet file fully into memory
func ReadFile(path string) (*TableData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file[%s]: %s", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file[%s]: %s", path, err)
	}

	file, err := pqgo.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file[%s]: %s", path, err)
	}

	data := &TableData{}
	for _, columnPath := range file.Schema().Columns() {
		data.Columns = append(data.Columns, strings.Join(columnPath, "."))
	}

	reader := pqgo.NewReader(file)
	defer reader.Close()

	buffer := make([]pqgo.Row, readBatchSize)
	for {
		n, err := reader.ReadRows(buffer)
		for _, row := range buffer[:n] {
			values := make([]any, len(data.Columns))
			for _, value := range row {
				if idx := value.Column(); idx >= 0 && idx < len(values) {
					values[idx] = plainValue(value)
				}
			}
			data.Rows = append(data.Rows, values)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of file[%s]: %s", path, err)
		}
	}

	return data, nil
}

func plainValue(value pqgo.Value) any {
	if value.IsNull() {
		return nil
	}
	switch value.Kind() {
	case pqgo.Boolean:
		return value.Boolean()
	case pqgo.Int32:
		return int64(value.Int32())
	case pqgo.Int64:
		return value.Int64()
	case pqgo.Float:
		return float64(value.Float())
	case pqgo.Double:
		return value.Double()
	default:
		return string(value.ByteArray())
	}
}
