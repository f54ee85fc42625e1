package destination

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils/typeutils"
)

// Table accumulates the rows of one output table together with their union column schema
type Table struct {
	Name   string
	rows   []*types.Row
	schema *types.TypeSchema
}

func NewTable(name string) *Table {
	return &Table{
		Name:   name,
		schema: types.NewTypeSchema(),
	}
}

func (t *Table) Add(rows ...*types.Row) {
	typeutils.Resolve(t.schema, rows...)
	t.rows = append(t.rows, rows...)
}

func (t *Table) Rows() []*types.Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Schema() *types.TypeSchema {
	return t.schema
}

// Records returns every row as a map over the full union column set, cells cast to their
// column type. Columns a row never had are explicit nils.
func (t *Table) Records() ([]map[string]any, error) {
	columns := t.schema.Columns()
	columnTypes := make(map[string]types.DataType, len(columns))
	for _, column := range columns {
		dataType, err := t.schema.GetType(column)
		if err != nil {
			return nil, err
		}
		columnTypes[column] = dataType
	}

	records := make([]map[string]any, 0, len(t.rows))
	for idx, row := range t.rows {
		record := make(map[string]any, len(columns))
		for _, column := range columns {
			value, _ := row.Get(column)
			reformatted, err := typeutils.ReformatValue(columnTypes[column], value)
			if err != nil {
				return nil, fmt.Errorf("table[%s] row %d column[%s]: %s", t.Name, idx, column, err)
			}
			record[column] = reformatted
		}
		records = append(records, record)
	}
	return records, nil
}

// Fingerprint sums the hashes of all rows; equal row multisets give equal fingerprints
// whatever the row order.
func (t *Table) Fingerprint() (uint64, error) {
	var sum uint64
	for idx, row := range t.rows {
		hash, err := hashstructure.Hash(row.ToMap(), nil)
		if err != nil {
			return 0, fmt.Errorf("failed to hash row %d of table[%s]: %s", idx, t.Name, err)
		}
		sum += hash
	}
	return sum, nil
}

// TableSet keeps tables in order of creation
type TableSet struct {
	order  []string
	tables map[string]*Table
}

func NewTableSet() *TableSet {
	return &TableSet{tables: make(map[string]*Table)}
}

// Table returns the table called name, creating it on first use
func (s *TableSet) Table(name string) *Table {
	table, found := s.tables[name]
	if !found {
		table = NewTable(name)
		s.tables[name] = table
		s.order = append(s.order, name)
	}
	return table
}

func (s *TableSet) Tables() []*Table {
	tables := make([]*Table, 0, len(s.order))
	for _, name := range s.order {
		tables = append(tables, s.tables[name])
	}
	return tables
}

// NonEmpty returns the tables holding at least one row
func (s *TableSet) NonEmpty() []*Table {
	tables := []*Table{}
	for _, table := range s.Tables() {
		if table.Len() > 0 {
			tables = append(tables, table)
		}
	}
	return tables
}
