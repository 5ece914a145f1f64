package frame

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/bisegni/jframe/pkg/perrors"
)

// Table is an ordered set of named columns of equal length.
type Table struct {
	columns []*Column
	height  int
}

// NewTable checks that all columns have the same length and distinct names.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{columns: columns}
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if i == 0 {
			t.height = c.Len()
		} else if c.Len() != t.height {
			return nil, perrors.NewInvalidTableError(fmt.Sprintf("column %q has %d rows, expected %d", c.Name(), c.Len(), t.height))
		}
		if _, ok := seen[c.Name()]; ok {
			return nil, perrors.NewInvalidTableError(fmt.Sprintf("duplicate column name %q", c.Name()))
		}
		seen[c.Name()] = struct{}{}
	}
	return t, nil
}

// FromRecords builds a table from row records. Columns appear in the order their keys are
// first seen; a record missing a key contributes a null.
func FromRecords(records []OrderedMap) (*Table, error) {
	var names []string
	index := make(map[string]int)
	for _, rec := range records {
		for _, kv := range rec {
			if _, ok := index[kv.Key]; !ok {
				index[kv.Key] = len(names)
				names = append(names, kv.Key)
			}
		}
	}

	values := make([][]interface{}, len(names))
	for i := range values {
		values[i] = make([]interface{}, len(records))
	}
	for r, rec := range records {
		for _, kv := range rec {
			values[index[kv.Key]][r] = kv.Val
		}
	}

	columns := make([]*Column, len(names))
	for i, name := range names {
		columns[i] = NewColumnFromValues(name, values[i])
	}
	return NewTable(columns...)
}

// Height returns the number of rows.
func (t *Table) Height() int { return t.height }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

func (t *Table) Column(i int) *Column { return t.columns[i] }

func (t *Table) ColumnByName(name string) (*Column, error) {
	for _, c := range t.columns {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, perrors.NewUnknownColumnError(name)
}

func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Schema returns the Arrow schema of the table.
func (t *Table) Schema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.columns))
	for i, c := range t.columns {
		fields[i] = arrow.Field{Name: c.Name(), Type: c.DataType(), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// Row returns the values of row i.
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Value(i)
	}
	return row
}

// Record exposes the table as an Arrow record. The caller owns the returned record.
func (t *Table) Record() arrow.Record {
	cols := make([]arrow.Array, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Array()
	}
	return array.NewRecord(t.Schema(), cols, int64(t.height))
}

func (t *Table) Release() {
	for _, c := range t.columns {
		c.Release()
	}
}
