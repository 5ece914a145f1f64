package frame

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// RowColumnName is the name of the i-th column of a table built from row records.
func RowColumnName(i int) string {
	return fmt.Sprintf("column_%d", i)
}

// InferRowSchema derives a schema of width len(names) from sample rows. Each position takes
// the type of its first non-null value; positions that are null in every sampled row get
// the null type. Rows of a different width are ignored.
func InferRowSchema(rows []Row, names []string) *arrow.Schema {
	types := make([]arrow.DataType, len(names))
	for _, row := range rows {
		if len(row) != len(names) {
			continue
		}
		for i, v := range row {
			if types[i] != nil || v == nil {
				continue
			}
			types[i] = InferDataType(v)
		}
	}
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: orNull(types[i]), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// RecordBuilder appends rows against a fixed schema.
type RecordBuilder struct {
	schema   *arrow.Schema
	builders []array.Builder
	rows     int
}

func NewRecordBuilder(mem memory.Allocator, schema *arrow.Schema, capacity int) *RecordBuilder {
	rb := &RecordBuilder{schema: schema, builders: make([]array.Builder, schema.NumFields())}
	for i, f := range schema.Fields() {
		rb.builders[i] = array.NewBuilder(mem, f.Type)
		rb.builders[i].Reserve(capacity)
	}
	return rb
}

// Append adds one row. A nil row, or one of the wrong width, is appended as all nulls.
// Cells that do not coerce to the column type are stored as null.
func (rb *RecordBuilder) Append(row Row) {
	if len(row) != len(rb.builders) {
		rb.AppendNulls(1)
		return
	}
	rb.rows++
	for i, b := range rb.builders {
		AppendValue(b, row[i])
	}
}

// AppendNulls adds n all-null rows.
func (rb *RecordBuilder) AppendNulls(n int) {
	rb.rows += n
	for _, b := range rb.builders {
		b.AppendNulls(n)
	}
}

// Len returns the number of rows appended so far.
func (rb *RecordBuilder) Len() int { return rb.rows }

// NewTable finishes the builders into a table and releases them.
func (rb *RecordBuilder) NewTable() (*Table, error) {
	cols := make([]*Column, len(rb.builders))
	for i, b := range rb.builders {
		cols[i] = NewColumn(rb.schema.Field(i).Name, b.NewArray())
		b.Release()
	}
	return NewTable(cols...)
}
