package frame

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestInferRowSchema(t *testing.T) {
	names := []string{RowColumnName(0), RowColumnName(1), RowColumnName(2)}
	schema := InferRowSchema([]Row{
		{nil, "a", nil},
		nil,
		{int64(1), 2.5, nil},
		{int64(1)},
	}, names)
	require.Equal(t, "column_0", schema.Field(0).Name)
	require.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int64, schema.Field(0).Type))
	require.True(t, arrow.TypeEqual(arrow.BinaryTypes.String, schema.Field(1).Type))
	require.Equal(t, arrow.NULL, schema.Field(2).Type.ID())
}

func TestRecordBuilder(t *testing.T) {
	schema := InferRowSchema([]Row{{int64(1), "a"}}, []string{"a", "b"})
	rb := NewRecordBuilder(memory.DefaultAllocator, schema, 4)
	rb.AppendNulls(1)
	rb.Append(Row{int64(1), "a"})
	rb.Append(Row{"bad", int64(3)})
	rb.Append(Row{int64(9)})
	require.Equal(t, 4, rb.Len())

	table, err := rb.NewTable()
	require.NoError(t, err)
	require.Equal(t, 4, table.Height())
	require.Equal(t, Row{nil, nil}, table.Row(0))
	require.Equal(t, Row{int64(1), "a"}, table.Row(1))
	require.Equal(t, Row{nil, nil}, table.Row(2))
	require.Equal(t, Row{nil, nil}, table.Row(3))
}

func TestFormatSchema(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
		{Name: "meta", Type: arrow.StructOf(
			arrow.Field{Name: "ok", Type: arrow.FixedWidthTypes.Boolean},
			arrow.Field{Name: "score", Type: arrow.PrimitiveTypes.Float64},
		)},
	}, nil)
	expected := "├─ id: int64\n" +
		"├─ tags: list\n" +
		"│  └─ item: utf8\n" +
		"└─ meta: struct\n" +
		"   ├─ ok: bool\n" +
		"   └─ score: float64\n"
	require.Equal(t, expected, FormatSchema(schema))
}
