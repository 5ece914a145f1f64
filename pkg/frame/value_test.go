package frame

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func TestInferDataType(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected arrow.DataType
	}{
		{"nil", nil, arrow.Null},
		{"bool", true, arrow.FixedWidthTypes.Boolean},
		{"int", 3, arrow.PrimitiveTypes.Int64},
		{"uint8", uint8(3), arrow.PrimitiveTypes.Int64},
		{"float32", float32(1.5), arrow.PrimitiveTypes.Float64},
		{"json int", json.Number("12"), arrow.PrimitiveTypes.Int64},
		{"json float", json.Number("1.5"), arrow.PrimitiveTypes.Float64},
		{"string", "x", arrow.BinaryTypes.String},
		{"list", []interface{}{1, 2.5, nil}, arrow.ListOf(arrow.PrimitiveTypes.Float64)},
		{"struct", OrderedMap{{Key: "b", Val: "x"}, {Key: "a", Val: nil}}, arrow.StructOf(
			arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true},
			arrow.Field{Name: "a", Type: arrow.Null, Nullable: true},
		)},
		{"column", NewColumnFromValues("", []interface{}{"a"}), arrow.ListOf(arrow.BinaryTypes.String)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, arrow.TypeEqual(tt.expected, InferDataType(tt.value)), "got %s", InferDataType(tt.value))
		})
	}
	require.Nil(t, InferDataType(struct{}{}))
}

func TestSupertype(t *testing.T) {
	i, f, s := arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Float64, arrow.BinaryTypes.String
	require.Equal(t, i, Supertype(arrow.Null, i))
	require.Equal(t, f, Supertype(i, f))
	require.Equal(t, s, Supertype(s, i))

	a := arrow.StructOf(arrow.Field{Name: "x", Type: i, Nullable: true})
	b := arrow.StructOf(arrow.Field{Name: "x", Type: f, Nullable: true}, arrow.Field{Name: "y", Type: s, Nullable: true})
	merged := Supertype(a, b).(*arrow.StructType)
	require.Equal(t, 2, merged.NumFields())
	require.True(t, arrow.TypeEqual(f, merged.Field(0).Type))
}

func TestCoercion(t *testing.T) {
	_, ok := AsBool(1)
	require.False(t, ok)

	n, ok := AsInt64(uint16(7))
	require.True(t, ok)
	require.Equal(t, int64(7), n)
	_, ok = AsInt64(1.5)
	require.False(t, ok)
	_, ok = AsInt64(uint64(1 << 63))
	require.False(t, ok)

	x, ok := AsFloat64(int8(-2))
	require.True(t, ok)
	require.Equal(t, -2.0, x)

	s, ok := AsString(label("a"))
	require.True(t, ok)
	require.Equal(t, "label:a", s)
	_, ok = AsString(OrderedMap{})
	require.False(t, ok)
	_, ok = AsString(NewColumnFromValues("", nil))
	require.False(t, ok)
}

func TestAppendValue(t *testing.T) {
	b := array.NewInt64Builder(memory.DefaultAllocator)
	defer b.Release()
	require.True(t, AppendValue(b, 1))
	require.False(t, AppendValue(b, "x"))
	require.True(t, AppendValue(b, nil))
	arr := b.NewArray()
	defer arr.Release()
	require.Equal(t, 3, arr.Len())
	require.Equal(t, 2, arr.NullN())
}

func TestNestedColumnValues(t *testing.T) {
	col := NewColumnFromValues("nested", []interface{}{
		OrderedMap{{Key: "tags", Val: []interface{}{"a", "b"}}, {Key: "n", Val: 1}},
		nil,
		OrderedMap{{Key: "tags", Val: []interface{}{}}, {Key: "n", Val: 2}},
	})
	require.Equal(t, arrow.STRUCT, col.DataType().ID())
	require.Equal(t, 3, col.Len())
	require.Nil(t, col.Value(1))

	first := col.Value(0).(OrderedMap)
	tags, _ := first.Get("tags")
	require.Equal(t, []interface{}{"a", "b"}, tags.(*Column).Values())

	b, err := json.Marshal(col)
	require.NoError(t, err)
	require.JSONEq(t, `[{"tags":["a","b"],"n":1},null,{"tags":[],"n":2}]`, string(b))
}

func TestUint64Values(t *testing.T) {
	b := array.NewUint64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues([]uint64{7, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64}, nil)
	col := NewColumn("u", b.NewArray())
	require.Equal(t, []interface{}{int64(7), int64(math.MaxInt64), nil, nil}, col.Values())
}

func TestAppendArray(t *testing.T) {
	src := NewColumnFromValues("", []interface{}{1, nil, 3})
	b := array.NewInt64Builder(memory.DefaultAllocator)
	defer b.Release()
	require.NoError(t, AppendArray(b, src.Array()))
	out := NewColumn("", b.NewArray())
	require.Equal(t, []interface{}{int64(1), nil, int64(3)}, out.Values())

	lists := NewColumnFromValues("", []interface{}{[]interface{}{"a"}, nil})
	lb := array.NewBuilder(memory.DefaultAllocator, lists.DataType())
	defer lb.Release()
	require.NoError(t, AppendArray(lb, lists.Array()))
	copied := NewColumn("", lb.NewArray())
	require.Equal(t, []interface{}{"a"}, copied.Value(0).(*Column).Values())
	require.Nil(t, copied.Value(1))
}
