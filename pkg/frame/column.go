package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Column is a named, typed, nullable sequence of values backed by an Arrow array.
type Column struct {
	name string
	arr  arrow.Array
}

// NewColumn wraps an existing Arrow array. The column takes over the caller's reference.
func NewColumn(name string, arr arrow.Array) *Column {
	return &Column{name: name, arr: arr}
}

// NewColumnFromValues builds a column whose type is the supertype of values.
func NewColumnFromValues(name string, values []interface{}) *Column {
	return BuildColumn(memory.DefaultAllocator, name, SupertypeOf(values), values)
}

// NewColumnOfType builds a column of type dt. Values that do not coerce to dt become null.
func NewColumnOfType(name string, dt arrow.DataType, values []interface{}) *Column {
	return BuildColumn(memory.DefaultAllocator, name, dt, values)
}

// BuildColumn is NewColumnOfType with an explicit allocator.
func BuildColumn(mem memory.Allocator, name string, dt arrow.DataType, values []interface{}) *Column {
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.Reserve(len(values))
	for _, v := range values {
		AppendValue(b, v)
	}
	return NewColumn(name, b.NewArray())
}

// FullNullColumn returns a column of n nulls of type dt.
func FullNullColumn(mem memory.Allocator, name string, dt arrow.DataType, n int) *Column {
	return NewColumn(name, array.MakeArrayOfNull(mem, dt, n))
}

func (c *Column) Name() string { return c.name }

func (c *Column) Len() int { return c.arr.Len() }

func (c *Column) DataType() arrow.DataType { return c.arr.DataType() }

func (c *Column) NullN() int { return c.arr.NullN() }

func (c *Column) IsNull(i int) bool { return c.arr.IsNull(i) }

// Array returns the backing Arrow array.
func (c *Column) Array() arrow.Array { return c.arr }

// Series implements SeriesProvider, so a column returned from a callback becomes a list entry.
func (c *Column) Series() *Column { return c }

// Rename returns a column with the same data under a new name.
func (c *Column) Rename(name string) *Column {
	c.arr.Retain()
	return &Column{name: name, arr: c.arr}
}

func (c *Column) Release() { c.arr.Release() }

// Value returns the decoded value at index i.
func (c *Column) Value(i int) interface{} {
	return valueAt(c.arr, i)
}

// Values decodes every value of the column.
func (c *Column) Values() []interface{} {
	out := make([]interface{}, c.Len())
	for i := range out {
		out[i] = valueAt(c.arr, i)
	}
	return out
}

// Iter returns a forward iterator starting at offset.
func (c *Column) Iter(offset int) *ValueIterator {
	return &ValueIterator{col: c, pos: offset}
}

// MarshalJSON implements the json.Marshaler interface, encoding the column as an array.
func (c *Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Values())
}

func (c *Column) String() string {
	parts := make([]string, c.Len())
	for i := range parts {
		if c.arr.IsNull(i) {
			parts[i] = "null"
			continue
		}
		parts[i] = c.arr.ValueStr(i)
	}
	return fmt.Sprintf("%s[%s] [%s]", c.name, c.DataType(), strings.Join(parts, ", "))
}

func valueAt(arr arrow.Array, i int) interface{} {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		if a.Value(i) > math.MaxInt64 {
			return nil
		}
		return int64(a.Value(i))
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	case *array.List:
		start, end := a.ValueOffsets(i)
		return NewColumn("", array.NewSlice(a.ListValues(), start, end))
	case *array.LargeList:
		start, end := a.ValueOffsets(i)
		return NewColumn("", array.NewSlice(a.ListValues(), start, end))
	case *array.Struct:
		st := a.DataType().(*arrow.StructType)
		om := make(OrderedMap, a.NumField())
		for j := range om {
			om[j] = KeyVal{Key: st.Field(j).Name, Val: valueAt(a.Field(j), i)}
		}
		return om
	default:
		return arr.GetOneForMarshal(i)
	}
}
