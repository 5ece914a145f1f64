package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"
)

// InferDataType returns the Arrow type a single Go value maps to.
// nil maps to the null type; values with no column representation return nil.
func InferDataType(value interface{}) arrow.DataType {
	switch v := value.(type) {
	case nil:
		return arrow.Null
	case bool:
		return arrow.FixedWidthTypes.Boolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return arrow.PrimitiveTypes.Int64
	case float32, float64:
		return arrow.PrimitiveTypes.Float64
	case json.Number:
		if _, ok := AsInt64(v); ok {
			return arrow.PrimitiveTypes.Int64
		}
		return arrow.PrimitiveTypes.Float64
	case string, []byte:
		return arrow.BinaryTypes.String
	case *Column:
		if v == nil {
			return arrow.Null
		}
		return arrow.ListOf(v.DataType())
	case SeriesProvider:
		return arrow.ListOf(v.Series().DataType())
	case Row:
		return arrow.ListOf(SupertypeOf([]interface{}(v)))
	case []interface{}:
		return arrow.ListOf(SupertypeOf(v))
	case OrderedMap:
		fields := make([]arrow.Field, 0, len(v))
		for _, kv := range v {
			fields = append(fields, arrow.Field{Name: kv.Key, Type: orNull(InferDataType(kv.Val)), Nullable: true})
		}
		return arrow.StructOf(fields...)
	case map[string]interface{}:
		return InferDataType(FromMap(v))
	default:
		return nil
	}
}

// SupertypeOf folds Supertype over the types of values.
func SupertypeOf(values []interface{}) arrow.DataType {
	var dt arrow.DataType = arrow.Null
	for _, v := range values {
		dt = Supertype(dt, orNull(InferDataType(v)))
	}
	return dt
}

// Supertype returns the type able to hold values of both a and b.
// null widens to anything, int64 and float64 widen to float64, lists and structs merge
// recursively. For any other mismatch the first type wins.
func Supertype(a, b arrow.DataType) arrow.DataType {
	switch {
	case a == nil || a.ID() == arrow.NULL:
		return b
	case b == nil || b.ID() == arrow.NULL:
		return a
	case arrow.TypeEqual(a, b):
		return a
	}
	switch {
	case a.ID() == arrow.INT64 && b.ID() == arrow.FLOAT64, a.ID() == arrow.FLOAT64 && b.ID() == arrow.INT64:
		return arrow.PrimitiveTypes.Float64
	case a.ID() == arrow.LIST && b.ID() == arrow.LIST:
		return arrow.ListOf(Supertype(a.(*arrow.ListType).Elem(), b.(*arrow.ListType).Elem()))
	case a.ID() == arrow.STRUCT && b.ID() == arrow.STRUCT:
		return mergeStructs(a.(*arrow.StructType), b.(*arrow.StructType))
	}
	return a
}

func mergeStructs(a, b *arrow.StructType) arrow.DataType {
	fields := append([]arrow.Field(nil), a.Fields()...)
	for _, f := range b.Fields() {
		idx, ok := a.FieldIdx(f.Name)
		if !ok {
			fields = append(fields, f)
			continue
		}
		fields[idx].Type = Supertype(fields[idx].Type, f.Type)
	}
	return arrow.StructOf(fields...)
}

func orNull(dt arrow.DataType) arrow.DataType {
	if dt == nil {
		return arrow.Null
	}
	return dt
}

// AsBool coerces v to a bool. Only bool values convert.
func AsBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsInt64 coerces v to an int64. Every Go integer kind converts, as does an integral json.Number.
func AsInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), n <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// AsFloat64 coerces v to a float64. Floats convert, integers widen.
func AsFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	if i, ok := AsInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

// AsString coerces v to an owned string. strings, byte slices and fmt.Stringer values convert.
func AsString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case OrderedMap, SeriesProvider:
		return "", false
	case fmt.Stringer:
		if isNilPointer(s) {
			return "", false
		}
		return s.String(), true
	default:
		return "", false
	}
}

// IsScalar reports whether v is a value a single non-nested cell can hold.
func IsScalar(v interface{}) bool {
	switch v.(type) {
	case nil, bool, string, []byte, json.Number,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// AppendValue appends v to b, coercing it to the builder's type.
// Values that do not coerce are appended as null; the return value reports whether v was stored.
func AppendValue(b array.Builder, v interface{}) bool {
	if v == nil {
		b.AppendNull()
		return true
	}
	switch bb := b.(type) {
	case *array.NullBuilder:
		bb.AppendNull()
		return false
	case *array.BooleanBuilder:
		if x, ok := AsBool(v); ok {
			bb.Append(x)
			return true
		}
	case *array.Int64Builder:
		if x, ok := AsInt64(v); ok {
			bb.Append(x)
			return true
		}
	case *array.Float64Builder:
		if x, ok := AsFloat64(v); ok {
			bb.Append(x)
			return true
		}
	case *array.StringBuilder:
		if x, ok := AsString(v); ok {
			bb.Append(x)
			return true
		}
	case *array.ListBuilder:
		if elems, ok := listElements(v); ok {
			bb.Append(true)
			vb := bb.ValueBuilder()
			for _, e := range elems {
				AppendValue(vb, e)
			}
			return true
		}
	case *array.StructBuilder:
		if om, ok := AsOrderedMap(v); ok {
			appendStruct(bb, om)
			return true
		}
	}
	b.AppendNull()
	return false
}

func appendStruct(sb *array.StructBuilder, om OrderedMap) {
	st := sb.Type().(*arrow.StructType)
	sb.Append(true)
	for i, f := range st.Fields() {
		val, _ := om.Get(f.Name)
		AppendValue(sb.FieldBuilder(i), val)
	}
}

// AsOrderedMap converts mapping values to an OrderedMap.
func AsOrderedMap(v interface{}) (OrderedMap, bool) {
	switch m := v.(type) {
	case OrderedMap:
		return m, true
	case map[string]interface{}:
		return FromMap(m), true
	default:
		return nil, false
	}
}

func listElements(v interface{}) ([]interface{}, bool) {
	switch l := v.(type) {
	case []interface{}:
		return l, true
	case Row:
		return l, true
	case *Column:
		if l == nil {
			return nil, false
		}
		return l.Values(), true
	case SeriesProvider:
		return l.Series().Values(), true
	}
	return nil, false
}

func isNilPointer(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// AppendArray appends every value of arr to b. b must be a builder of arr's type.
func AppendArray(b array.Builder, arr arrow.Array) error {
	switch bb := b.(type) {
	case *array.Int64Builder:
		if a, ok := arr.(*array.Int64); ok {
			bb.AppendValues(a.Int64Values(), validity(a))
			return nil
		}
	case *array.Float64Builder:
		if a, ok := arr.(*array.Float64); ok {
			bb.AppendValues(a.Float64Values(), validity(a))
			return nil
		}
	case *array.NullBuilder:
		bb.AppendNulls(arr.Len())
		return nil
	}

	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		switch b.(type) {
		case *array.BooleanBuilder, *array.Int64Builder, *array.Float64Builder, *array.StringBuilder,
			*array.ListBuilder, *array.StructBuilder:
			AppendValue(b, valueAt(arr, i))
			continue
		}
		if err := b.AppendValueFromString(arr.ValueStr(i)); err != nil {
			return errors.Wrapf(err, "append %s value", arr.DataType())
		}
	}
	return nil
}

func validity(arr arrow.Array) []bool {
	if arr.NullN() == 0 {
		return nil
	}
	valid := make([]bool, arr.Len())
	for i := range valid {
		valid[i] = arr.IsValid(i)
	}
	return valid
}
