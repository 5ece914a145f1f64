package apply

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/bisegni/jframe/pkg/frame"
)

// Kind is the output representation chosen from the first present callback result.
type Kind int

const (
	Unrecognized Kind = iota
	Bool
	Int
	Float
	Text
	Nested
	Struct
	Rows
	// Sequence is a slice that is not a row record. It is rejected with a hint to return a column.
	Sequence
)

var kindNames = [...]string{"unrecognized", "bool", "int", "float", "text", "nested", "struct", "rows", "sequence"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Classification records what the classifier learned before handing over to a converter.
type Classification struct {
	Kind      Kind
	NullCount int
	First     interface{}
}

// classify decides the output kind of a present value. The order of the checks matters:
// an integral json.Number is an Int, a mapping wins over a sequence, and only a sequence
// of scalars is a row record.
func classify(v interface{}) Kind {
	switch x := v.(type) {
	case bool:
		return Bool
	case float32, float64:
		return Float
	case json.Number:
		if strings.ContainsAny(x.String(), ".eE") {
			return Float
		}
		return Int
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case string, []byte:
		return Text
	case frame.SeriesProvider:
		return Nested
	case frame.OrderedMap, map[string]interface{}:
		return Struct
	}
	if _, ok := decodeRow(v); ok {
		return Rows
	}
	if isSequence(v) {
		return Sequence
	}
	return Unrecognized
}

// decodeRow turns a callback result into an owned row record. It fails when v is not a
// non-empty sequence of scalar cells.
func decodeRow(v interface{}) (frame.Row, bool) {
	if !isSequence(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Len() == 0 {
		return nil, false
	}
	row := make(frame.Row, rv.Len())
	for i := range row {
		cell, ok := scalarCell(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		row[i] = cell
	}
	return row, true
}

// scalarCell normalizes a scalar to the cell representation used by frame.
func scalarCell(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, true
	case []byte:
		return string(x), true
	case float32:
		return float64(x), true
	case json.Number:
		if Int == classify(x) {
			if i, ok := frame.AsInt64(x); ok {
				return i, true
			}
		}
		return frame.AsFloat64(x)
	}
	if i, ok := frame.AsInt64(v); ok {
		return i, true
	}
	return nil, false
}

func isSequence(v interface{}) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
