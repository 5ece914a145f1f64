package apply

import (
	"reflect"

	"github.com/bisegni/jframe/pkg/frame"
)

// driver feeds the rows of a cursor to the callback, one at a time and in order.
type driver struct {
	fn     Callback
	cursor *frame.RowCursor
}

func newDriver(t *frame.Table, fn Callback) *driver {
	return &driver{fn: fn, cursor: frame.NewRowCursor(t, 0)}
}

func (d *driver) remaining() int {
	return d.cursor.Remaining()
}

// next calls the callback on the next row. Callback errors are returned as they are.
func (d *driver) next() (value interface{}, present bool, err error) {
	out, err := d.fn(d.cursor.Next())
	if err != nil {
		return nil, false, err
	}
	if isAbsent(out) {
		return nil, false, nil
	}
	return out, true, nil
}

func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return true
		}
	}
	// a provider without a series is a null entry, not a nested output
	if sp, ok := v.(frame.SeriesProvider); ok {
		return sp.Series() == nil
	}
	return false
}
