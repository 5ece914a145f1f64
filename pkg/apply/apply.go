package apply

import (
	"github.com/apache/arrow-go/v18/arrow"
	log "github.com/sirupsen/logrus"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// ApplyUnknown calls fn once per row of t, in row order, and builds the output from the results.
// The representation is chosen from the first non-nil result; rows before it become nulls.
// A callback error aborts the call and is returned unchanged.
func ApplyUnknown(t *frame.Table, fn Callback, opts Options) (Output, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Output{}, err
	}

	d := newDriver(t, fn)
	nullCount := 0
	for d.remaining() > 0 {
		out, present, err := d.next()
		if err != nil {
			return Output{}, err
		}
		if !present {
			nullCount++
			continue
		}
		c := Classification{Kind: classify(out), NullCount: nullCount, First: out}
		log.Debugf("apply output classified as %s after %d null rows", c.Kind, c.NullCount)
		return dispatch(t, d, c, opts)
	}
	return Output{}, perrors.NewIndeterminateOutputError()
}

func dispatch(t *frame.Table, d *driver, c Classification, opts Options) (Output, error) {
	height := t.Height()
	var (
		col *frame.Column
		err error
	)
	switch c.Kind {
	case Bool:
		col, err = boolConverter.convert(d, c, height, opts)
	case Int:
		col, err = intConverter.convert(d, c, height, opts)
	case Float:
		col, err = floatConverter.convert(d, c, height, opts)
	case Text:
		col, err = textConverter.convert(d, c, height, opts)
	case Nested:
		s := c.First.(frame.SeriesProvider).Series()
		col, err = convertList(d, c, s.DataType(), height, opts)
	case Struct:
		col, err = convertStruct(d, c, height, opts)
	case Rows:
		table, err := convertRows(d, c, height, opts)
		if err != nil {
			return Output{}, err
		}
		return Output{Table: table, IsTable: true}, nil
	case Sequence:
		return Output{}, perrors.NewAmbiguousNestedIntentError()
	default:
		return Output{}, perrors.NewIndeterminateOutputError()
	}
	if err != nil {
		return Output{}, err
	}
	return Output{Column: col}, nil
}

// ApplyWithType calls fn once per row of t and builds a column of the declared type dt.
// Supported types are boolean, int64, float64, string and lists of any element type.
func ApplyWithType(t *frame.Table, fn Callback, dt arrow.DataType, opts Options) (Output, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Output{}, err
	}

	d := newDriver(t, fn)
	c := Classification{}
	height := t.Height()
	var (
		col *frame.Column
		err error
	)
	switch dt.ID() {
	case arrow.BOOL:
		col, err = boolConverter.convert(d, c, height, opts)
	case arrow.INT64:
		col, err = intConverter.convert(d, c, height, opts)
	case arrow.FLOAT64:
		col, err = floatConverter.convert(d, c, height, opts)
	case arrow.STRING:
		col, err = textConverter.convert(d, c, height, opts)
	case arrow.LIST:
		col, err = convertList(d, c, dt.(*arrow.ListType).Elem(), height, opts)
	default:
		return Output{}, perrors.NewUnsupportedOutputTypeError(dt)
	}
	if err != nil {
		return Output{}, err
	}
	return Output{Column: col}, nil
}
