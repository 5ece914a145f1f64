package apply

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// averageListFanOut is the expected number of child values per list entry, used to size the child builder.
const averageListFanOut = 5

// convertList builds a list column of element type dt. Every present result must wrap a column.
func convertList(d *driver, c Classification, dt arrow.DataType, height int, opts Options) (*frame.Column, error) {
	lb := array.NewListBuilder(opts.Allocator, dt)
	defer lb.Release()
	lb.Reserve(height)
	lb.ValueBuilder().Reserve(height * averageListFanOut)

	lb.AppendNulls(c.NullCount)
	if c.First != nil {
		if err := appendSeries(lb, dt, c.First); err != nil {
			return nil, err
		}
	}
	for d.remaining() > 0 {
		out, present, err := d.next()
		if err != nil {
			return nil, err
		}
		if !present {
			lb.AppendNull()
			continue
		}
		if err := appendSeries(lb, dt, out); err != nil {
			return nil, err
		}
	}
	if lb.Len() != height {
		return nil, perrors.NewInternalError("list output holds %d entries, expected %d", lb.Len(), height)
	}
	return frame.NewColumn(opts.Name, lb.NewListArray()), nil
}

func appendSeries(lb *array.ListBuilder, dt arrow.DataType, v interface{}) error {
	sp, ok := v.(frame.SeriesProvider)
	if !ok {
		return perrors.NewNestedOutputMismatchError(fmt.Sprintf("expected a column, got %T", v))
	}
	s := sp.Series()
	if !arrow.TypeEqual(s.DataType(), dt) {
		switch {
		case s.Len() == 0:
			// empty entry of the declared type
			lb.Append(true)
			return nil
		case s.DataType().ID() == arrow.NULL:
			lb.Append(true)
			lb.ValueBuilder().AppendNulls(s.Len())
			return nil
		}
		return perrors.NewNestedOutputMismatchError(fmt.Sprintf("expected a column of %s, got %s", dt, s.DataType()))
	}
	lb.Append(true)
	return frame.AppendArray(lb.ValueBuilder(), s.Array())
}
