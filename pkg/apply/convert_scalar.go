package apply

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// fixedBuffer is a values/validity buffer sized for exactly one value per input row.
type fixedBuffer[T any] struct {
	values []T
	valid  []bool
	pos    int
}

func newFixedBuffer[T any](n int) *fixedBuffer[T] {
	return &fixedBuffer[T]{values: make([]T, n), valid: make([]bool, n)}
}

func (b *fixedBuffer[T]) appendNulls(n int) {
	b.pos += n
}

func (b *fixedBuffer[T]) append(v T, ok bool) {
	if b.pos < len(b.values) {
		b.values[b.pos] = v
		b.valid[b.pos] = ok
	}
	b.pos++
}

// seal checks that every slot was written exactly once.
func (b *fixedBuffer[T]) seal() error {
	if b.pos != len(b.values) {
		return perrors.NewInternalError("output holds %d values, expected %d", b.pos, len(b.values))
	}
	return nil
}

type valuesBuilder[T any] interface {
	array.Builder
	AppendValues(v []T, valid []bool)
}

// scalarConverter describes how one scalar output kind decodes values and builds its array.
type scalarConverter[T any] struct {
	decode     func(interface{}) (T, bool)
	newBuilder func(memory.Allocator) valuesBuilder[T]
}

var (
	boolConverter = scalarConverter[bool]{
		decode:     frame.AsBool,
		newBuilder: func(mem memory.Allocator) valuesBuilder[bool] { return array.NewBooleanBuilder(mem) },
	}
	intConverter = scalarConverter[int64]{
		decode:     frame.AsInt64,
		newBuilder: func(mem memory.Allocator) valuesBuilder[int64] { return array.NewInt64Builder(mem) },
	}
	floatConverter = scalarConverter[float64]{
		decode:     frame.AsFloat64,
		newBuilder: func(mem memory.Allocator) valuesBuilder[float64] { return array.NewFloat64Builder(mem) },
	}
	textConverter = scalarConverter[string]{
		decode:     frame.AsString,
		newBuilder: func(mem memory.Allocator) valuesBuilder[string] { return array.NewStringBuilder(mem) },
	}
)

// convert builds the output column: NullCount nulls, the first value, then every remaining
// row of the driver. Values that do not decode are stored as null.
func (sc scalarConverter[T]) convert(d *driver, c Classification, height int, opts Options) (*frame.Column, error) {
	buf := newFixedBuffer[T](height)
	buf.appendNulls(c.NullCount)
	if c.First != nil {
		buf.append(sc.decode(c.First))
	}
	for d.remaining() > 0 {
		out, present, err := d.next()
		if err != nil {
			return nil, err
		}
		if !present {
			buf.appendNulls(1)
			continue
		}
		buf.append(sc.decode(out))
	}
	if err := buf.seal(); err != nil {
		return nil, err
	}

	b := sc.newBuilder(opts.Allocator)
	defer b.Release()
	b.AppendValues(buf.values, buf.valid)
	return frame.NewColumn(opts.Name, b.NewArray()), nil
}
