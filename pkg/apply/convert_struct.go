package apply

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// structBuffer collects one value slice per field. Field names and order come from the first mapping.
type structBuffer struct {
	names  []string
	fields [][]interface{}
	valid  []bool
	pos    int
}

func newStructBuffer(names []string, height int) *structBuffer {
	sb := &structBuffer{names: names, fields: make([][]interface{}, len(names)), valid: make([]bool, height)}
	for i := range sb.fields {
		sb.fields[i] = make([]interface{}, height)
	}
	return sb
}

func (sb *structBuffer) appendNulls(n int) {
	sb.pos += n
}

func (sb *structBuffer) append(v interface{}) error {
	m, ok := frame.AsOrderedMap(v)
	if !ok {
		return perrors.NewExpectedStructError(v)
	}
	if len(m) != len(sb.names) {
		return perrors.NewStructFieldCountError(len(sb.names), len(m))
	}
	if sb.pos >= len(sb.valid) {
		sb.pos++
		return nil
	}
	byName := hasKeys(m, sb.names)
	for i, name := range sb.names {
		if byName {
			sb.fields[i][sb.pos], _ = m.Get(name)
		} else {
			sb.fields[i][sb.pos] = m[i].Val
		}
	}
	sb.valid[sb.pos] = true
	sb.pos++
	return nil
}

func hasKeys(m frame.OrderedMap, names []string) bool {
	for _, name := range names {
		if _, ok := m.Get(name); !ok {
			return false
		}
	}
	return true
}

// convertStruct builds a struct column. Absent rows are null in every field.
func convertStruct(d *driver, c Classification, height int, opts Options) (*frame.Column, error) {
	first, ok := frame.AsOrderedMap(c.First)
	if !ok || len(first) == 0 {
		return nil, perrors.NewExpectedStructError(c.First)
	}

	sb := newStructBuffer(first.Keys(), height)
	sb.appendNulls(c.NullCount)
	if err := sb.append(first); err != nil {
		return nil, err
	}
	for d.remaining() > 0 {
		out, present, err := d.next()
		if err != nil {
			return nil, err
		}
		if !present {
			sb.appendNulls(1)
			continue
		}
		if err := sb.append(out); err != nil {
			return nil, err
		}
	}
	if sb.pos != height {
		return nil, perrors.NewInternalError("struct output holds %d rows, expected %d", sb.pos, height)
	}
	return sb.build(opts)
}

// build converts every field buffer to a typed column in parallel and assembles the struct column.
func (sb *structBuffer) build(opts Options) (*frame.Column, error) {
	children := make([]arrow.Array, len(sb.names))
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range sb.names {
		g.Go(func() error {
			values := sb.fields[i]
			children[i] = frame.BuildColumn(opts.Allocator, sb.names[i], frame.SupertypeOf(values), values).Array()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	defer func() {
		for _, child := range children {
			child.Release()
		}
	}()

	bitmap, nulls := validityBitmap(sb.valid)
	arr, err := array.NewStructArrayWithNulls(children, sb.names, bitmap, nulls, 0)
	if err != nil {
		return nil, perrors.NewInternalError("assemble struct column: %v", err)
	}
	return frame.NewColumn(opts.Name, arr), nil
}

func validityBitmap(valid []bool) (*memory.Buffer, int) {
	nulls := 0
	bits := make([]byte, bitutil.BytesForBits(int64(len(valid))))
	for i, ok := range valid {
		if ok {
			bitutil.SetBit(bits, i)
		} else {
			nulls++
		}
	}
	if nulls == 0 {
		return nil, 0
	}
	return memory.NewBufferBytes(bits), nulls
}
