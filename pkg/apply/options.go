package apply

import (
	"runtime"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

const (
	// DefaultName is the name given to a produced column when none is configured.
	DefaultName = "apply"
	// DefaultInferenceSize is how many rows after the first record are sampled to infer a row schema.
	DefaultInferenceSize = 256
)

// Callback is invoked once per input row. A nil result marks the row as absent.
type Callback func(row frame.Row) (interface{}, error)

// Options tune an apply call. The zero value is usable.
type Options struct {
	Name          string
	InferenceSize int
	Workers       int
	Allocator     memory.Allocator
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.InferenceSize == 0 {
		o.InferenceSize = DefaultInferenceSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Allocator == nil {
		o.Allocator = memory.DefaultAllocator
	}
	return o
}

func (o Options) Validate() error {
	if o.InferenceSize < 0 {
		return perrors.NewInvalidConfigurationError("inference size must not be negative")
	}
	return nil
}

// Output is the result of an apply call: a single column, or a table when the callback
// produced row records.
type Output struct {
	Column  *frame.Column
	Table   *frame.Table
	IsTable bool
}

// Len returns the number of rows in the output.
func (o Output) Len() int {
	if o.IsTable {
		return o.Table.Height()
	}
	if o.Column == nil {
		return 0
	}
	return o.Column.Len()
}

// AsTable returns the output as a table, wrapping a column output in a one-column table.
func (o Output) AsTable() (*frame.Table, error) {
	if o.IsTable {
		return o.Table, nil
	}
	return frame.NewTable(o.Column)
}
