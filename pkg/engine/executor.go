package engine

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bisegni/jframe/pkg/apply"
	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
	"github.com/bisegni/jframe/pkg/query"
)

const (
	FormatJSONL = "jsonl"
	FormatTable = "table"
)

// Executor applies an expression to an input table and writes the result
type Executor struct {
	Format        string
	Pretty        bool
	Name          string
	InferenceSize int
}

func NewExecutor() *Executor {
	return &Executor{
		Format: FormatJSONL,
		Name:   apply.DefaultName,
	}
}

// Validate checks the executor settings before any input is read
func (e *Executor) Validate() error {
	switch e.Format {
	case "", FormatJSONL, FormatTable:
	default:
		return perrors.NewInvalidConfigurationError("format must be either jsonl or table")
	}
	if e.InferenceSize < 0 {
		return perrors.NewInvalidConfigurationError("infer-size must not be negative")
	}
	return nil
}

// Apply compiles expr against the input's columns and applies it to every row
func (e *Executor) Apply(expr string, input *frame.Table) (apply.Output, error) {
	program, err := query.Compile(expr, input.Names())
	if err != nil {
		return apply.Output{}, err
	}
	log.Debugf("applying %s to %d rows", program, input.Height())
	return apply.ApplyUnknown(input, program.Call, apply.Options{
		Name:          e.Name,
		InferenceSize: e.InferenceSize,
	})
}

// Execute runs Apply and writes the output to w
func (e *Executor) Execute(expr string, input *frame.Table, w io.Writer) (apply.Output, error) {
	if err := e.Validate(); err != nil {
		return apply.Output{}, err
	}
	out, err := e.Apply(expr, input)
	if err != nil {
		return apply.Output{}, err
	}
	if err := e.Write(out, w); err != nil {
		return apply.Output{}, err
	}
	return out, nil
}

// Write renders an apply output in the configured format
func (e *Executor) Write(out apply.Output, w io.Writer) error {
	result, err := out.AsTable()
	if err != nil {
		return err
	}
	if e.Format == FormatTable {
		_, err := io.WriteString(w, FormatTableRows(result))
		return errors.Wrap(err, "write table")
	}
	return WriteRecords(result, w, e.Pretty)
}

// WriteRecords streams the table as JSONL, one object per row with keys in column order
func WriteRecords(t *frame.Table, w io.Writer, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	names := t.Names()
	cursor := frame.NewRowCursor(t, 0)
	for cursor.Remaining() > 0 {
		row := cursor.Next()
		record := make(frame.OrderedMap, len(names))
		for i, name := range names {
			record[i] = frame.KeyVal{Key: name, Val: row[i]}
		}
		if err := encoder.Encode(record); err != nil {
			return errors.Wrap(err, "encode row")
		}
	}
	return nil
}
