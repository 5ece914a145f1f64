package apply

import (
	log "github.com/sirupsen/logrus"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// convertRows builds a table from row records. The width is fixed by the first record and
// the schema is inferred from it plus up to InferenceSize following rows. Results that are
// absent, not row records, or of another width become all-null rows.
func convertRows(d *driver, c Classification, height int, opts Options) (*frame.Table, error) {
	first, ok := decodeRow(c.First)
	if !ok {
		return nil, perrors.NewIndeterminateOutputError()
	}
	width := len(first)
	names := make([]string, width)
	for i := range names {
		names[i] = frame.RowColumnName(i)
	}

	sample := make([]frame.Row, 0, min(opts.InferenceSize, d.remaining())+1)
	sample = append(sample, first)
	for i := 0; i < opts.InferenceSize && d.remaining() > 0; i++ {
		row, err := nextRow(d, width)
		if err != nil {
			return nil, err
		}
		sample = append(sample, row)
	}
	schema := frame.InferRowSchema(sample, names)
	log.Debugf("inferred row schema from %d sampled rows: %s", len(sample), schema)

	rb := frame.NewRecordBuilder(opts.Allocator, schema, height)
	rb.AppendNulls(c.NullCount)
	for _, row := range sample {
		rb.Append(row)
	}
	for d.remaining() > 0 {
		row, err := nextRow(d, width)
		if err != nil {
			return nil, err
		}
		rb.Append(row)
	}
	if rb.Len() != height {
		return nil, perrors.NewInternalError("row output holds %d rows, expected %d", rb.Len(), height)
	}
	return rb.NewTable()
}

// nextRow returns nil for any result that is not a row record of the given width.
func nextRow(d *driver, width int) (frame.Row, error) {
	out, present, err := d.next()
	if err != nil || !present {
		return nil, err
	}
	row, ok := decodeRow(out)
	if !ok || len(row) != width {
		return nil, nil
	}
	return row, nil
}
