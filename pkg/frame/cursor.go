package frame

// RowCursor yields the rows of a table in order, advancing one iterator per column in
// lock-step. It is forward-only and cannot be restarted.
type RowCursor struct {
	iters     []*ValueIterator
	remaining int
}

// NewRowCursor returns a cursor over rows skip..Height()-1.
func NewRowCursor(t *Table, skip int) *RowCursor {
	if skip > t.Height() {
		skip = t.Height()
	}
	iters := make([]*ValueIterator, t.Width())
	for i, c := range t.columns {
		iters[i] = c.Iter(skip)
	}
	return &RowCursor{iters: iters, remaining: t.Height() - skip}
}

// Remaining returns how many rows are left.
func (c *RowCursor) Remaining() int { return c.remaining }

// Next returns the next row, or nil when the cursor is exhausted.
// Every call allocates a fresh Row, so callers may keep it.
func (c *RowCursor) Next() Row {
	if c.remaining == 0 {
		return nil
	}
	c.remaining--
	row := make(Row, len(c.iters))
	for i, it := range c.iters {
		row[i], _ = it.Next()
	}
	return row
}
