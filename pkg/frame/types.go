package frame

// Row is one tuple of cell values, one per table column, in column order.
// Cells are nil, bool, int64, float64, string, *Column (list cells) or OrderedMap (struct cells).
type Row []interface{}

// SeriesProvider is implemented by values that wrap a whole column.
// Returning one from an apply callback produces a nested (list) column.
type SeriesProvider interface {
	// Series returns the underlying column.
	Series() *Column
}

// ValueIterator walks the values of a column forward from an offset.
type ValueIterator struct {
	col *Column
	pos int
}

// Next returns the next value. ok is false once the column is exhausted.
func (it *ValueIterator) Next() (v interface{}, ok bool) {
	if it.pos >= it.col.Len() {
		return nil, false
	}
	v = it.col.Value(it.pos)
	it.pos++
	return v, true
}

// Remaining returns how many values are left.
func (it *ValueIterator) Remaining() int {
	return it.col.Len() - it.pos
}
