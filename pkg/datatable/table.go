// Package datatable holds tabular data extracted from controls.
package datatable

// Column identifies a table column by key with a display label.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DataTable is an ordered set of columns and rows keyed by column key.
// Rows may omit keys; a missing key means the row had no such cell.
type DataTable[T any] struct {
	Name string

	columns []Column
	index   map[string]int
	rows    []map[string]T
}

// New creates an empty table.
func New[T any](name string) *DataTable[T] {
	return &DataTable[T]{
		Name:  name,
		index: make(map[string]int),
	}
}

// AddColumn registers a column. Registering a key that already exists is a
// no-op and returns false; columns keep first-seen order.
func (t *DataTable[T]) AddColumn(key, label string) bool {
	if _, ok := t.index[key]; ok {
		return false
	}
	t.index[key] = len(t.columns)
	t.columns = append(t.columns, Column{Key: key, Label: label})
	return true
}

// HasColumn returns true if key is a registered column.
func (t *DataTable[T]) HasColumn(key string) bool {
	_, ok := t.index[key]
	return ok
}

// AddRow appends a row.
func (t *DataTable[T]) AddRow(row map[string]T) {
	t.rows = append(t.rows, row)
}

// Columns returns a copy of the column list.
func (t *DataTable[T]) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnKeys returns the column keys in order.
func (t *DataTable[T]) ColumnKeys() []string {
	keys := make([]string, len(t.columns))
	for i, c := range t.columns {
		keys[i] = c.Key
	}
	return keys
}

// Rows returns the rows in insertion order.
func (t *DataTable[T]) Rows() []map[string]T {
	return t.rows
}

// Row returns the row at 0-based index i.
func (t *DataTable[T]) Row(i int) (map[string]T, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// RowCount returns the number of rows.
func (t *DataTable[T]) RowCount() int {
	return len(t.rows)
}

// ColumnCount returns the number of columns.
func (t *DataTable[T]) ColumnCount() int {
	return len(t.columns)
}

// Cell returns the value at 0-based row index and column key.
func (t *DataTable[T]) Cell(row int, key string) (T, bool) {
	var zero T
	r, ok := t.Row(row)
	if !ok {
		return zero, false
	}
	v, ok := r[key]
	return v, ok
}

// Column returns the values of one column, top to bottom.
// Rows without the key contribute the zero value.
func (t *DataTable[T]) Column(key string) []T {
	out := make([]T, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[key]
	}
	return out
}

// IsEmpty returns true if the table has no rows.
func (t *DataTable[T]) IsEmpty() bool {
	return len(t.rows) == 0
}
