package grid

import (
	"github.com/stan-task/gridcontrol/pkg/control"
	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/datatable"
	"github.com/stan-task/gridcontrol/pkg/locator"
)

// LocalTable is a grid whose data rows are selected by a fixed CSS query.
// Unlike SimpleGrid it can count its rows.
type LocalTable struct {
	*SimpleGrid
	rowsQuery string
}

var _ RowCounter = (*LocalTable)(nil)

// NewLocalTable creates a local table rooted at roots. An empty rowsQuery means
// locator.DefaultRowsQuery.
func NewLocalTable(page core.Page, name, rowsQuery string, roots ...locator.Locator) *LocalTable {
	return LocalTableFromControl(control.New(page, name, roots...), rowsQuery)
}

// LocalTableFromControl creates a local table on top of an existing control.
func LocalTableFromControl(c *control.Control, rowsQuery string) *LocalTable {
	if rowsQuery == "" {
		rowsQuery = locator.DefaultRowsQuery
	}
	return &LocalTable{
		SimpleGrid: FromControl(c),
		rowsQuery:  rowsQuery,
	}
}

// RowsQuery returns the CSS query selecting the data rows.
func (t *LocalTable) RowsQuery() string {
	return t.rowsQuery
}

// Rows returns the data row elements.
func (t *LocalTable) Rows() ([]core.Element, error) {
	return t.FindChildren(locator.Rows(t.rowsQuery))
}

// RowCount returns the number of data rows.
func (t *LocalTable) RowCount() (int, error) {
	rows, err := t.Rows()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Table extracts the data rows into a table.
func (t *LocalTable) Table() (*datatable.DataTable[string], error) {
	return t.SimpleGrid.Table(t.rowsQuery)
}
