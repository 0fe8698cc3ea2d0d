package locator

import "fmt"

// Markup of ExtJS-style grids.
const (
	CellInnerClass   = "x-grid-cell-inner"
	DirtyCellClass   = "x-grid-dirty-cell"
	GridViewPanelCSS = "div.x-grid-view"
	TableCSS         = GridViewPanelCSS + " table.x-grid-table"
	ColumnHeaderCSS  = ".x-column-header-text"

	// DefaultRowsQuery selects the data rows of a local table, skipping the sum row.
	DefaultRowsQuery = "div#feMain2 .local_table tr:not(.sum)"
)

// childPrefix scopes every grid XPath to the descendants of the control root.
const childPrefix = "."

var cellInner = fmt.Sprintf("contains(@class, '%s')", CellInnerClass)

// CellByColumnWithExactText matches the inner cell at a 1-based column whose text equals text.
func CellByColumnWithExactText(column int, text string) Locator {
	return Locator{
		Strategy: XPath,
		Query:    fmt.Sprintf("%s//tr/td[%d]/div[%s and text()=%s]", childPrefix, column, cellInner, Literal(text)),
		Shape:    ShapeCellByColumnWithExactText,
		Match:    MatchExact,
	}
}

// CellByRowAndColumn matches the inner cell at 1-based row and column ordinals.
func CellByRowAndColumn(row, column int) Locator {
	return Locator{
		Strategy: XPath,
		Query:    fmt.Sprintf("%s//tr[%d]/td[%d]/div[%s]", childPrefix, row, column, cellInner),
		Shape:    ShapeCellByRowAndColumn,
		Match:    MatchNone,
	}
}

// CellByContainerRowAndColumn matches the inner cell at 1-based row and column ordinals
// inside the container row whose id contains container (grouped grids).
func CellByContainerRowAndColumn(container string, row, column int) Locator {
	return Locator{
		Strategy: XPath,
		Query: fmt.Sprintf("%s//tr[contains(@id, %s)]//tr[%d]/td[%d]/div[%s]",
			childPrefix, Literal(container), row, column, cellInner),
		Shape: ShapeCellByContainerRowAndColumn,
		Match: MatchPartial,
	}
}

// RowWithCellExactText matches rows having an inner cell whose text equals text.
func RowWithCellExactText(text string) Locator {
	return Locator{
		Strategy: XPath,
		Query:    fmt.Sprintf("%s//tr[td/div[%s and text()=%s]]", childPrefix, cellInner, Literal(text)),
		Shape:    ShapeRowWithCellExactText,
		Match:    MatchExact,
	}
}

// RowWithCellElementExactText matches rows having any cell div whose text equals text,
// whether or not it carries the inner-cell marker.
func RowWithCellElementExactText(text string) Locator {
	return Locator{
		Strategy: XPath,
		Query:    fmt.Sprintf("%s//tr[td/div[text()=%s]]", childPrefix, Literal(text)),
		Shape:    ShapeRowWithCellElementExactText,
		Match:    MatchExact,
	}
}

// RowWithCellLinkExactText matches rows having an inner cell that wraps a link whose text equals text.
func RowWithCellLinkExactText(text string) Locator {
	return Locator{
		Strategy: XPath,
		Query:    fmt.Sprintf("%s//tr[td/div[%s]/a[text()=%s]]", childPrefix, cellInner, Literal(text)),
		Shape:    ShapeRowWithCellLinkExactText,
		Match:    MatchExact,
	}
}

// RowWithLinkExactText matches rows having a link anywhere under a cell whose text equals text.
func RowWithLinkExactText(text string) Locator {
	return Locator{
		Strategy: XPath,
		Query:    fmt.Sprintf("%s//tr[td//a[text()=%s]]", childPrefix, Literal(text)),
		Shape:    ShapeRowWithLinkExactText,
		Match:    MatchExact,
	}
}

// RowWithIconValue matches the icon label equal to value in the row identified
// by a cell containing rowText.
func RowWithIconValue(rowText, value string) Locator {
	return Locator{
		Strategy: XPath,
		Query: fmt.Sprintf("%s//tr/td/div[contains(text(), %s)]/../../td/div[%s]//label[text()=%s]",
			childPrefix, Literal(rowText), cellInner, Literal(value)),
		Shape: ShapeRowWithIconValue,
		Match: MatchStructural,
	}
}

// DirtyCell matches cells flagged as holding an invalid or unsaved edit.
func DirtyCell() Locator {
	return Locator{Strategy: CSS, Query: "." + DirtyCellClass, Shape: ShapeDirtyCell, Match: MatchStructural}
}

// ScrollablePanel matches the grid view panel carrying horizontal overflow.
func ScrollablePanel() Locator {
	return Locator{Strategy: CSS, Query: GridViewPanelCSS, Shape: ShapeScrollablePanel, Match: MatchStructural}
}

// RowCells matches the direct cells of a row.
func RowCells() Locator {
	return Locator{Strategy: XPath, Query: "./td", Shape: ShapeRowCells, Match: MatchNone}
}

// Rows matches rows with a caller-supplied CSS query.
func Rows(css string) Locator {
	return Locator{Strategy: CSS, Query: css, Shape: ShapeRows, Match: MatchNone}
}

// ColumnHeaders matches the column header labels of the grid.
func ColumnHeaders() Locator {
	return Locator{Strategy: CSS, Query: ColumnHeaderCSS, Shape: ShapeColumnHeaders, Match: MatchStructural}
}
