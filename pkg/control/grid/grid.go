// Package grid models ExtJS-style data grids as page-object controls.
//
// SimpleGrid has no header, checkbox or paging behavior, just rows and cells,
// and is the base other grids build on. Its operations follow three error policies:
//
//   - Existence checks (Has*, RowCountWith*, IsIncorrectlyFilledCellPresent) report
//     absence as false or 0, never as an error.
//   - Required results (CellText, SelectRowWithTextInColumn) fail when the element
//     is missing; CellText wraps every failure in core.ErrCellText with the ordinals.
//   - Best-effort conveniences (HasScroll, ScrollLeftIfScrollable, ScrollToIfScrollable)
//     absorb every failure and become no-ops.
package grid

import (
	"strconv"

	"github.com/stan-task/gridcontrol/pkg/control"
	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/datatable"
	"github.com/stan-task/gridcontrol/pkg/htmltext"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
	"github.com/stan-task/gridcontrol/pkg/scroll"
)

// TableName is the name given to tables extracted by Table.
const TableName = "Table Data"

// RowCounter is implemented by grid variants that know how to count their rows.
type RowCounter interface {
	RowCount() (int, error)
}

// SimpleGrid is a grid control.
type SimpleGrid struct {
	*control.Control
	scroll *scroll.Helper
}

// New creates a grid rooted at the first element matched by roots.
func New(page core.Page, name string, roots ...locator.Locator) *SimpleGrid {
	return FromControl(control.New(page, name, roots...))
}

// FromElement creates a grid rooted at an already resolved element.
func FromElement(page core.Page, el core.Element, name string) *SimpleGrid {
	return FromControl(control.FromElement(page, el, name))
}

// FromControl creates a grid on top of an existing control.
func FromControl(c *control.Control) *SimpleGrid {
	return &SimpleGrid{
		Control: c,
		scroll:  scroll.New(c.Page()),
	}
}

// HasRowWithTextInColumn returns true if the grid has a row whose cell at the
// 1-based column ordinal has exactly the given text.
func (g *SimpleGrid) HasRowWithTextInColumn(column int, exactCellText string) (bool, error) {
	if err := g.checkOrdinals(ordinal{"column", column}); err != nil {
		return false, err
	}
	return g.exists(locator.CellByColumnWithExactText(column, exactCellText))
}

// SelectRowWithTextInColumn clicks the cell at the 1-based column ordinal whose
// text is exactly exactText. Returns ErrElementNotFound if there is no such cell.
func (g *SimpleGrid) SelectRowWithTextInColumn(column int, exactText string) error {
	if err := g.checkOrdinals(ordinal{"column", column}); err != nil {
		return err
	}

	cell, err := g.RequireChild(locator.CellByColumnWithExactText(column, exactText))
	if err != nil {
		return err
	}
	return cell.Click()
}

// RowCountWithCellEqualsText counts rows having an inner cell with exactly text.
func (g *SimpleGrid) RowCountWithCellEqualsText(text string) (int, error) {
	return g.CountChildren(locator.RowWithCellExactText(text))
}

// RowCountWithCellElementEqualsText counts rows having any cell div with exactly
// text, with or without the inner-cell marker.
func (g *SimpleGrid) RowCountWithCellElementEqualsText(text string) (int, error) {
	return g.CountChildren(locator.RowWithCellElementExactText(text))
}

// RowCountWithCellWithLinkEqualsText counts rows having an inner cell wrapping a
// link with exactly text.
func (g *SimpleGrid) RowCountWithCellWithLinkEqualsText(text string) (int, error) {
	return g.CountChildren(locator.RowWithCellLinkExactText(text))
}

// RowCountWithCellEqualsLinkText counts rows having a link anywhere in a cell with
// exactly text.
func (g *SimpleGrid) RowCountWithCellEqualsLinkText(exactLinkCellText string) (int, error) {
	return g.CountChildren(locator.RowWithLinkExactText(exactLinkCellText))
}

// IsIncorrectlyFilledCellPresent returns true if any cell is flagged dirty.
func (g *SimpleGrid) IsIncorrectlyFilledCellPresent() (bool, error) {
	return g.exists(locator.DirtyCell())
}

// HasRowWithIconContainingColumnValue returns true if the row identified by a
// cell containing textRowIdentifier has an icon cell labeled value.
func (g *SimpleGrid) HasRowWithIconContainingColumnValue(textRowIdentifier, value string) (bool, error) {
	return g.exists(locator.RowWithIconValue(textRowIdentifier, value))
}

// CellText returns the text of the cell at 1-based row and column ordinals.
// Every failure is reported as ErrCellText carrying the ordinals, with the
// original failure as its cause.
func (g *SimpleGrid) CellText(row, column int) (string, error) {
	details := map[string]interface{}{"row": row, "column": column}
	return g.cellText(locator.CellByRowAndColumn(row, column), details, row, column)
}

// CellTextInContainer returns the text of the cell at 1-based row and column
// ordinals inside the container row whose id contains container.
func (g *SimpleGrid) CellTextInContainer(container string, row, column int) (string, error) {
	details := map[string]interface{}{"container": container, "row": row, "column": column}
	return g.cellText(locator.CellByContainerRowAndColumn(container, row, column), details, row, column)
}

func (g *SimpleGrid) cellText(loc locator.Locator, details map[string]interface{}, row, column int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = g.Err(core.ErrCellText).WithDetails(details).
				WithCause(core.NewControlError(core.ErrCategoryDriver, "driver_panic", "driver panicked").
					WithDetails(map[string]interface{}{"panic": r}))
		}
	}()

	if err := g.checkOrdinals(ordinal{"row", row}, ordinal{"column", column}); err != nil {
		return "", g.Err(core.ErrCellText).WithDetails(details).WithCause(err)
	}

	cell, err := g.RequireChild(loc)
	if err != nil {
		return "", g.Err(core.ErrCellText).WithDetails(details).WithCause(err)
	}

	text, err = cell.Text()
	if err != nil {
		return "", g.Err(core.ErrCellText).WithDetails(details).WithCause(err)
	}
	return text, nil
}

// ScrollablePanel resolves the sub-element that carries the grid's horizontal scroll.
func (g *SimpleGrid) ScrollablePanel() (core.Element, error) {
	return g.RequireChild(locator.ScrollablePanel())
}

// HasScroll returns true if the grid's scrollable panel overflows horizontally.
// It never fails: any lookup or script failure is reported as false.
func (g *SimpleGrid) HasScroll() bool {
	res := core.BestEffort("has scroll", false, func() (bool, error) {
		panel, err := g.ScrollablePanel()
		if err != nil {
			return false, err
		}
		return g.scroll.HasHorizontalOverflow(panel)
	})
	if !res.OK() {
		g.absorbed(res.Action, res.Absorbed)
	}
	return res.Value
}

// ScrollOffset returns the current horizontal scroll offset of the panel.
func (g *SimpleGrid) ScrollOffset() (int, error) {
	panel, err := g.ScrollablePanel()
	if err != nil {
		return 0, err
	}
	return g.scroll.ScrollLeft(panel)
}

// ScrollTo scrolls the grid so that target is in view.
// Returns ErrNotScrollable, without scrolling, if the grid has no scroll.
func (g *SimpleGrid) ScrollTo(target core.Element) error {
	if !g.HasScroll() {
		return g.Err(core.ErrNotScrollable)
	}

	panel, err := g.ScrollablePanel()
	if err != nil {
		return err
	}
	return g.scroll.ScrollIntoView(target, panel)
}

// ScrollLeftIfScrollable sets the panel's scroll offset to pixels, measured from
// the beginning of the content. Failures are ignored.
func (g *SimpleGrid) ScrollLeftIfScrollable(pixels int) {
	res := core.BestEffortDo("scroll left", func() error {
		panel, err := g.ScrollablePanel()
		if err != nil {
			return err
		}
		return g.scroll.SetScrollLeft(panel, pixels)
	})
	if !res.OK() {
		g.absorbed(res.Action, res.Absorbed)
	}
}

// ScrollToIfScrollable scrolls target into view when possible. Failures are ignored.
func (g *SimpleGrid) ScrollToIfScrollable(target core.Element) {
	res := core.BestEffortDo("scroll to element", func() error {
		panel, err := g.ScrollablePanel()
		if err != nil {
			return err
		}
		return g.scroll.ScrollIntoView(target, panel)
	})
	if !res.OK() {
		g.absorbed(res.Action, res.Absorbed)
	}
}

// ScrollToLeft scrolls the content to its maximum offset. Failing to resolve the
// panel or read the offset is returned; applying it is best-effort.
func (g *SimpleGrid) ScrollToLeft() error {
	panel, err := g.ScrollablePanel()
	if err != nil {
		return err
	}

	maxOffset, err := g.scroll.MaxScrollLeft(panel)
	if err != nil {
		return err
	}
	g.ScrollLeftIfScrollable(maxOffset)
	return nil
}

// ScrollToRight resets the content to its un-scrolled position (offset 0).
func (g *SimpleGrid) ScrollToRight() {
	g.ScrollLeftIfScrollable(0)
}

// RowCount is not supported by SimpleGrid; variants implementing RowCounter
// (such as LocalTable) provide real counting.
func (g *SimpleGrid) RowCount() (int, error) {
	return 0, g.Err(core.ErrNotSupported).WithMessage("row count is not supported by SimpleGrid")
}

// ColumnHeaders is not supported by SimpleGrid.
func (g *SimpleGrid) ColumnHeaders() ([]string, error) {
	return nil, g.Err(core.ErrNotSupported).WithMessage("column headers are not supported by SimpleGrid")
}

// Table extracts every row matched by rowsQueryCSS (scoped to the grid) into a
// table keyed by 0-based column index. Columns are registered in first-seen
// order, so the widest row sets the column count. No rows yields an empty table.
func (g *SimpleGrid) Table(rowsQueryCSS string) (*datatable.DataTable[string], error) {
	rows, err := g.FindChildren(locator.Rows(rowsQueryCSS))
	if err != nil {
		return nil, err
	}
	return extractTable(rows)
}

func extractTable(rows []core.Element) (*datatable.DataTable[string], error) {
	table := datatable.New[string](TableName)

	for _, rowElement := range rows {
		cells, err := rowElement.FindElements(locator.RowCells())
		if err != nil {
			return nil, err
		}

		newRow := make(map[string]string, len(cells))
		for colIndex, cell := range cells {
			key := strconv.Itoa(colIndex)
			table.AddColumn(key, "")

			text, err := cell.Text()
			if err != nil {
				return nil, err
			}
			newRow[key] = htmltext.Clean(text)
		}
		table.AddRow(newRow)
	}

	return table, nil
}

// CountRows returns the row count of any grid variant.
func CountRows(c RowCounter) (int, error) {
	return c.RowCount()
}

func (g *SimpleGrid) exists(loc locator.Locator) (bool, error) {
	el, err := g.FindChild(loc)
	if err != nil {
		return false, err
	}
	return el != nil, nil
}

// ordinal is a named 1-based position argument.
type ordinal struct {
	name  string
	value int
}

// checkOrdinals reports the first ordinal below 1, in argument order.
func (g *SimpleGrid) checkOrdinals(ordinals ...ordinal) error {
	for _, o := range ordinals {
		if o.value < 1 {
			return g.Err(core.ErrInvalidOrdinal).WithDetails(map[string]interface{}{o.name: o.value})
		}
	}
	return nil
}

func (g *SimpleGrid) absorbed(action string, err error) {
	logger.With(map[string]interface{}{"control": g.Name()}).Debugf("%s: ignored: %v", action, err)
}
