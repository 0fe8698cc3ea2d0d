package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/stan-task/gridcontrol/pkg/config"
	"github.com/stan-task/gridcontrol/pkg/control/grid"
	"github.com/stan-task/gridcontrol/pkg/datatable"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// Output formats of the table command.
const (
	formatText = "text"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

var tableCommand = &cli.Command{
	Name:      "table",
	Usage:     "Extract the rows of a grid",
	ArgsUsage: "<grid>",
	Description: `Extract every data row of a grid into a table. Cell text is cleaned
of markup and surrounding whitespace. Columns are keyed by their 0-based index.

XLSX output is written to $GRIDCTL_HOME/exports/<grid>.xlsx unless --output is given.

Examples:
  gridctl table orders
  gridctl table --rows "tr.x-grid-row" --format csv orders
  gridctl table --format xlsx --output orders.xlsx orders`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "rows",
			Usage: "CSS query selecting the data rows (overrides the grid's rowsQuery)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, csv, xlsx)",
			Value:   formatText,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to this file instead of stdout",
		},
	},
	Action: runTable,
}

var cellCommand = &cli.Command{
	Name:      "cell",
	Usage:     "Print the text of a cell",
	ArgsUsage: "<grid> <row> <column>",
	Description: `Print the text of the cell at 1-based row and column ordinals.

Examples:
  gridctl cell orders 1 2
  gridctl cell --container group-closed orders 1 1`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "container",
			Usage: "Only look inside the row whose id contains this text",
		},
	},
	Action: runCell,
}

var countCommand = &cli.Command{
	Name:      "count",
	Usage:     "Count the rows matching a cell text",
	ArgsUsage: "<grid> [text]",
	Description: `Count the rows having a cell whose text equals <text>.

--by selects how the text is matched:
  cell        inner cell text (default)
  element     text of a plain div in a cell
  cell-link   link directly inside an inner cell
  link        link anywhere in a cell
  rows        all data rows (no text)

Examples:
  gridctl count orders Acme
  gridctl count --by cell-link orders INV-1001
  gridctl count --by rows fruit`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "by",
			Usage: "Match mode (cell, element, cell-link, link, rows)",
			Value: "cell",
		},
	},
	Action: runCount,
}

var selectCommand = &cli.Command{
	Name:      "select",
	Usage:     "Click the row having a cell text in a column",
	ArgsUsage: "<grid> <column> <text>",
	Action:    runSelect,
}

var scrollCommand = &cli.Command{
	Name:      "scroll",
	Usage:     "Scroll a grid horizontally and print the resulting offset",
	ArgsUsage: "<grid> <left|right|pixels|cell ROW COLUMN>",
	Description: `Scroll the grid's view panel.

  left          scroll to the maximum offset
  right         reset to offset 0
  <pixels>      set the offset, ignored when the grid cannot scroll
  cell R C      bring the cell at row R, column C into view

Examples:
  gridctl scroll orders left
  gridctl scroll orders 120
  gridctl scroll orders cell 1 3`,
	Action: runScroll,
}

var checkCommand = &cli.Command{
	Name:  "check",
	Usage: "Check a grid condition and print true or false",
	Subcommands: []*cli.Command{
		{
			Name:      "has-row",
			Usage:     "Is there a row whose cell in <column> has exactly <text>",
			ArgsUsage: "<grid> <column> <text>",
			Action:    runCheckHasRow,
		},
		{
			Name:      "icon",
			Usage:     "Does the row containing <row-text> have a labelled cell with <value>",
			ArgsUsage: "<grid> <row-text> <value>",
			Action:    runCheckIcon,
		},
		{
			Name:      "dirty",
			Usage:     "Is any cell flagged as incorrectly filled",
			ArgsUsage: "<grid>",
			Action:    runCheckDirty,
		},
		{
			Name:      "scroll",
			Usage:     "Does the grid scroll horizontally",
			ArgsUsage: "<grid>",
			Action:    runCheckScroll,
		},
	},
}

var locatorsCommand = &cli.Command{
	Name:      "locators",
	Usage:     "Print the locators used for a grid, without opening a page",
	ArgsUsage: "[grid]",
	Description: `Without a grid, list the configured grids and their roots.
With a grid, print its roots and every grid locator built from the flags.

Examples:
  gridctl locators
  gridctl locators --column 2 --text "O'Brien" orders`,
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "row", Usage: "1-based row ordinal", Value: 1},
		&cli.IntFlag{Name: "column", Usage: "1-based column ordinal", Value: 1},
		&cli.StringFlag{Name: "text", Usage: "Exact cell text", Value: "text"},
		&cli.StringFlag{Name: "container", Usage: "Container id fragment", Value: "container"},
		&cli.StringFlag{Name: "value", Usage: "Icon label value", Value: "value"},
	},
	Action: runLocators,
}

func runTable(c *cli.Context) error {
	name := c.Args().First()
	format := strings.ToLower(c.String("format"))
	switch format {
	case formatText, formatCSV, formatXLSX:
	default:
		return fmt.Errorf("unsupported format %q (text, csv, xlsx)", format)
	}

	return withGrid(c, name, func(g *grid.LocalTable) error {
		var (
			table *datatable.DataTable[string]
			err   error
		)
		if rows := c.String("rows"); rows != "" {
			table, err = g.SimpleGrid.Table(rows)
		} else {
			table, err = g.Table()
		}
		if err != nil {
			return err
		}
		logger.Info("grid %s: extracted %d rows, %d columns", name, table.RowCount(), table.ColumnCount())

		output := c.String("output")
		if output == "" && format == formatXLSX {
			output = filepath.Join(config.GetExportsDir(), exportName(name)+".xlsx")
		}
		if output == "" {
			return writeTable(c.App.Writer, format, table)
		}

		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		f, err := os.Create(output) //#nosec G304 -- user-provided output path
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		if err := writeTable(f, format, table); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Wrote %s\n", output)
		return nil
	})
}

func writeTable(w io.Writer, format string, table *datatable.DataTable[string]) error {
	switch format {
	case formatCSV:
		return datatable.WriteCSV(w, table)
	case formatXLSX:
		return datatable.WriteXLSX(w, table)
	default:
		return datatable.WriteText(w, table)
	}
}

// exportName turns a grid argument into a file name.
func exportName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

func runCell(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("expected <grid> <row> <column>, got %d arguments", c.NArg())
	}
	row, err := ordinalArg(c, 1, "row")
	if err != nil {
		return err
	}
	column, err := ordinalArg(c, 2, "column")
	if err != nil {
		return err
	}

	return withGrid(c, c.Args().First(), func(g *grid.LocalTable) error {
		var text string
		if container := c.String("container"); container != "" {
			text, err = g.CellTextInContainer(container, row, column)
		} else {
			text, err = g.CellText(row, column)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, text)
		return nil
	})
}

func runCount(c *cli.Context) error {
	by := c.String("by")
	text := c.Args().Get(1)
	if by != "rows" && c.NArg() != 2 {
		return fmt.Errorf("expected <grid> <text>, got %d arguments", c.NArg())
	}

	return withGrid(c, c.Args().First(), func(g *grid.LocalTable) error {
		var (
			n   int
			err error
		)
		switch by {
		case "cell":
			n, err = g.RowCountWithCellEqualsText(text)
		case "element":
			n, err = g.RowCountWithCellElementEqualsText(text)
		case "cell-link":
			n, err = g.RowCountWithCellWithLinkEqualsText(text)
		case "link":
			n, err = g.RowCountWithCellEqualsLinkText(text)
		case "rows":
			n, err = grid.CountRows(g)
		default:
			return fmt.Errorf("unsupported --by %q (cell, element, cell-link, link, rows)", by)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, n)
		return nil
	})
}

func runSelect(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("expected <grid> <column> <text>, got %d arguments", c.NArg())
	}
	column, err := ordinalArg(c, 1, "column")
	if err != nil {
		return err
	}
	text := c.Args().Get(2)

	return withGrid(c, c.Args().First(), func(g *grid.LocalTable) error {
		if err := g.SelectRowWithTextInColumn(column, text); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Selected row with %q in column %d\n", text, column)
		return nil
	})
}

func runScroll(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("expected <grid> <left|right|pixels|cell ROW COLUMN>")
	}
	target := c.Args().Get(1)

	return withGrid(c, c.Args().First(), func(g *grid.LocalTable) error {
		switch target {
		case "left":
			if err := g.ScrollToLeft(); err != nil {
				return err
			}
		case "right":
			g.ScrollToRight()
		case "cell":
			if c.NArg() != 4 {
				return fmt.Errorf("expected cell <row> <column>")
			}
			row, err := ordinalArg(c, 2, "row")
			if err != nil {
				return err
			}
			column, err := ordinalArg(c, 3, "column")
			if err != nil {
				return err
			}
			cell, err := g.RequireChild(locator.CellByRowAndColumn(row, column))
			if err != nil {
				return err
			}
			if err := g.ScrollTo(cell); err != nil {
				return err
			}
		default:
			px, err := strconv.Atoi(target)
			if err != nil {
				return fmt.Errorf("invalid scroll target %q", target)
			}
			g.ScrollLeftIfScrollable(px)
		}

		offset, err := g.ScrollOffset()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, offset)
		return nil
	})
}

func runCheckHasRow(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("expected <grid> <column> <text>, got %d arguments", c.NArg())
	}
	column, err := ordinalArg(c, 1, "column")
	if err != nil {
		return err
	}
	return printCheck(c, func(g *grid.LocalTable) (bool, error) {
		return g.HasRowWithTextInColumn(column, c.Args().Get(2))
	})
}

func runCheckIcon(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("expected <grid> <row-text> <value>, got %d arguments", c.NArg())
	}
	return printCheck(c, func(g *grid.LocalTable) (bool, error) {
		return g.HasRowWithIconContainingColumnValue(c.Args().Get(1), c.Args().Get(2))
	})
}

func runCheckDirty(c *cli.Context) error {
	return printCheck(c, func(g *grid.LocalTable) (bool, error) {
		return g.IsIncorrectlyFilledCellPresent()
	})
}

func runCheckScroll(c *cli.Context) error {
	return printCheck(c, func(g *grid.LocalTable) (bool, error) {
		return g.HasScroll(), nil
	})
}

func printCheck(c *cli.Context, check func(*grid.LocalTable) (bool, error)) error {
	return withGrid(c, c.Args().First(), func(g *grid.LocalTable) error {
		ok, err := check(g)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, ok)
		return nil
	})
}

func runLocators(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	w := c.App.Writer

	if c.NArg() == 0 {
		for _, name := range cfg.GridNames() {
			roots, err := cfg.Grids[name].Roots()
			if err != nil {
				return fmt.Errorf("grid %s: %w", name, err)
			}
			fmt.Fprintf(w, "%s\t%s\n", name, joinLocators(roots))
		}
		return nil
	}

	name := c.Args().First()
	gc, err := lookupGrid(cfg, name)
	if err != nil {
		return err
	}
	roots, err := gc.Roots()
	if err != nil {
		return err
	}
	rowsQuery := gc.RowsQuery
	if rowsQuery == "" {
		rowsQuery = locator.DefaultRowsQuery
	}

	row, column := c.Int("row"), c.Int("column")
	text, value := c.String("text"), c.String("value")
	entries := []struct {
		op  string
		loc locator.Locator
	}{
		{"has-row / select", locator.CellByColumnWithExactText(column, text)},
		{"count cell", locator.RowWithCellExactText(text)},
		{"count element", locator.RowWithCellElementExactText(text)},
		{"count cell-link", locator.RowWithCellLinkExactText(text)},
		{"count link", locator.RowWithLinkExactText(text)},
		{"cell", locator.CellByRowAndColumn(row, column)},
		{"cell --container", locator.CellByContainerRowAndColumn(c.String("container"), row, column)},
		{"icon", locator.RowWithIconValue(text, value)},
		{"dirty", locator.DirtyCell()},
		{"scroll panel", locator.ScrollablePanel()},
		{"table rows", locator.Rows(rowsQuery)},
		{"table cells", locator.RowCells()},
	}

	fmt.Fprintf(w, "root\t%s\n", joinLocators(roots))
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.op, e.loc.Describe())
	}
	return nil
}

func joinLocators(locs []locator.Locator) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}

// ordinalArg parses the i-th argument as an integer ordinal. Range checks are
// left to the grid, which reports ordinals below 1 as invalid.
func ordinalArg(c *cli.Context, i int, what string) (int, error) {
	s := c.Args().Get(i)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", what, s)
	}
	return n, nil
}
