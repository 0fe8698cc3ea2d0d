package datatable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
)

// Records flattens the table into a header line followed by one line per row.
// The header uses column labels, falling back to keys for empty labels.
func Records(t *DataTable[string]) [][]string {
	cols := t.Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
		if header[i] == "" {
			header[i] = c.Key
		}
	}

	out := make([][]string, 0, t.RowCount()+1)
	out = append(out, header)
	for _, r := range t.Rows() {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = r[c.Key]
		}
		out = append(out, line)
	}
	return out
}

// WriteText renders the table as aligned columns.
func WriteText(w io.Writer, t *DataTable[string]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range Records(t) {
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteCSV renders the table as CSV.
func WriteCSV(w io.Writer, t *DataTable[string]) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Records(t)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// NewWorkbook renders the table into a single-sheet workbook named after the table.
func NewWorkbook(t *DataTable[string]) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := sheetName(t.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for r, rec := range Records(t) {
		for c, v := range rec {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	return f, nil
}

// WriteXLSX renders the table as an .xlsx workbook.
func WriteXLSX(w io.Writer, t *DataTable[string]) error {
	f, err := NewWorkbook(t)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// sheetName makes name usable as a worksheet name: at most 31 characters,
// none of : \ / ? * [ ].
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "Table"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
