package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/stan-task/gridcontrol/pkg/config"
	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
)

var testConfig = filepath.Join("testdata", "gridctl.yaml")

// isolateHome points the gridctl home at a fresh directory.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("GRIDCTL_HOME", home)
	config.ResetHome()
	t.Cleanup(config.ResetHome)
	return home
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &logs
	err := app.Run(append([]string{"gridctl"}, args...))
	return out.String(), err
}

func TestTable_Text(t *testing.T) {
	isolateHome(t)

	out, err := runApp(t, "--config", testConfig, "table", "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "0     1       2\n" +
		"1001  Acme    INV-1001\n" +
		"1002  Globex  Pending\n"
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestTable_CSVWithRowsOverride(t *testing.T) {
	isolateHome(t)

	out, err := runApp(t, "--config", testConfig, "table", "--rows", "tr.x-grid-row:first-child", "--format", "csv", "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "0,1,2\n1001,Acme,INV-1001\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestTable_LocalTableDefaultRows(t *testing.T) {
	isolateHome(t)

	out, err := runApp(t, "--config", testConfig, "table", "--format", "csv", "fruit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "0,1\nApple,1 kg\nPear,\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestTable_XLSXDefaultsToExportsDir(t *testing.T) {
	home := isolateHome(t)

	out, err := runApp(t, "--config", testConfig, "table", "--format", "xlsx", "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(home, "exports", "orders.xlsx")
	if !strings.Contains(out, path) {
		t.Errorf("output = %q, should name %s", out, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if v, _ := f.GetCellValue(sheet, "B2"); v != "Acme" {
		t.Errorf("B2 = %q, want Acme", v)
	}
}

func TestTable_OutputFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "out", "orders.csv")

	if _, err := runApp(t, "--config", testConfig, "table", "-f", "csv", "-o", path, "orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "0,1,2\n") {
		t.Errorf("file = %q", data)
	}
}

func TestTable_UnsupportedFormat(t *testing.T) {
	isolateHome(t)

	_, err := runApp(t, "--config", testConfig, "table", "--format", "json", "orders")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("err = %v, want unsupported format", err)
	}
}

func TestCell(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		row, column string
		want        string
	}{
		{"1", "2", "Acme\n"},
		{"2", "2", "Globex\n"},
		{"2", "3", "Pending\n"},
	}

	for _, tt := range tests {
		out, err := runApp(t, "--config", testConfig, "cell", "orders", tt.row, tt.column)
		if err != nil {
			t.Fatalf("cell %s %s error: %v", tt.row, tt.column, err)
		}
		if out != tt.want {
			t.Errorf("cell %s %s = %q, want %q", tt.row, tt.column, out, tt.want)
		}
	}
}

func TestCell_Errors(t *testing.T) {
	isolateHome(t)

	_, err := runApp(t, "--config", testConfig, "cell", "orders", "9", "1")
	if !errors.Is(err, core.ErrCellText) {
		t.Errorf("missing cell: err = %v, want ErrCellText", err)
	}

	_, err = runApp(t, "--config", testConfig, "cell", "orders", "0", "1")
	if !errors.Is(err, core.ErrInvalidOrdinal) {
		t.Errorf("row 0: err = %v, want ErrInvalidOrdinal", err)
	}

	_, err = runApp(t, "--config", testConfig, "cell", "orders", "one", "1")
	if err == nil || !strings.Contains(err.Error(), "invalid row") {
		t.Errorf("non-numeric row: err = %v", err)
	}

	_, err = runApp(t, "--config", testConfig, "cell", "orders", "1")
	if err == nil {
		t.Error("missing column should fail")
	}
}

func TestCount(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"orders", "Acme"}, "1\n"},
		{[]string{"orders", "Initech"}, "0\n"},
		{[]string{"--by", "cell-link", "orders", "INV-1001"}, "1\n"},
		{[]string{"--by", "link", "orders", "INV-1001"}, "1\n"},
		{[]string{"--by", "element", "orders", "Acme"}, "1\n"},
		{[]string{"--by", "element", "orders", "INV-1001"}, "0\n"},
		{[]string{"--by", "rows", "fruit"}, "2\n"},
	}

	for _, tt := range tests {
		args := append([]string{"--config", testConfig, "count"}, tt.args...)
		out, err := runApp(t, args...)
		if err != nil {
			t.Fatalf("count %v error: %v", tt.args, err)
		}
		if out != tt.want {
			t.Errorf("count %v = %q, want %q", tt.args, out, tt.want)
		}
	}
}

func TestCount_UnsupportedMode(t *testing.T) {
	isolateHome(t)

	_, err := runApp(t, "--config", testConfig, "count", "--by", "regex", "orders", "Acme")
	if err == nil || !strings.Contains(err.Error(), "unsupported --by") {
		t.Errorf("err = %v, want unsupported --by", err)
	}
}

func TestSelect(t *testing.T) {
	isolateHome(t)

	out, err := runApp(t, "--config", testConfig, "select", "orders", "2", "Globex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"Globex" in column 2`) {
		t.Errorf("output = %q", out)
	}

	_, err = runApp(t, "--config", testConfig, "select", "orders", "1", "Globex")
	if !errors.Is(err, core.ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
}

func TestScroll(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"left"}, "500\n"},
		{[]string{"right"}, "0\n"},
		{[]string{"120"}, "120\n"},
		{[]string{"9999"}, "500\n"},
		{[]string{"cell", "1", "3"}, "450\n"},
	}

	for _, tt := range tests {
		args := append([]string{"--config", testConfig, "scroll", "orders"}, tt.args...)
		out, err := runApp(t, args...)
		if err != nil {
			t.Fatalf("scroll %v error: %v", tt.args, err)
		}
		if out != tt.want {
			t.Errorf("scroll %v = %q, want %q", tt.args, out, tt.want)
		}
	}

	if _, err := runApp(t, "--config", testConfig, "scroll", "orders", "up"); err == nil {
		t.Error("invalid target should fail")
	}
}

func TestCheck(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"has-row", "orders", "2", "Acme"}, "true\n"},
		{[]string{"has-row", "orders", "1", "Acme"}, "false\n"},
		{[]string{"dirty", "orders"}, "true\n"},
		{[]string{"scroll", "orders"}, "true\n"},
		{[]string{"scroll", "fruit"}, "false\n"},
		{[]string{"icon", "orders", "1001", "Open"}, "false\n"},
	}

	for _, tt := range tests {
		args := append([]string{"--config", testConfig, "check"}, tt.args...)
		out, err := runApp(t, args...)
		if err != nil {
			t.Fatalf("check %v error: %v", tt.args, err)
		}
		if out != tt.want {
			t.Errorf("check %v = %q, want %q", tt.args, out, tt.want)
		}
	}
}

func TestSnapshotFlagAndInlineGrid(t *testing.T) {
	isolateHome(t)

	out, err := runApp(t, "--snapshot", filepath.Join("testdata", "orders.html"), "check", "dirty", "css=#orders-grid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "true\n" {
		t.Errorf("output = %q, want true", out)
	}
}

func TestUnknownGrid(t *testing.T) {
	isolateHome(t)

	_, err := runApp(t, "--config", testConfig, "check", "dirty", "invoices")
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestInlineGridEmptyQuery(t *testing.T) {
	isolateHome(t)

	_, err := runApp(t, "--snapshot", filepath.Join("testdata", "orders.html"), "check", "dirty", "css=")
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("err = %v, want empty query error", err)
	}
}

func TestNoSession(t *testing.T) {
	isolateHome(t)

	_, err := runApp(t, "check", "dirty", "css=#orders-grid")
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLocators(t *testing.T) {
	isolateHome(t)

	out, err := runApp(t, "--config", testConfig, "locators")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "fruit\tcss selector=#feMain2\norders\tcss selector=#orders-grid\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = runApp(t, "--config", testConfig, "locators", "--column", "2", "--text", "O'Brien", "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range []string{
		"root\tcss selector=#orders-grid",
		"has-row / select\t" + locator.CellByColumnWithExactText(2, "O'Brien").Describe(),
		"table rows\t" + locator.Rows("tr.x-grid-row").Describe(),
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GRIDCTL_TEST_DRIVER=rod\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("GRIDCTL_TEST_DRIVER") })

	if err := loadEnvFiles(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("loadEnvFiles() error: %v", err)
	}
	if got := os.Getenv("GRIDCTL_TEST_DRIVER"); got != "rod" {
		t.Errorf("GRIDCTL_TEST_DRIVER = %q, want rod", got)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"orders", "orders"},
		{"css=#orders-grid", "css__orders-grid"},
		{"my grid", "my_grid"},
	}
	for _, tt := range tests {
		if got := exportName(tt.in); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
