package locator

import "testing"

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "'Apple'"},
		{"", "''"},
		{"O'Brien", `"O'Brien"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `concat('it', "'", 's "x"')`},
		{`'"`, `concat("'", '"')`},
	}

	for _, tt := range tests {
		if got := Literal(tt.in); got != tt.want {
			t.Errorf("Literal(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestGridBuilders(t *testing.T) {
	tests := []struct {
		name     string
		loc      Locator
		strategy Strategy
		query    string
		match    MatchMode
	}{
		{"cell by column", CellByColumnWithExactText(2, "Apple"), XPath,
			".//tr/td[2]/div[contains(@class, 'x-grid-cell-inner') and text()='Apple']", MatchExact},
		{"cell by row and column", CellByRowAndColumn(3, 4), XPath,
			".//tr[3]/td[4]/div[contains(@class, 'x-grid-cell-inner')]", MatchNone},
		{"cell in container", CellByContainerRowAndColumn("group-1", 1, 2), XPath,
			".//tr[contains(@id, 'group-1')]//tr[1]/td[2]/div[contains(@class, 'x-grid-cell-inner')]", MatchPartial},
		{"row with cell", RowWithCellExactText("Apple"), XPath,
			".//tr[td/div[contains(@class, 'x-grid-cell-inner') and text()='Apple']]", MatchExact},
		{"row with cell element", RowWithCellElementExactText("Apple"), XPath,
			".//tr[td/div[text()='Apple']]", MatchExact},
		{"row with cell link", RowWithCellLinkExactText("Open"), XPath,
			".//tr[td/div[contains(@class, 'x-grid-cell-inner')]/a[text()='Open']]", MatchExact},
		{"row with link", RowWithLinkExactText("Open"), XPath,
			".//tr[td//a[text()='Open']]", MatchExact},
		{"icon", RowWithIconValue("Order 7", "Paid"), XPath,
			".//tr/td/div[contains(text(), 'Order 7')]/../../td/div[contains(@class, 'x-grid-cell-inner')]//label[text()='Paid']", MatchStructural},
		{"dirty cell", DirtyCell(), CSS, ".x-grid-dirty-cell", MatchStructural},
		{"scrollable", ScrollablePanel(), CSS, "div.x-grid-view", MatchStructural},
		{"row cells", RowCells(), XPath, "./td", MatchNone},
		{"rows", Rows(DefaultRowsQuery), CSS, "div#feMain2 .local_table tr:not(.sum)", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.loc.Strategy != tt.strategy {
				t.Errorf("Strategy = %s, want %s", tt.loc.Strategy, tt.strategy)
			}
			if tt.loc.Query != tt.query {
				t.Errorf("Query = %s\nwant    %s", tt.loc.Query, tt.query)
			}
			if tt.loc.Match != tt.match {
				t.Errorf("Match = %s, want %s", tt.loc.Match, tt.match)
			}
		})
	}
}

func TestBuilders_DistinctShapes(t *testing.T) {
	locs := []Locator{
		CellByColumnWithExactText(1, "a"),
		CellByRowAndColumn(1, 1),
		CellByContainerRowAndColumn("c", 1, 1),
		RowWithCellExactText("a"),
		RowWithCellElementExactText("a"),
		RowWithCellLinkExactText("a"),
		RowWithLinkExactText("a"),
		RowWithIconValue("a", "b"),
		DirtyCell(),
		ScrollablePanel(),
		RowCells(),
		Rows("tr"),
		ColumnHeaders(),
	}

	seen := make(map[Shape]bool)
	for _, l := range locs {
		if seen[l.Shape] {
			t.Errorf("shape %s used by more than one builder", l.Shape)
		}
		seen[l.Shape] = true
	}
}

func TestExactTextWithQuote(t *testing.T) {
	loc := RowWithCellExactText("O'Brien")
	want := `.//tr[td/div[contains(@class, 'x-grid-cell-inner') and text()="O'Brien"]]`
	if loc.Query != want {
		t.Errorf("Query = %s, want %s", loc.Query, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		strategy Strategy
		query    string
	}{
		{"xpath=//div[@id='a']", XPath, "//div[@id='a']"},
		{"css=div.grid", CSS, "div.grid"},
		{"css selector=div.grid", CSS, "div.grid"},
		{"//table", XPath, "//table"},
		{".//tr", XPath, ".//tr"},
		{"(//tr)[1]", XPath, "(//tr)[1]"},
		{"div#main .grid", CSS, "div#main .grid"},
	}

	for _, tt := range tests {
		loc, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
		}
		if loc.Strategy != tt.strategy || loc.Query != tt.query {
			t.Errorf("Parse(%q) = %s, want %s=%s", tt.in, loc, tt.strategy, tt.query)
		}
	}

	for _, in := range []string{"  ", "xpath=", "css=", "css selector=  "} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error for empty query", in)
		}
	}
}

func TestLocator_Describe(t *testing.T) {
	if got := ByCSS("div").Describe(); got != "css selector=div" {
		t.Errorf("Describe() = %q, want %q", got, "css selector=div")
	}

	got := DirtyCell().Describe()
	want := "css selector=.x-grid-dirty-cell (dirty-cell, structural match)"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestMatchMode_String(t *testing.T) {
	tests := []struct {
		mode MatchMode
		want string
	}{
		{MatchNone, "none"},
		{MatchExact, "exact"},
		{MatchPartial, "partial"},
		{MatchStructural, "structural"},
		{MatchMode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("MatchMode(%d).String() = %s, want %s", tt.mode, got, tt.want)
		}
	}
}
