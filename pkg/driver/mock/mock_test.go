package mock

import (
	"errors"
	"strings"
	"testing"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
)

var _ core.Page = (*Page)(nil)
var _ core.Element = (*Element)(nil)

func TestElement_OnAndFind(t *testing.T) {
	p := New(Config{})
	rows := locator.ByCSS("tr")
	a, b := p.NewElement("a", "A"), p.NewElement("b", "B")
	p.Document().On(rows, a, b)

	got, err := p.FindElements(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(got))
	}
	if text, _ := got[1].Text(); text != "B" {
		t.Errorf("Text() = %s, want B", text)
	}

	none, err := p.FindElements(locator.ByCSS("td"))
	if err != nil || len(none) != 0 {
		t.Errorf("unregistered locator = %v, %v, want empty", none, err)
	}

	lookups := p.Lookups()
	if len(lookups) != 2 || lookups[0] != rows {
		t.Errorf("Lookups() = %v", lookups)
	}
}

func TestElement_FailOn(t *testing.T) {
	p := New(Config{})
	boom := errors.New("stale")
	loc := locator.ByXPath(".//tr")
	p.Document().FailOn(loc, boom)

	if _, err := p.FindElements(loc); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestConfig_FailOnFind(t *testing.T) {
	p := New(Config{FailOnFind: 2})
	loc := locator.ByCSS("div")

	if _, err := p.FindElements(loc); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	_, err := p.FindElements(loc)
	if err == nil || !strings.Contains(err.Error(), "lookup 2") {
		t.Errorf("second lookup err = %v, want mock failure on lookup 2", err)
	}
	if _, err := p.FindElements(loc); err != nil {
		t.Errorf("third lookup failed: %v", err)
	}
}

func TestElement_Click(t *testing.T) {
	p := New(Config{})
	el := p.NewElement("cell", "x")

	if err := el.Click(); err != nil {
		t.Fatal(err)
	}
	if el.Clicks() != 1 {
		t.Errorf("Clicks() = %d, want 1", el.Clicks())
	}

	el.ClickErr = errors.New("intercepted")
	if err := el.Click(); err == nil {
		t.Error("expected click error")
	}
	if el.Clicks() != 1 {
		t.Errorf("failed click should not be counted, got %d", el.Clicks())
	}
}

func TestPage_ExecuteScript(t *testing.T) {
	p := New(Config{
		Script: func(script string, args []core.Element) (interface{}, error) {
			return len(args), nil
		},
	})
	el := p.NewElement("panel", "")

	res, err := p.ExecuteScript("return 1", el)
	if err != nil {
		t.Fatal(err)
	}
	if res != 1 {
		t.Errorf("result = %v, want 1", res)
	}

	calls := p.Scripts()
	if len(calls) != 1 || calls[0].Script != "return 1" || calls[0].Args[0] != el {
		t.Errorf("Scripts() = %+v", calls)
	}

	p.Reset()
	if len(p.Scripts()) != 0 || len(p.Lookups()) != 0 {
		t.Error("Reset() should clear recordings")
	}
}

func TestPage_ScriptErr(t *testing.T) {
	p := New(Config{ScriptErr: errors.New("no js")})
	if _, err := p.ExecuteScript("return 1"); err == nil {
		t.Error("expected script error")
	}
	if len(p.Scripts()) != 1 {
		t.Error("failed script should still be recorded")
	}
}
