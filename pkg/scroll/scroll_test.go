package scroll

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/driver/mock"
)

func scriptedPage(results map[string]interface{}) *mock.Page {
	return mock.New(mock.Config{
		Script: func(script string, _ []core.Element) (interface{}, error) {
			return results[script], nil
		},
	})
}

func TestHasHorizontalOverflow(t *testing.T) {
	tests := []struct {
		result interface{}
		want   bool
	}{
		{true, true},
		{false, false},
	}

	for _, tt := range tests {
		page := scriptedPage(map[string]interface{}{HasOverflowScript: tt.result})
		panel := page.NewElement("panel", "")

		got, err := New(page).HasHorizontalOverflow(panel)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("HasHorizontalOverflow() = %v, want %v", got, tt.want)
		}

		calls := page.Scripts()
		if len(calls) != 1 || calls[0].Args[0] != panel {
			t.Errorf("script should be run against the panel, got %+v", calls)
		}
	}
}

func TestHasHorizontalOverflow_BadResult(t *testing.T) {
	page := scriptedPage(map[string]interface{}{HasOverflowScript: "yes"})
	_, err := New(page).HasHorizontalOverflow(page.NewElement("panel", ""))
	if !errors.Is(err, core.ErrScriptResult) {
		t.Errorf("err = %v, want ErrScriptResult", err)
	}
}

func TestMaxScrollLeft_NumberKinds(t *testing.T) {
	tests := []struct {
		result interface{}
		want   int
	}{
		{int(300), 300},
		{int64(300), 300},
		{float64(299.6), 300},
		{json.Number("120"), 120},
	}

	for _, tt := range tests {
		page := scriptedPage(map[string]interface{}{MaxScrollLeftScript: tt.result})
		got, err := New(page).MaxScrollLeft(page.NewElement("panel", ""))
		if err != nil {
			t.Fatalf("%T: unexpected error: %v", tt.result, err)
		}
		if got != tt.want {
			t.Errorf("MaxScrollLeft(%v) = %d, want %d", tt.result, got, tt.want)
		}
	}
}

func TestMaxScrollLeft_NoValue(t *testing.T) {
	page := scriptedPage(nil)
	if _, err := New(page).MaxScrollLeft(page.NewElement("panel", "")); !errors.Is(err, core.ErrScriptResult) {
		t.Errorf("err = %v, want ErrScriptResult", err)
	}
}

func TestSetScrollLeft(t *testing.T) {
	page := scriptedPage(nil)
	panel := page.NewElement("panel", "")

	if err := New(page).SetScrollLeft(panel, 250); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := page.Scripts()
	want := "arguments[0].scrollLeft = 250; return arguments[0].scrollLeft;"
	if len(calls) != 1 || calls[0].Script != want {
		t.Errorf("Scripts() = %+v, want %q", calls, want)
	}
}

func TestScrollIntoView_ArgumentOrder(t *testing.T) {
	page := scriptedPage(nil)
	target, panel := page.NewElement("cell", ""), page.NewElement("panel", "")

	if err := New(page).ScrollIntoView(target, panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := page.Scripts()
	if len(calls) != 1 || calls[0].Script != ScrollIntoViewScript {
		t.Fatalf("Scripts() = %+v", calls)
	}
	if calls[0].Args[0] != target || calls[0].Args[1] != panel {
		t.Error("ScrollIntoView should pass target first and scrollable second")
	}
}

func TestScriptErrorIsWrapped(t *testing.T) {
	boom := errors.New("javascript error")
	page := mock.New(mock.Config{ScriptErr: boom})
	h := New(page)
	el := page.NewElement("panel", "")

	if _, err := h.HasHorizontalOverflow(el); !errors.Is(err, boom) {
		t.Errorf("HasHorizontalOverflow err = %v", err)
	}
	if _, err := h.ScrollLeft(el); !errors.Is(err, boom) {
		t.Errorf("ScrollLeft err = %v", err)
	}
	if err := h.SetScrollLeft(el, 0); !errors.Is(err, boom) {
		t.Errorf("SetScrollLeft err = %v", err)
	}
}
