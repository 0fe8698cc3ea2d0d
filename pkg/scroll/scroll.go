// Package scroll reads and sets the horizontal scroll position of elements
// by executing scripts through the page.
package scroll

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/stan-task/gridcontrol/pkg/core"
)

// Scripts executed by the helper. arguments[0] is always the element acted on.
const (
	HasOverflowScript   = "return arguments[0].scrollWidth > arguments[0].clientWidth;"
	MaxScrollLeftScript = "return Math.max(0, arguments[0].scrollWidth - arguments[0].clientWidth);"
	ScrollLeftScript    = "return arguments[0].scrollLeft;"
	// arguments[0] is the target, arguments[1] the scrollable ancestor.
	ScrollIntoViewScript = "arguments[1].scrollLeft = arguments[0].offsetLeft; return arguments[1].scrollLeft;"
	setScrollLeftFormat  = "arguments[0].scrollLeft = %d; return arguments[0].scrollLeft;"
)

// SetScrollLeftScript returns the script setting scrollLeft to pixels.
func SetScrollLeftScript(pixels int) string {
	return fmt.Sprintf(setScrollLeftFormat, pixels)
}

// Helper scrolls elements of one page.
type Helper struct {
	page core.Page
}

// New creates a helper for page.
func New(page core.Page) *Helper {
	return &Helper{page: page}
}

// HasHorizontalOverflow returns true if el's content is wider than its box.
func (h *Helper) HasHorizontalOverflow(el core.Element) (bool, error) {
	res, err := h.page.ExecuteScript(HasOverflowScript, el)
	if err != nil {
		return false, fmt.Errorf("check overflow: %w", err)
	}
	return toBool(res)
}

// MaxScrollLeft returns the largest scrollLeft el accepts.
func (h *Helper) MaxScrollLeft(el core.Element) (int, error) {
	res, err := h.page.ExecuteScript(MaxScrollLeftScript, el)
	if err != nil {
		return 0, fmt.Errorf("read max scroll: %w", err)
	}
	return toInt(res)
}

// ScrollLeft returns el's current scrollLeft.
func (h *Helper) ScrollLeft(el core.Element) (int, error) {
	res, err := h.page.ExecuteScript(ScrollLeftScript, el)
	if err != nil {
		return 0, fmt.Errorf("read scroll: %w", err)
	}
	return toInt(res)
}

// SetScrollLeft sets el's scrollLeft to pixels.
func (h *Helper) SetScrollLeft(el core.Element, pixels int) error {
	if _, err := h.page.ExecuteScript(SetScrollLeftScript(pixels), el); err != nil {
		return fmt.Errorf("set scroll to %d: %w", pixels, err)
	}
	return nil
}

// ScrollIntoView scrolls scrollable horizontally so that target is in view.
func (h *Helper) ScrollIntoView(target, scrollable core.Element) error {
	if _, err := h.page.ExecuteScript(ScrollIntoViewScript, target, scrollable); err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	return nil
}

func toBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case nil:
		return false, core.ErrScriptResult.WithMessage("script returned no value")
	default:
		return false, core.ErrScriptResult.WithMessage(fmt.Sprintf("expected boolean, got %T", v))
	}
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float32:
		return int(math.Round(float64(n))), nil
	case float64:
		return int(math.Round(n)), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, core.ErrScriptResult.WithCause(err)
		}
		return int(math.Round(f)), nil
	case nil:
		return 0, core.ErrScriptResult.WithMessage("script returned no value")
	default:
		return 0, core.ErrScriptResult.WithMessage(fmt.Sprintf("expected number, got %T", v))
	}
}
