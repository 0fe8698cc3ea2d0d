// Package control provides the base page-object control.
//
// A Control is bound to a page and resolves its root element from one or more
// locators every time it is used, so a control never holds on to a stale element.
// All lookups made through a control are scoped to that root.
package control

import (
	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// Control is a named UI element on a page.
type Control struct {
	name  string
	page  core.Page
	roots []locator.Locator
	el    core.Element
}

// New creates a control whose root is the first element matched by the first
// locator in roots that matches anything. Without locators the whole page is the root.
func New(page core.Page, name string, roots ...locator.Locator) *Control {
	return &Control{
		name:  name,
		page:  page,
		roots: roots,
	}
}

// FromElement creates a control rooted at an already resolved element.
func FromElement(page core.Page, el core.Element, name string) *Control {
	return &Control{
		name: name,
		page: page,
		el:   el,
	}
}

// Name returns the control name.
func (c *Control) Name() string {
	return c.name
}

// Page returns the page the control lives on.
func (c *Control) Page() core.Page {
	return c.page
}

// Locators returns the root locators.
func (c *Control) Locators() []locator.Locator {
	return c.roots
}

// Root resolves the root element of the control.
// Returns ErrControlNotFound when none of the root locators match.
func (c *Control) Root() (core.Element, error) {
	if c.el != nil {
		return c.el, nil
	}
	if len(c.roots) == 0 {
		return nil, c.Err(core.ErrControlNotFound).WithMessage("control has no root locator")
	}

	for _, loc := range c.roots {
		el, err := core.FindFirst(c.page, loc)
		if err != nil {
			return nil, c.Err(core.ErrControlNotFound).
				WithDetails(map[string]interface{}{"locator": loc.String()}).
				WithCause(err)
		}
		if el != nil {
			return el, nil
		}
	}

	logger.Debug("%s: no root matched %d locator(s)", c.name, len(c.roots))
	return nil, c.Err(core.ErrControlNotFound)
}

// Exists returns true if the root element can be resolved.
func (c *Control) Exists() bool {
	_, err := c.Root()
	return err == nil
}

func (c *Control) scope() (core.Searcher, error) {
	if c.el == nil && len(c.roots) == 0 {
		return c.page, nil
	}
	return c.Root()
}

// FindChild returns the first element under the root matching loc, or nil when
// nothing matches.
func (c *Control) FindChild(loc locator.Locator) (core.Element, error) {
	s, err := c.scope()
	if err != nil {
		return nil, err
	}

	el, err := core.FindFirst(s, loc)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s: find %s -> found=%v", c.name, loc, el != nil)
	return el, nil
}

// FindChildren returns every element under the root matching loc.
func (c *Control) FindChildren(loc locator.Locator) ([]core.Element, error) {
	s, err := c.scope()
	if err != nil {
		return nil, err
	}

	elems, err := s.FindElements(loc)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s: find all %s -> %d", c.name, loc, len(elems))
	return elems, nil
}

// CountChildren returns the number of elements under the root matching loc.
func (c *Control) CountChildren(loc locator.Locator) (int, error) {
	s, err := c.scope()
	if err != nil {
		return 0, err
	}

	n, err := core.Count(s, loc)
	if err != nil {
		return 0, err
	}
	logger.Debug("%s: count %s -> %d", c.name, loc, n)
	return n, nil
}

// RequireChild is FindChild that reports absence as ErrElementNotFound.
func (c *Control) RequireChild(loc locator.Locator) (core.Element, error) {
	el, err := c.FindChild(loc)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, c.Err(core.ErrElementNotFound).
			WithDetails(map[string]interface{}{"locator": loc.String()})
	}
	return el, nil
}

// Err attributes a predefined error to this control.
func (c *Control) Err(base *core.ControlError) *core.ControlError {
	return base.WithControl(c.name)
}
