// Package mock provides a programmable in-memory page for testing controls without a browser.
package mock

import (
	"fmt"
	"sync"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
)

// Config configures mock page behavior.
type Config struct {
	// FailOnFind makes lookup N fail (1-indexed, counted across the page). 0 = never fail.
	FailOnFind int
	// ScriptErr is returned by every ExecuteScript call when set.
	ScriptErr error
	// Script answers ExecuteScript calls when set. Defaults to returning nil.
	Script func(script string, args []core.Element) (interface{}, error)
}

// ScriptCall records one ExecuteScript invocation.
type ScriptCall struct {
	Script string
	Args   []core.Element
}

// Page is a mock implementation of core.Page.
type Page struct {
	Config Config

	doc *Element

	mu        sync.Mutex
	findCount int
	lookups   []locator.Locator
	scripts   []ScriptCall
}

// New creates a new mock page.
func New(cfg Config) *Page {
	p := &Page{Config: cfg}
	p.doc = p.NewElement("document", "")
	return p
}

// Document returns the document element; register page-level matches on it.
func (p *Page) Document() *Element {
	return p.doc
}

// NewElement creates an element owned by this page.
func (p *Page) NewElement(name, text string) *Element {
	return &Element{
		Name:    name,
		text:    text,
		page:    p,
		matches: make(map[string][]*Element),
		errs:    make(map[string]error),
	}
}

// FindElements looks loc up on the document element.
func (p *Page) FindElements(loc locator.Locator) ([]core.Element, error) {
	return p.doc.FindElements(loc)
}

// ExecuteScript records the call and answers it from Config.
func (p *Page) ExecuteScript(script string, args ...core.Element) (interface{}, error) {
	p.mu.Lock()
	p.scripts = append(p.scripts, ScriptCall{Script: script, Args: args})
	p.mu.Unlock()

	if p.Config.ScriptErr != nil {
		return nil, p.Config.ScriptErr
	}
	if p.Config.Script != nil {
		return p.Config.Script(script, args)
	}
	return nil, nil
}

// Lookups returns every locator looked up so far, on any element of this page.
func (p *Page) Lookups() []locator.Locator {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]locator.Locator, len(p.lookups))
	copy(out, p.lookups)
	return out
}

// Scripts returns every script executed so far.
func (p *Page) Scripts() []ScriptCall {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]ScriptCall, len(p.scripts))
	copy(out, p.scripts)
	return out
}

// Reset clears recorded lookups and scripts.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lookups = nil
	p.scripts = nil
	p.findCount = 0
}

func (p *Page) recordLookup(loc locator.Locator) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.findCount++
	p.lookups = append(p.lookups, loc)
	if p.Config.FailOnFind > 0 && p.findCount == p.Config.FailOnFind {
		return fmt.Errorf("mock failure on lookup %d (%s)", p.findCount, loc)
	}
	return nil
}

// Element is a mock implementation of core.Element.
// Matches are registered per rendered locator with On.
type Element struct {
	Name     string
	ClickErr error
	TextErr  error

	page    *Page
	text    string
	clicks  int
	matches map[string][]*Element
	errs    map[string]error
}

// On registers the elements returned when loc is looked up under e.
func (e *Element) On(loc locator.Locator, children ...*Element) *Element {
	e.matches[loc.String()] = append(e.matches[loc.String()], children...)
	return e
}

// FailOn makes lookups of loc under e fail with err.
func (e *Element) FailOn(loc locator.Locator, err error) *Element {
	e.errs[loc.String()] = err
	return e
}

// SetText changes the element text.
func (e *Element) SetText(text string) {
	e.text = text
}

// Clicks returns how many times the element was clicked.
func (e *Element) Clicks() int {
	return e.clicks
}

// Text returns the element text.
func (e *Element) Text() (string, error) {
	if e.TextErr != nil {
		return "", e.TextErr
	}
	return e.text, nil
}

// Click records a click.
func (e *Element) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.clicks++
	return nil
}

// FindElements returns the elements registered for loc.
func (e *Element) FindElements(loc locator.Locator) ([]core.Element, error) {
	if err := e.page.recordLookup(loc); err != nil {
		return nil, err
	}
	if err, ok := e.errs[loc.String()]; ok {
		return nil, err
	}

	found := e.matches[loc.String()]
	out := make([]core.Element, len(found))
	for i, el := range found {
		out[i] = el
	}
	return out, nil
}

// String returns the element name.
func (e *Element) String() string {
	return e.Name
}
