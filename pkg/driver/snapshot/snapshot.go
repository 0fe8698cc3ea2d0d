// Package snapshot implements core.Page over a static HTML document.
//
// XPath locators are evaluated with htmlquery and CSS locators with goquery.
// Scripts run in the embedded JS engine, where elements expose the layout
// properties a browser would compute. Layout comes from data attributes:
//
//	data-scroll-width   scrollWidth
//	data-client-width   clientWidth
//	data-scroll-left    scrollLeft (clamped to [0, scrollWidth-clientWidth] on write)
//	data-offset-left    offsetLeft
//
// A snapshot is useful for running controls offline against saved pages.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/jsengine"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// Layout attributes.
const (
	AttrScrollWidth = "data-scroll-width"
	AttrClientWidth = "data-client-width"
	AttrScrollLeft  = "data-scroll-left"
	AttrOffsetLeft  = "data-offset-left"
)

// Page is a parsed HTML document.
type Page struct {
	doc *html.Node
	js  *jsengine.Engine

	mu     sync.Mutex
	clicks []string
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Page, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{doc: doc, js: jsengine.New()}, nil
}

// FromString parses an HTML document held in a string.
func FromString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// Load parses the HTML file at path.
func Load(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, err
	}
	logger.Info("snapshot: loaded %s", path)
	return p, nil
}

// Close releases the page. A snapshot holds no external resources.
func (p *Page) Close() error {
	return nil
}

// FindElements evaluates loc against the whole document.
func (p *Page) FindElements(loc locator.Locator) ([]core.Element, error) {
	return p.find(p.doc, loc)
}

// ExecuteScript runs script with the given elements bound to arguments[i].
func (p *Page) ExecuteScript(script string, args ...core.Element) (interface{}, error) {
	jsArgs := make([]interface{}, len(args))
	for i, arg := range args {
		el, ok := arg.(*Element)
		if !ok || el.page != p {
			return nil, core.ErrForeignElement.WithDetails(map[string]interface{}{"argument": i})
		}
		jsArgs[i] = el
	}

	// Scripts mutate layout attributes; keep element reads consistent.
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.js.Call(script, jsArgs...)
}

// Clicks returns a description of every clicked element, in click order.
func (p *Page) Clicks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.clicks))
	copy(out, p.clicks)
	return out
}

func (p *Page) find(top *html.Node, loc locator.Locator) ([]core.Element, error) {
	var nodes []*html.Node

	switch loc.Strategy {
	case locator.XPath:
		found, err := htmlquery.QueryAll(top, loc.Query)
		if err != nil {
			return nil, core.ErrInvalidLocator.
				WithDetails(map[string]interface{}{"locator": loc.String()}).
				WithCause(err)
		}
		nodes = found
	case locator.CSS:
		nodes = goquery.NewDocumentFromNode(top).Find(loc.Query).Nodes
	default:
		return nil, core.ErrInvalidLocator.
			WithMessage(fmt.Sprintf("unsupported locator strategy %q", loc.Strategy))
	}

	out := make([]core.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		out = append(out, &Element{page: p, node: n})
	}
	return out, nil
}

// Element is an element node of a snapshot page.
type Element struct {
	page *Page
	node *html.Node
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	return htmlquery.SelectAttr(e.node, name)
}

// Text returns the text content of the element.
func (e *Element) Text() (string, error) {
	return htmlquery.InnerText(e.node), nil
}

// Click records the click on the page.
func (e *Element) Click() error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	e.page.clicks = append(e.page.clicks, e.String())
	return nil
}

// FindElements evaluates loc relative to the element.
func (e *Element) FindElements(loc locator.Locator) ([]core.Element, error) {
	return e.page.find(e.node, loc)
}

// String describes the element as tag#id.class.
func (e *Element) String() string {
	var b strings.Builder
	b.WriteString(e.node.Data)
	if id := e.Attr("id"); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range strings.Fields(e.Attr("class")) {
		b.WriteString("." + c)
	}
	return b.String()
}

// Property implements jsengine.Properties.
func (e *Element) Property(name string) (interface{}, bool) {
	switch name {
	case "scrollWidth":
		return e.intAttr(AttrScrollWidth), true
	case "clientWidth":
		return e.intAttr(AttrClientWidth), true
	case "scrollLeft":
		return e.intAttr(AttrScrollLeft), true
	case "offsetLeft":
		return e.intAttr(AttrOffsetLeft), true
	case "id":
		return e.Attr("id"), true
	case "className":
		return e.Attr("class"), true
	case "tagName":
		return strings.ToUpper(e.node.Data), true
	case "textContent", "innerText":
		return htmlquery.InnerText(e.node), true
	}
	return nil, false
}

// SetProperty implements jsengine.Properties. Only scrollLeft is writable.
func (e *Element) SetProperty(name string, value interface{}) bool {
	if name != "scrollLeft" {
		return false
	}

	var px int64
	switch v := value.(type) {
	case int64:
		px = v
	case float64:
		px = int64(v)
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		px = int64(n)
	default:
		return false
	}

	maxLeft := e.intAttr(AttrScrollWidth) - e.intAttr(AttrClientWidth)
	if px > maxLeft {
		px = maxLeft
	}
	if px < 0 {
		px = 0
	}
	e.setAttr(AttrScrollLeft, strconv.FormatInt(px, 10))
	return true
}

// PropertyNames implements jsengine.Properties.
func (e *Element) PropertyNames() []string {
	return []string{"scrollWidth", "clientWidth", "scrollLeft", "offsetLeft", "id", "className", "tagName", "textContent", "innerText"}
}

func (e *Element) intAttr(name string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(e.Attr(name)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (e *Element) setAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}
