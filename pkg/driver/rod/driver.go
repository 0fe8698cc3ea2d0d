// Package rod implements core.Page over a Chrome DevTools Protocol page driven by rod.
package rod

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// Config configures a rod session.
type Config struct {
	Headless bool
	URL      string
}

// Driver is a rod-backed page.
type Driver struct {
	page     *rod.Page
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// New wraps an existing page.
func New(page *rod.Page) *Driver {
	return &Driver{page: page}
}

// Open launches a browser and opens cfg.URL.
func Open(cfg Config) (*Driver, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	d := &Driver{browser: browser, launcher: l}

	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.URL})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to open %s: %w", cfg.URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		d.Close()
		return nil, fmt.Errorf("wait for %s: %w", cfg.URL, err)
	}
	d.page = page
	logger.Info("rod: opened %s", cfg.URL)

	return d, nil
}

// FindElements looks loc up in the whole document.
func (d *Driver) FindElements(loc locator.Locator) ([]core.Element, error) {
	var (
		found rod.Elements
		err   error
	)
	switch loc.Strategy {
	case locator.XPath:
		found, err = d.page.ElementsX(loc.Query)
	case locator.CSS:
		found, err = d.page.Elements(loc.Query)
	default:
		return nil, unsupported(loc)
	}
	if err != nil {
		return nil, translate(err)
	}
	return d.wrap(found), nil
}

// ExecuteScript runs script with elements bound to arguments[i].
func (d *Driver) ExecuteScript(script string, args ...core.Element) (interface{}, error) {
	jsArgs := make([]interface{}, len(args))
	for i, arg := range args {
		el, ok := arg.(*Element)
		if !ok || el.driver != d {
			return nil, core.ErrForeignElement.WithDetails(map[string]interface{}{"argument": i})
		}
		jsArgs[i] = el.el.Object
	}

	res, err := d.page.Evaluate(rod.Eval(wrapScript(script), jsArgs...))
	if err != nil {
		return nil, translate(err)
	}
	return res.Value.Val(), nil
}

// Close closes the browser and the launched process.
func (d *Driver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher.Cleanup()
	}
	logger.Info("rod: closed")
	return err
}

func (d *Driver) wrap(found rod.Elements) []core.Element {
	out := make([]core.Element, len(found))
	for i, el := range found {
		out[i] = &Element{driver: d, el: el}
	}
	return out
}

// Element is a rod element.
type Element struct {
	driver *Driver
	el     *rod.Element
}

// Text returns the rendered text of the element.
func (e *Element) Text() (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", translate(err)
	}
	return text, nil
}

// Click clicks the element with the left mouse button.
func (e *Element) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return translate(err)
	}
	return nil
}

// FindElements looks loc up under the element.
func (e *Element) FindElements(loc locator.Locator) ([]core.Element, error) {
	var (
		found rod.Elements
		err   error
	)
	switch loc.Strategy {
	case locator.XPath:
		found, err = e.el.ElementsX(loc.Query)
	case locator.CSS:
		found, err = e.el.Elements(loc.Query)
	default:
		return nil, unsupported(loc)
	}
	if err != nil {
		return nil, translate(err)
	}
	return e.driver.wrap(found), nil
}

func unsupported(loc locator.Locator) error {
	return core.ErrInvalidLocator.WithMessage(fmt.Sprintf("unsupported locator strategy %q", loc.Strategy))
}

// wrapScript turns a WebDriver-style body into the function rod evaluates.
func wrapScript(body string) string {
	return "function() {\n" + body + "\n}"
}

func translate(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not find node with given id"),
		strings.Contains(msg, "Cannot find context with specified id"),
		strings.Contains(msg, "Node is detached from document"):
		return core.ErrStaleElement.WithCause(err)
	case strings.Contains(msg, "is not a valid XPath expression"),
		strings.Contains(msg, "is not a valid selector"):
		return core.ErrInvalidLocator.WithCause(err)
	}
	return err
}
