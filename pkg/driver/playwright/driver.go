// Package playwright implements core.Page over a Playwright browser page.
package playwright

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// PageClient is the part of playwright.Page the driver uses.
// Implemented by playwright.Page. Allows mocking in tests.
type PageClient interface {
	QuerySelectorAll(selector string) ([]playwright.ElementHandle, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Config configures a Playwright session.
type Config struct {
	Browser  string // chromium (default), firefox or webkit
	Headless bool
	URL      string
}

// Driver is a Playwright-backed page.
type Driver struct {
	page    PageClient
	browser playwright.Browser
	pw      *playwright.Playwright
}

// New wraps an existing page.
func New(page PageClient) *Driver {
	return &Driver{page: page}
}

// Open launches a browser and opens cfg.URL.
func Open(cfg Config) (*Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	case "", "chromium", "chrome":
		browserType = pw.Chromium
	default:
		pw.Stop()
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported playwright browser %q", cfg.Browser))
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	d := &Driver{page: page, browser: browser, pw: pw}
	logger.Info("playwright: %s started", browserType.Name())

	if cfg.URL != "" {
		logger.Info("playwright: navigating to %s", cfg.URL)
		if _, err := page.Goto(cfg.URL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			d.Close()
			return nil, fmt.Errorf("navigate to %s: %w", cfg.URL, err)
		}
	}
	return d, nil
}

// FindElements looks loc up in the whole document.
func (d *Driver) FindElements(loc locator.Locator) ([]core.Element, error) {
	sel, err := selector(loc)
	if err != nil {
		return nil, err
	}

	handles, err := d.page.QuerySelectorAll(sel)
	if err != nil {
		return nil, translate(err)
	}
	return d.wrap(handles), nil
}

// ExecuteScript runs a WebDriver-style script body. Playwright passes a single
// argument to evaluated functions, so the elements are sent as one array and
// spread back into arguments.
func (d *Driver) ExecuteScript(script string, args ...core.Element) (interface{}, error) {
	handles := make([]interface{}, len(args))
	for i, arg := range args {
		el, ok := arg.(*Element)
		if !ok || el.driver != d {
			return nil, core.ErrForeignElement.WithDetails(map[string]interface{}{"argument": i})
		}
		handles[i] = el.handle
	}

	res, err := d.page.Evaluate(wrapScript(script), handles)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

// Close closes the browser and stops Playwright.
func (d *Driver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.pw != nil {
		if stopErr := d.pw.Stop(); err == nil {
			err = stopErr
		}
	}
	logger.Info("playwright: closed")
	return err
}

func (d *Driver) wrap(handles []playwright.ElementHandle) []core.Element {
	out := make([]core.Element, len(handles))
	for i, h := range handles {
		out[i] = &Element{driver: d, handle: h}
	}
	return out
}

// Element is a Playwright element handle.
type Element struct {
	driver *Driver
	handle playwright.ElementHandle
}

// Text returns the rendered text of the element.
func (e *Element) Text() (string, error) {
	text, err := e.handle.InnerText()
	if err != nil {
		return "", translate(err)
	}
	return text, nil
}

// Click clicks the element.
func (e *Element) Click() error {
	if err := e.handle.Click(); err != nil {
		return translate(err)
	}
	return nil
}

// FindElements looks loc up under the element.
func (e *Element) FindElements(loc locator.Locator) ([]core.Element, error) {
	sel, err := selector(loc)
	if err != nil {
		return nil, err
	}

	handles, err := e.handle.QuerySelectorAll(sel)
	if err != nil {
		return nil, translate(err)
	}
	return e.driver.wrap(handles), nil
}

func selector(loc locator.Locator) (string, error) {
	switch loc.Strategy {
	case locator.XPath:
		return "xpath=" + loc.Query, nil
	case locator.CSS:
		return "css=" + loc.Query, nil
	}
	return "", core.ErrInvalidLocator.WithMessage(fmt.Sprintf("unsupported locator strategy %q", loc.Strategy))
}

func wrapScript(body string) string {
	return "(args) => (function() {\n" + body + "\n}).apply(null, args)"
}

func translate(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached to the DOM"):
		return core.ErrStaleElement.WithCause(err)
	case strings.Contains(msg, "Unexpected token"), strings.Contains(msg, "is not a valid selector"):
		return core.ErrInvalidLocator.WithCause(err)
	}
	return err
}
