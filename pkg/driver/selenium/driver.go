// Package selenium implements core.Page over a W3C WebDriver session.
package selenium

import (
	"errors"
	"fmt"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// DefaultPort is the port a locally started chromedriver listens on.
const DefaultPort = 9515

// Client is the part of selenium.WebDriver the driver uses.
// Implemented by selenium.WebDriver. Allows mocking in tests.
type Client interface {
	FindElements(by, value string) ([]selenium.WebElement, error)
	ExecuteScript(script string, args []interface{}) (interface{}, error)
	Get(url string) error
	Quit() error
}

// Config configures a WebDriver session.
type Config struct {
	WebDriverURL string // Remote endpoint; empty starts ChromeDriver locally
	ChromeDriver string // chromedriver binary path
	Port         int    // chromedriver port, DefaultPort when zero
	Browser      string // browserName capability, "chrome" when empty
	Headless     bool
	URL          string // page opened once the session starts
}

// Driver is a WebDriver-backed page.
type Driver struct {
	wd      Client
	service *selenium.Service
}

// New wraps an existing client.
func New(wd Client) *Driver {
	return &Driver{wd: wd}
}

// Open starts a WebDriver session and navigates to cfg.URL when set.
func Open(cfg Config) (*Driver, error) {
	d := &Driver{}

	endpoint := cfg.WebDriverURL
	if endpoint == "" {
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		service, err := selenium.NewChromeDriverService(cfg.ChromeDriver, port)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		d.service = service
		endpoint = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	}

	wd, err := selenium.NewRemote(capabilities(cfg), endpoint)
	if err != nil {
		d.stopService()
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	d.wd = wd
	logger.Info("selenium: session started on %s", endpoint)

	if cfg.URL != "" {
		if err := d.Navigate(cfg.URL); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

func capabilities(cfg Config) selenium.Capabilities {
	browser := cfg.Browser
	if browser == "" {
		browser = "chrome"
	}
	caps := selenium.Capabilities{"browserName": browser}

	if browser == "chrome" {
		args := []string{"--disable-dev-shm-usage", "--no-sandbox"}
		if cfg.Headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	}
	return caps
}

// Navigate opens url in the session.
func (d *Driver) Navigate(url string) error {
	logger.Info("selenium: navigating to %s", url)
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// FindElements looks loc up in the whole document.
func (d *Driver) FindElements(loc locator.Locator) ([]core.Element, error) {
	strategy, err := by(loc)
	if err != nil {
		return nil, err
	}

	found, err := d.wd.FindElements(strategy, loc.Query)
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
		jsArgs[i] = el.we
	}

	res, err := d.wd.ExecuteScript(script, jsArgs)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

// Close quits the session and stops a locally started chromedriver.
func (d *Driver) Close() error {
	var err error
	if d.wd != nil {
		err = d.wd.Quit()
	}
	d.stopService()
	logger.Info("selenium: session closed")
	return err
}

func (d *Driver) stopService() {
	if d.service != nil {
		if err := d.service.Stop(); err != nil {
			logger.Warn("selenium: stop chromedriver: %v", err)
		}
		d.service = nil
	}
}

func (d *Driver) wrap(found []selenium.WebElement) []core.Element {
	out := make([]core.Element, len(found))
	for i, we := range found {
		out[i] = &Element{driver: d, we: we}
	}
	return out
}

// Element is a WebDriver element.
type Element struct {
	driver *Driver
	we     selenium.WebElement
}

// Text returns the rendered text of the element.
func (e *Element) Text() (string, error) {
	text, err := e.we.Text()
	if err != nil {
		return "", translate(err)
	}
	return text, nil
}

// Click clicks the element.
func (e *Element) Click() error {
	if err := e.we.Click(); err != nil {
		return translate(err)
	}
	return nil
}

// FindElements looks loc up under the element.
func (e *Element) FindElements(loc locator.Locator) ([]core.Element, error) {
	strategy, err := by(loc)
	if err != nil {
		return nil, err
	}

	found, err := e.we.FindElements(strategy, loc.Query)
	if err != nil {
		return nil, translate(err)
	}
	return e.driver.wrap(found), nil
}

func by(loc locator.Locator) (string, error) {
	switch loc.Strategy {
	case locator.XPath:
		return selenium.ByXPATH, nil
	case locator.CSS:
		return selenium.ByCSSSelector, nil
	}
	return "", core.ErrInvalidLocator.WithMessage(fmt.Sprintf("unsupported locator strategy %q", loc.Strategy))
}

// translate maps WebDriver error codes onto core errors, keeping the original as cause.
func translate(err error) error {
	var werr *selenium.Error
	if !errors.As(err, &werr) {
		return err
	}

	switch werr.Err {
	case "stale element reference":
		return core.ErrStaleElement.WithCause(err)
	case "invalid selector":
		return core.ErrInvalidLocator.WithCause(err)
	case "no such element":
		return core.ErrElementNotFound.WithCause(err)
	}
	return err
}
