// Package driver opens the page a session config describes.
package driver

import (
	"io"
	"strings"

	"github.com/stan-task/gridcontrol/pkg/config"
	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/driver/playwright"
	"github.com/stan-task/gridcontrol/pkg/driver/rod"
	"github.com/stan-task/gridcontrol/pkg/driver/selenium"
	"github.com/stan-task/gridcontrol/pkg/driver/snapshot"
)

// Session is an open page. Closing it releases the browser behind it.
type Session interface {
	core.Page
	io.Closer
}

// Open validates cfg.Session and opens the page with the configured driver.
// Relative snapshot paths resolve against the config directory.
func Open(cfg *config.Config) (Session, error) {
	s := cfg.Session
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var (
		page Session
		err  error
	)
	switch s.Driver {
	case config.DriverSnapshot:
		page, err = openSnapshot(cfg.ResolvePath(s.Snapshot))
	case config.DriverSelenium:
		page, err = openSelenium(s)
	case config.DriverPlaywright:
		page, err = openPlaywright(s)
	case config.DriverRod:
		page, err = openRod(s)
	default:
		return nil, core.ErrUnknownDriver.WithDetails(map[string]interface{}{
			"driver":    s.Driver,
			"supported": strings.Join(config.Drivers, ","),
		})
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func openSnapshot(path string) (Session, error) {
	p, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func openSelenium(s config.Session) (Session, error) {
	d, err := selenium.Open(selenium.Config{
		WebDriverURL: s.WebDriverURL,
		ChromeDriver: s.ChromeDriver,
		Port:         s.Port,
		Browser:      s.Browser,
		Headless:     s.Headless,
		URL:          s.URL,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func openPlaywright(s config.Session) (Session, error) {
	d, err := playwright.Open(playwright.Config{
		Browser:  s.Browser,
		Headless: s.Headless,
		URL:      s.URL,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func openRod(s config.Session) (Session, error) {
	d, err := rod.Open(rod.Config{
		Headless: s.Headless,
		URL:      s.URL,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
