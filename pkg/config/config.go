// Package config handles configuration for gridctl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stan-task/gridcontrol/pkg/core"
	"github.com/stan-task/gridcontrol/pkg/locator"
)

// Driver names accepted in session.driver.
const (
	DriverSnapshot   = "snapshot"
	DriverSelenium   = "selenium"
	DriverPlaywright = "playwright"
	DriverRod        = "rod"
)

// Drivers lists every supported driver name.
var Drivers = []string{DriverSnapshot, DriverSelenium, DriverPlaywright, DriverRod}

// Config represents the workspace configuration (gridctl.yaml).
type Config struct {
	Session Session         `yaml:"session"`
	Grids   map[string]Grid `yaml:"grids"`

	// Dir is the directory the config was loaded from; relative paths resolve against it.
	Dir string `yaml:"-"`
}

// Session describes how to open the page the grids live on.
type Session struct {
	Driver       string `yaml:"driver"`       // snapshot, selenium, playwright or rod
	URL          string `yaml:"url"`          // Page to open (live drivers)
	WebDriverURL string `yaml:"webdriverUrl"` // Remote WebDriver endpoint (selenium)
	ChromeDriver string `yaml:"chromedriver"` // Local chromedriver binary started by the selenium driver
	Port         int    `yaml:"port"`         // Port for the local chromedriver
	Browser      string `yaml:"browser"`      // Browser name (selenium capabilities)
	Headless     bool   `yaml:"headless"`
	Snapshot     string `yaml:"snapshot"` // HTML file (snapshot driver)
}

// Grid describes where a grid lives on the page.
type Grid struct {
	XPath     string   `yaml:"xpath"`
	CSS       string   `yaml:"css"`
	Locators  []string `yaml:"locators"`  // Fallback roots, "xpath=" or "css=" prefixed
	RowsQuery string   `yaml:"rowsQuery"` // CSS query selecting data rows
}

// Roots returns the root locators of the grid in the order they are tried.
func (g Grid) Roots() ([]locator.Locator, error) {
	var roots []locator.Locator
	if g.XPath != "" {
		roots = append(roots, locator.ByXPath(g.XPath))
	}
	if g.CSS != "" {
		roots = append(roots, locator.ByCSS(g.CSS))
	}
	for _, s := range g.Locators {
		loc, err := locator.Parse(s)
		if err != nil {
			return nil, err
		}
		roots = append(roots, loc)
	}
	return roots, nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)

	return &cfg, nil
}

// LoadFromDir looks for gridctl.yaml or gridctl.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try gridctl.yaml first
	configPath := filepath.Join(dir, "gridctl.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try gridctl.yml
	configPath = filepath.Join(dir, "gridctl.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{Dir: dir}, nil
}

// Grid returns the named grid.
func (c *Config) Grid(name string) (Grid, error) {
	g, ok := c.Grids[name]
	if !ok {
		return Grid{}, core.ErrInvalidConfig.
			WithMessage(fmt.Sprintf("grid %q is not defined", name)).
			WithDetails(map[string]interface{}{"known": strings.Join(c.GridNames(), ",")})
	}
	return g, nil
}

// GridNames returns the configured grid names, sorted.
func (c *Config) GridNames() []string {
	names := make([]string, 0, len(c.Grids))
	for name := range c.Grids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePath resolves a path from the config against the config directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Validate checks the session and every grid.
func (c *Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return err
	}
	for _, name := range c.GridNames() {
		g := c.Grids[name]
		roots, err := g.Roots()
		if err != nil {
			return core.ErrInvalidConfig.
				WithMessage(fmt.Sprintf("grid %q has an invalid locator", name)).
				WithCause(err)
		}
		if len(roots) == 0 {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("grid %q has no xpath, css or locators", name))
		}
	}
	return nil
}

// Validate checks that the session names a known driver with its required inputs.
func (s Session) Validate() error {
	switch s.Driver {
	case DriverSnapshot:
		if s.Snapshot == "" {
			return core.ErrInvalidConfig.WithMessage("snapshot driver requires session.snapshot")
		}
	case DriverSelenium:
		if s.WebDriverURL == "" && s.ChromeDriver == "" {
			return core.ErrInvalidConfig.WithMessage("selenium driver requires session.webdriverUrl or session.chromedriver")
		}
	case DriverPlaywright, DriverRod:
		if s.URL == "" {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("%s driver requires session.url", s.Driver))
		}
	case "":
		return core.ErrInvalidConfig.WithMessage("session.driver is required")
	default:
		return core.ErrUnknownDriver.
			WithDetails(map[string]interface{}{"driver": s.Driver, "supported": strings.Join(Drivers, ",")})
	}
	return nil
}
