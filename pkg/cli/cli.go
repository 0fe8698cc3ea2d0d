// Package cli provides the command-line interface for gridctl.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stan-task/gridcontrol/pkg/config"
	"github.com/stan-task/gridcontrol/pkg/control/grid"
	"github.com/stan-task/gridcontrol/pkg/driver"
	"github.com/stan-task/gridcontrol/pkg/locator"
	"github.com/stan-task/gridcontrol/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to gridctl.yaml (default: ./gridctl.yaml, then $GRIDCTL_HOME/gridctl.yaml)",
		EnvVars: []string{"GRIDCTL_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (snapshot, selenium, playwright, rod)",
		EnvVars: []string{"GRIDCTL_DRIVER"},
	},
	&cli.StringFlag{
		Name:    "snapshot",
		Usage:   "HTML file to load (snapshot driver)",
		EnvVars: []string{"GRIDCTL_SNAPSHOT"},
	},
	&cli.StringFlag{
		Name:    "url",
		Usage:   "Page to open (live drivers)",
		EnvVars: []string{"GRIDCTL_URL"},
	},
	&cli.StringFlag{
		Name:    "webdriver-url",
		Usage:   "Remote WebDriver endpoint (selenium driver)",
		EnvVars: []string{"GRIDCTL_WEBDRIVER_URL"},
	},
	&cli.StringFlag{
		Name:    "browser",
		Usage:   "Browser name (chrome, firefox, chromium, webkit)",
		EnvVars: []string{"GRIDCTL_BROWSER"},
	},
	&cli.BoolFlag{
		Name:    "headless",
		Usage:   "Run the browser headless",
		EnvVars: []string{"GRIDCTL_HEADLESS"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"GRIDCTL_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file instead of stderr",
		EnvVars: []string{"GRIDCTL_LOG_FILE"},
	},
}

// Execute runs the CLI.
func Execute() {
	if err := loadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "gridctl",
		Usage:   "Inspect and drive data grids on web pages",
		Version: Version,
		Description: `gridctl opens a page with the configured driver and runs grid
operations against the grids named in gridctl.yaml.

Examples:
  gridctl table orders
  gridctl table --format xlsx orders
  gridctl cell orders 1 2
  gridctl count --by cell orders Acme
  gridctl --driver snapshot --snapshot orders.html check dirty orders
  gridctl locators --column 2 --text Acme orders`,
		Flags:  GlobalFlags,
		Before: setupLogging,
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			tableCommand,
			cellCommand,
			countCommand,
			selectCommand,
			scrollCommand,
			checkCommand,
			locatorsCommand,
		},
	}
}

// loadEnvFiles loads .env files into the environment before flags are parsed.
// Variables already set are kept. A missing file is not an error.
func loadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func setupLogging(c *cli.Context) error {
	logger.SetVerbose(c.Bool("verbose"))
	if path := c.String("log-file"); path != "" {
		return logger.Init(path)
	}
	logger.SetOutput(c.App.ErrWriter)
	return nil
}

// loadConfig loads the workspace config and applies the session flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = findConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	s := &cfg.Session
	if c.IsSet("driver") {
		s.Driver = c.String("driver")
	}
	if c.IsSet("snapshot") {
		s.Snapshot = resolveSnapshot(c.String("snapshot"))
		if s.Driver == "" {
			s.Driver = config.DriverSnapshot
		}
	}
	if c.IsSet("url") {
		s.URL = c.String("url")
	}
	if c.IsSet("webdriver-url") {
		s.WebDriverURL = c.String("webdriver-url")
	}
	if c.IsSet("browser") {
		s.Browser = c.String("browser")
	}
	if c.IsSet("headless") {
		s.Headless = c.Bool("headless")
	}
	return cfg, nil
}

// findConfig looks in the working directory, then in the gridctl home.
func findConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromDir(cwd)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Driver != "" || len(cfg.Grids) > 0 {
		return cfg, nil
	}
	if home := config.GetHome(); home != cwd {
		return config.LoadFromDir(home)
	}
	return cfg, nil
}

// resolveSnapshot makes a snapshot path from the command line absolute. A
// relative path that does not exist is looked up in the snapshots directory.
func resolveSnapshot(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err != nil {
		saved := filepath.Join(config.GetSnapshotsDir(), p)
		if _, err := os.Stat(saved); err == nil {
			return saved
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// lookupGrid resolves a grid argument: a grid name from the config, or an
// inline "xpath=" / "css=" root locator.
func lookupGrid(cfg *config.Config, arg string) (config.Grid, error) {
	if arg == "" {
		return config.Grid{}, fmt.Errorf("grid name is required")
	}
	if g, ok := cfg.Grids[arg]; ok {
		return g, nil
	}
	if strings.HasPrefix(arg, "xpath=") || strings.HasPrefix(arg, "css=") {
		if _, err := locator.Parse(arg); err != nil {
			return config.Grid{}, err
		}
		return config.Grid{Locators: []string{arg}}, nil
	}
	return cfg.Grid(arg)
}

// withGrid opens the session and runs fn against the named grid.
func withGrid(c *cli.Context, name string, fn func(*grid.LocalTable) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	gc, err := lookupGrid(cfg, name)
	if err != nil {
		return err
	}
	roots, err := gc.Roots()
	if err != nil {
		return err
	}

	page, err := driver.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logger.Warn("close session: %v", cerr)
		}
	}()

	logger.Debug("grid %s: roots %v", name, roots)
	return fn(grid.NewLocalTable(page, name, gc.RowsQuery, roots...))
}
