package config

import (
	"os"
	"path/filepath"
	"sync"
)

// EnvHome overrides the gridctl home directory.
const EnvHome = "GRIDCTL_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// homeSources are tried in order; the first one that answers wins.
var homeSources = []func() (string, bool){
	homeFromEnv,
	homeFromExecutable,
	homeFromWorkdir,
}

// GetHome returns the gridctl home directory. It holds the fallback
// gridctl.yaml, the snapshots/ directory that --snapshot names are looked up
// in and the exports/ directory tables are written to.
//
// $GRIDCTL_HOME wins. An installed binary at <home>/bin/gridctl uses <home>.
// Otherwise the working directory is the home. The result is computed once.
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetSnapshotsDir returns the directory saved HTML snapshots are read from.
func GetSnapshotsDir() string {
	return filepath.Join(GetHome(), "snapshots")
}

// GetExportsDir returns the directory table exports default to.
func GetExportsDir() string {
	return filepath.Join(GetHome(), "exports")
}

func resolveHome() string {
	for _, source := range homeSources {
		if dir, ok := source(); ok {
			return dir
		}
	}
	return "."
}

func homeFromEnv() (string, bool) {
	dir := os.Getenv(EnvHome)
	return dir, dir != ""
}

func homeFromExecutable() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return installRoot(exe)
}

// installRoot returns <home> for a binary laid out as <home>/bin/<name>.
func installRoot(exe string) (string, bool) {
	dir := filepath.Dir(exe)
	if filepath.Base(dir) != "bin" {
		return "", false
	}
	return filepath.Dir(dir), true
}

func homeFromWorkdir() (string, bool) {
	cwd, err := os.Getwd()
	return cwd, err == nil
}

// ResetHome forgets the cached home so the next GetHome resolves it again.
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
