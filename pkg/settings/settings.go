// Package settings provides build metadata, per-run options and the
// filesystem locations the ilia CLI reads from and writes to.
package settings

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "ilia"

const defaultBuildVersion = "v0.0.0-nightly"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       unknown,
	BuildVersion: defaultBuildVersion,
	BuildTime:    unknown,
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of a single launcher invocation.
type Run struct {
	MinLogLevel int8
	// Mode is the item source in use, "drun" or "windows".
	Mode       string
	ConfigPath string
	// LogFile receives structured logs. Empty discards them.
	LogFile string
	NoColor bool
}

// NewCliParams returns the defaults used by the CLI before flags are applied.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		LogFile:     DefaultLogFile(),
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/ilia, falling back to ~/.config/ilia.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/ilia, falling back to ~/.local/state/ilia.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// DefaultConfigFile is the config file read when --config-file is not given:
// config.yaml in ConfigDir, or config.toml when only that one exists.
func DefaultConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return yamlPath
}

// DefaultLogFile is the log destination when --log-file is not given.
func DefaultLogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, CliBinaryName+".log")
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, CliBinaryName)
	}
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, fallback, CliBinaryName)
}
