// Package config holds the launcher configuration and its loading rules.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// ErrNotFound is returned when an explicitly requested config file is missing.
var ErrNotFound = errors.New("config file not found")

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config is the full launcher configuration.
type Config struct {
	UI      UIConfig      `yaml:"ui" toml:"ui"`
	Keys    KeyConfig     `yaml:"keys" toml:"keys"`
	Drun    DrunConfig    `yaml:"drun" toml:"drun"`
	Windows WindowsConfig `yaml:"windows" toml:"windows"`
}

// UIConfig controls the popup.
type UIConfig struct {
	Width    int         `yaml:"width" toml:"width"`
	Rows     int         `yaml:"rows" toml:"rows"`
	RowScale float64     `yaml:"row_scale" toml:"row_scale"`
	Theme    ThemeConfig `yaml:"theme" toml:"theme"`
}

// ThemeConfig holds popup colors as hex strings.
type ThemeConfig struct {
	Border     string `yaml:"border" toml:"border"`
	Prompt     string `yaml:"prompt" toml:"prompt"`
	Text       string `yaml:"text" toml:"text"`
	Dim        string `yaml:"dim" toml:"dim"`
	SelectedFG string `yaml:"selected_fg" toml:"selected_fg"`
	SelectedBG string `yaml:"selected_bg" toml:"selected_bg"`
	Error      string `yaml:"error" toml:"error"`
}

// KeyConfig maps actions to key names as reported by bubbletea.
type KeyConfig struct {
	Cancel  []string `yaml:"cancel" toml:"cancel"`
	Up      []string `yaml:"up" toml:"up"`
	Down    []string `yaml:"down" toml:"down"`
	Execute []string `yaml:"execute" toml:"execute"`
}

// DrunConfig configures the desktop application source.
type DrunConfig struct {
	Placeholder string   `yaml:"placeholder" toml:"placeholder"`
	Dirs        []string `yaml:"dirs" toml:"dirs"`
	Terminal    []string `yaml:"terminal" toml:"terminal"`
	Filter      string   `yaml:"filter" toml:"filter"`
}

// WindowsConfig configures the sway window source.
type WindowsConfig struct {
	Placeholder string `yaml:"placeholder" toml:"placeholder"`
	Swaymsg     string `yaml:"swaymsg" toml:"swaymsg"`
	TitleWidth  int    `yaml:"title_width" toml:"title_width"`
	Filter      string `yaml:"filter" toml:"filter"`
}

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the parsed embedded configuration.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = errors.New("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	return embeddedConfig.clone(), embeddedConfigErr
}

// FormatFor picks the encoding from a file extension. Unknown extensions
// are read as YAML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Load returns the defaults overlaid with the file at path. An empty path
// yields the defaults. A missing file is an error only when required is set.
func Load(path string, required bool) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	path, err = homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !required {
				return cfg, nil
			}
			return cfg, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Overlay(data, FormatFor(path)); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Overlay decodes data on top of c. Keys absent from data keep their value;
// lists present in data replace the existing list.
func (c *Config) Overlay(data []byte, format Format) error {
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	}
	return c.Validate()
}

// Validate rejects settings the launcher cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.UI.Width <= 0 {
		errs = append(errs, fmt.Errorf("ui.width must be positive, got %d", c.UI.Width))
	}
	if c.UI.Rows <= 0 {
		errs = append(errs, fmt.Errorf("ui.rows must be positive, got %d", c.UI.Rows))
	}
	if c.UI.RowScale <= 0 {
		errs = append(errs, fmt.Errorf("ui.row_scale must be positive, got %g", c.UI.RowScale))
	}
	if c.Windows.TitleWidth <= 0 {
		errs = append(errs, fmt.Errorf("windows.title_width must be positive, got %d", c.Windows.TitleWidth))
	}
	return errors.Join(errs...)
}

// Marshal encodes c in the given format.
func (c Config) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ExpandedDirs returns Drun.Dirs with a leading ~ expanded. Entries that
// cannot be expanded are dropped.
func (c Config) ExpandedDirs() []string {
	out := make([]string, 0, len(c.Drun.Dirs))
	for _, d := range c.Drun.Dirs {
		if p, err := homedir.Expand(d); err == nil && p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) clone() Config {
	c.Keys.Cancel = append([]string(nil), c.Keys.Cancel...)
	c.Keys.Up = append([]string(nil), c.Keys.Up...)
	c.Keys.Down = append([]string(nil), c.Keys.Down...)
	c.Keys.Execute = append([]string(nil), c.Keys.Execute...)
	c.Drun.Dirs = append([]string(nil), c.Drun.Dirs...)
	c.Drun.Terminal = append([]string(nil), c.Drun.Terminal...)
	return c
}
