package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/oakwood-commons/ilia/internal/cel"
	"github.com/oakwood-commons/ilia/internal/config"
	"github.com/oakwood-commons/ilia/pkg/settings"
)

// configLoader centralizes config loading and filter compilation so
// subcommands avoid duplicating the resolution rules.
type configLoader struct {
	load        func(path string, required bool) (config.Config, error)
	defaultPath func() string
}

var cfgLoader = configLoader{load: config.Load, defaultPath: settings.DefaultConfigFile}

func loadConfig() (config.Config, error) {
	return cfgLoader.loadConfig(configFile)
}

// resolveConfigPath returns the explicit path, which must exist, or the
// default XDG location, which may be absent.
func (l configLoader) resolveConfigPath(explicit string) (string, bool) {
	if p := strings.TrimSpace(explicit); p != "" {
		return p, true
	}
	if env := strings.TrimSpace(os.Getenv("ILIA_CONFIG")); env != "" {
		return env, true
	}
	return l.defaultPath(), false
}

func (l configLoader) loadConfig(explicit string) (config.Config, error) {
	path, required := l.resolveConfigPath(explicit)
	cfg, err := l.load(path, required)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// compileFilter compiles the predicate configured under key. An empty
// expression yields a nil predicate that keeps every item.
func compileFilter(key, expr string) (*cel.Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	ev, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}
	p, err := ev.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return p, nil
}
