package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
)

// setHome points HOME at dir and drops go-homedir's cached lookup so the
// fallback paths follow it.
func setHome(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("HOME", dir)
	homedir.Reset()
	t.Cleanup(homedir.Reset)
}

func TestNewCliParams(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	got := NewCliParams()
	want := Run{
		MinLogLevel: 0,
		LogFile:     filepath.Join("/tmp/state", "ilia", "ilia.log"),
	}
	if *got != want {
		t.Errorf("NewCliParams() = %+v, want %+v", *got, want)
	}
}

func TestXDGDirs(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		home  string
		check func() string
		want  string
	}{
		{
			name:  "config_from_xdg",
			env:   map[string]string{"XDG_CONFIG_HOME": "/cfg"},
			check: DefaultConfigFile,
			want:  filepath.Join("/cfg", "ilia", "config.yaml"),
		},
		{
			name:  "config_from_home",
			env:   map[string]string{"XDG_CONFIG_HOME": ""},
			home:  "/home/u",
			check: DefaultConfigFile,
			want:  filepath.Join("/home/u", ".config", "ilia", "config.yaml"),
		},
		{
			name:  "state_from_xdg",
			env:   map[string]string{"XDG_STATE_HOME": "/st"},
			check: DefaultLogFile,
			want:  filepath.Join("/st", "ilia", "ilia.log"),
		},
		{
			name:  "state_from_home",
			env:   map[string]string{"XDG_STATE_HOME": ""},
			home:  "/home/u",
			check: StateDir,
			want:  filepath.Join("/home/u", ".local", "state", "ilia"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.home != "" {
				setHome(t, tt.home)
			}
			if got := tt.check(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHomeFallbackIgnoresEarlierLookups(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	setHome(t, "/home/first")
	if got, want := StateDir(), filepath.Join("/home/first", ".local", "state", "ilia"); got != want {
		t.Fatalf("StateDir() = %q, want %q", got, want)
	}

	setHome(t, "/home/second")
	if got, want := StateDir(), filepath.Join("/home/second", ".local", "state", "ilia"); got != want {
		t.Errorf("StateDir() after HOME change = %q, want %q", got, want)
	}
}

func TestDefaultConfigFileFormats(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	dir := filepath.Join(base, "ilia")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "config.yaml")
	tomlPath := filepath.Join(dir, "config.toml")

	if got := DefaultConfigFile(); got != yamlPath {
		t.Errorf("no files: got %q, want %q", got, yamlPath)
	}

	if err := os.WriteFile(tomlPath, []byte("[ui]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := DefaultConfigFile(); got != tomlPath {
		t.Errorf("toml only: got %q, want %q", got, tomlPath)
	}

	if err := os.WriteFile(yamlPath, []byte("ui: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := DefaultConfigFile(); got != yamlPath {
		t.Errorf("both: got %q, want %q", got, yamlPath)
	}
}
