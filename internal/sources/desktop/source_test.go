package desktop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ilia/internal/cel"
)

func writeEntry(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[Desktop Entry]\nType=Application\n"+body), 0o644))
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func newTestSource(dirs ...string) *Source {
	return &Source{
		Dirs:     dirs,
		Terminal: []string{"foot", "-e"},
		Starter:  &recordingStarter{},
		lookPath: func(name string) (string, error) {
			if name == "missing-binary" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		},
	}
}

func TestSourceLoad(t *testing.T) {
	user := t.TempDir()
	system := t.TempDir()

	writeEntry(t, system, "zathura.desktop", "Name=zathura\nExec=zathura %U\n")
	writeEntry(t, system, "files.desktop", "Name=Files\nExec=nautilus\n")
	writeEntry(t, system, "htop.desktop", "Name=htop\nExec=htop\nTerminal=true\n")
	writeEntry(t, system, "kde4/dolphin.desktop", "Name=Dolphin\nExec=dolphin\n")
	writeEntry(t, system, "secret.desktop", "Name=Secret\nExec=secret\nNoDisplay=true\n")
	writeEntry(t, system, "gone.desktop", "Name=Gone\nExec=gone\nTryExec=missing-binary\n")
	writeEntry(t, system, "broken.desktop", "Name=Broken\n")
	require.NoError(t, os.WriteFile(filepath.Join(system, "README"), []byte("not an entry"), 0o644))

	// user overrides: rename one entry, hide another
	writeEntry(t, user, "files.desktop", "Name=Alpha Files\nExec=nautilus --new-window\n")
	writeEntry(t, user, "zathura.desktop", "Name=zathura\nExec=zathura\nHidden=true\n")

	src := newTestSource(user, filepath.Join(t.TempDir(), "does-not-exist"), system)
	entries, err := src.Load(context.Background())
	require.Error(t, err, "broken.desktop has no Exec")
	assert.ErrorIs(t, err, ErrNoExec)

	assert.Equal(t, []string{"Alpha Files", "Dolphin", "htop"}, names(entries))
	assert.Equal(t, "kde4-dolphin.desktop", entries[1].ID)
	assert.Equal(t, []string{"nautilus", "--new-window"}, entries[0].Argv())
	assert.Equal(t, []string{"foot", "-e", "htop"}, entries[2].Argv())

	require.NoError(t, entries[1].Invoke(context.Background()))
	rec := src.Starter.(*recordingStarter)
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"dolphin"}, rec.cmds[0].Argv)
}

func TestSourceLoadAppliesFilter(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "a.desktop", "Name=Editor\nExec=ed\nCategories=Utility;TextEditor;\n")
	writeEntry(t, dir, "b.desktop", "Name=Game\nExec=game\nCategories=Game;\n")

	ev, err := cel.NewEvaluator()
	require.NoError(t, err)
	pred, err := ev.Compile(`!("Game" in _.categories)`)
	require.NoError(t, err)

	src := newTestSource(dir)
	src.Filter = pred
	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Editor"}, names(entries))
}

func TestSourceLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "a.desktop", "Name=A\nExec=a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestSource(dir).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSourceLoadEmpty(t *testing.T) {
	entries, err := newTestSource().Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplicationDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/home/u/.local/share")
	t.Setenv("XDG_DATA_DIRS", "/usr/local/share:/usr/share:")
	assert.Equal(t, []string{
		"/opt/apps",
		"/home/u/.local/share/applications",
		"/usr/local/share/applications",
		"/usr/share/applications",
	}, ApplicationDirs([]string{"/opt/apps"}))

	t.Setenv("XDG_DATA_DIRS", "")
	dirs := ApplicationDirs(nil)
	assert.Equal(t, "/usr/share/applications", dirs[len(dirs)-1])
}

func TestNewSourceReadsEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	t.Setenv("XDG_CURRENT_DESKTOP", "sway:wlroots")

	src := NewSource(nil, []string{"foot"}, nil, nil)
	assert.Equal(t, "de_DE.UTF-8", src.Locale)
	assert.Equal(t, []string{"sway", "wlroots"}, src.Desktops)
	assert.NotEmpty(t, src.Dirs)
}

func TestFileID(t *testing.T) {
	assert.Equal(t, "firefox.desktop", fileID("firefox.desktop"))
	assert.Equal(t, "kde4-kate.desktop", fileID(filepath.Join("kde4", "kate.desktop")))
}
