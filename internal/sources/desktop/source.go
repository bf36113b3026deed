package desktop

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/oakwood-commons/ilia/internal/cel"
	"github.com/oakwood-commons/ilia/internal/launcher"
	"github.com/oakwood-commons/ilia/pkg/logger"
)

// Source loads application entries from a list of directories.
type Source struct {
	// Dirs are scanned in priority order; the first entry for an ID wins.
	Dirs []string
	// Terminal prefixes the command of entries with Terminal=true.
	Terminal []string
	Locale   string
	Desktops []string
	Filter   *cel.Predicate
	Starter  launcher.Starter

	lookPath func(string) (string, error)
}

// NewSource returns a Source over extra followed by the XDG application
// directories, with locale and desktop taken from the environment.
func NewSource(extra, terminal []string, filter *cel.Predicate, starter launcher.Starter) *Source {
	return &Source{
		Dirs:     ApplicationDirs(extra),
		Terminal: terminal,
		Locale:   envLocale(),
		Desktops: splitDesktops(os.Getenv("XDG_CURRENT_DESKTOP")),
		Filter:   filter,
		Starter:  starter,
		lookPath: exec.LookPath,
	}
}

// ApplicationDirs returns extra, then $XDG_DATA_HOME/applications, then
// applications/ under every $XDG_DATA_DIRS entry.
func ApplicationDirs(extra []string) []string {
	dirs := append([]string(nil), extra...)
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(dataDirs) {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}

type scanned struct {
	entries []Entry
	errs    []error
}

// Load implements selector.Source. Unreadable files are skipped and
// reported in the returned error alongside the entries that did load.
func (s *Source) Load(ctx context.Context) ([]Entry, error) {
	lgr := logger.FromContext(ctx).WithValues(logger.SourceKey, "drun")
	results := make([]scanned, len(s.Dirs))

	var g errgroup.Group
	g.SetLimit(max(runtime.GOMAXPROCS(0), 1))
	for i, dir := range s.Dirs {
		g.Go(func() error {
			results[i] = s.scanDir(ctx, dir)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []Entry
	var errs []error
	for i, r := range results {
		errs = append(errs, r.errs...)
		added := 0
		for _, e := range r.entries {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			if e.hidden || !s.available(e) {
				continue
			}
			e.starter = s.Starter
			if e.Terminal && len(s.Terminal) > 0 {
				e.argv = append(append([]string(nil), s.Terminal...), e.argv...)
			}
			entries = append(entries, e)
			added++
		}
		lgr.V(1).Info("scanned application dir", "dir", s.Dirs[i], "entries", added)
	}

	entries, err := cel.Filter(s.Filter, entries)
	if err != nil {
		errs = append(errs, err)
	}
	sortByName(entries)
	return entries, errors.Join(errs...)
}

// scanDir parses every .desktop file below dir. A missing dir is empty.
func (s *Source) scanDir(ctx context.Context, dir string) scanned {
	var out scanned
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			out.errs = append(out.errs, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".desktop") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			out.errs = append(out.errs, err)
			return nil
		}
		e, err := ParseEntry(fileID(rel), path, data, s.Locale, s.Desktops)
		switch {
		case errors.Is(err, ErrNotApplication):
			e.hidden = true
		case err != nil:
			out.errs = append(out.errs, err)
			return nil
		}
		out.entries = append(out.entries, e)
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipDir) {
		out.errs = append(out.errs, err)
	}
	return out
}

// available checks TryExec against PATH.
func (s *Source) available(e Entry) bool {
	if e.TryExec == "" || s.lookPath == nil {
		return true
	}
	_, err := s.lookPath(e.TryExec)
	return err == nil
}

// fileID maps a path relative to an applications dir to its desktop file ID.
func fileID(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

func sortByName(entries []Entry) {
	fold := cases.Fold()
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.ID] = fold.String(e.Name)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return keys[entries[i].ID] < keys[entries[j].ID]
	})
}

func envLocale() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitDesktops(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ":") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
