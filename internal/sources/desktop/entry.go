// Package desktop lists installed applications from freedesktop.org
// desktop entry files.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/ini.v1"

	"github.com/oakwood-commons/ilia/internal/launcher"
)

const entrySection = "Desktop Entry"

var (
	// ErrNoExec marks entries that cannot be launched.
	ErrNoExec = errors.New("entry has no Exec")
	// ErrNotApplication marks Link and Directory entries.
	ErrNotApplication = errors.New("entry is not an application")

	fieldCode = regexp.MustCompile(`%[a-zA-Z%]`)
)

// Entry is one launchable application.
type Entry struct {
	// ID is the desktop file ID, e.g. org.gnome.Nautilus.desktop.
	ID          string
	Path        string
	Name        string
	GenericName string
	Comment     string
	Exec        string
	TryExec     string
	WorkDir     string
	Terminal    bool
	Categories  []string
	Keywords    []string

	// hidden covers NoDisplay, Hidden and OnlyShowIn style exclusions. Hidden
	// entries still shadow entries with the same ID in later directories.
	hidden bool

	argv    []string
	starter launcher.Starter
}

// Title implements selector.Item.
func (e Entry) Title() string { return e.Name }

// Argv is the command line with field codes removed.
func (e Entry) Argv() []string { return append([]string(nil), e.argv...) }

// Invoke starts the application.
func (e Entry) Invoke(ctx context.Context) error {
	if e.starter == nil {
		return fmt.Errorf("%s: no launcher configured", e.ID)
	}
	return e.starter.Start(ctx, launcher.Command{Argv: e.argv, Dir: e.WorkDir})
}

// Attributes exposes the entry to filter expressions.
func (e Entry) Attributes() map[string]any {
	return map[string]any{
		"id":           e.ID,
		"name":         e.Name,
		"generic_name": e.GenericName,
		"comment":      e.Comment,
		"exec":         e.Exec,
		"path":         e.Path,
		"terminal":     e.Terminal,
		"categories":   e.Categories,
		"keywords":     e.Keywords,
	}
}

// ParseEntry decodes a desktop entry file. locale selects localized keys
// such as Name[de]; desktops is the XDG_CURRENT_DESKTOP list used for
// OnlyShowIn and NotShowIn.
func ParseEntry(id, path string, data []byte, locale string, desktops []string) (Entry, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		IgnoreContinuation:  true,
		KeyValueDelimiters:  "=",
	}, data)
	if err != nil {
		return Entry{}, fmt.Errorf("parse %s: %w", path, err)
	}
	sec, err := f.GetSection(entrySection)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", path, err)
	}

	e := Entry{
		ID:          id,
		Path:        path,
		Name:        localized(sec, "Name", locale),
		GenericName: localized(sec, "GenericName", locale),
		Comment:     localized(sec, "Comment", locale),
		Exec:        sec.Key("Exec").String(),
		TryExec:     sec.Key("TryExec").String(),
		WorkDir:     sec.Key("Path").String(),
		Terminal:    sec.Key("Terminal").MustBool(false),
		Categories:  splitList(sec.Key("Categories").String()),
		Keywords:    splitList(localized(sec, "Keywords", locale)),
	}
	e.hidden = sec.Key("NoDisplay").MustBool(false) ||
		sec.Key("Hidden").MustBool(false) ||
		!shownIn(splitList(sec.Key("OnlyShowIn").String()), splitList(sec.Key("NotShowIn").String()), desktops)

	if t := sec.Key("Type").String(); t != "" && t != "Application" {
		return e, fmt.Errorf("%s: %w (Type=%s)", path, ErrNotApplication, t)
	}
	if e.hidden {
		return e, nil
	}
	if e.Name == "" {
		return e, fmt.Errorf("%s: missing Name", path)
	}
	if strings.TrimSpace(e.Exec) == "" {
		return e, fmt.Errorf("%s: %w", path, ErrNoExec)
	}
	args, err := shlex.Split(e.Exec)
	if err != nil {
		return e, fmt.Errorf("%s: split Exec: %w", path, err)
	}
	e.argv = stripFieldCodes(args)
	if len(e.argv) == 0 {
		return e, fmt.Errorf("%s: %w", path, ErrNoExec)
	}
	return e, nil
}

// stripFieldCodes removes %f, %U and friends. A standalone code is dropped
// as an argument; %% becomes a literal percent sign.
func stripFieldCodes(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if len(a) == 2 && a[0] == '%' && a[1] != '%' {
			continue
		}
		a = fieldCode.ReplaceAllStringFunc(a, func(code string) string {
			if code == "%%" {
				return "%"
			}
			return ""
		})
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// localized returns key[locale] using the lang_COUNTRY, then lang fallback.
func localized(sec *ini.Section, key, locale string) string {
	for _, l := range localeVariants(locale) {
		if k := key + "[" + l + "]"; sec.HasKey(k) {
			return sec.Key(k).String()
		}
	}
	return sec.Key(key).String()
}

// localeVariants turns de_DE.UTF-8@euro into [de_DE@euro de_DE de@euro de].
func localeVariants(locale string) []string {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return nil
	}
	modifier := ""
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale, modifier = locale[:i], locale[i:]
	}
	if i := strings.IndexByte(locale, '.'); i >= 0 {
		locale = locale[:i]
	}
	lang, country, hasCountry := strings.Cut(locale, "_")
	var out []string
	if hasCountry && modifier != "" {
		out = append(out, lang+"_"+country+modifier)
	}
	if hasCountry {
		out = append(out, lang+"_"+country)
	}
	if modifier != "" {
		out = append(out, lang+modifier)
	}
	return append(out, lang)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func shownIn(only, not, desktops []string) bool {
	if len(desktops) == 0 {
		return true
	}
	has := func(list []string) bool {
		for _, d := range desktops {
			for _, l := range list {
				if strings.EqualFold(d, l) {
					return true
				}
			}
		}
		return false
	}
	if len(only) > 0 && !has(only) {
		return false
	}
	return !has(not)
}
