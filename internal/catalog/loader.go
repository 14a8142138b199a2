// Package catalog turns a directory of app descriptor records into
// selectable wizard entries.
package catalog

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Application is a display-ready catalog entry. Values are immutable once
// loaded; a reload produces a fresh set.
type Application struct {
	ID          string // Absolute path of the backing record (unique key)
	Name        string // Display name, defaults to the file stem
	Description string
	LogoPath    string // Resolved logo path, see ResolveLogo
	PackageID   string // Install identifier, may be empty
}

// RecordPath returns the file an external edit action should open.
func (a Application) RecordPath() string {
	return a.ID
}

// Catalog is the result of one load.
type Catalog struct {
	Apps    []Application
	Skipped []*RecordError

	byID map[string]int
}

// Lookup finds an application by id.
func (c *Catalog) Lookup(id string) (Application, bool) {
	if c == nil {
		return Application{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Application{}, false
	}
	return c.Apps[i], true
}

// Len returns the number of loaded applications.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Apps)
}

// Loader builds a Catalog from a Store.
type Loader struct {
	store  *Store
	home   func() (string, error)
	logger *log.Logger
}

// NewLoader creates a loader. A nil logger discards diagnostics.
func NewLoader(store *Store, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		store:  store,
		home:   os.UserHomeDir,
		logger: logger,
	}
}

// SetHomeFunc overrides how the operator's home directory is found.
func (l *Loader) SetHomeFunc(fn func() (string, error)) {
	l.home = fn
}

// Store returns the underlying record store.
func (l *Loader) Store() *Store {
	return l.store
}

// Load reads every record in the store directory. Records that fail to
// parse are logged and reported in Catalog.Skipped; only an unusable
// directory returns an error (wrapping ErrUnavailable).
//
// Entries follow directory iteration order, which callers must not rely on.
func (l *Loader) Load() (*Catalog, error) {
	if err := l.store.Ensure(); err != nil {
		return &Catalog{byID: map[string]int{}}, err
	}

	paths, err := l.store.List()
	if err != nil {
		return &Catalog{byID: map[string]int{}}, err
	}

	home, _ := l.home()
	cat := &Catalog{
		Apps: make([]Application, 0, len(paths)),
		byID: make(map[string]int, len(paths)),
	}

	for _, path := range paths {
		if _, dup := cat.byID[path]; dup {
			continue
		}

		rec, err := l.store.Read(path)
		if err != nil {
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				recErr = &RecordError{Path: path, Err: err}
			}
			l.logger.Warn("skipping catalog record", "path", path, "err", recErr.Err)
			cat.Skipped = append(cat.Skipped, recErr)
			continue
		}

		app := buildApplication(path, rec, home)
		cat.byID[app.ID] = len(cat.Apps)
		cat.Apps = append(cat.Apps, app)
	}

	l.logger.Debug("catalog loaded", "dir", l.store.Dir(), "apps", len(cat.Apps), "skipped", len(cat.Skipped))
	return cat, nil
}

func buildApplication(path string, rec Record, home string) Application {
	base := filepath.Base(path)
	app := Application{
		ID:   path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
	if rec.Name != nil {
		app.Name = *rec.Name
	}
	if rec.Description != nil {
		app.Description = *rec.Description
	}
	switch {
	case rec.Package != nil:
		app.PackageID = *rec.Package
	case rec.PackageID != nil:
		app.PackageID = *rec.PackageID
	}

	logo := ""
	if rec.Logo != nil {
		logo = *rec.Logo
	}
	app.LogoPath = ResolveLogo(logo, filepath.Dir(path), home)
	return app
}

// DefaultLogo returns the fallback logo path for records in dir.
func DefaultLogo(dir string) string {
	return filepath.Join(dir, "logos", "default.png")
}

// ResolveLogo applies the logo fallback chain: a leading "~" expands to
// home, a relative path is taken relative to recordDir, and a path that does
// not exist falls back to DefaultLogo(recordDir).
func ResolveLogo(logo, recordDir, home string) string {
	if home != "" && (logo == "~" || strings.HasPrefix(logo, "~/")) {
		logo = filepath.Join(home, strings.TrimPrefix(logo, "~"))
	}
	if logo != "" && !filepath.IsAbs(logo) {
		logo = filepath.Join(recordDir, logo)
	}
	if logo == "" || !fileExists(logo) {
		return DefaultLogo(recordDir)
	}
	return logo
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
