package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestLoader(dir, home string) *Loader {
	l := NewLoader(NewStore(dir), nil)
	l.SetHomeFunc(func() (string, error) { return home, nil })
	return l
}

func TestLoader_ScenarioNameAndPackageWithDefaultLogo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foo.json"), `{"name":"Foo","package":"foo-pkg"}`)

	cat, err := newTestLoader(dir, t.TempDir()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected 1 app, got %d", cat.Len())
	}

	app := cat.Apps[0]
	if app.Name != "Foo" {
		t.Errorf("expected name Foo, got %s", app.Name)
	}
	if app.PackageID != "foo-pkg" {
		t.Errorf("expected package foo-pkg, got %s", app.PackageID)
	}
	if app.LogoPath != DefaultLogo(dir) {
		t.Errorf("expected default logo %s, got %s", DefaultLogo(dir), app.LogoPath)
	}
	if app.ID != filepath.Join(dir, "foo.json") {
		t.Errorf("expected id to be the record path, got %s", app.ID)
	}
	if app.RecordPath() != app.ID {
		t.Errorf("RecordPath should equal ID")
	}
}

func TestLoader_ScenarioHomeRelativeLogo(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "x.png"), "png")
	writeFile(t, filepath.Join(dir, "bar.json"), `{"logo":"~/x.png"}`)

	cat, err := newTestLoader(dir, home).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected 1 app, got %d", cat.Len())
	}
	want := filepath.Join(home, "x.png")
	if cat.Apps[0].LogoPath != want {
		t.Errorf("expected logo %s, got %s", want, cat.Apps[0].LogoPath)
	}
}

func TestLoader_HomeRelativeLogoMissingFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bar.json"), `{"logo":"~/absent.png"}`)

	cat, err := newTestLoader(dir, t.TempDir()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Apps[0].LogoPath != DefaultLogo(dir) {
		t.Errorf("expected default logo, got %s", cat.Apps[0].LogoPath)
	}
}

func TestLoader_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "my-tool.json"), `{}`)
	writeFile(t, filepath.Join(dir, "legacy.json"), `{"packageId":"legacy-pkg"}`)
	writeFile(t, filepath.Join(dir, "both.json"), `{"package":"primary","packageId":"alias"}`)

	cat, err := newTestLoader(dir, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	byName := map[string]Application{}
	for _, a := range cat.Apps {
		byName[a.Name] = a
	}

	tool, ok := byName["my-tool"]
	if !ok {
		t.Fatalf("expected name to default to file stem, got %v", cat.Apps)
	}
	if tool.Description != "" || tool.PackageID != "" {
		t.Errorf("expected empty description and package, got %+v", tool)
	}
	if tool.LogoPath != DefaultLogo(dir) {
		t.Errorf("expected default logo, got %s", tool.LogoPath)
	}
	if byName["legacy"].PackageID != "legacy-pkg" {
		t.Errorf("expected packageId alias to be read, got %q", byName["legacy"].PackageID)
	}
	if byName["both"].PackageID != "primary" {
		t.Errorf("expected package to win over packageId, got %q", byName["both"].PackageID)
	}
}

func TestLoader_RelativeLogoResolvedAgainstRecordDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logos", "app.png"), "png")
	writeFile(t, filepath.Join(dir, "app.json"), `{"logo":"logos/app.png"}`)

	cat, err := newTestLoader(dir, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(dir, "logos", "app.png")
	if cat.Apps[0].LogoPath != want {
		t.Errorf("expected %s, got %s", want, cat.Apps[0].LogoPath)
	}
}

func TestLoader_MalformedRecordSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.json"), `{"name":"Good"}`)
	writeFile(t, filepath.Join(dir, "bad.json"), `{"name":`)

	var buf bytes.Buffer
	logger := log.New(&buf)
	l := NewLoader(NewStore(dir), logger)

	cat, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 1 || cat.Apps[0].Name != "Good" {
		t.Fatalf("expected only the good record, got %+v", cat.Apps)
	}
	if len(cat.Skipped) != 1 {
		t.Fatalf("expected 1 skipped record, got %d", len(cat.Skipped))
	}
	if cat.Skipped[0].Path != filepath.Join(dir, "bad.json") {
		t.Errorf("unexpected skipped path %s", cat.Skipped[0].Path)
	}
	if !bytes.Contains(buf.Bytes(), []byte("skipping catalog record")) {
		t.Errorf("expected a diagnostic, log was %q", buf.String())
	}
}

func TestLoader_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sm_conf", "apps")

	cat, err := newTestLoader(dir, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 0 {
		t.Errorf("expected empty catalog, got %d", cat.Len())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory to be created: %v", err)
	}
}

func TestLoader_UnavailableDirectory(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	writeFile(t, blocker, "x")

	cat, err := newTestLoader(filepath.Join(blocker, "apps"), "").Load()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if cat == nil || cat.Len() != 0 {
		t.Errorf("expected an empty catalog alongside the error")
	}
}

func TestLoader_IdempotentReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"name":"A","package":"a"}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"name":"B","description":"bee"}`)
	writeFile(t, filepath.Join(dir, "c.yaml"), "name: C\n")

	l := newTestLoader(dir, "")
	first, err := l.Load()
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := l.Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if first.Len() != second.Len() {
		t.Fatalf("counts differ: %d vs %d", first.Len(), second.Len())
	}
	sortApps := func(apps []Application) []Application {
		out := append([]Application(nil), apps...)
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}
	a, b := sortApps(first.Apps), sortApps(second.Apps)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLoader_DistinctIDs(t *testing.T) {
	dir := t.TempDir()
	files := []string{"one.json", "two.json", "three.yml", "FOUR.JSON", "skip.txt"}
	for _, f := range files {
		writeFile(t, filepath.Join(dir, f), `{}`)
	}

	cat, err := newTestLoader(dir, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() > 4 {
		t.Fatalf("expected at most 4 entries, got %d", cat.Len())
	}

	ids := map[string]bool{}
	for _, app := range cat.Apps {
		if ids[app.ID] {
			t.Errorf("duplicate id %s", app.ID)
		}
		ids[app.ID] = true

		got, ok := cat.Lookup(app.ID)
		if !ok || got != app {
			t.Errorf("Lookup(%s) = %+v, %v", app.ID, got, ok)
		}
	}
}

func TestCatalog_LookupMissing(t *testing.T) {
	var nilCat *Catalog
	if _, ok := nilCat.Lookup("x"); ok {
		t.Error("nil catalog lookup should fail")
	}
	if nilCat.Len() != 0 {
		t.Error("nil catalog should be empty")
	}
}

func TestResolveLogo(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	writeFile(t, filepath.Join(dir, "rel.png"), "png")
	writeFile(t, filepath.Join(home, "h.png"), "png")
	abs := filepath.Join(t.TempDir(), "abs.png")
	writeFile(t, abs, "png")

	tests := []struct {
		name string
		logo string
		home string
		want string
	}{
		{"empty", "", home, DefaultLogo(dir)},
		{"relative exists", "rel.png", home, filepath.Join(dir, "rel.png")},
		{"relative missing", "nope.png", home, DefaultLogo(dir)},
		{"absolute exists", abs, home, abs},
		{"absolute missing", "/no/such/logo.png", home, DefaultLogo(dir)},
		{"home exists", "~/h.png", home, filepath.Join(home, "h.png")},
		{"home unknown", "~/h.png", "", DefaultLogo(dir)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLogo(tt.logo, dir, tt.home); got != tt.want {
				t.Errorf("ResolveLogo(%q) = %s, want %s", tt.logo, got, tt.want)
			}
		})
	}
}
