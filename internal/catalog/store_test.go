package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file error = %v", err)
	}
}

func TestStore_EnsureCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sm_conf", "apps")
	store := NewStore(dir)

	if err := store.Ensure(); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist, err = %v", err)
	}

	// Second call is a no-op
	if err := store.Ensure(); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
}

func TestStore_EnsureUnavailable(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	writeFile(t, blocker, "not a dir")

	store := NewStore(filepath.Join(blocker, "apps"))
	err := store.Ensure()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestStore_ListFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{}`)
	writeFile(t, filepath.Join(dir, "b.yaml"), `name: B`)
	writeFile(t, filepath.Join(dir, "c.yml"), `name: C`)
	writeFile(t, filepath.Join(dir, "notes.txt"), `ignored`)
	writeFile(t, filepath.Join(dir, "logos", "default.png"), `png`)
	if err := os.Mkdir(filepath.Join(dir, "dir.json"), 0755); err != nil {
		t.Fatal(err)
	}

	paths, err := NewStore(dir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 records, got %d: %v", len(paths), paths)
	}

	seen := map[string]bool{}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			t.Errorf("expected absolute path, got %s", p)
		}
		if seen[p] {
			t.Errorf("duplicate path %s", p)
		}
		seen[p] = true
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	_, err := store.List()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestStore_Read(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
		check   func(t *testing.T, r Record)
	}{
		{
			name:    "full json",
			file:    "full.json",
			content: `{"name":"Foo","description":"Bar","logo":"x.png","package":"foo-pkg"}`,
			check: func(t *testing.T, r Record) {
				if r.Name == nil || *r.Name != "Foo" {
					t.Errorf("unexpected name %v", r.Name)
				}
				if r.Package == nil || *r.Package != "foo-pkg" {
					t.Errorf("unexpected package %v", r.Package)
				}
			},
		},
		{
			name:    "partial json keeps absent keys nil",
			file:    "partial.json",
			content: `{"description":""}`,
			check: func(t *testing.T, r Record) {
				if r.Name != nil {
					t.Errorf("expected nil name, got %q", *r.Name)
				}
				if r.Description == nil || *r.Description != "" {
					t.Errorf("expected empty description")
				}
			},
		},
		{
			name:    "yaml record",
			file:    "rec.yaml",
			content: "name: Yam\npackageId: yam-pkg\n",
			check: func(t *testing.T, r Record) {
				if r.Name == nil || *r.Name != "Yam" {
					t.Errorf("unexpected name %v", r.Name)
				}
				if r.PackageID == nil || *r.PackageID != "yam-pkg" {
					t.Errorf("unexpected packageId %v", r.PackageID)
				}
			},
		},
		{name: "malformed json", file: "bad.json", content: `{"name":`, wantErr: true},
		{name: "json array", file: "arr.json", content: `["a"]`, wantErr: true},
		{name: "json null", file: "null.json", content: `null`, wantErr: true},
		{name: "wrong type", file: "type.json", content: `{"name": 5}`, wantErr: true},
		{name: "trailing data", file: "trail.json", content: `{} {}`, wantErr: true},
		{name: "empty file", file: "empty.json", content: ``, wantErr: true},
		{name: "yaml sequence", file: "seq.yaml", content: "- a\n- b\n", wantErr: true},
	}

	store := NewStore(dir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			rec, err := store.Read(path)
			if tt.wantErr {
				var recErr *RecordError
				if !errors.As(err, &recErr) {
					t.Fatalf("expected RecordError, got %v", err)
				}
				if recErr.Path != path {
					t.Errorf("expected path %s, got %s", path, recErr.Path)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			tt.check(t, rec)
		})
	}
}

func TestStore_CreateWritesTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "apps")
	store := NewStore(dir)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	path, err := store.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Base(path) != "new_app_1700000000.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error = %v", err)
	}
	if !strings.Contains(string(data), "\n    \"name\"") {
		t.Errorf("expected 4-space indentation, got:\n%s", data)
	}

	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("template is not valid JSON: %v", err)
	}
	want := map[string]string{
		"name":        "New App",
		"description": "Description here",
		"logo":        "logos/default.png",
		"package":     "package-name",
	}
	if len(got) != len(want) {
		t.Errorf("expected %d keys, got %d: %v", len(want), len(got), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("key %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestStore_CreateAvoidsCollision(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	store.now = func() time.Time { return time.Unix(42, 0) }

	first, err := store.Create()
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	second, err := store.Create()
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if first == second {
		t.Fatal("expected distinct paths for records created in the same second")
	}
	if !strings.HasPrefix(filepath.Base(second), "new_app_42_") {
		t.Errorf("unexpected collision name %s", filepath.Base(second))
	}
}
