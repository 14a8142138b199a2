package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestLookupRepo_NotARepo(t *testing.T) {
	if _, ok := LookupRepo(t.TempDir(), ""); ok {
		t.Error("plain directory should not be a repo")
	}
}

func TestLookupRepo_DetectsParentRepo(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit error = %v", err)
	}

	apps := filepath.Join(root, "apps")
	writeFile(t, filepath.Join(apps, "a.json"), `{}`)

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("apps/a.json"); err != nil {
		t.Fatal(err)
	}
	_, err = wt.Commit("add catalog", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit error = %v", err)
	}

	info, ok := LookupRepo(apps, "")
	if !ok {
		t.Fatal("expected repo to be found from a subdirectory")
	}
	if info.Branch == "" {
		t.Error("expected a branch name after the first commit")
	}
	if info.Dirty {
		t.Error("expected clean worktree")
	}

	writeFile(t, filepath.Join(apps, "b.json"), `{}`)
	info, _ = LookupRepo(apps, "")
	if !info.Dirty {
		t.Error("expected dirty worktree after adding an untracked record")
	}
	if info.Label() != info.Branch+"*" {
		t.Errorf("unexpected label %s", info.Label())
	}
}

func TestLookupRepo_StopsAtCeiling(t *testing.T) {
	home := t.TempDir()
	if _, err := git.PlainInit(home, false); err != nil {
		t.Fatalf("PlainInit error = %v", err)
	}
	apps := filepath.Join(home, "sm_conf", "apps")
	writeFile(t, filepath.Join(apps, "a.json"), `{}`)

	tests := []struct {
		name    string
		ceiling string
		want    bool
	}{
		{"no ceiling", "", true},
		{"repo at ceiling", home, false},
		{"ceiling below repo root", filepath.Join(home, "sm_conf"), false},
		{"ceiling elsewhere", t.TempDir(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := LookupRepo(apps, tt.ceiling); ok != tt.want {
				t.Errorf("LookupRepo(apps, %q) ok = %v, want %v", tt.ceiling, ok, tt.want)
			}
		})
	}

	// A repository of its own below the ceiling is still found
	conf := filepath.Join(home, "sm_conf")
	if _, err := git.PlainInit(conf, false); err != nil {
		t.Fatalf("PlainInit error = %v", err)
	}
	if _, ok := LookupRepo(apps, home); !ok {
		t.Error("expected the catalog repo below the ceiling to be found")
	}
}

func TestRepoInfo_Label(t *testing.T) {
	if got := (RepoInfo{}).Label(); got != "no commits" {
		t.Errorf("unexpected label %q", got)
	}
	if got := (RepoInfo{Branch: "main"}).Label(); got != "main" {
		t.Errorf("unexpected label %q", got)
	}
}
