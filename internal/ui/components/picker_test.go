package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestNewPicker(t *testing.T) {
	p := NewPicker("Interface", []string{"eth0", "wlan0"})
	if p.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", p.Len())
	}
	if p.Cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.Cursor)
	}
	if _, ok := p.Chosen(); ok {
		t.Error("nothing should be chosen yet")
	}
}

func TestPicker_Navigation(t *testing.T) {
	items := make([]string, 30)
	for i := range items {
		items[i] = string(rune('a' + i%26))
	}
	p := NewPicker("Zones", items)
	p.Height = 8

	p.MoveUp()
	if p.Cursor != 0 {
		t.Errorf("cursor should stay at 0, got %d", p.Cursor)
	}
	p.MoveDown()
	p.MoveDown()
	if p.Cursor != 2 {
		t.Errorf("expected cursor at 2, got %d", p.Cursor)
	}
	p.PageDown()
	if p.Cursor != 7 {
		t.Errorf("expected cursor at 7 after page down, got %d", p.Cursor)
	}
	p.PageUp()
	p.PageUp()
	if p.Cursor != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", p.Cursor)
	}
	p.GoToLast()
	if p.Cursor != 29 {
		t.Errorf("expected cursor at 29, got %d", p.Cursor)
	}
	p.MoveDown()
	if p.Cursor != 29 {
		t.Errorf("cursor should stay at the end, got %d", p.Cursor)
	}
	p.GoToFirst()
	if p.Cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.Cursor)
	}
}

func TestPicker_Filter(t *testing.T) {
	p := NewPicker("Timezone", []string{"Europe/Berlin", "Europe/Paris", "America/New_York"})
	p.GoToLast()

	p.SetFilter("europe")
	if p.Len() != 2 {
		t.Fatalf("expected 2 matches, got %d", p.Len())
	}
	if p.Cursor != 1 {
		t.Errorf("cursor should be clamped to the filtered rows, got %d", p.Cursor)
	}
	cur, ok := p.Current()
	if !ok || cur != "Europe/Paris" {
		t.Errorf("unexpected current %q", cur)
	}

	p.SetFilter("")
	if p.Len() != 3 {
		t.Errorf("clearing the filter should show every item, got %d", p.Len())
	}
}

func TestPicker_ClosestHint(t *testing.T) {
	p := NewPicker("Locale", []string{"en_US.UTF-8", "de_DE.UTF-8", "C.UTF-8"})

	if _, ok := p.Closest(); ok {
		t.Error("no hint without a filter")
	}

	p.SetFilter("en_UK.UTF-8")
	if p.Len() != 0 {
		t.Fatalf("expected no matches, got %d", p.Len())
	}
	hint, ok := p.Closest()
	if !ok || hint != "en_US.UTF-8" {
		t.Errorf("Closest() = %q, %v", hint, ok)
	}
	if !strings.Contains(ansi.Strip(p.View()), "closest: en_US.UTF-8") {
		t.Errorf("view should show the hint:\n%s", ansi.Strip(p.View()))
	}
}

func TestPicker_Choose(t *testing.T) {
	p := NewPicker("Wi-Fi", []string{"Home", "Office"})
	p.MoveDown()

	got, ok := p.Choose()
	if !ok || got != "Office" {
		t.Fatalf("Choose() = %q, %v", got, ok)
	}
	if c, ok := p.Chosen(); !ok || c != "Office" {
		t.Errorf("Chosen() = %q, %v", c, ok)
	}

	// A choice that disappears from the list is dropped
	p.SetItems([]string{"Home"})
	if _, ok := p.Chosen(); ok {
		t.Error("choice should be dropped when no longer listed")
	}

	p.Disabled = true
	if _, ok := p.Choose(); ok {
		t.Error("disabled picker should refuse a choice")
	}

	p.Disabled = false
	p.Choose()
	p.ClearChoice()
	if _, ok := p.Chosen(); ok {
		t.Error("ClearChoice should forget the choice")
	}
}

func TestPicker_KeepsDuplicates(t *testing.T) {
	p := NewPicker("Wi-Fi", []string{"A", "B", "A"})
	if p.Len() != 3 {
		t.Errorf("duplicates should be listed, got %d rows", p.Len())
	}
}

func TestPicker_View(t *testing.T) {
	empty := NewPicker("Wi-Fi", nil)
	empty.Empty = "No networks found."
	if !strings.Contains(ansi.Strip(empty.View()), "No networks found.") {
		t.Error("empty picker should show its empty text")
	}

	p := NewPicker("Interface", []string{"eth0", "wlan0"})
	p.Focused = true
	p.Choose()
	view := ansi.Strip(p.View())
	for _, s := range []string{"Interface (2)", "eth0", "wlan0", "● eth0"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q:\n%s", s, view)
		}
	}
}
