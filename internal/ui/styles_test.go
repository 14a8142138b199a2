package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestColors(t *testing.T) {
	colors := []lipgloss.Color{
		Primary, Secondary, Success, Warning, Error,
		Muted, Foreground, Border, Selected, Disabled,
	}

	for _, c := range colors {
		if c == "" {
			t.Error("Color should not be empty")
		}
	}
}

func TestStylesRender(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"AppStyle":           AppStyle,
		"TitleStyle":         TitleStyle,
		"SubtitleStyle":      SubtitleStyle,
		"PanelStyle":         PanelStyle,
		"ActivePanelStyle":   ActivePanelStyle,
		"DisabledPanelStyle": DisabledPanelStyle,
		"SelectedItemStyle":  SelectedItemStyle,
		"StatusStyle":        StatusStyle,
		"DialogStyle":        DialogStyle,
	}
	for name, s := range styles {
		if !strings.Contains(s.Render("content"), "content") {
			t.Errorf("%s should render its content", name)
		}
	}
}

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		kind NotifyKind
		icon string
	}{
		{NotifyInfo, "ℹ"},
		{NotifySuccess, "✓"},
		{NotifyWarning, "⚠"},
		{NotifyError, "✗"},
	}

	for _, tt := range tests {
		got := RenderNotification(tt.kind, "catalog reloaded")
		if !strings.Contains(got, tt.icon) {
			t.Errorf("kind %d: expected icon %s in %q", tt.kind, tt.icon, got)
		}
		if !strings.Contains(got, "catalog reloaded") {
			t.Errorf("kind %d: message missing from %q", tt.kind, got)
		}
	}
}

func TestRenderButton(t *testing.T) {
	for _, tc := range []struct{ active, disabled bool }{
		{false, false}, {true, false}, {false, true}, {true, true},
	} {
		if !strings.Contains(RenderButton("Skip", tc.active, tc.disabled), "Skip") {
			t.Errorf("button label missing for %+v", tc)
		}
	}
}

func TestRenderButtons(t *testing.T) {
	got := RenderButtons([]string{"Back", "Reload", "Create"}, 1, func(i int) bool { return i == 2 })
	for _, l := range []string{"Back", "Reload", "Create"} {
		if !strings.Contains(got, l) {
			t.Errorf("expected %s in %q", l, got)
		}
	}
}

func TestRenderSteps(t *testing.T) {
	got := RenderSteps([]string{"Welcome", "Network", "Locale"}, 1)
	if !strings.Contains(got, "● Welcome") {
		t.Errorf("past step should be marked done: %q", got)
	}
	if !strings.Contains(got, "◉ Network") {
		t.Errorf("current step should be marked: %q", got)
	}
	if !strings.Contains(got, "○ Locale") {
		t.Errorf("pending step should be marked: %q", got)
	}
}

func TestRenderField(t *testing.T) {
	got := RenderField("Interface", "eth0")
	if !strings.Contains(got, "Interface") || !strings.Contains(got, "eth0") {
		t.Errorf("unexpected field %q", got)
	}
}
