package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	Foreground = lipgloss.Color("#F9FAFB") // Light
	Border     = lipgloss.Color("#374151") // Border gray
	Selected   = lipgloss.Color("#4F46E5") // Indigo
	Disabled   = lipgloss.Color("#4B5563") // Dim gray
)

// Styles
var (
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Screen header
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			MarginBottom(1)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Step indicator
	StepDoneStyle = lipgloss.NewStyle().
			Foreground(Success)

	StepCurrentStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	StepPendingStyle = lipgloss.NewStyle().
				Foreground(Muted)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)

	DisabledPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Disabled).
				Foreground(Disabled).
				Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	// List items
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Selected).
				Foreground(Foreground)

	CursorStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Labels and values on summary screens
	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	// Status line under the network panels
	StatusStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			MarginTop(1)

	// Help bar
	HelpBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Notification styles
	SuccessNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#10B981")).
				Background(lipgloss.Color("#064E3B")).
				Padding(0, 1).
				Bold(true)

	ErrorNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FCA5A5")).
				Background(lipgloss.Color("#7F1D1D")).
				Padding(0, 1).
				Bold(true)

	WarningNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FCD34D")).
				Background(lipgloss.Color("#78350F")).
				Padding(0, 1).
				Bold(true)

	InfoNotifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93C5FD")).
			Background(lipgloss.Color("#1E3A5F")).
			Padding(0, 1).
			Bold(true)

	// Dialog box
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2).
			Width(56)

	// Buttons
	ButtonStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Border).
			Padding(0, 2)

	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Padding(0, 2).
				Bold(true)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(Disabled).
				Padding(0, 2)
)

// NotifyKind selects a notification style
type NotifyKind int

const (
	NotifyInfo NotifyKind = iota
	NotifySuccess
	NotifyWarning
	NotifyError
)

// RenderNotification renders a styled notification message
func RenderNotification(kind NotifyKind, message string) string {
	var icon string
	var style lipgloss.Style

	switch kind {
	case NotifySuccess:
		icon = "✓"
		style = SuccessNotifyStyle
	case NotifyError:
		icon = "✗"
		style = ErrorNotifyStyle
	case NotifyWarning:
		icon = "⚠"
		style = WarningNotifyStyle
	default:
		icon = "ℹ"
		style = InfoNotifyStyle
	}

	return style.Render(icon + " " + message)
}

// RenderButton renders a button. Disabled wins over active.
func RenderButton(label string, active, disabled bool) string {
	switch {
	case disabled:
		return ButtonDisabledStyle.Render(label)
	case active:
		return ButtonActiveStyle.Render(label)
	default:
		return ButtonStyle.Render(label)
	}
}

// RenderButtons lays out a row of buttons, highlighting focus
func RenderButtons(labels []string, focus int, disabled func(i int) bool) string {
	parts := make([]string, 0, len(labels)*2)
	for i, l := range labels {
		if i > 0 {
			parts = append(parts, " ")
		}
		off := disabled != nil && disabled(i)
		parts = append(parts, RenderButton(l, i == focus, off))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderSteps renders the wizard progress line, e.g. "● Welcome ─ ○ Network"
func RenderSteps(names []string, current int) string {
	parts := make([]string, len(names))
	for i, n := range names {
		switch {
		case i < current:
			parts[i] = StepDoneStyle.Render("● " + n)
		case i == current:
			parts[i] = StepCurrentStyle.Render("◉ " + n)
		default:
			parts[i] = StepPendingStyle.Render("○ " + n)
		}
	}
	return strings.Join(parts, MutedStyle.Render(" ─ "))
}

// RenderField renders a label/value row
func RenderField(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}
