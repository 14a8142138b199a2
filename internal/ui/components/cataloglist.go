package components

import (
	"fmt"
	"strings"

	"shadowmite/internal/catalog"
	"shadowmite/internal/ui"
)

// CatalogList shows the loaded catalog on the Apps screen
type CatalogList struct {
	listCursor

	Apps    []catalog.Application
	Skipped int    // Records that failed to parse
	Repo    string // Catalog repository label, empty when not under git
	Width   int
	Focused bool
	Title   string
}

// NewCatalogList creates a new catalog list
func NewCatalogList() *CatalogList {
	return &CatalogList{
		listCursor: listCursor{Height: 15},
		Width:      60,
		Focused:    true,
		Title:      "Applications",
	}
}

// SetCatalog replaces the displayed entries. The cursor stays on the same
// record when it is still present.
func (l *CatalogList) SetCatalog(cat *catalog.Catalog) {
	prev := ""
	if cur, ok := l.Current(); ok {
		prev = cur.ID
	}

	l.Apps, l.Skipped = nil, 0
	if cat != nil {
		l.Apps = cat.Apps
		l.Skipped = len(cat.Skipped)
	}

	for i, a := range l.Apps {
		if a.ID == prev {
			l.Cursor = i
			return
		}
	}
	l.clamp(len(l.Apps))
}

// MoveUp moves cursor up
func (l *CatalogList) MoveUp() { l.up() }

// MoveDown moves cursor down
func (l *CatalogList) MoveDown() { l.down(len(l.Apps)) }

// PageUp moves cursor up by a page
func (l *CatalogList) PageUp() { l.pageUp() }

// PageDown moves cursor down by a page
func (l *CatalogList) PageDown() { l.pageDown(len(l.Apps)) }

// GoToFirst moves cursor to the first item
func (l *CatalogList) GoToFirst() { l.Cursor = 0 }

// GoToLast moves cursor to the last item
func (l *CatalogList) GoToLast() { l.last(len(l.Apps)) }

// Current returns the entry under the cursor
func (l *CatalogList) Current() (catalog.Application, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Apps) {
		return catalog.Application{}, false
	}
	return l.Apps[l.Cursor], true
}

// View renders the catalog list
func (l *CatalogList) View() string {
	var b strings.Builder

	title := l.Title
	if len(l.Apps) > 0 {
		title = fmt.Sprintf("%s (%d)", l.Title, len(l.Apps))
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	if l.Repo != "" {
		b.WriteString(ui.MutedStyle.Render("  git: " + l.Repo))
	}
	b.WriteString("\n")

	if len(l.Apps) == 0 {
		b.WriteString(ui.MutedStyle.Render("No apps found. Press n to create one."))
		b.WriteString(l.skippedLine())
		return l.wrapInPanel(b.String())
	}

	// Each entry takes two rows
	visible := (l.Height - 3) / 2
	start, end := l.window(len(l.Apps), visible)

	if start > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more") + "\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(l.renderItem(l.Apps[i], i == l.Cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(l.Apps) {
		b.WriteString("\n" + ui.MutedStyle.Render("  ↓ more"))
	}
	b.WriteString(l.skippedLine())

	return l.wrapInPanel(b.String())
}

func (l *CatalogList) skippedLine() string {
	if l.Skipped == 0 {
		return ""
	}
	return "\n" + ui.RenderNotification(ui.NotifyWarning, fmt.Sprintf("%d record(s) could not be read", l.Skipped))
}

func (l *CatalogList) renderItem(app catalog.Application, isCursor bool) string {
	maxLen := l.Width - 8
	if maxLen < 10 {
		maxLen = 10
	}

	name := truncate(app.Name, maxLen-len(app.PackageID)-3)
	head := name
	if app.PackageID != "" {
		head += " " + ui.MutedStyle.Render("["+app.PackageID+"]")
	}

	desc := app.Description
	if desc == "" {
		desc = "No description"
	}
	desc = ui.MutedStyle.Render("  " + truncate(desc, maxLen-2))

	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Width(l.Width - 4).Render(head) + "\n" + desc
	}
	return ui.ItemStyle.Render(head) + "\n" + desc
}

func (l *CatalogList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Render(content)
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
