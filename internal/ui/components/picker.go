package components

import (
	"fmt"
	"strings"

	"shadowmite/internal/ui"

	"github.com/agnivade/levenshtein"
)

// Picker is a single-choice list with an optional type-to-filter query.
// It backs the interface, wifi, locale and timezone choices.
type Picker struct {
	listCursor

	Title    string
	Width    int
	Focused  bool
	Disabled bool
	Empty    string // Shown when there are no items at all

	items    []string
	visible  []int // Indices into items that match the filter
	filter   string
	chosen   string
	chosenOK bool
}

// NewPicker creates a picker
func NewPicker(title string, items []string) *Picker {
	p := &Picker{
		listCursor: listCursor{Height: 8},
		Title:      title,
		Width:      40,
		Empty:      "Nothing to choose from",
	}
	p.SetItems(items)
	return p
}

// SetItems replaces the list. The filter is kept; a previous choice that is
// no longer listed is dropped.
func (p *Picker) SetItems(items []string) {
	p.items = items
	if p.chosenOK && !contains(items, p.chosen) {
		p.chosen, p.chosenOK = "", false
	}
	p.refilter()
}

// Items returns every item, ignoring the filter
func (p *Picker) Items() []string {
	return p.items
}

// Len returns the number of rows matching the filter
func (p *Picker) Len() int {
	return len(p.visible)
}

// SetFilter narrows the list to items containing query, case-insensitively
func (p *Picker) SetFilter(query string) {
	p.filter = query
	p.refilter()
}

// Filter returns the current query
func (p *Picker) Filter() string {
	return p.filter
}

func (p *Picker) refilter() {
	p.visible = p.visible[:0]
	q := strings.ToLower(strings.TrimSpace(p.filter))
	for i, it := range p.items {
		if q == "" || strings.Contains(strings.ToLower(it), q) {
			p.visible = append(p.visible, i)
		}
	}
	p.clamp(len(p.visible))
}

// Closest returns the item nearest to the filter by edit distance. It is
// used as a hint when the filter matches nothing.
func (p *Picker) Closest() (string, bool) {
	q := strings.ToLower(strings.TrimSpace(p.filter))
	if q == "" || len(p.items) == 0 {
		return "", false
	}
	best, bestDist := "", -1
	for _, it := range p.items {
		d := levenshtein.ComputeDistance(q, strings.ToLower(it))
		if bestDist < 0 || d < bestDist {
			best, bestDist = it, d
		}
	}
	return best, true
}

// MoveUp moves cursor up
func (p *Picker) MoveUp() { p.up() }

// MoveDown moves cursor down
func (p *Picker) MoveDown() { p.down(len(p.visible)) }

// PageUp moves cursor up by a page
func (p *Picker) PageUp() { p.pageUp() }

// PageDown moves cursor down by a page
func (p *Picker) PageDown() { p.pageDown(len(p.visible)) }

// GoToFirst moves cursor to the first row
func (p *Picker) GoToFirst() { p.Cursor = 0 }

// GoToLast moves cursor to the last row
func (p *Picker) GoToLast() { p.last(len(p.visible)) }

// Current returns the item under the cursor
func (p *Picker) Current() (string, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.visible) {
		return "", false
	}
	return p.items[p.visible[p.Cursor]], true
}

// Choose marks the item under the cursor as the choice
func (p *Picker) Choose() (string, bool) {
	if p.Disabled {
		return "", false
	}
	it, ok := p.Current()
	if !ok {
		return "", false
	}
	p.chosen, p.chosenOK = it, true
	return it, true
}

// Chosen returns the last choice
func (p *Picker) Chosen() (string, bool) {
	return p.chosen, p.chosenOK
}

// ClearChoice forgets the last choice
func (p *Picker) ClearChoice() {
	p.chosen, p.chosenOK = "", false
}

// View renders the picker
func (p *Picker) View() string {
	var b strings.Builder

	title := p.Title
	if len(p.items) > 0 {
		title = fmt.Sprintf("%s (%d)", p.Title, len(p.items))
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	if p.chosenOK {
		b.WriteString(ui.MutedStyle.Render(" : " + p.chosen))
	}
	b.WriteString("\n")

	if p.filter != "" {
		b.WriteString(ui.MutedStyle.Render("filter: ") + p.filter + "\n")
	}

	switch {
	case len(p.items) == 0:
		b.WriteString(ui.MutedStyle.Render(p.Empty))
		return p.wrapInPanel(b.String())
	case len(p.visible) == 0:
		b.WriteString(ui.MutedStyle.Render("No matches"))
		if hint, ok := p.Closest(); ok {
			b.WriteString("\n" + ui.MutedStyle.Render("closest: ") + hint)
		}
		return p.wrapInPanel(b.String())
	}

	visibleHeight := p.Height - 2
	start, end := p.window(len(p.visible), visibleHeight)

	if start > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more") + "\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(p.renderItem(p.items[p.visible[i]], i == p.Cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(p.visible) {
		b.WriteString("\n" + ui.MutedStyle.Render("  ↓ more"))
	}

	return p.wrapInPanel(b.String())
}

func (p *Picker) renderItem(item string, isCursor bool) string {
	marker := "  "
	if p.chosenOK && item == p.chosen {
		marker = ui.CursorStyle.Render("● ")
	}

	maxLen := p.Width - 8
	if maxLen < 10 {
		maxLen = 10
	}
	if len(item) > maxLen {
		item = item[:maxLen-3] + "..."
	}

	if isCursor && p.Focused && !p.Disabled {
		return ui.SelectedItemStyle.Width(p.Width - 4).Render(marker + item)
	}
	return ui.ItemStyle.Render(marker + item)
}

func (p *Picker) wrapInPanel(content string) string {
	style := ui.PanelStyle
	switch {
	case p.Disabled:
		style = ui.DisabledPanelStyle
	case p.Focused:
		style = ui.ActivePanelStyle
	}
	return style.Width(p.Width).Render(content)
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
