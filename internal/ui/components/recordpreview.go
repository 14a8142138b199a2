package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shadowmite/internal/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// maxPreviewSize caps how much of a record is read for display
const maxPreviewSize = 64 * 1024

// RecordPreview shows a catalog record's source with syntax highlighting
type RecordPreview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	Path       string
	TotalLines int
	Width      int
	Height     int

	lineNumStyle lipgloss.Style
}

// NewRecordPreview creates a preview with a scrollable viewport
func NewRecordPreview() *RecordPreview {
	vp := viewport.New(60, 8)
	vp.MouseWheelEnabled = true

	return &RecordPreview{
		viewport:    vp,
		highlighter: ui.NewHighlighter(),
		Width:       60,
		Height:      12,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(ui.Muted).
			Width(4).
			Align(lipgloss.Right),
	}
}

// SetSize updates the preview dimensions
func (p *RecordPreview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// Header (2 lines) and border (2 lines)
	p.viewport.Height = max(3, height-4)
	p.viewport.Width = max(20, width-4)
}

// Load reads the record at path. A missing file is reported in the preview
// body rather than as an error so Summary can still render.
func (p *RecordPreview) Load(path string) error {
	p.Path = path

	info, err := os.Stat(path)
	if err != nil {
		p.setMessage("Record is no longer on disk.")
		return nil
	}
	if info.Size() > maxPreviewSize {
		p.setMessage(fmt.Sprintf("Record is too large to preview (%d bytes).", info.Size()))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines := p.highlighter.Highlight(string(data), path)
	width := max(10, p.viewport.Width-7)

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(p.lineNumStyle.Render(fmt.Sprintf("%d", i+1)))
		b.WriteString(" │ ")
		b.WriteString(ansi.Truncate(line, width, "…"))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	p.TotalLines = len(lines)
	p.viewport.SetContent(b.String())
	p.viewport.GotoTop()
	return nil
}

func (p *RecordPreview) setMessage(msg string) {
	p.TotalLines = 1
	p.viewport.SetContent(ui.MutedStyle.Render(msg))
	p.viewport.GotoTop()
}

// Update handles viewport scrolling
func (p *RecordPreview) Update(msg tea.Msg) (*RecordPreview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// ScrollUp scrolls up one line
func (p *RecordPreview) ScrollUp() {
	p.viewport.LineUp(1)
}

// ScrollDown scrolls down one line
func (p *RecordPreview) ScrollDown() {
	p.viewport.LineDown(1)
}

// View renders the preview
func (p *RecordPreview) View() string {
	var b strings.Builder

	name := filepath.Base(p.Path)
	b.WriteString(ui.PanelTitleStyle.Render(name))
	b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  %s  %d lines", ui.RecordFormat(p.Path), p.TotalLines)))
	b.WriteString("\n")
	b.WriteString(ui.FilePathStyle.Render(p.Path) + "\n")
	b.WriteString(p.viewport.View())

	if p.TotalLines > p.viewport.Height {
		b.WriteString("\n" + ui.MutedStyle.Render(fmt.Sprintf("─── %.0f%% ───", p.viewport.ScrollPercent()*100)))
	}

	return ui.PanelStyle.Width(p.Width).Render(b.String())
}
