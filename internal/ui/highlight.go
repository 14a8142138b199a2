package ui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colors catalog record sources for preview
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a new syntax highlighter
func NewHighlighter() *Highlighter {
	return &Highlighter{
		style: styles.Get("catppuccin-mocha"),
	}
}

// Highlight colors a whole record and returns it split into display lines.
// Unknown formats come back uncolored.
func (h *Highlighter) Highlight(source, filename string) []string {
	source = strings.TrimRight(source, "\n")
	lexer := lexerForRecord(filename)
	if lexer == nil {
		return strings.Split(source, "\n")
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return strings.Split(source, "\n")
	}

	var lines []string
	var cur strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		// Tokens may span lines; style each piece separately so a line
		// never carries an unterminated escape sequence.
		pieces := strings.Split(token.Value, "\n")
		for i, piece := range pieces {
			if i > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			cur.WriteString(h.render(token.Type, piece))
		}
	}
	lines = append(lines, cur.String())

	// Some lexers ensure a trailing newline; the source had none
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func (h *Highlighter) render(tt chroma.TokenType, text string) string {
	if text == "" {
		return ""
	}
	entry := h.style.Get(tt)
	if !entry.Colour.IsSet() {
		return text
	}
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
	if entry.Bold == chroma.Yes {
		styled = styled.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		styled = styled.Italic(true)
	}
	return styled.Render(text)
}

// lexerForRecord picks a lexer by the record's extension
func lexerForRecord(filename string) chroma.Lexer {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return lexers.Get("json")
	case ".yaml", ".yml":
		return lexers.Get("yaml")
	}
	return lexers.Match(filename)
}

// RecordFormat returns a human-readable record format for display
func RecordFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "JSON"
	case ".yaml", ".yml":
		return "YAML"
	default:
		return "Text"
	}
}
