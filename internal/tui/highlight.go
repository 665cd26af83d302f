package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter renders diff line content with terminal syntax colors for
// one file. Tokenizing line by line loses multi-line constructs, which
// is acceptable for diff display.
type highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

func newHighlighter(path string) *highlighter {
	lexer := lexers.Match(path)
	if lexer == nil {
		return nil
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &highlighter{lexer: chroma.Coalesce(lexer), style: style}
}

// Line returns the ANSI-colored rendition of one line of source, or the
// input unchanged when highlighting fails.
func (h *highlighter) Line(content string) string {
	if h == nil {
		return content
	}
	it, err := h.lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	var sb strings.Builder
	if err := formatters.TTY256.Format(&sb, h.style, it); err != nil {
		return content
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
