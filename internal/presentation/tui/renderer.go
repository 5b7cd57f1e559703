package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Styles follow the terminal background unless plain is set.
func NewRenderer(plain bool) func(string) (string, error) {
	opt := glamour.WithAutoStyle()
	if plain {
		opt = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// EntryMarkdown describes a catalog entry as markdown: a heading with its ID
// and its wire value as a YAML block.
func EntryMarkdown(id string, value any) (string, error) {
	var body bytes.Buffer
	if err := wire.EncodeYAML(&body, value); err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", id)
	sb.WriteString("```yaml\n")
	sb.WriteString(strings.TrimRight(body.String(), "\n"))
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
