package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/storyviz/internal/adapters/file"
	"github.com/aretw0/storyviz/internal/visualization"
)

// Format is an output encoding for a story graph.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMermaid  Format = "mermaid"
	FormatMarkdown Format = "markdown"
	FormatDOT      Format = "dot"
)

// FormatFor picks the output format from a file extension. Unknown extensions get HTML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mmd", ".mermaid":
		return FormatMermaid
	case ".md":
		return FormatMarkdown
	case ".dot", ".gv":
		return FormatDOT
	default:
		return FormatHTML
	}
}

// Render encodes the graph in the given format.
func Render(g *visualization.Graph, format Format, title string) (string, error) {
	switch format {
	case FormatMermaid:
		return GenerateMermaid(g), nil
	case FormatMarkdown:
		return GenerateMarkdown(g, title), nil
	case FormatDOT:
		return GenerateDOT(g), nil
	case FormatHTML:
		return GenerateHTML(g, title)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// GenerateMarkdown wraps the Mermaid source in a fenced block under a heading.
func GenerateMarkdown(g *visualization.Graph, title string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	sb.WriteString("```mermaid\n")
	sb.WriteString(GenerateMermaid(g))
	sb.WriteString("```\n")
	return sb.String()
}

// Write renders the graph in the format implied by path and writes it atomically.
func Write(path string, g *visualization.Graph, title string) error {
	out, err := Render(g, FormatFor(path), title)
	if err != nil {
		return err
	}
	if err := file.WriteAtomic(path, []byte(out)); err != nil {
		return fmt.Errorf("failed to write graph to %s: %w", path, err)
	}
	return nil
}
