package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// Summary describes a finished visualization run.
type Summary struct {
	URI        string
	Stories    string
	Domain     string
	Policies   []string
	MaxHistory int
	NLUData    string // "" when not supplied
	Nodes      int
	Edges      int
	Actions    []string
}

// Markdown formats the summary as a small report.
func (s Summary) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Story graph\n\n")
	sb.WriteString(fmt.Sprintf("Saved into `%s`\n\n", s.URI))

	sb.WriteString("| Setting | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Stories | `%s` |\n", s.Stories))
	sb.WriteString(fmt.Sprintf("| Domain | `%s` |\n", s.Domain))
	if len(s.Policies) > 0 {
		sb.WriteString(fmt.Sprintf("| Policies | %s |\n", strings.Join(s.Policies, ", ")))
	}
	sb.WriteString(fmt.Sprintf("| Max history | %d |\n", s.MaxHistory))
	nlu := "none"
	if s.NLUData != "" {
		nlu = "`" + s.NLUData + "`"
	}
	sb.WriteString(fmt.Sprintf("| NLU data | %s |\n", nlu))
	sb.WriteString(fmt.Sprintf("| Nodes | %d |\n", s.Nodes))
	sb.WriteString(fmt.Sprintf("| Edges | %d |\n", s.Edges))

	if len(s.Actions) > 0 {
		sb.WriteString("\n## Actions\n\n")
		for _, a := range s.Actions {
			sb.WriteString("- " + a + "\n")
		}
	}
	return sb.String()
}
