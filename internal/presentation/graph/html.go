package graph

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aretw0/storyviz/internal/visualization"
)

// MermaidScriptURL is the loader embedded in generated pages.
const MermaidScriptURL = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; }
pre.mermaid { background: #fff; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<pre class="mermaid">
{{.Source}}</pre>
<script src="{{.Script}}"></script>
<script>mermaid.initialize({ startOnLoad: true, flowchart: { useMaxWidth: false } });</script>
</body>
</html>
`))

// GenerateHTML returns a standalone page that renders the graph in the browser.
func GenerateHTML(g *visualization.Graph, title string) (string, error) {
	if title == "" {
		title = "Stories"
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title  string
		Source string
		Script string
	}{
		Title:  title,
		Source: GenerateMermaid(g),
		Script: MermaidScriptURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}
