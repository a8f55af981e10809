package nlu

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	sectionIntent  = "intent"
	sectionSynonym = "synonym"
	sectionRegex   = "regex"
	sectionLookup  = "lookup"
)

// entityPattern matches "[value](entity)" and "[value](entity:synonym)".
var entityPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// ParseMarkdown decodes the Markdown NLU format:
//
//	## intent:greet
//	- hello
//	- I am from [Berlin](city)
//
// source is only used in error messages.
func ParseMarkdown(source string, raw []byte) (*domain.NLUData, error) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(raw))

	data := &domain.NLUData{}
	var section, name string

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			section, name = "", ""
			if n.Level != 2 {
				return ast.WalkSkipChildren, nil
			}
			header := rawLines(n, raw)
			kind, rest, ok := strings.Cut(header, ":")
			if !ok {
				return ast.WalkSkipChildren, nil
			}
			section, name = strings.TrimSpace(kind), strings.TrimSpace(rest)
			if section == sectionIntent && name == "" {
				return ast.WalkStop, fmt.Errorf("intent section without a name")
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			item := listItemText(n, raw)
			if item == "" {
				return ast.WalkSkipChildren, nil
			}
			switch section {
			case sectionIntent:
				msg := parseExample(item, name, data)
				data.Examples = append(data.Examples, msg)
			case sectionSynonym:
				if data.Synonyms == nil {
					data.Synonyms = make(map[string]string)
				}
				data.Synonyms[item] = name
			case sectionRegex:
				if data.RegexFeatures == nil {
					data.RegexFeatures = make(map[string][]string)
				}
				data.RegexFeatures[name] = append(data.RegexFeatures[name], item)
			case sectionLookup:
				// lookup tables only feed entity extraction
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrNLULoad, source, err)
	}
	return data, nil
}

// parseExample strips entity annotations from an example and records them.
// "[NYC](city:New York)" also registers NYC as a synonym of "New York".
func parseExample(item, intent string, data *domain.NLUData) domain.Message {
	var sb strings.Builder
	var entities []domain.Entity
	last := 0
	for _, m := range entityPattern.FindAllStringSubmatchIndex(item, -1) {
		sb.WriteString(item[last:m[0]])
		value := item[m[2]:m[3]]
		entity, synonym, hasSynonym := strings.Cut(item[m[4]:m[5]], ":")

		start := sb.Len()
		sb.WriteString(value)
		ent := domain.Entity{Entity: entity, Value: value, Start: start, End: sb.Len()}
		if hasSynonym && synonym != "" {
			ent.Value = synonym
			if data.Synonyms == nil {
				data.Synonyms = make(map[string]string)
			}
			data.Synonyms[value] = synonym
		}
		entities = append(entities, ent)
		last = m[1]
	}
	sb.WriteString(item[last:])
	return domain.Message{Text: sb.String(), Intent: intent, Entities: entities}
}

// rawLines returns the unrendered source of a block, lines joined by spaces.
func rawLines(n ast.Node, source []byte) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// listItemText reads the first text block of a list item.
func listItemText(item *ast.ListItem, source []byte) string {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.Kind() {
		case ast.KindTextBlock, ast.KindParagraph:
			return rawLines(c, source)
		}
	}
	return ""
}
