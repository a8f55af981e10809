package compiler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
)

// Parser converts Markdown story files into story steps.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// GeneratedCheckpointPrefix marks the checkpoints the parser creates for "OR" turns.
const GeneratedCheckpointPrefix = "GENR_OR_"

// parseState tracks the story being read. After an "OR" turn the story holds one
// open step per alternative.
type parseState struct {
	source   string
	line     int
	steps    []domain.StoryStep
	variants []*domain.StoryStep
}

// Parse reads the story steps of a single file. source is only used in error messages.
// Errors wrap domain.ErrStoryResolution and carry a *domain.ParseError.
func (p *Parser) Parse(source string, data []byte) ([]domain.StoryStep, error) {
	st := &parseState{source: source}
	inComment := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		st.line = lineNo
		line := scanner.Text()
		line, inComment = stripComments(line, inComment)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var err error
		switch {
		case strings.HasPrefix(line, "#"):
			st.flush()
			name := strings.TrimSpace(strings.TrimLeft(line, "#"))
			st.variants = []*domain.StoryStep{{Name: name, Source: source, Line: lineNo}}
		case strings.HasPrefix(line, ">"):
			err = st.addCheckpoint(strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "*"):
			err = st.addUser(strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "-"):
			err = st.addAction(strings.TrimSpace(line[1:]))
		default:
			err = fmt.Errorf("unexpected line %q", line)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution,
				&domain.ParseError{File: source, Line: lineNo, Reason: err.Error()})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrStoryResolution, source, err)
	}
	st.flush()
	return st.steps, nil
}

func (st *parseState) flush() {
	for _, v := range st.variants {
		st.steps = append(st.steps, *v)
	}
	st.variants = nil
}

func (st *parseState) ensureStory() error {
	if len(st.variants) == 0 {
		return fmt.Errorf("story content before the first story header")
	}
	return nil
}

func (st *parseState) addCheckpoint(text string) error {
	if err := st.ensureStory(); err != nil {
		return err
	}
	name, _, err := splitNameAndJSON(text)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("checkpoint without a name")
	}
	for _, v := range st.variants {
		if len(v.Events) == 0 {
			v.StartCheckpoints = append(v.StartCheckpoints, name)
		} else {
			v.EndCheckpoints = append(v.EndCheckpoints, name)
		}
	}
	return nil
}

func (st *parseState) appendEvents(events ...domain.Event) error {
	for _, v := range st.variants {
		if len(v.EndCheckpoints) > 0 {
			return fmt.Errorf("event after end checkpoint in story %q", v.Name)
		}
		v.Events = append(v.Events, events...)
	}
	return nil
}

func (st *parseState) addUser(text string) error {
	if err := st.ensureStory(); err != nil {
		return err
	}
	alternatives := strings.Split(text, " OR ")
	events := make([]domain.Event, 0, len(alternatives))
	for _, alt := range alternatives {
		intent, payload, err := splitNameAndJSON(strings.TrimPrefix(strings.TrimSpace(alt), "/"))
		if err != nil {
			return err
		}
		if intent == "" {
			return fmt.Errorf("user turn without an intent")
		}
		ev := domain.UserEvent(intent, entitiesFrom(payload))
		ev.Text = domain.UserTextValues(intent, payload)
		events = append(events, ev)
	}
	if len(events) == 1 {
		return st.appendEvents(events[0])
	}

	// Each alternative becomes its own step joined by generated checkpoints, so a
	// story with n OR turns yields a linear number of steps. Flatten expands the
	// combinations under MaxSequences.
	for _, v := range st.variants {
		if len(v.EndCheckpoints) > 0 {
			return fmt.Errorf("event after end checkpoint in story %q", v.Name)
		}
	}
	fork := fmt.Sprintf("%s%s:%d", GeneratedCheckpointPrefix, st.source, st.line)
	name, line := st.variants[0].Name, st.variants[0].Line
	for _, v := range st.variants {
		v.EndCheckpoints = append(v.EndCheckpoints, fork)
	}
	st.flush()
	for _, ev := range events {
		st.variants = append(st.variants, &domain.StoryStep{
			Name:             name,
			Source:           st.source,
			Line:             line,
			StartCheckpoints: []string{fork},
			Events:           []domain.Event{ev},
		})
	}
	return nil
}

func (st *parseState) addAction(text string) error {
	if err := st.ensureStory(); err != nil {
		return err
	}
	name, payload, err := splitNameAndJSON(text)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("action without a name")
	}

	switch name {
	case "slot":
		keys := sortedKeys(payload)
		events := make([]domain.Event, 0, len(keys))
		for _, k := range keys {
			events = append(events, domain.Event{Type: domain.EventSlot, Name: k, Value: payload[k]})
		}
		return st.appendEvents(events...)
	case "form":
		formName, _ := payload["name"].(string)
		return st.appendEvents(domain.Event{Type: domain.EventForm, Name: formName, Value: payload})
	default:
		return st.appendEvents(domain.ActionEvent(name))
	}
}

// splitNameAndJSON splits `name{"k": "v"}` into its name and decoded object.
func splitNameAndJSON(text string) (string, map[string]any, error) {
	idx := strings.Index(text, "{")
	if idx < 0 {
		return strings.TrimSpace(text), nil, nil
	}
	name := strings.TrimSpace(text[:idx])
	var payload map[string]any
	if err := json.Unmarshal([]byte(text[idx:]), &payload); err != nil {
		return "", nil, fmt.Errorf("invalid json after %q: %v", name, err)
	}
	return name, payload, nil
}

func entitiesFrom(payload map[string]any) []domain.Entity {
	if len(payload) == 0 {
		return nil
	}
	keys := sortedKeys(payload)
	entities := make([]domain.Entity, 0, len(keys))
	for _, k := range keys {
		entities = append(entities, domain.Entity{Entity: k, Value: fmt.Sprint(payload[k])})
	}
	return entities
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stripComments removes HTML comments, which may span several lines.
func stripComments(line string, inComment bool) (string, bool) {
	var sb strings.Builder
	for len(line) > 0 {
		if inComment {
			end := strings.Index(line, "-->")
			if end < 0 {
				return sb.String(), true
			}
			line = line[end+3:]
			inComment = false
			continue
		}
		start := strings.Index(line, "<!--")
		if start < 0 {
			sb.WriteString(line)
			break
		}
		sb.WriteString(line[:start])
		line = line[start+4:]
		inComment = true
	}
	return sb.String(), inComment
}
