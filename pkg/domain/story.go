package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// EventType distinguishes the kinds of events a story is made of.
type EventType string

const (
	// EventUser is a user turn, written as "* intent{entities}".
	EventUser EventType = "user"
	// EventAction is a bot action, written as "- action_name".
	EventAction EventType = "action"
	// EventSlot sets a slot, written as "- slot{"name": value}".
	EventSlot EventType = "slot"
	// EventForm activates or deactivates a form, written as "- form{"name": ...}".
	EventForm EventType = "form"
)

// Entity is a single entity annotation attached to a user turn or NLU example.
type Entity struct {
	Entity string `json:"entity" mapstructure:"entity"`
	Value  string `json:"value" mapstructure:"value"`
	Start  int    `json:"start,omitempty" mapstructure:"start"`
	End    int    `json:"end,omitempty" mapstructure:"end"`
}

// Event is one line of a story.
type Event struct {
	Type EventType `json:"type"`

	// Name is the intent for user events, the action/slot/form name otherwise.
	Name string `json:"name"`

	// Entities and Text are only set for user events.
	Entities []Entity `json:"entities,omitempty"`
	Text     string   `json:"text,omitempty"`

	// Value holds the slot value or form payload.
	Value any `json:"value,omitempty"`
}

// UserEvent builds a user event and its display text ("/intent{...}").
func UserEvent(intent string, entities []Entity) Event {
	return Event{
		Type:     EventUser,
		Name:     intent,
		Entities: entities,
		Text:     UserText(intent, entities),
	}
}

// ActionEvent builds an action event.
func ActionEvent(name string) Event {
	return Event{Type: EventAction, Name: name}
}

// UserText formats an intent and its entities the way stories write them.
func UserText(intent string, entities []Entity) string {
	if len(entities) == 0 {
		return "/" + intent
	}
	values := make(map[string]any, len(entities))
	for _, e := range entities {
		values[e.Entity] = e.Value
	}
	return UserTextValues(intent, values)
}

// UserTextValues formats an intent with entity values of any JSON type, so numbers
// and booleans keep their story spelling.
func UserTextValues(intent string, values map[string]any) string {
	if len(values) == 0 {
		return "/" + intent
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding/json sorts map keys, which keeps labels stable across runs.
	if err := enc.Encode(values); err != nil {
		return "/" + intent
	}
	return "/" + intent + strings.TrimSuffix(buf.String(), "\n")
}

// EntityTypes returns the sorted, de-duplicated entity names of a user event.
func (e Event) EntityTypes() []string {
	return entityTypes(e.Entities)
}

func entityTypes(entities []Entity) []string {
	seen := make(map[string]struct{}, len(entities))
	types := make([]string, 0, len(entities))
	for _, ent := range entities {
		if _, ok := seen[ent.Entity]; ok {
			continue
		}
		seen[ent.Entity] = struct{}{}
		types = append(types, ent.Entity)
	}
	sort.Strings(types)
	return types
}

// StoryStep is a story block as written in a file, before checkpoints are resolved.
type StoryStep struct {
	Name             string   `json:"name"`
	Source           string   `json:"source,omitempty"`
	Line             int      `json:"line,omitempty"`
	StartCheckpoints []string `json:"start_checkpoints,omitempty"`
	EndCheckpoints   []string `json:"end_checkpoints,omitempty"`
	Events           []Event  `json:"events"`
}

// IsStart reports whether the step begins a conversation.
func (s StoryStep) IsStart() bool {
	return len(s.StartCheckpoints) == 0
}

// Story is a complete event sequence from conversation start to end.
type Story struct {
	Name   string  `json:"name"`
	Events []Event `json:"events"`
}

// StoriesSource is a resolved stories location: a file, a directory or a glob.
type StoriesSource string

// IsGlob reports whether the source contains glob metacharacters.
func (s StoriesSource) IsGlob() bool {
	return strings.ContainsAny(string(s), "*?[{")
}
