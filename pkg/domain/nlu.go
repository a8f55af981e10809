package domain

import "slices"

// Message is a single NLU training example.
type Message struct {
	Text     string   `json:"text"`
	Intent   string   `json:"intent"`
	Entities []Entity `json:"entities,omitempty"`
}

// EntityTypes returns the sorted, de-duplicated entity names of the example.
func (m Message) EntityTypes() []string {
	return entityTypes(m.Entities)
}

// NLUData is a set of NLU training examples.
type NLUData struct {
	Examples []Message `json:"common_examples"`
	// Synonyms maps a synonym to the value it normalises to.
	Synonyms map[string]string `json:"entity_synonyms,omitempty"`
	// RegexFeatures maps a regex feature name to its patterns.
	RegexFeatures map[string][]string `json:"regex_features,omitempty"`
}

// Merge appends the examples and features of other into d.
func (d *NLUData) Merge(other *NLUData) {
	if other == nil {
		return
	}
	d.Examples = append(d.Examples, other.Examples...)
	for k, v := range other.Synonyms {
		if d.Synonyms == nil {
			d.Synonyms = make(map[string]string)
		}
		d.Synonyms[k] = v
	}
	for k, v := range other.RegexFeatures {
		if d.RegexFeatures == nil {
			d.RegexFeatures = make(map[string][]string)
		}
		d.RegexFeatures[k] = append(d.RegexFeatures[k], v...)
	}
}

// Intents returns the distinct intents in example order.
func (d *NLUData) Intents() []string {
	var intents []string
	for _, ex := range d.Examples {
		if !slices.Contains(intents, ex.Intent) {
			intents = append(intents, ex.Intent)
		}
	}
	return intents
}

// ExampleFor returns the first training example of the intent that contains every
// requested entity with the same value.
func (d *NLUData) ExampleFor(intent string, entities []Entity) (Message, bool) {
	for _, ex := range d.Examples {
		if ex.Intent == intent && containsEntities(ex.Entities, entities) {
			return ex, true
		}
	}
	return Message{}, false
}

func containsEntities(have, want []Entity) bool {
	values := make(map[string]string, len(have))
	for _, e := range have {
		values[e.Entity] = e.Value
	}
	for _, e := range want {
		if v, ok := values[e.Entity]; !ok || v != e.Value {
			return false
		}
	}
	return true
}

// NLUDataRef is either Absent or Loaded. The zero value is Absent.
// An empty but loaded dataset is still Loaded.
type NLUDataRef struct {
	data *NLUData
}

// Absent means no NLU data was supplied.
func Absent() NLUDataRef {
	return NLUDataRef{}
}

// Loaded wraps NLU data returned by a loader. A nil pointer becomes an empty dataset.
func Loaded(data *NLUData) NLUDataRef {
	if data == nil {
		data = &NLUData{}
	}
	return NLUDataRef{data: data}
}

// Get returns the data and whether it was supplied.
func (r NLUDataRef) Get() (*NLUData, bool) {
	return r.data, r.data != nil
}

// IsAbsent reports whether no NLU data was supplied.
func (r NLUDataRef) IsAbsent() bool {
	return r.data == nil
}
