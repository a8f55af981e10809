package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/storyviz/pkg/domain"
)

func TestNLUDataRef(t *testing.T) {
	t.Run("Zero Value Is Absent", func(t *testing.T) {
		var ref domain.NLUDataRef
		assert.True(t, ref.IsAbsent())
		data, ok := ref.Get()
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("Absent", func(t *testing.T) {
		assert.True(t, domain.Absent().IsAbsent())
	})

	t.Run("Empty Loaded Is Not Absent", func(t *testing.T) {
		ref := domain.Loaded(&domain.NLUData{})
		assert.False(t, ref.IsAbsent())
		data, ok := ref.Get()
		assert.True(t, ok)
		assert.Empty(t, data.Examples)
	})

	t.Run("Nil Loaded Becomes Empty Data", func(t *testing.T) {
		data, ok := domain.Loaded(nil).Get()
		assert.True(t, ok)
		assert.NotNil(t, data)
	})

	t.Run("Loaded Keeps Pointer", func(t *testing.T) {
		in := &domain.NLUData{Examples: []domain.Message{{Text: "hi", Intent: "greet"}}}
		out, _ := domain.Loaded(in).Get()
		assert.Same(t, in, out)
	})
}

func TestNLUData_ExampleFor(t *testing.T) {
	data := &domain.NLUData{Examples: []domain.Message{
		{Text: "hello", Intent: "greet"},
		{Text: "I want thai", Intent: "inform", Entities: []domain.Entity{{Entity: "cuisine", Value: "thai"}}},
		{Text: "thai in Berlin", Intent: "inform", Entities: []domain.Entity{
			{Entity: "location", Value: "Berlin"},
			{Entity: "cuisine", Value: "thai"},
		}},
	}}

	tests := []struct {
		name     string
		intent   string
		entities []domain.Entity
		want     string
		found    bool
	}{
		{name: "Intent Only", intent: "greet", want: "hello", found: true},
		{
			name:     "First Example Containing Entities",
			intent:   "inform",
			entities: []domain.Entity{{Entity: "cuisine", Value: "thai"}},
			want:     "I want thai",
			found:    true,
		},
		{
			name:     "All Entities Must Match",
			intent:   "inform",
			entities: []domain.Entity{{Entity: "location", Value: "Berlin"}, {Entity: "cuisine", Value: "thai"}},
			want:     "thai in Berlin",
			found:    true,
		},
		{
			name:     "Different Value",
			intent:   "inform",
			entities: []domain.Entity{{Entity: "cuisine", Value: "sushi"}},
			found:    false,
		},
		{name: "Unknown Intent", intent: "bye", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := data.ExampleFor(tt.intent, tt.entities)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, msg.Text)
		})
	}
}

func TestNLUData_Merge(t *testing.T) {
	a := &domain.NLUData{Examples: []domain.Message{{Text: "hi", Intent: "greet"}}}
	b := &domain.NLUData{
		Examples:      []domain.Message{{Text: "bye", Intent: "goodbye"}},
		Synonyms:      map[string]string{"NY": "New York"},
		RegexFeatures: map[string][]string{"zip": {"[0-9]{5}"}},
	}
	a.Merge(b)
	a.Merge(nil)

	assert.Len(t, a.Examples, 2)
	assert.Equal(t, "New York", a.Synonyms["NY"])
	assert.Equal(t, []string{"[0-9]{5}"}, a.RegexFeatures["zip"])
	assert.Equal(t, []string{"greet", "goodbye"}, a.Intents())
}
