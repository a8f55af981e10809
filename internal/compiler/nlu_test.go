package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/storyviz/internal/compiler"
)

func TestIsNLUDocument(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{name: "Intent Section", src: "## intent:greet\n- hey\n", want: true},
		{name: "Synonym After Comment", src: "<!-- nlu -->\n\n## synonym:NYC\n- new york\n", want: true},
		{name: "Regex", src: "##regex:zipcode\n- [0-9]{5}\n", want: true},
		{name: "Lookup", src: "## lookup:cities\n- berlin\n", want: true},
		{name: "Stories", src: "## happy path\n* greet\n  - utter_greet\n", want: false},
		{name: "Story Named Like A Section", src: "## intents of the user\n* greet\n", want: false},
		{name: "Empty", src: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compiler.IsNLUDocument([]byte(tt.src)))
		})
	}
}
