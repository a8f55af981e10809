package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/storyviz/internal/compiler"
	"github.com/aretw0/storyviz/pkg/domain"
)

const greetStories = `
<!-- generated by hand -->
## happy path
* greet
  - utter_greet
* inform{"city": "Berlin", "cuisine": "thai"}
  - slot{"city": "Berlin"}
  - action_search
  - form{"name": "restaurant_form"}

## say goodbye
* goodbye
  - utter_goodbye
`

func TestParser_Parse(t *testing.T) {
	steps, err := compiler.NewParser().Parse("stories.md", []byte(greetStories))
	require.NoError(t, err)
	require.Len(t, steps, 2)

	happy := steps[0]
	assert.Equal(t, "happy path", happy.Name)
	assert.Equal(t, "stories.md", happy.Source)
	assert.Equal(t, 3, happy.Line)
	require.Len(t, happy.Events, 6)

	assert.Equal(t, domain.UserEvent("greet", nil), happy.Events[0])
	assert.Equal(t, domain.ActionEvent("utter_greet"), happy.Events[1])

	inform := happy.Events[2]
	assert.Equal(t, domain.EventUser, inform.Type)
	assert.Equal(t, "inform", inform.Name)
	assert.Equal(t, []domain.Entity{
		{Entity: "city", Value: "Berlin"},
		{Entity: "cuisine", Value: "thai"},
	}, inform.Entities)
	assert.Equal(t, `/inform{"city":"Berlin","cuisine":"thai"}`, inform.Text)

	assert.Equal(t, domain.Event{Type: domain.EventSlot, Name: "city", Value: "Berlin"}, happy.Events[3])
	assert.Equal(t, domain.ActionEvent("action_search"), happy.Events[4])
	assert.Equal(t, domain.EventForm, happy.Events[5].Type)
	assert.Equal(t, "restaurant_form", happy.Events[5].Name)

	assert.Equal(t, "say goodbye", steps[1].Name)
	assert.Len(t, steps[1].Events, 2)
}

func TestParser_Checkpoints(t *testing.T) {
	src := `
## start
* greet
  - utter_greet
> greeted

## continue
> greeted
* bye
  - utter_bye
`
	steps, err := compiler.NewParser().Parse("cp.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, []string{"greeted"}, steps[0].EndCheckpoints)
	assert.Empty(t, steps[0].StartCheckpoints)
	assert.Equal(t, []string{"greeted"}, steps[1].StartCheckpoints)
	assert.False(t, steps[1].IsStart())
}

func TestParser_OrSplitsAtGeneratedCheckpoint(t *testing.T) {
	src := `
## choice
* greet
  - utter_ask
* affirm OR thankyou
  - utter_ok
`
	steps, err := compiler.NewParser().Parse("or.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, steps, 3)

	fork := steps[0].EndCheckpoints
	require.Len(t, fork, 1)
	assert.True(t, strings.HasPrefix(fork[0], compiler.GeneratedCheckpointPrefix))
	assert.Len(t, steps[0].Events, 2)

	assert.Equal(t, fork, steps[1].StartCheckpoints)
	assert.Equal(t, fork, steps[2].StartCheckpoints)
	// both alternatives keep the events after the OR line
	assert.Equal(t, []string{"affirm", "utter_ok"}, eventNames(steps[1]))
	assert.Equal(t, []string{"thankyou", "utter_ok"}, eventNames(steps[2]))

	stories := compiler.Flatten(steps)
	require.Len(t, stories, 2)
	assert.Equal(t, "choice", stories[0].Name)
	assert.Len(t, stories[1].Events, 4)
}

func TestParser_ManyOrTurnsStayLinear(t *testing.T) {
	const turns = 24
	var sb strings.Builder
	sb.WriteString("## branching\n")
	for i := 0; i < turns; i++ {
		sb.WriteString("* affirm OR deny\n  - utter_ok\n")
	}

	steps, err := compiler.NewParser().Parse("or.md", []byte(sb.String()))
	require.NoError(t, err)
	// the opening step plus two alternatives per turn
	assert.Len(t, steps, 1+2*turns)

	stories := compiler.Flatten(steps)
	assert.Len(t, stories, compiler.MaxSequences)
	for _, s := range stories[:3] {
		assert.Len(t, s.Events, 2*turns)
	}
}

func eventNames(step domain.StoryStep) []string {
	out := make([]string, 0, len(step.Events))
	for _, ev := range step.Events {
		out = append(out, ev.Name)
	}
	return out
}

func TestParser_UserLabelKeepsValueTypes(t *testing.T) {
	src := "## order\n* order{\"count\": 2, \"note\": \"fish & chips\"}\n  - utter_ok\n"
	steps, err := compiler.NewParser().Parse("order.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, steps, 1)

	ev := steps[0].Events[0]
	assert.Equal(t, `/order{"count":2,"note":"fish & chips"}`, ev.Text)
	assert.Equal(t, []domain.Entity{{Entity: "count", Value: "2"}, {Entity: "note", Value: "fish & chips"}}, ev.Entities)
}

func TestParser_MultilineComment(t *testing.T) {
	src := `
## commented
* greet <!-- inline -->
<!--
  - utter_hidden
-->
  - utter_greet
`
	steps, err := compiler.NewParser().Parse("c.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, []domain.Event{
		domain.UserEvent("greet", nil),
		domain.ActionEvent("utter_greet"),
	}, steps[0].Events)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "Event Before Header", src: "* greet\n", line: 1},
		{name: "Bad Entity JSON", src: "## s\n* greet{\"a\": }\n", line: 2},
		{name: "Unexpected Line", src: "## s\nhello there\n", line: 2},
		{name: "Event After End Checkpoint", src: "## s\n* greet\n> done\n- utter_x\n", line: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse("bad.md", []byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStoryResolution)

			var perr *domain.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "bad.md", perr.File)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	step := domain.StoryStep{
		Name:             "formatted",
		StartCheckpoints: []string{"in"},
		Events: []domain.Event{
			domain.UserEvent("inform", []domain.Entity{{Entity: "city", Value: "Lisbon"}}),
			{Type: domain.EventSlot, Name: "city", Value: "Lisbon"},
			domain.ActionEvent("utter_ok"),
		},
		EndCheckpoints: []string{"out"},
	}

	steps, err := compiler.NewParser().Parse("fmt.md", []byte(compiler.Format(step)))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, step.Name, steps[0].Name)
	assert.Equal(t, step.StartCheckpoints, steps[0].StartCheckpoints)
	assert.Equal(t, step.EndCheckpoints, steps[0].EndCheckpoints)
	assert.Equal(t, step.Events, steps[0].Events)
}
