package storyviz_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/visualization"
	"github.com/aretw0/storyviz/pkg/adapters/memory"
	"github.com/aretw0/storyviz/pkg/domain"
)

const testDomain = `
intents:
  - greet
  - goodbye
  - inform:
      use_entities: true
entities:
  - city
actions:
  - utter_greet
  - utter_goodbye
  - action_search
`

const testStories = `## happy path
* greet
  - utter_greet
* goodbye
  - utter_goodbye

## search
* greet
  - utter_greet
* inform{"city": "Berlin"}
  - action_search
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newAgent(t *testing.T, opts ...storyviz.Option) *storyviz.Agent {
	t.Helper()
	domainPath := writeFile(t, t.TempDir(), "domain.yml", testDomain)
	agent, err := storyviz.New(domainPath, &domain.PolicySet{}, opts...)
	require.NoError(t, err)
	return agent
}

func actionLabels(g *visualization.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		if n.Kind == visualization.KindAction {
			out = append(out, n.Label)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("Loads Domain", func(t *testing.T) {
		agent := newAgent(t)
		assert.True(t, agent.Domain.HasIntent("inform"))
		assert.True(t, agent.Domain.HasAction("utter_goodbye"))
		assert.Equal(t, "domain.yml", agent.Name)
	})

	t.Run("Missing Domain", func(t *testing.T) {
		_, err := storyviz.New(filepath.Join(t.TempDir(), "nope.yml"), nil)
		assert.ErrorIs(t, err, domain.ErrDomainLoad)
	})

	t.Run("Invalid Domain", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "domain.yml", "intents: [greet\n")
		_, err := storyviz.New(path, nil)
		assert.ErrorIs(t, err, domain.ErrDomainLoad)
	})

	t.Run("Warns About Custom Policies", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		path := writeFile(t, t.TempDir(), "domain.yml", "intents: [greet]\n")
		policies := &domain.PolicySet{Policies: []domain.Policy{{Name: "MemoizationPolicy"}, {Name: "my_module.MyPolicy"}}}

		_, err := storyviz.New(path, policies, storyviz.WithLogger(logger))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "policy=my_module.MyPolicy")
		assert.NotContains(t, buf.String(), "policy=MemoizationPolicy")
	})
}

func TestAgent_Visualize(t *testing.T) {
	t.Run("Single File", func(t *testing.T) {
		dir := t.TempDir()
		stories := writeFile(t, dir, "stories.md", testStories)
		out := filepath.Join(dir, "graph.html")

		agent := newAgent(t)
		err := agent.Visualize(context.Background(), domain.StoriesSource(stories), out, 2, domain.Absent())
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "utter_greet")
		assert.Contains(t, string(data), "action_search")
	})

	t.Run("Glob", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "stories_a.md", "## a\n* greet\n  - utter_greet\n")
		writeFile(t, dir, "stories_b.md", "## b\n* goodbye\n  - utter_goodbye\n")
		out := filepath.Join(dir, "graph.mmd")

		agent := newAgent(t)
		err := agent.Visualize(context.Background(), domain.StoriesSource(filepath.Join(dir, "stories_*.md")), out, 2, domain.Absent())
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "utter_greet")
		assert.Contains(t, string(data), "utter_goodbye")
	})

	t.Run("Missing Stories", func(t *testing.T) {
		agent := newAgent(t)
		err := agent.Visualize(context.Background(), domain.StoriesSource(filepath.Join(t.TempDir(), "missing.md")), "out.html", 2, domain.Absent())
		assert.ErrorIs(t, err, domain.ErrStoryResolution)
	})

	t.Run("Unwritable Output", func(t *testing.T) {
		agent := newAgent(t, storyviz.WithStoryLoader(memory.NewLoader(map[string]string{"s.md": testStories})))
		out := filepath.Join(t.TempDir(), "missing-dir", "graph.html")

		err := agent.Visualize(context.Background(), "", out, 2, domain.Absent())
		assert.Error(t, err)
	})
}

func TestAgent_Graph(t *testing.T) {
	loader := memory.NewLoader(map[string]string{"stories.md": testStories})

	t.Run("Merges Shared Prefix", func(t *testing.T) {
		agent := newAgent(t, storyviz.WithStoryLoader(loader))

		g, err := agent.Graph(context.Background(), "", 2, domain.Absent())
		require.NoError(t, err)

		// Both stories start with greet -> utter_greet.
		assert.ElementsMatch(t, []string{"utter_greet", "utter_goodbye", "action_search"}, actionLabels(g))
	})

	t.Run("Uses NLU Examples", func(t *testing.T) {
		agent := newAgent(t, storyviz.WithStoryLoader(loader))
		nlu := domain.Loaded(&domain.NLUData{Examples: []domain.Message{{Text: "hey there", Intent: "greet"}}})

		g, err := agent.Graph(context.Background(), "", 2, nlu)
		require.NoError(t, err)

		var intents []string
		for _, n := range g.Nodes() {
			if n.Kind == visualization.KindIntent {
				intents = append(intents, n.Label)
			}
		}
		assert.Contains(t, intents, "hey there")
	})

	t.Run("Rejects Max History Below One", func(t *testing.T) {
		agent := newAgent(t, storyviz.WithStoryLoader(loader))
		_, err := agent.Graph(context.Background(), "", 0, domain.Absent())
		assert.Error(t, err)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		agent := newAgent(t, storyviz.WithStoryLoader(loader))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := agent.Graph(ctx, "", 2, domain.Absent())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Warns About Unknown Names", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		unknown := memory.NewLoader(map[string]string{"s.md": "## s\n* shout\n  - utter_shout\n"})
		agent := newAgent(t, storyviz.WithStoryLoader(unknown), storyviz.WithLogger(logger))

		_, err := agent.Graph(context.Background(), "", 2, domain.Absent())
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "kind=unknown_intent name=shout")
		assert.Contains(t, buf.String(), "kind=unknown_action name=utter_shout")
		assert.Contains(t, buf.String(), "run_id=")
	})

	t.Run("Data Directory Skips NLU Files", func(t *testing.T) {
		agent, err := storyviz.New(filepath.Join("examples", "moodbot", "domain.yml"), &domain.PolicySet{})
		require.NoError(t, err)

		steps, err := agent.Steps(context.Background(), domain.StoriesSource(filepath.Join("examples", "moodbot", "data")))
		require.NoError(t, err)
		require.NotEmpty(t, steps)
		for _, s := range steps {
			assert.NotContains(t, s.Name, "intent:")
		}

		g, err := agent.Graph(context.Background(), domain.StoriesSource(filepath.Join("examples", "moodbot", "data")), 2, domain.Absent())
		require.NoError(t, err)
		for _, label := range g.ActionLabels() {
			assert.True(t, strings.HasPrefix(label, "utter_"), "unexpected action %q", label)
		}
	})
}

func TestParseDomain(t *testing.T) {
	d, err := storyviz.ParseDomain([]byte(`
intents:
  - greet
  - affirm: {triggers: utter_ok}
responses:
  utter_ok:
    - text: ok
forms:
  restaurant_form: {}
slots:
  city:
    type: text
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"greet", "affirm"}, d.Intents)
	assert.Equal(t, []string{"restaurant_form"}, d.Forms)
	assert.True(t, d.HasAction("utter_ok"))
	assert.True(t, d.HasAction("restaurant_form"))
	assert.True(t, d.HasAction(domain.ActionListen))
	assert.Equal(t, "text", d.Slots["city"].Type)

	t.Run("Rejects Multi Key Intent", func(t *testing.T) {
		_, err := storyviz.ParseDomain([]byte("intents:\n  - {a: 1, b: 2}\n"))
		assert.Error(t, err)
	})
}
