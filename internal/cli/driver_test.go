package cli_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/storyviz/internal/cli"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/ports"
)

type visualizeCall struct {
	stories    domain.StoriesSource
	output     string
	maxHistory int
	nlu        domain.NLUDataRef
}

type fakeVisualizer struct {
	calls []visualizeCall
	err   error
}

func (f *fakeVisualizer) Visualize(ctx context.Context, stories domain.StoriesSource, outputPath string, maxHistory int, nlu domain.NLUDataRef) error {
	f.calls = append(f.calls, visualizeCall{stories, outputPath, maxHistory, nlu})
	return f.err
}

type harness struct {
	visualizer   *fakeVisualizer
	factoryCalls int
	browserURIs  []string
	nluData      *domain.NLUData
	nluPaths     []string
	configErr    error
	browserErr   error
}

func newHarness() *harness {
	return &harness{visualizer: &fakeVisualizer{}, nluData: &domain.NLUData{}}
}

func (h *harness) driver() *cli.Driver {
	return cli.NewDriver(
		cli.WithConfigLoader(func(path string) (*domain.PolicySet, error) {
			if h.configErr != nil {
				return nil, h.configErr
			}
			return &domain.PolicySet{Policies: []domain.Policy{{Name: "MemoizationPolicy"}}}, nil
		}),
		cli.WithAgentFactory(func(domainPath string, policies *domain.PolicySet) (ports.Visualizer, error) {
			h.factoryCalls++
			return h.visualizer, nil
		}),
		cli.WithNLULoader(func(path string) (*domain.NLUData, error) {
			h.nluPaths = append(h.nluPaths, path)
			return h.nluData, nil
		}),
		cli.WithBrowser(func(uri string) error {
			h.browserURIs = append(h.browserURIs, uri)
			return h.browserErr
		}),
	)
}

func params() cli.Params {
	return cli.Params{
		ConfigPath: "config.yml",
		DomainPath: "domain.yml",
		Stories:    "data/stories.md",
		OutputPath: "/tmp/out.html",
		MaxHistory: 2,
	}
}

func TestDriver_Visualize(t *testing.T) {
	t.Run("Passes Absent Without NLU Path", func(t *testing.T) {
		h := newHarness()

		_, err := h.driver().Visualize(context.Background(), params())
		require.NoError(t, err)

		require.Len(t, h.visualizer.calls, 1)
		assert.True(t, h.visualizer.calls[0].nlu.IsAbsent())
		assert.Empty(t, h.nluPaths)
	})

	t.Run("Passes Loaded NLU Data Through", func(t *testing.T) {
		h := newHarness()
		p := params()
		p.NLUDataPath = "data/nlu.md"

		_, err := h.driver().Visualize(context.Background(), p)
		require.NoError(t, err)

		require.Len(t, h.visualizer.calls, 1)
		got, ok := h.visualizer.calls[0].nlu.Get()
		require.True(t, ok)
		assert.Same(t, h.nluData, got)
		assert.Equal(t, []string{"data/nlu.md"}, h.nluPaths)
	})

	t.Run("Forwards Arguments", func(t *testing.T) {
		h := newHarness()
		p := params()
		p.MaxHistory = 5

		_, err := h.driver().Visualize(context.Background(), p)
		require.NoError(t, err)

		call := h.visualizer.calls[0]
		assert.Equal(t, 5, call.maxHistory)
		assert.Equal(t, domain.StoriesSource("data/stories.md"), call.stories)
		assert.Equal(t, "/tmp/out.html", call.output)
	})

	t.Run("Opens File URI", func(t *testing.T) {
		h := newHarness()

		uri, err := h.driver().Visualize(context.Background(), params())
		require.NoError(t, err)

		want, err := cli.FileURI("/tmp/out.html")
		require.NoError(t, err)
		assert.Equal(t, want, uri)
		assert.Equal(t, []string{want}, h.browserURIs)
	})

	t.Run("Browser Failure Is Ignored", func(t *testing.T) {
		h := newHarness()
		h.browserErr = errors.New("no display")

		_, err := h.driver().Visualize(context.Background(), params())
		assert.NoError(t, err)
	})

	t.Run("Config Error Skips Agent", func(t *testing.T) {
		h := newHarness()
		h.configErr = errors.New("could not be found")

		_, err := h.driver().Visualize(context.Background(), params())

		assert.ErrorIs(t, err, domain.ErrConfigLoad)
		assert.Zero(t, h.factoryCalls)
		assert.Empty(t, h.browserURIs)
	})

	t.Run("Visualize Error Skips Browser", func(t *testing.T) {
		h := newHarness()
		h.visualizer.err = errors.New("disk full")

		_, err := h.driver().Visualize(context.Background(), params())

		assert.ErrorIs(t, err, domain.ErrVisualization)
		assert.Empty(t, h.browserURIs)
	})

	t.Run("Agent Error", func(t *testing.T) {
		d := cli.NewDriver(
			cli.WithConfigLoader(func(string) (*domain.PolicySet, error) { return &domain.PolicySet{}, nil }),
			cli.WithAgentFactory(func(string, *domain.PolicySet) (ports.Visualizer, error) {
				return nil, errors.New("bad yaml")
			}),
			cli.WithBrowser(nil),
		)

		_, err := d.Visualize(context.Background(), params())
		assert.ErrorIs(t, err, domain.ErrDomainLoad)
	})

	t.Run("NLU Error", func(t *testing.T) {
		h := newHarness()
		d := cli.NewDriver(
			cli.WithConfigLoader(func(string) (*domain.PolicySet, error) { return &domain.PolicySet{}, nil }),
			cli.WithAgentFactory(func(string, *domain.PolicySet) (ports.Visualizer, error) { return h.visualizer, nil }),
			cli.WithNLULoader(func(string) (*domain.NLUData, error) { return nil, errors.New("broken") }),
			cli.WithBrowser(nil),
		)
		p := params()
		p.NLUDataPath = "nlu.json"

		_, err := d.Visualize(context.Background(), p)
		assert.ErrorIs(t, err, domain.ErrNLULoad)
		assert.Empty(t, h.visualizer.calls)
	})

	t.Run("Rejects Invalid Params", func(t *testing.T) {
		h := newHarness()
		p := params()
		p.MaxHistory = 0

		_, err := h.driver().Visualize(context.Background(), p)
		assert.Error(t, err)
		assert.Empty(t, h.visualizer.calls)
	})
}

func TestDriver_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, writeFile(path, content))
		return path
	}

	p := cli.Params{
		ConfigPath: write("config.yml", "policies:\n  - name: MemoizationPolicy\n    max_history: 3\n"),
		DomainPath: write("domain.yml", "intents: [greet]\nactions: [utter_greet]\n"),
		Stories:    domain.StoriesSource(write("stories.md", "## s\n* greet\n  - utter_greet\n")),
		OutputPath: filepath.Join(dir, "graph.dot"),
		MaxHistory: 2,
	}

	uri, err := cli.NewDriver(cli.WithBrowser(nil)).Visualize(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(p.OutputPath), uri)
	assert.FileExists(t, p.OutputPath)
}

func TestFileURI(t *testing.T) {
	uri, err := cli.FileURI("/tmp/out.html")
	require.NoError(t, err)
	if filepath.Separator == '/' {
		assert.Equal(t, "file:///tmp/out.html", uri)
	}

	rel, err := cli.FileURI("graph.html")
	require.NoError(t, err)
	abs, _ := filepath.Abs("graph.html")
	assert.Equal(t, "file://"+filepath.ToSlash(abs), rel)
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, params().Validate())

	p := params()
	p.MaxHistory = -1
	p.ConfigPath = ""
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is required")
	assert.Contains(t, err.Error(), "max history must be at least 1")
}

func TestPositiveInt(t *testing.T) {
	v := cli.NewPositiveInt(cli.DefaultMaxHistory)
	assert.Equal(t, "2", v.String())
	assert.Equal(t, "int", v.Type())

	require.NoError(t, v.Set("4"))
	assert.Equal(t, 4, v.Int())

	for _, bad := range []string{"0", "-3", "two"} {
		assert.Error(t, v.Set(bad), bad)
	}
	assert.Equal(t, 4, v.Int())
}
