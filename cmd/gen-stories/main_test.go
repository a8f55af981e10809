package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/validator"
	loamAdapter "github.com/aretw0/storyviz/pkg/adapters/loam"
	"github.com/aretw0/storyviz/pkg/config"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/nlu"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, generate(ctx, dir, 6))

	loader, err := loamAdapter.Open(filepath.Join(dir, "data", "stories"))
	require.NoError(t, err)
	steps, err := loader.LoadSteps(ctx)
	require.NoError(t, err)
	require.Len(t, steps, 6)
	assert.Equal(t, "generated 0", steps[0].Name)

	policies, err := config.Load(filepath.Join(dir, "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"MemoizationPolicy", "KerasPolicy", "MappingPolicy"}, policies.Names())

	agent, err := storyviz.New(filepath.Join(dir, "domain.yml"), policies, storyviz.WithStoryLoader(loader))
	require.NoError(t, err)
	assert.Empty(t, validator.Check(agent.Domain, steps))

	data, err := nlu.LoadData(filepath.Join(dir, "data", "nlu.md"))
	require.NoError(t, err)

	g, err := agent.Graph(ctx, "", 2, domain.Loaded(data))
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"utter_greet", "utter_happy", "utter_cheer_up", "utter_did_that_help", "utter_goodbye"},
		g.ActionLabels())
}
