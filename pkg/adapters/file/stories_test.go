package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/storyviz/pkg/adapters/file"
	"github.com/aretw0/storyviz/pkg/domain"
	contract "github.com/aretw0/storyviz/pkg/ports/tests"
)

func seed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoader_Contract(t *testing.T) {
	dir := seed(t, map[string]string{
		"stories.md": "## greet\n* greet\n  - utter_greet\n\n## bye\n* goodbye\n  - utter_goodbye\n",
	})
	contract.StoryLoaderContractTest(t, file.New(filepath.Join(dir, "stories.md")), []string{"greet", "bye"})
}

func TestNewGlob(t *testing.T) {
	dir := seed(t, map[string]string{
		"core/a.md":        "## a\n* greet\n  - utter_greet\n",
		"core/nested/b.md": "## b\n* goodbye\n  - utter_goodbye\n",
		"nlu.json":         `{"rasa_nlu_data": {}}`,
	})

	loader, err := file.NewGlob(filepath.Join(dir, "**", "*.md"))
	require.NoError(t, err)
	assert.Len(t, loader.Paths, 2)
	assert.Contains(t, loader.Describe(), "2 files")

	contract.StoryLoaderContractTest(t, loader, []string{"a", "b"})
}

func TestNewGlob_Contract_MixedDataDirectory(t *testing.T) {
	dir := seed(t, contract.MixedDataFiles)

	loader, err := file.NewGlob(filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	assert.Len(t, loader.Paths, 3)

	contract.StoryLoaderContractTest(t, loader, contract.MixedDataStories)
}

func TestNewGlob_NoMatches(t *testing.T) {
	_, err := file.NewGlob(filepath.Join(t.TempDir(), "*.md"))
	assert.ErrorIs(t, err, domain.ErrStoryResolution)
	assert.Contains(t, err.Error(), "matched no files")
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := file.New(filepath.Join(t.TempDir(), "missing.md")).LoadSteps(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoryResolution)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
