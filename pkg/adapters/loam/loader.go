package loam

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/storyviz/internal/compiler"
	"github.com/aretw0/storyviz/pkg/domain"
)

// Loader adapts the Loam library to the StoryLoader interface.
// Every Markdown document of the repository is parsed as a story file, except NLU
// training data kept next to the stories.
type Loader struct {
	Repo   *loam.TypedRepository[StoryMetadata]
	Dir    string
	Logger *slog.Logger
	parser *compiler.Parser
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StoryMetadata]) *Loader {
	return &Loader{
		Repo:   repo,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		parser: compiler.NewParser(),
	}
}

// Open initializes a read-only Loam repository on dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid path: %w", domain.ErrStoryResolution, err)
	}

	// ReadOnly keeps Loam from writing into the stories directory.
	repo, err := loam.Init(absPath,
		loam.WithReadOnly(true),
		loam.WithVersioning(false),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize loam: %w", domain.ErrStoryResolution, err)
	}

	l := New(loam.NewTypedRepository[StoryMetadata](repo))
	l.Dir = absPath
	return l, nil
}

// LoadSteps lists the repository and parses each Markdown document in ID order.
func (l *Loader) LoadSteps(ctx context.Context) ([]domain.StoryStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
	}

	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loam list failed: %w", domain.ErrStoryResolution, err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if isStoryDocument(doc.ID) {
			ids = append(ids, doc.ID)
		}
	}
	sort.Strings(ids) // Deterministic order

	var steps []domain.StoryStep
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
		}
		doc, err := l.Repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: loam get failed for %s: %w", domain.ErrStoryResolution, id, err)
		}
		if doc.Data.Skip {
			continue
		}
		content := []byte(doc.Content)
		if compiler.IsNLUDocument(content) {
			l.Logger.Debug("Skipping NLU document", "id", id)
			continue
		}
		parsed, err := l.parser.Parse(id, content)
		if err != nil {
			return nil, err
		}
		steps = append(steps, parsed...)
	}
	return steps, nil
}

// Describe names the source in logs.
func (l *Loader) Describe() string {
	if l.Dir != "" {
		return l.Dir
	}
	return "loam repository"
}

// isStoryDocument keeps Markdown documents. Loam may report IDs with or without extension.
func isStoryDocument(id string) bool {
	switch strings.ToLower(filepath.Ext(id)) {
	case ".md", ".markdown", "":
		return true
	default:
		return false
	}
}
