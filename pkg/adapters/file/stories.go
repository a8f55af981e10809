// Package file reads stories from single files and glob patterns on the local filesystem.
package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/storyviz/internal/compiler"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/bmatcuk/doublestar/v4"
)

// Loader implements ports.StoryLoader over an explicit list of files.
// Files holding NLU training data are skipped.
type Loader struct {
	Paths  []string
	Logger *slog.Logger
	source string
	parser *compiler.Parser
}

// New creates a loader for a single story file.
func New(path string) *Loader {
	return &Loader{Paths: []string{path}, Logger: discard(), source: path, parser: compiler.NewParser()}
}

// NewGlob expands a doublestar pattern (e.g. "data/**/*.md") into a loader.
// A pattern matching nothing is an error.
func NewGlob(pattern string) (*Loader, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pattern %q: %w", domain.ErrStoryResolution, pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pattern %q matched no files", domain.ErrStoryResolution, pattern)
	}
	sort.Strings(matches)
	return &Loader{Paths: matches, Logger: discard(), source: pattern, parser: compiler.NewParser()}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LoadSteps parses every file in order.
func (l *Loader) LoadSteps(ctx context.Context) ([]domain.StoryStep, error) {
	var steps []domain.StoryStep
	for _, path := range l.Paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
		}
		if compiler.IsNLUDocument(data) {
			l.Logger.Debug("Skipping NLU file", "path", path)
			continue
		}
		parsed, err := l.parser.Parse(filepath.ToSlash(path), data)
		if err != nil {
			return nil, err
		}
		steps = append(steps, parsed...)
	}
	return steps, nil
}

// Describe names the source in logs.
func (l *Loader) Describe() string {
	if len(l.Paths) == 1 {
		return l.Paths[0]
	}
	return fmt.Sprintf("%s (%d files)", l.source, len(l.Paths))
}
