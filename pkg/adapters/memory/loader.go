package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/storyviz/internal/compiler"
	"github.com/aretw0/storyviz/pkg/domain"
)

// Loader implements ports.StoryLoader using an in-memory map of story documents.
type Loader struct {
	docs   map[string][]byte
	parser *compiler.Parser
}

// NewLoader creates a new in-memory loader from raw Markdown documents keyed by name.
func NewLoader(docs map[string]string) *Loader {
	raw := make(map[string][]byte, len(docs))
	for k, v := range docs {
		raw[k] = []byte(v)
	}
	return &Loader{docs: raw, parser: compiler.NewParser()}
}

// NewFromSteps creates a loader that renders the given steps back into Markdown.
// This keeps tests close to what users write on disk.
func NewFromSteps(steps ...domain.StoryStep) (*Loader, error) {
	docs := make(map[string]string, len(steps))
	for i, s := range steps {
		if s.Name == "" {
			return nil, fmt.Errorf("story step %d missing name", i)
		}
		docs[fmt.Sprintf("%03d.md", i)] = compiler.Format(s)
	}
	return NewLoader(docs), nil
}

// LoadSteps parses all documents in name order.
func (l *Loader) LoadSteps(ctx context.Context) ([]domain.StoryStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
	}

	names := make([]string, 0, len(l.docs))
	for k := range l.docs {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order

	var steps []domain.StoryStep
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
		}
		parsed, err := l.parser.Parse(name, l.docs[name])
		if err != nil {
			return nil, err
		}
		steps = append(steps, parsed...)
	}
	return steps, nil
}

// Describe names the source in logs.
func (l *Loader) Describe() string {
	return fmt.Sprintf("memory (%d documents)", len(l.docs))
}
