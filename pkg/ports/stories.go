package ports

import (
	"context"

	"github.com/aretw0/storyviz/pkg/domain"
)

// StoryLoader defines how story steps are read from a stories source.
// This allows the storage layer (single file, glob, Loam directory, memory) to be decoupled.
type StoryLoader interface {
	// LoadSteps reads and parses every story step of the source.
	// Errors wrap domain.ErrStoryResolution.
	LoadSteps(ctx context.Context) ([]domain.StoryStep, error)

	// Describe returns a short human-readable name of the source, used in logs.
	Describe() string
}

// Visualizer renders the stories of a source into an output file.
type Visualizer interface {
	Visualize(ctx context.Context, stories domain.StoriesSource, outputPath string, maxHistory int, nlu domain.NLUDataRef) error
}
