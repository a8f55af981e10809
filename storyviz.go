package storyviz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aretw0/storyviz/internal/compiler"
	"github.com/aretw0/storyviz/internal/presentation/graph"
	"github.com/aretw0/storyviz/internal/validator"
	"github.com/aretw0/storyviz/internal/visualization"
	fileAdapter "github.com/aretw0/storyviz/pkg/adapters/file"
	loamAdapter "github.com/aretw0/storyviz/pkg/adapters/loam"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/ports"
)

// Agent is the high-level entry point for the storyviz library.
// It holds a loaded domain and policy configuration and turns stories into graphs.
type Agent struct {
	Domain   *domain.Domain
	Policies *domain.PolicySet
	Name     string

	loader  ports.StoryLoader
	logger  *slog.Logger
	onGraph func(*visualization.Graph)
}

// Option defines a functional option for configuring the Agent.
type Option func(*Agent)

// WithLogger sets a custom structured logger for the agent.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithStoryLoader injects a StoryLoader, bypassing resolution of the stories argument.
func WithStoryLoader(l ports.StoryLoader) Option {
	return func(a *Agent) {
		a.loader = l
	}
}

// WithGraphHook registers a callback that receives every graph the agent builds.
func WithGraphHook(fn func(*visualization.Graph)) Option {
	return func(a *Agent) {
		a.onGraph = fn
	}
}

// New loads the domain at domainPath and returns an Agent for the given policies.
// Errors wrap domain.ErrDomainLoad.
func New(domainPath string, policies *domain.PolicySet, opts ...Option) (*Agent, error) {
	a := &Agent{Policies: policies}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d, err := LoadDomain(domainPath)
	if err != nil {
		return nil, err
	}
	a.Domain = d
	a.Name = filepath.Base(domainPath)

	a.logger.Debug("Agent ready",
		"domain", domainPath,
		"intents", len(d.Intents),
		"actions", len(d.Actions),
		"policies", policies.Names(),
	)
	for _, name := range policies.Custom() {
		a.logger.Warn("Custom policy is not checked; it is only listed", "policy", name)
	}
	return a, nil
}

// Visualize renders the stories into outputPath. The format follows the file extension.
func (a *Agent) Visualize(ctx context.Context, stories domain.StoriesSource, outputPath string, maxHistory int, nlu domain.NLUDataRef) error {
	g, err := a.Graph(ctx, stories, maxHistory, nlu)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return graph.Write(outputPath, g, "Stories of "+a.Name)
}

// Graph builds the merged story graph without writing it anywhere.
func (a *Agent) Graph(ctx context.Context, stories domain.StoriesSource, maxHistory int, nlu domain.NLUDataRef) (*visualization.Graph, error) {
	loader, err := a.resolve(stories)
	if err != nil {
		return nil, err
	}
	return a.GraphFrom(ctx, loader, maxHistory, nlu)
}

// GraphFrom builds the merged story graph from an explicit loader.
func (a *Agent) GraphFrom(ctx context.Context, loader ports.StoryLoader, maxHistory int, nlu domain.NLUDataRef) (*visualization.Graph, error) {
	if maxHistory < 1 {
		return nil, fmt.Errorf("max history must be at least 1, got %d", maxHistory)
	}
	logger := a.logger.With("run_id", uuid.NewString())
	logger.Debug("Loading stories", "source", loader.Describe())

	steps, err := loader.LoadSteps(ctx)
	if err != nil {
		return nil, err
	}
	a.checkAgainstDomain(logger, steps)

	sequences := compiler.Flatten(steps)
	if len(sequences) == compiler.MaxSequences {
		logger.Warn("Story expansion truncated", "limit", compiler.MaxSequences)
	}
	if len(sequences) == 0 {
		logger.Warn("No stories found", "source", loader.Describe())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := visualization.Build(sequences, visualization.Options{MaxHistory: maxHistory, NLU: nlu})
	logger.Info("Graph built",
		"steps", len(steps),
		"stories", len(sequences),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"max_history", maxHistory,
		"nlu", !nlu.IsAbsent(),
	)
	if a.onGraph != nil {
		a.onGraph(g)
	}
	return g, nil
}

// Steps resolves the stories source and parses every story step without flattening.
func (a *Agent) Steps(ctx context.Context, stories domain.StoriesSource) ([]domain.StoryStep, error) {
	loader, err := a.resolve(stories)
	if err != nil {
		return nil, err
	}
	return loader.LoadSteps(ctx)
}

// resolve picks the loader for a stories source: a glob, a directory (Loam) or a single file.
func (a *Agent) resolve(stories domain.StoriesSource) (ports.StoryLoader, error) {
	if a.loader != nil {
		return a.loader, nil
	}
	if stories == "" {
		return nil, fmt.Errorf("%w: no stories source given", domain.ErrStoryResolution)
	}
	if stories.IsGlob() {
		l, err := fileAdapter.NewGlob(string(stories))
		if err != nil {
			return nil, err
		}
		l.Logger = a.logger
		return l, nil
	}

	info, err := os.Stat(string(stories))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoryResolution, err)
	}
	if info.IsDir() {
		l, err := loamAdapter.Open(string(stories))
		if err != nil {
			return nil, err
		}
		l.Logger = a.logger
		return l, nil
	}
	l := fileAdapter.New(string(stories))
	l.Logger = a.logger
	return l, nil
}

func (a *Agent) checkAgainstDomain(logger *slog.Logger, steps []domain.StoryStep) {
	for _, issue := range validator.Check(a.Domain, steps) {
		logger.Warn(issue.String(), "kind", issue.Kind, "name", issue.Name)
	}
}
