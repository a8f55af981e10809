package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/pkg/config"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/nlu"
	"github.com/aretw0/storyviz/pkg/ports"
)

// ConfigLoader reads a policy configuration file.
type ConfigLoader func(path string) (*domain.PolicySet, error)

// AgentFactory builds a visualizer from a domain file and a policy set.
type AgentFactory func(domainPath string, policies *domain.PolicySet) (ports.Visualizer, error)

// NLULoader reads NLU training data.
type NLULoader func(path string) (*domain.NLUData, error)

// BrowserOpener shows a URI to the user.
type BrowserOpener func(uri string) error

// Driver runs the visualize command against injectable collaborators.
type Driver struct {
	loadConfig ConfigLoader
	newAgent   AgentFactory
	loadNLU    NLULoader
	browser    BrowserOpener
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Driver.
type Option func(*Driver)

// WithConfigLoader replaces config.Load.
func WithConfigLoader(fn ConfigLoader) Option {
	return func(d *Driver) { d.loadConfig = fn }
}

// WithAgentFactory replaces the default storyviz.Agent construction.
func WithAgentFactory(fn AgentFactory) Option {
	return func(d *Driver) { d.newAgent = fn }
}

// WithNLULoader replaces nlu.LoadData.
func WithNLULoader(fn NLULoader) Option {
	return func(d *Driver) { d.loadNLU = fn }
}

// WithBrowser sets how the result is shown. nil disables opening.
func WithBrowser(fn BrowserOpener) Option {
	return func(d *Driver) { d.browser = fn }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// NewDriver returns a Driver wired to the real loaders and the system browser.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		loadConfig: config.Load,
		loadNLU:    nlu.LoadData,
		browser:    OpenBrowser,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.newAgent == nil {
		logger := d.logger
		d.newAgent = func(domainPath string, policies *domain.PolicySet) (ports.Visualizer, error) {
			agent, err := storyviz.New(domainPath, policies, storyviz.WithLogger(logger))
			if err != nil {
				return nil, err
			}
			return agent, nil
		}
	}
	return d
}

// Visualize loads the configuration, domain and NLU data, renders the stories into
// p.OutputPath and opens the result. It returns the file URI of the output.
func (d *Driver) Visualize(ctx context.Context, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	policies, err := d.loadConfig(p.ConfigPath)
	if err != nil {
		return "", wrap(domain.ErrConfigLoad, err)
	}

	agent, err := d.newAgent(p.DomainPath, policies)
	if err != nil {
		return "", wrap(domain.ErrDomainLoad, err)
	}

	nluRef, err := LoadNLURef(p.NLUDataPath, d.loadNLU)
	if err != nil {
		return "", err
	}

	d.logger.Info("Starting to visualize stories...")
	if err := agent.Visualize(ctx, p.Stories, p.OutputPath, p.MaxHistory, nluRef); err != nil {
		return "", wrap(domain.ErrVisualization, err)
	}

	uri, err := FileURI(p.OutputPath)
	if err != nil {
		return "", wrap(domain.ErrVisualization, err)
	}
	d.logger.Info("Finished graph creation", "uri", uri)

	if d.browser != nil {
		if err := d.browser(uri); err != nil {
			d.logger.Warn("Could not open browser", "uri", uri, "error", err)
		}
	}
	return uri, nil
}

// LoadNLURef returns Absent for an empty path and the loaded data otherwise.
// Errors wrap domain.ErrNLULoad.
func LoadNLURef(path string, load NLULoader) (domain.NLUDataRef, error) {
	if path == "" {
		return domain.Absent(), nil
	}
	data, err := load(path)
	if err != nil {
		return domain.Absent(), wrap(domain.ErrNLULoad, err)
	}
	return domain.Loaded(data), nil
}

// FileURI turns a local path into an absolute file:// URI.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // drive letter paths
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}

func wrap(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
