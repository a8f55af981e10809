package storyviz

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/storyviz/pkg/domain"
)

// rawDomain mirrors the domain YAML before normalization.
// Intents may be plain names or single-key maps carrying options, and
// forms may be a list or a map keyed by form name.
type rawDomain struct {
	Intents   []any                  `yaml:"intents"`
	Entities  []string               `yaml:"entities"`
	Slots     map[string]domain.Slot `yaml:"slots"`
	Actions   []string               `yaml:"actions"`
	Templates map[string][]any       `yaml:"templates"`
	Responses map[string][]any       `yaml:"responses"`
	Forms     any                    `yaml:"forms"`
}

// LoadDomain reads a domain YAML file. Errors wrap domain.ErrDomainLoad.
func LoadDomain(path string) (*domain.Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: domain file %q could not be found", domain.ErrDomainLoad, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDomainLoad, err)
	}

	d, err := ParseDomain(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDomainLoad, path, err)
	}
	d.Path = path
	return d, nil
}

// ParseDomain decodes domain YAML.
func ParseDomain(data []byte) (*domain.Domain, error) {
	var raw rawDomain
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	d := &domain.Domain{
		Entities:  raw.Entities,
		Slots:     raw.Slots,
		Actions:   raw.Actions,
		Templates: raw.Templates,
	}

	for _, item := range raw.Intents {
		name, err := intentName(item)
		if err != nil {
			return nil, err
		}
		d.Intents = append(d.Intents, name)
	}

	if d.Templates == nil && raw.Responses != nil {
		d.Templates = raw.Responses
	} else {
		for k, v := range raw.Responses {
			d.Templates[k] = v
		}
	}

	forms, err := formNames(raw.Forms)
	if err != nil {
		return nil, err
	}
	d.Forms = forms

	d.Index()
	return d, nil
}

func intentName(item any) (string, error) {
	switch v := item.(type) {
	case string:
		return v, nil
	case map[string]any:
		if len(v) != 1 {
			return "", fmt.Errorf("intent entry must have exactly one key, got %d", len(v))
		}
		for name := range v {
			return name, nil
		}
	}
	return "", fmt.Errorf("unsupported intent entry %v", item)
}

func formNames(forms any) ([]string, error) {
	switch v := forms.(type) {
	case nil:
		return nil, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, f := range v {
			name, ok := f.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported form entry %v", f)
			}
			names = append(names, name)
		}
		return names, nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}
	return nil, fmt.Errorf("forms must be a list or a map")
}
