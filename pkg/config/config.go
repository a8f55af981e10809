// Package config loads dialogue-policy configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// KnownPolicies lists the built-in policy names a config file may reference.
// Custom policies are referenced by module path ("my_module.MyPolicy") and accepted as is.
var KnownPolicies = []string{
	"AugmentedMemoizationPolicy",
	"EmbeddingPolicy",
	"FallbackPolicy",
	"FormPolicy",
	"KerasPolicy",
	"MappingPolicy",
	"MemoizationPolicy",
	"SklearnPolicy",
	"TwoStageFallbackPolicy",
}

type rawConfig struct {
	Language string           `yaml:"language"`
	Pipeline any              `yaml:"pipeline"`
	Policies []map[string]any `yaml:"policies"`
}

// Load reads a policy configuration file.
// Every failure wraps domain.ErrConfigLoad.
func Load(path string) (*domain.PolicySet, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no config file given", domain.ErrConfigLoad)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file '%s' could not be found", domain.ErrConfigLoad, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}
	return Parse(data)
}

// Parse decodes the YAML content of a policy configuration.
func Parse(data []byte) (*domain.PolicySet, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %w", domain.ErrConfigLoad, err)
	}
	if len(raw.Policies) == 0 {
		return nil, fmt.Errorf("%w: no policies configured", domain.ErrConfigLoad)
	}

	set := &domain.PolicySet{
		Language: raw.Language,
		Pipeline: raw.Pipeline,
		Policies: make([]domain.Policy, 0, len(raw.Policies)),
	}
	for i, entry := range raw.Policies {
		var policy domain.Policy
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &policy,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
		}
		if err := decoder.Decode(entry); err != nil {
			return nil, fmt.Errorf("%w: policies[%d]: %w", domain.ErrConfigLoad, i, err)
		}
		if policy.Name == "" {
			return nil, fmt.Errorf("%w: policies[%d]: missing name", domain.ErrConfigLoad, i)
		}
		if !isKnown(policy.Name) && !domain.IsCustomPolicy(policy.Name) {
			return nil, fmt.Errorf("%w: policies[%d]: unknown policy %q (known: %s)",
				domain.ErrConfigLoad, i, policy.Name, strings.Join(KnownPolicies, ", "))
		}
		if policy.MaxHistory < 0 {
			return nil, fmt.Errorf("%w: policies[%d]: max_history must not be negative", domain.ErrConfigLoad, i)
		}
		set.Policies = append(set.Policies, policy)
	}
	return set, nil
}

func isKnown(name string) bool {
	i := sort.SearchStrings(KnownPolicies, name)
	return i < len(KnownPolicies) && KnownPolicies[i] == name
}
