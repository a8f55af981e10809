package domain

import "strings"

// Policy is a single dialogue policy entry of a config file.
type Policy struct {
	Name       string         `json:"name" mapstructure:"name"`
	MaxHistory int            `json:"max_history,omitempty" mapstructure:"max_history"`
	Epochs     int            `json:"epochs,omitempty" mapstructure:"epochs"`
	Priority   int            `json:"priority,omitempty" mapstructure:"priority"`
	Params     map[string]any `json:"params,omitempty" mapstructure:",remain"`
}

// PolicySet is the ordered list of policies an agent is configured with.
type PolicySet struct {
	Language string   `json:"language,omitempty"`
	Pipeline any      `json:"pipeline,omitempty"`
	Policies []Policy `json:"policies"`
}

// Names returns the policy names in configuration order.
func (p *PolicySet) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.Policies))
	for _, policy := range p.Policies {
		names = append(names, policy.Name)
	}
	return names
}

// IsCustomPolicy reports whether name is a module path such as "my_module.MyPolicy"
// rather than a built-in policy name.
func IsCustomPolicy(name string) bool {
	if !strings.Contains(name, ".") {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" || strings.ContainsAny(part, " \t/") {
			return false
		}
	}
	return true
}

// Custom returns the names of the policies referenced by module path.
func (p *PolicySet) Custom() []string {
	if p == nil {
		return nil
	}
	var names []string
	for _, policy := range p.Policies {
		if IsCustomPolicy(policy.Name) {
			names = append(names, policy.Name)
		}
	}
	return names
}
