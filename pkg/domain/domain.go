package domain

// ActionListen is the built-in action that hands the turn back to the user.
const ActionListen = "action_listen"

// Slot describes a single domain slot.
type Slot struct {
	Type         string   `json:"type" yaml:"type"`
	InitialValue any      `json:"initial_value,omitempty" yaml:"initial_value,omitempty"`
	Values       []string `json:"values,omitempty" yaml:"values,omitempty"`
	AutoFill     *bool    `json:"auto_fill,omitempty" yaml:"auto_fill,omitempty"`
}

// Domain is the set of intents, entities, slots and actions defining what the assistant can do.
type Domain struct {
	Intents   []string         `json:"intents"`
	Entities  []string         `json:"entities"`
	Slots     map[string]Slot  `json:"slots"`
	Actions   []string         `json:"actions"`
	Templates map[string][]any `json:"templates"`
	Forms     []string         `json:"forms"`
	Path      string           `json:"-"`
	intentSet map[string]struct{}
	actionSet map[string]struct{}
}

// Index builds the lookup tables behind HasIntent and HasAction.
// Loaders call it once after filling the struct.
func (d *Domain) Index() {
	d.intentSet = make(map[string]struct{}, len(d.Intents))
	for _, i := range d.Intents {
		d.intentSet[i] = struct{}{}
	}
	d.actionSet = make(map[string]struct{}, len(d.Actions)+len(d.Templates)+len(d.Forms))
	for _, a := range d.Actions {
		d.actionSet[a] = struct{}{}
	}
	for name := range d.Templates {
		d.actionSet[name] = struct{}{}
	}
	for _, f := range d.Forms {
		d.actionSet[f] = struct{}{}
	}
}

// HasIntent reports whether the intent is declared in the domain.
func (d *Domain) HasIntent(name string) bool {
	if d.intentSet == nil {
		d.Index()
	}
	_, ok := d.intentSet[name]
	return ok
}

// HasAction reports whether the action is declared in the domain.
// Built-in actions (action_listen, action_restart, ...) are always known.
func (d *Domain) HasAction(name string) bool {
	if isBuiltinAction(name) {
		return true
	}
	if d.actionSet == nil {
		d.Index()
	}
	_, ok := d.actionSet[name]
	return ok
}

func isBuiltinAction(name string) bool {
	switch name {
	case ActionListen, "action_restart", "action_default_fallback", "action_deactivate_form",
		"action_revert_fallback_events", "action_default_ask_affirmation",
		"action_default_ask_rephrase", "action_back":
		return true
	}
	return false
}
