package workflow

import "playbook/pkg/domain"

// Handler computes a step's outcome. It receives the per-run context and
// returns the outcome plus a state delta the engine merges into the
// accumulated run state. Handlers must be pure apart from the delta.
type Handler func(ctx *StepContext) (Outcome, map[string]any, error)

// DispatchSpec marks a step as delegated to an external sub-agent. The
// engine does not execute dispatch steps; it hands the spec back to the
// driver and stops.
type DispatchSpec struct {
	Agent  string `yaml:"agent"`
	Prompt string `yaml:"prompt,omitempty"`
}

// ParamSpec declares one parameter a step's handler reads from the run
// parameter map. Descriptors are author-supplied metadata, never executed;
// the exhaustive input generator enumerates their domains.
type ParamSpec struct {
	Name     string
	Domain   domain.Domain // nil when the parameter is unconstrained
	Required bool
	Default  any
}

// StepDef is one node in the step graph.
type StepDef struct {
	// ID is the step identifier, unique within a workflow.
	ID string
	// Title is the display name shown to the driving agent.
	Title string
	// Actions are the human-readable instructions for the step.
	Actions []string
	// Phase is an optional grouping label.
	Phase string
	// Modes restricts the step to the listed mode selectors. Empty means
	// the step participates in every mode.
	Modes []string
	// Handler computes the step's outcome. Nil for output-only steps,
	// which pause the run and return control to the driver.
	Handler Handler
	// Dispatch marks the step as delegated to an external sub-agent.
	// Mutually exclusive with Handler.
	Dispatch *DispatchSpec
	// Next maps outcomes to the next step ID, or to Terminal. The
	// OutcomeDefault entry is the fallback for unlisted outcomes.
	Next map[Outcome]string
	// OnError names the recovery step entered when Handler fails.
	OnError string
	// Params declares the parameters the handler reads.
	Params []ParamSpec
}

// IsTerminal reports whether some outcome maps to the Terminal marker.
func (s StepDef) IsTerminal() bool {
	for _, next := range s.Next {
		if next == Terminal {
			return true
		}
	}
	return false
}

// Iterates reports whether some outcome maps back to the step itself.
func (s StepDef) Iterates() bool {
	for _, next := range s.Next {
		if next == s.ID {
			return true
		}
	}
	return false
}

// InMode reports whether the step participates in the given mode.
func (s StepDef) InMode(mode string) bool {
	if len(s.Modes) == 0 {
		return true
	}
	for _, m := range s.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Param returns the declared parameter spec with the given name.
func (s StepDef) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// StepContext is the per-run state handed to a handler: the current step,
// the caller-supplied workflow parameters, and the state accumulated
// across the run so far. Created fresh per Run call and never shared
// across concurrent executions.
type StepContext struct {
	Step   string
	Params map[string]any
	State  map[string]any
}

// ParamOr returns the named run parameter, or fallback when absent.
func (c *StepContext) ParamOr(name string, fallback any) any {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return fallback
}
