package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"playbook/pkg/domain"
)

// Def is the declarative YAML form of a workflow graph. Handlers are
// referenced by name and bound at compile time through a HandlerRegistry,
// so the graph shape can live in data while behavior stays in code.
type Def struct {
	Workflow    string     `yaml:"workflow"`
	Description string     `yaml:"description,omitempty"`
	Entry       string     `yaml:"entry"`
	Steps       []StepSpec `yaml:"steps"`
}

// StepSpec declares one step in a Def.
type StepSpec struct {
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title,omitempty"`
	Actions  []string          `yaml:"actions,omitempty"`
	Phase    string            `yaml:"phase,omitempty"`
	Modes    []string          `yaml:"modes,omitempty"`
	Handler  string            `yaml:"handler,omitempty"`
	Dispatch *DispatchSpec     `yaml:"dispatch,omitempty"`
	Next     map[string]string `yaml:"next,omitempty"`
	OnError  string            `yaml:"on_error,omitempty"`
	Params   []ParamDef        `yaml:"params,omitempty"`
}

// ParamDef declares one parameter in YAML. At most one of choices, range,
// and const may be set; none means the parameter is unconstrained.
type ParamDef struct {
	Name     string   `yaml:"name"`
	Required bool     `yaml:"required,omitempty"`
	Default  any      `yaml:"default,omitempty"`
	Choices  []string `yaml:"choices,omitempty"`
	Range    []int    `yaml:"range,omitempty"` // [lo, hi], inclusive
	Const    any      `yaml:"const,omitempty"`
}

// HandlerRegistry maps handler names referenced in a Def to functions.
type HandlerRegistry map[string]Handler

// LoadDef parses a YAML workflow definition.
func LoadDef(data []byte) (*Def, error) {
	var def Def
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow YAML: %w", err)
	}
	return &def, nil
}

// Marshal serializes the definition back to YAML.
func (d *Def) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Compile binds handler names against the registry and constructs a
// validated Workflow. Unknown handler names and malformed parameter
// declarations fail here, before New runs the structural checks.
func Compile(d *Def, reg HandlerRegistry) (*Workflow, error) {
	steps := make([]StepDef, 0, len(d.Steps))
	for _, spec := range d.Steps {
		step := StepDef{
			ID:       spec.ID,
			Title:    spec.Title,
			Actions:  spec.Actions,
			Phase:    spec.Phase,
			Modes:    spec.Modes,
			Dispatch: spec.Dispatch,
			OnError:  spec.OnError,
		}
		if spec.Handler != "" {
			h, ok := reg[spec.Handler]
			if !ok {
				return nil, fmt.Errorf("step %q: unknown handler %q", spec.ID, spec.Handler)
			}
			step.Handler = h
		}
		if len(spec.Next) > 0 {
			step.Next = make(map[Outcome]string, len(spec.Next))
			for out, next := range spec.Next {
				step.Next[Outcome(out)] = next
			}
		}
		for _, pd := range spec.Params {
			p, err := pd.toSpec()
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", spec.ID, err)
			}
			step.Params = append(step.Params, p)
		}
		steps = append(steps, step)
	}
	return New(d.Workflow, steps, d.Entry)
}

func (pd ParamDef) toSpec() (ParamSpec, error) {
	p := ParamSpec{Name: pd.Name, Required: pd.Required, Default: pd.Default}
	declared := 0
	if len(pd.Choices) > 0 {
		declared++
		p.Domain = domain.NewChoiceSet(pd.Choices...)
	}
	if len(pd.Range) > 0 {
		declared++
		if len(pd.Range) != 2 {
			return ParamSpec{}, fmt.Errorf("param %q: range must be [lo, hi]", pd.Name)
		}
		d, err := domain.NewBoundedInt(pd.Range[0], pd.Range[1])
		if err != nil {
			return ParamSpec{}, fmt.Errorf("param %q: %w", pd.Name, err)
		}
		p.Domain = d
	}
	if pd.Const != nil {
		declared++
		p.Domain = domain.NewConstant(pd.Const)
	}
	if declared > 1 {
		return ParamSpec{}, fmt.Errorf("param %q: choices, range, and const are mutually exclusive", pd.Name)
	}
	return p, nil
}
