// Package sweep turns a workflow's declared parameter schema into an
// exhaustive set of test inputs. Because every step is data plus a pure
// handler and every declared domain is small, the full Cartesian product
// of legal (step, parameter) combinations stays in the low hundreds and
// can be enumerated outright instead of sampled.
package sweep

import (
	"fmt"

	"playbook/pkg/domain"
	"playbook/pkg/workflow"
)

// Reserved parameter names the generator recognizes.
const (
	ParamStepIndex  = "step_index"
	ParamStepTotal  = "step_total"
	ParamMode       = "mode"
	ParamIteration  = "iteration"
	ParamConfidence = "confidence"
)

// DefaultIterationBound caps the iteration domain for self-looping steps
// that do not declare their own bound.
const DefaultIterationBound = 5

// Options configures input generation.
type Options struct {
	// IterationBound overrides DefaultIterationBound when > 0.
	IterationBound int
}

func (o Options) iterationBound() int {
	if o.IterationBound > 0 {
		return o.IterationBound
	}
	return DefaultIterationBound
}

// Case is one generated test input: a step to exercise and the full
// parameter map to run it with.
type Case struct {
	Step   string
	Index  int
	Mode   string
	Params map[string]any
}

// String identifies the case in reports and test names. Every parameter
// the generator varies appears here, so two distinct cases never share a
// string.
func (c Case) String() string {
	s := fmt.Sprintf("%02d-%s", c.Index, c.Step)
	if c.Mode != "" {
		s += "/" + c.Mode
	}
	if it, ok := c.Params[ParamIteration]; ok {
		s += fmt.Sprintf("#%v", it)
	}
	if conf, ok := c.Params[ParamConfidence]; ok {
		s += fmt.Sprintf("@%v", conf)
	}
	return s
}

// StepSchema summarizes one step's declared parameters for reporting.
type StepSchema struct {
	Step     string
	Index    int
	Iterates bool
	Params   []workflow.ParamSpec
}

// Schema returns the per-step parameter schema in declaration order.
func Schema(w *workflow.Workflow) []StepSchema {
	steps := w.Steps()
	out := make([]StepSchema, 0, len(steps))
	for i, s := range steps {
		out = append(out, StepSchema{
			Step:     s.ID,
			Index:    i,
			Iterates: s.Iterates(),
			Params:   w.Schema(s.ID),
		})
	}
	return out
}

// Generate enumerates every legal input combination for the workflow.
//
// Parameters fall into three classes. Global parameters (step_index,
// step_total, and mode when any step declares a mode choice set) apply to
// every case. Conditional parameters apply only where the step's shape
// activates them: an iteration domain when an outcome maps back to the
// step itself, a confidence domain when one is declared. Remaining
// required parameters are filled with their default, the first domain
// value, or a deterministic placeholder. For every step and every mode
// that does not exclude the step, one case is emitted per element of the
// Cartesian product of the active conditional domains.
func Generate(w *workflow.Workflow, opts Options) []Case {
	steps := w.Steps()
	modes := modeSelectors(steps)

	var cases []Case
	for i, step := range steps {
		for _, mode := range modes {
			if mode != "" && !step.InMode(mode) {
				continue
			}

			base := map[string]any{
				ParamStepIndex: i,
				ParamStepTotal: len(steps),
			}
			if mode != "" {
				base[ParamMode] = mode
			}
			fillRequired(base, step)

			for _, combo := range cartesian(conditionalDomains(step, opts)) {
				params := make(map[string]any, len(base)+len(combo))
				for k, v := range base {
					params[k] = v
				}
				for k, v := range combo {
					params[k] = v
				}
				cases = append(cases, Case{Step: step.ID, Index: i, Mode: mode, Params: params})
			}
		}
	}
	return cases
}

// modeSelectors returns the global mode choices, or the single empty mode
// when no step declares a restricted mode parameter.
func modeSelectors(steps []workflow.StepDef) []string {
	for _, s := range steps {
		p, ok := s.Param(ParamMode)
		if !ok {
			continue
		}
		if cs, ok := p.Domain.(domain.ChoiceSet); ok {
			return cs.Choices()
		}
	}
	return []string{""}
}

// binding pairs a conditional parameter name with its domain.
type binding struct {
	name string
	dom  domain.Domain
}

func conditionalDomains(step workflow.StepDef, opts Options) []binding {
	var bs []binding
	if step.Iterates() {
		dom := domain.Domain(domain.MustBoundedInt(1, opts.iterationBound()))
		if p, ok := step.Param(ParamIteration); ok && p.Domain != nil {
			dom = p.Domain
		}
		bs = append(bs, binding{name: ParamIteration, dom: dom})
	}
	if p, ok := step.Param(ParamConfidence); ok && p.Domain != nil {
		bs = append(bs, binding{name: ParamConfidence, dom: p.Domain})
	}
	return bs
}

// fillRequired adds the step's remaining required parameters (and optional
// ones carrying defaults). Mode and conditional parameters are handled by
// the caller.
func fillRequired(params map[string]any, step workflow.StepDef) {
	for _, p := range step.Params {
		switch p.Name {
		case ParamMode, ParamIteration, ParamConfidence:
			continue
		}
		if p.Default != nil {
			params[p.Name] = p.Default
			continue
		}
		if !p.Required {
			continue
		}
		if p.Domain != nil && p.Domain.Size() > 0 {
			params[p.Name] = p.Domain.Values()[0]
			continue
		}
		params[p.Name] = p.Name + "-sample"
	}
}

// cartesian enumerates the product of the bound domains in a fixed order:
// the first binding varies slowest. An empty binding list yields one
// empty combination so every step emits at least one case.
func cartesian(bs []binding) []map[string]any {
	combos := []map[string]any{{}}
	for _, b := range bs {
		values := b.dom.Values()
		next := make([]map[string]any, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				m := make(map[string]any, len(combo)+1)
				for k, cv := range combo {
					m[k] = cv
				}
				m[b.name] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}
