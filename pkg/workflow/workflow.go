package workflow

import (
	"fmt"
	"sort"
)

// Workflow is a validated, immutable container of step definitions plus an
// entry point. Construction runs every structural check synchronously; a
// workflow that fails validation is never returned, even partially. A
// constructed Workflow is read-only and safe to share across any number of
// concurrent Run calls.
type Workflow struct {
	name   string
	steps  []StepDef
	index  map[string]int // id -> position in declaration order
	entry  string
	schema map[string][]ParamSpec // derived once at construction
}

// New validates the step graph and constructs a Workflow. Steps keep their
// declaration order, which is significant for index-based addressing in
// the exhaustive input generator.
func New(name string, steps []StepDef, entry string) (*Workflow, error) {
	w := &Workflow{
		name:  name,
		steps: make([]StepDef, len(steps)),
		index: make(map[string]int, len(steps)),
		entry: entry,
	}
	copy(w.steps, steps)

	for i, s := range w.steps {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: step at position %d has empty id", ErrStepNotFound, i)
		}
		if _, dup := w.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStep, s.ID)
		}
		w.index[s.ID] = i
	}

	if _, ok := w.index[entry]; !ok {
		return nil, fmt.Errorf("%w: entry point %q", ErrStepNotFound, entry)
	}

	if err := w.checkSteps(); err != nil {
		return nil, err
	}
	if err := w.checkReachability(); err != nil {
		return nil, err
	}

	w.schema = make(map[string][]ParamSpec, len(w.steps))
	for _, s := range w.steps {
		params := make([]ParamSpec, len(s.Params))
		copy(params, s.Params)
		w.schema[s.ID] = params
	}

	return w, nil
}

// checkSteps validates per-step invariants: transition targets exist,
// handler and dispatch are mutually exclusive, non-terminal steps can
// compute how to proceed, and at least one step can finish the graph.
func (w *Workflow) checkSteps() error {
	anyTerminal := false
	for _, s := range w.steps {
		for out, next := range s.Next {
			if next == Terminal {
				anyTerminal = true
				continue
			}
			if _, ok := w.index[next]; !ok {
				return fmt.Errorf("%w: step %q maps outcome %q to %q", ErrBadTransition, s.ID, out, next)
			}
		}
		if s.OnError != "" {
			if _, ok := w.index[s.OnError]; !ok {
				return fmt.Errorf("%w: step %q on_error %q", ErrBadTransition, s.ID, s.OnError)
			}
		}
		if s.Handler != nil && s.Dispatch != nil {
			return fmt.Errorf("%w: step %q", ErrAmbiguousHandler, s.ID)
		}
		if !s.IsTerminal() && s.Handler == nil && s.Dispatch == nil {
			return fmt.Errorf("%w: step %q", ErrMissingHandler, s.ID)
		}
	}
	if !anyTerminal {
		return fmt.Errorf("%w: workflow %q", ErrNoTerminal, w.name)
	}
	return nil
}

// checkReachability runs breadth-first search from the entry point over
// every transition target plus on_error edges. Every declared step must be
// dequeued; leftover steps are reported sorted for a stable error message.
func (w *Workflow) checkReachability() error {
	visited := make(map[string]bool, len(w.steps))
	queue := []string{w.entry}
	visited[w.entry] = true

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		s := w.steps[w.index[id]]

		targets := make([]string, 0, len(s.Next)+1)
		for _, next := range s.Next {
			targets = append(targets, next)
		}
		if s.OnError != "" {
			targets = append(targets, s.OnError)
		}
		for _, next := range targets {
			if next == Terminal || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	var dead []string
	for _, s := range w.steps {
		if !visited[s.ID] {
			dead = append(dead, s.ID)
		}
	}
	if len(dead) > 0 {
		sort.Strings(dead)
		return fmt.Errorf("%w: %v (from entry %q)", ErrUnreachable, dead, w.entry)
	}
	return nil
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Entry returns the entry point step ID.
func (w *Workflow) Entry() string { return w.entry }

// Len returns the number of declared steps.
func (w *Workflow) Len() int { return len(w.steps) }

// Steps returns the step definitions in declaration order.
func (w *Workflow) Steps() []StepDef {
	out := make([]StepDef, len(w.steps))
	copy(out, w.steps)
	return out
}

// Step returns the step with the given ID.
func (w *Workflow) Step(id string) (StepDef, bool) {
	i, ok := w.index[id]
	if !ok {
		return StepDef{}, false
	}
	return w.steps[i], true
}

// StepIndex returns the declaration-order position of the given step.
func (w *Workflow) StepIndex(id string) (int, bool) {
	i, ok := w.index[id]
	return i, ok
}

// Schema returns the declared parameter specs for the given step, as
// derived once at construction.
func (w *Workflow) Schema(id string) []ParamSpec {
	params, ok := w.schema[id]
	if !ok {
		return nil
	}
	out := make([]ParamSpec, len(params))
	copy(out, params)
	return out
}
