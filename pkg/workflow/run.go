package workflow

import "fmt"

// StateErrorKey is the accumulated-state key under which a recovered
// handler error is recorded before jumping to the on_error step.
const StateErrorKey = "last_error"

// RunStatus classifies how a run ended.
type RunStatus string

const (
	// StatusCompleted: a transition targeted the Terminal marker.
	StatusCompleted RunStatus = "completed"
	// StatusPaused: an output-only step was reached; the driver owns the
	// next move (typically rendering the step and re-invoking Run with
	// From on the step it chooses).
	StatusPaused RunStatus = "paused"
	// StatusDispatched: a dispatch step was reached; the driver must act
	// on the returned DispatchSpec.
	StatusDispatched RunStatus = "dispatched"
)

// StepRecord logs one handler invocation during a run.
type StepRecord struct {
	Step    string
	Outcome Outcome
	Next    string
}

// RunResult reports where a run stopped and the state it accumulated.
type RunResult struct {
	Status   RunStatus
	Step     string // step at which the run stopped
	State    map[string]any
	Dispatch *DispatchSpec // set when Status is StatusDispatched
	Trace    []StepRecord
}

type runConfig struct {
	from     string
	params   map[string]any
	state    map[string]any
	maxSteps int
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// From starts the run at the given step instead of the entry point.
func From(step string) RunOption {
	return func(c *runConfig) { c.from = step }
}

// WithParams supplies the caller's workflow-level parameter map.
func WithParams(params map[string]any) RunOption {
	return func(c *runConfig) { c.params = params }
}

// WithState seeds the accumulated state, letting a driver resume a run it
// previously paused. The map is copied; the caller's map is not mutated.
func WithState(state map[string]any) RunOption {
	return func(c *runConfig) { c.state = state }
}

// WithMaxSteps caps the number of handler invocations in one run.
// Zero means no cap.
func WithMaxSteps(n int) RunOption {
	return func(c *runConfig) { c.maxSteps = n }
}

// Run executes the graph synchronously, one step at a time, starting at
// the entry point (or the From option). The loop stops at the first
// output-only step, dispatch step, or Terminal transition; handler errors
// jump to the step's on_error target when one is declared, recording the
// error text under StateErrorKey, and propagate otherwise.
func (w *Workflow) Run(opts ...RunOption) (*RunResult, error) {
	cfg := runConfig{from: w.entry}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := w.index[cfg.from]; !ok {
		return nil, fmt.Errorf("%w: run start %q", ErrStepNotFound, cfg.from)
	}

	params := make(map[string]any, len(cfg.params))
	for k, v := range cfg.params {
		params[k] = v
	}
	state := make(map[string]any, len(cfg.state))
	for k, v := range cfg.state {
		state[k] = v
	}

	res := &RunResult{State: state}
	current := cfg.from
	steps := 0

	for {
		step := w.steps[w.index[current]]

		if step.Handler == nil && step.Dispatch == nil {
			res.Status = StatusPaused
			res.Step = current
			return res, nil
		}
		if step.Dispatch != nil {
			res.Status = StatusDispatched
			res.Step = current
			res.Dispatch = step.Dispatch
			return res, nil
		}

		if cfg.maxSteps > 0 && steps >= cfg.maxSteps {
			return nil, fmt.Errorf("%w: %d invocations, at step %q", ErrMaxSteps, steps, current)
		}
		steps++

		ctx := &StepContext{Step: current, Params: params, State: state}
		out, delta, err := step.Handler(ctx)
		if err != nil {
			if step.OnError == "" {
				return nil, fmt.Errorf("step %s: %w", current, err)
			}
			state[StateErrorKey] = err.Error()
			res.Trace = append(res.Trace, StepRecord{Step: current, Next: step.OnError})
			current = step.OnError
			continue
		}

		for k, v := range delta {
			state[k] = v
		}

		next, ok := step.Next[out]
		if !ok {
			next, ok = step.Next[OutcomeDefault]
		}
		if !ok {
			return nil, fmt.Errorf("%w: step %q outcome %q", ErrNoTransition, current, out)
		}

		res.Trace = append(res.Trace, StepRecord{Step: current, Outcome: out, Next: next})

		if next == Terminal {
			res.Status = StatusCompleted
			res.Step = current
			return res, nil
		}
		current = next
	}
}
