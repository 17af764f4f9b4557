package workflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunCompletes(t *testing.T) {
	w, err := New("linear", linear(), "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", res.Status)
	}
	if res.Step != "b" {
		t.Errorf("Step = %q, want b (last executed step)", res.Step)
	}
	wantTrace := []StepRecord{
		{Step: "a", Outcome: OutcomeOK, Next: "b"},
		{Step: "b", Outcome: OutcomeOK, Next: Terminal},
	}
	if diff := cmp.Diff(wantTrace, res.Trace); diff != "" {
		t.Errorf("Trace mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMergesStateDeltas(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Next: map[Outcome]string{OutcomeOK: "b"},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				return OutcomeOK, map[string]any{"seen": "a", "count": 1}, nil
			}},
		{ID: "b", Next: map[Outcome]string{OutcomeOK: Terminal},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				// Later deltas overwrite earlier keys.
				return OutcomeOK, map[string]any{"seen": "b"}, nil
			}},
	}
	w, err := New("state", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State["seen"] != "b" || res.State["count"] != 1 {
		t.Errorf("State = %v, want seen=b count=1", res.State)
	}
}

func TestRunDefaultTransitionFallback(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Handler: okHandler(OutcomeSkip),
			Next: map[Outcome]string{OutcomeOK: "a", OutcomeDefault: Terminal}},
	}
	w, err := New("fallback", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed via default transition", res.Status)
	}
}

func TestRunUnhandledOutcome(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Handler: okHandler(OutcomeIterate),
			Next: map[Outcome]string{OutcomeOK: Terminal}},
	}
	w, err := New("unhandled", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = w.Run()
	if !errors.Is(err, ErrNoTransition) {
		t.Fatalf("Run err = %v, want ErrNoTransition", err)
	}
}

func TestRunPausesAtOutputOnlyStep(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Handler: okHandler(OutcomeOK), Next: map[Outcome]string{OutcomeOK: "report"}},
		{ID: "report", Next: map[Outcome]string{OutcomeDefault: Terminal}},
	}
	w, err := New("pause", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusPaused || res.Step != "report" {
		t.Errorf("got %s at %q, want paused at report", res.Status, res.Step)
	}
	// The paused step must be part of the validated graph.
	if _, ok := w.Step(res.Step); !ok {
		t.Errorf("paused at %q, which is not a declared step", res.Step)
	}
}

func TestRunStopsAtDispatchStep(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Handler: okHandler(OutcomeOK), Next: map[Outcome]string{OutcomeOK: "delegate"}},
		{ID: "delegate", Dispatch: &DispatchSpec{Agent: "explorer", Prompt: "map the repo"},
			Next: map[Outcome]string{OutcomeOK: Terminal}},
	}
	w, err := New("dispatch", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusDispatched {
		t.Fatalf("Status = %s, want dispatched", res.Status)
	}
	if res.Dispatch == nil || res.Dispatch.Agent != "explorer" {
		t.Errorf("Dispatch = %+v, want agent explorer", res.Dispatch)
	}
	if res.Step != "delegate" {
		t.Errorf("Step = %q, want delegate", res.Step)
	}
}

func TestRunRecoversViaOnError(t *testing.T) {
	boom := errors.New("boom")
	steps := []StepDef{
		{ID: "a", OnError: "recover", Next: map[Outcome]string{OutcomeOK: Terminal},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				return "", nil, boom
			}},
		{ID: "recover", Next: map[Outcome]string{OutcomeDefault: Terminal},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				if ctx.State[StateErrorKey] != "boom" {
					return OutcomeFail, nil, fmt.Errorf("error not recorded: %v", ctx.State[StateErrorKey])
				}
				return OutcomeOK, map[string]any{"recovered": true}, nil
			}},
	}
	w, err := New("recover", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", res.Status)
	}
	if res.State["recovered"] != true {
		t.Errorf("State = %v, want recovered=true", res.State)
	}
}

func TestRunPropagatesWithoutOnError(t *testing.T) {
	boom := errors.New("boom")
	steps := []StepDef{
		{ID: "a", Next: map[Outcome]string{OutcomeOK: Terminal},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				return "", nil, boom
			}},
	}
	w, err := New("propagate", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = w.Run()
	if !errors.Is(err, boom) {
		t.Fatalf("Run err = %v, want wrapped boom", err)
	}
}

func TestRunFromStep(t *testing.T) {
	w, err := New("linear", linear(), "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := w.Run(From("b"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Trace) != 1 || res.Trace[0].Step != "b" {
		t.Errorf("Trace = %+v, want single record for b", res.Trace)
	}
}

func TestRunFromUnknownStep(t *testing.T) {
	w, err := New("linear", linear(), "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := w.Run(From("ghost")); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("Run err = %v, want ErrStepNotFound", err)
	}
}

func TestRunParamsVisibleToHandlers(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Next: map[Outcome]string{OutcomeOK: Terminal, OutcomeFail: "a"},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				if ctx.ParamOr("mode", "") == "quick" {
					return OutcomeOK, nil, nil
				}
				return "", nil, errors.New("mode param missing")
			}},
	}
	w, err := New("params", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := w.Run(WithParams(map[string]any{"mode": "quick"})); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunSeedStateIsCopied(t *testing.T) {
	steps := []StepDef{
		{ID: "a", Next: map[Outcome]string{OutcomeDefault: Terminal},
			Handler: func(ctx *StepContext) (Outcome, map[string]any, error) {
				return OutcomeOK, map[string]any{"added": true}, nil
			}},
	}
	w, err := New("seed", steps, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seed := map[string]any{"carried": 1}
	res, err := w.Run(WithState(seed))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State["carried"] != 1 {
		t.Errorf("seeded state not carried: %v", res.State)
	}
	if _, leaked := seed["added"]; leaked {
		t.Error("Run mutated the caller's seed map")
	}
}

func TestRunMaxSteps(t *testing.T) {
	steps := []StepDef{
		{ID: "spin", Handler: okHandler(OutcomeIterate),
			Next: map[Outcome]string{OutcomeIterate: "spin", OutcomeOK: Terminal}},
	}
	w, err := New("spin", steps, "spin")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = w.Run(WithMaxSteps(10))
	if !errors.Is(err, ErrMaxSteps) {
		t.Fatalf("Run err = %v, want ErrMaxSteps", err)
	}
}

func TestWorkflowSafeForConcurrentRuns(t *testing.T) {
	w, err := New("linear", linear(), "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := w.Run(WithParams(map[string]any{"n": 1}))
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Run: %v", err)
		}
	}
}
