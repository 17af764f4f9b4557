// Package workflow implements the step-graph orchestration engine.
// A skill declares an ordered set of named steps, each with a handler that
// computes an outcome and an outcome-to-next-step transition table. The
// graph is validated for structural soundness at construction and executed
// one step at a time, with control returning to an external driver at
// output-only and dispatch steps.
package workflow

// Outcome is the closed result tag a step handler returns to select its
// next transition. Compared by value.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFail    Outcome = "fail"
	OutcomeSkip    Outcome = "skip"
	OutcomeIterate Outcome = "iterate"
	// OutcomeDefault is the fallback transition key: consulted when a
	// handler's outcome has no exact entry in the transition table.
	OutcomeDefault Outcome = "default"
)

// Terminal is the explicit "no next step" transition target. A transition
// to Terminal completes the run; it is the only target that may name a
// step that does not exist.
const Terminal = "_done"

// Outcomes returns the closed outcome set in declaration order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeOK, OutcomeFail, OutcomeSkip, OutcomeIterate, OutcomeDefault}
}
