package workflow

import "errors"

var (
	// ErrDuplicateStep is returned when two steps share an identifier.
	ErrDuplicateStep = errors.New("workflow: duplicate step id")

	// ErrStepNotFound is returned when an entry point or run start step
	// does not name a declared step.
	ErrStepNotFound = errors.New("workflow: step not found")

	// ErrBadTransition is returned when a transition or on_error edge
	// targets a step that is not declared (and is not the Terminal marker).
	ErrBadTransition = errors.New("workflow: transition targets unknown step")

	// ErrNoTerminal is returned when no step maps any outcome to the
	// Terminal marker: the graph could never finish.
	ErrNoTerminal = errors.New("workflow: no step reaches the terminal marker")

	// ErrMissingHandler is returned for a non-terminal step with neither
	// a handler nor a dispatch marker: a dead end with no way to proceed.
	ErrMissingHandler = errors.New("workflow: non-terminal step has no handler")

	// ErrAmbiguousHandler is returned when a step declares both a handler
	// and a dispatch marker.
	ErrAmbiguousHandler = errors.New("workflow: step declares both handler and dispatch")

	// ErrUnreachable is returned when breadth-first traversal from the
	// entry point does not visit every declared step.
	ErrUnreachable = errors.New("workflow: unreachable steps")

	// ErrNoTransition is returned at run time when a handler's outcome
	// has neither an exact nor a default transition entry.
	ErrNoTransition = errors.New("workflow: no transition for outcome")

	// ErrMaxSteps is returned when a run exceeds the configured step cap.
	ErrMaxSteps = errors.New("workflow: max steps exceeded")
)
