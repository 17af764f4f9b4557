package mcp

import (
	"fmt"
	"sync/atomic"
	"time"

	"playbook/internal/skill"
	"playbook/pkg/workflow"
)

// sessionSeq disambiguates sessions created within the same millisecond,
// such as a force-replace right after start.
var sessionSeq atomic.Uint64

// SessionState is the lifecycle phase of a skill session.
type SessionState string

const (
	StateRunning    SessionState = "running"
	StateDispatched SessionState = "dispatched"
	StateDone       SessionState = "done"
)

// Session tracks one agent's walk through a skill graph. The server's
// mutex guards all fields; Session itself carries no lock.
type Session struct {
	ID    string
	Skill *skill.Skill

	current  string
	state    map[string]any
	trace    []workflow.StepRecord
	status   SessionState
	deadline time.Time
}

// NewSession positions a fresh session at the skill's entry step. Params
// seed the shared state so step handlers and documents can read them.
func NewSession(s *skill.Skill, params map[string]any) *Session {
	state := make(map[string]any, len(params))
	for k, v := range params {
		state[k] = v
	}
	sess := &Session{
		ID:      fmt.Sprintf("s-%d-%d", time.Now().UnixMilli(), sessionSeq.Add(1)),
		Skill:   s,
		current: s.Workflow.Entry(),
		state:   state,
		status:  StateRunning,
	}
	sess.refreshStatus()
	return sess
}

// SetTTL pushes the session's expiry out from now.
func (s *Session) SetTTL(ttl time.Duration) {
	s.deadline = time.Now().Add(ttl)
}

// Expired reports whether the session's TTL has elapsed.
func (s *Session) Expired() bool {
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// Current returns the step the session is parked on.
func (s *Session) Current() (workflow.StepDef, bool) {
	return s.Skill.Workflow.Step(s.current)
}

// Status returns the session's lifecycle phase.
func (s *Session) Status() SessionState { return s.status }

// State returns a copy of the accumulated session state.
func (s *Session) State() map[string]any {
	cp := make(map[string]any, len(s.state))
	for k, v := range s.state {
		cp[k] = v
	}
	return cp
}

// Trace returns a copy of the steps walked so far.
func (s *Session) Trace() []workflow.StepRecord {
	return append([]workflow.StepRecord(nil), s.trace...)
}

// Advance moves the session along the edge the agent picked. The outcome
// is resolved against the current step's transition table, exact match
// first, then the default edge. Delta entries merge into session state
// before the move is recorded.
func (s *Session) Advance(outcome workflow.Outcome, delta map[string]any) error {
	if s.status == StateDone {
		return fmt.Errorf("session %s is done", s.ID)
	}
	step, ok := s.Skill.Workflow.Step(s.current)
	if !ok {
		return fmt.Errorf("%w: %q", workflow.ErrStepNotFound, s.current)
	}

	next, ok := step.Next[outcome]
	if !ok {
		next, ok = step.Next[workflow.OutcomeDefault]
	}
	if !ok {
		return fmt.Errorf("%w: step %s has no edge for outcome %q",
			workflow.ErrNoTransition, step.ID, outcome)
	}

	for k, v := range delta {
		s.state[k] = v
	}
	s.trace = append(s.trace, workflow.StepRecord{
		Step:    step.ID,
		Outcome: outcome,
		Next:    next,
	})

	if next == workflow.Terminal {
		s.status = StateDone
		return nil
	}
	s.current = next
	s.refreshStatus()
	return nil
}

func (s *Session) refreshStatus() {
	if step, ok := s.Skill.Workflow.Step(s.current); ok && step.Dispatch != nil {
		s.status = StateDispatched
		return
	}
	s.status = StateRunning
}
