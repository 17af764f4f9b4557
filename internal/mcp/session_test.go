package mcp

import (
	"errors"
	"testing"
	"time"

	"playbook/internal/skill"
	"playbook/pkg/workflow"
)

func reviewSession(t *testing.T) *Session {
	t.Helper()
	s, err := skill.CodeReview()
	if err != nil {
		t.Fatalf("CodeReview: %v", err)
	}
	return NewSession(s, map[string]any{"confidence": "medium"})
}

func TestSessionStartsAtEntry(t *testing.T) {
	sess := reviewSession(t)
	step, ok := sess.Current()
	if !ok || step.ID != "orient" {
		t.Fatalf("current = %v, want orient", step.ID)
	}
	if sess.Status() != StateRunning {
		t.Errorf("status = %s, want running", sess.Status())
	}
	if sess.State()["confidence"] != "medium" {
		t.Error("params should seed session state")
	}
}

func TestSessionAdvanceDefaultFallback(t *testing.T) {
	sess := reviewSession(t)
	for _, out := range []workflow.Outcome{workflow.OutcomeOK, workflow.OutcomeOK} {
		if err := sess.Advance(out, nil); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	// assess has no "iterate" edge but does have a default one.
	if err := sess.Advance(workflow.OutcomeIterate, nil); err != nil {
		t.Fatalf("Advance via default edge: %v", err)
	}
	if step, _ := sess.Current(); step.ID != "summary" {
		t.Errorf("current = %s, want summary", step.ID)
	}
}

func TestSessionAdvanceNoEdge(t *testing.T) {
	sess := reviewSession(t)
	err := sess.Advance(workflow.OutcomeFail, nil)
	if !errors.Is(err, workflow.ErrNoTransition) {
		t.Fatalf("err = %v, want ErrNoTransition", err)
	}
	if step, _ := sess.Current(); step.ID != "orient" {
		t.Error("rejected advance must not move the session")
	}
}

func TestSessionDoneRefusesAdvance(t *testing.T) {
	sess := reviewSession(t)
	outs := []workflow.Outcome{
		workflow.OutcomeOK, workflow.OutcomeOK, workflow.OutcomeOK, workflow.OutcomeDefault,
	}
	for _, out := range outs {
		if err := sess.Advance(out, nil); err != nil {
			t.Fatalf("Advance(%s): %v", out, err)
		}
	}
	if sess.Status() != StateDone {
		t.Fatalf("status = %s, want done", sess.Status())
	}
	if err := sess.Advance(workflow.OutcomeOK, nil); err == nil {
		t.Error("done session should refuse to advance")
	}
}

func TestSessionDeltaMergesIntoState(t *testing.T) {
	sess := reviewSession(t)
	if err := sess.Advance(workflow.OutcomeOK, map[string]any{"files": 3}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if sess.State()["files"] != 3 {
		t.Errorf("state = %v, want files=3 merged", sess.State())
	}
	tr := sess.Trace()
	if len(tr) != 1 || tr[0].Step != "orient" || tr[0].Next != "collect" {
		t.Errorf("trace = %+v", tr)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	// Force-replacing a session can create two within the same
	// millisecond; a stale ID must not resolve to the replacement.
	a := reviewSession(t)
	b := reviewSession(t)
	if a.ID == b.ID {
		t.Errorf("back-to-back sessions share ID %q", a.ID)
	}
}

func TestSessionTTL(t *testing.T) {
	sess := reviewSession(t)
	if sess.Expired() {
		t.Error("session without a deadline should not be expired")
	}
	sess.SetTTL(-time.Second)
	if !sess.Expired() {
		t.Error("session past its deadline should be expired")
	}
	sess.SetTTL(time.Minute)
	if sess.Expired() {
		t.Error("refreshed session should not be expired")
	}
}
