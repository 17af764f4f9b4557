package skill

import (
	"fmt"

	"playbook/pkg/domain"
	"playbook/pkg/workflow"
)

// CodeReview builds the review skill: orient, collect evidence in up to
// three passes, assess, optionally hand deep investigation to a sub-agent,
// and end on an output-only summary step. Collection loops on ITERATE
// while confidence stays low; assessment failures route to the dispatch
// step; handler errors land on the recover step.
func CodeReview() (*Skill, error) {
	steps := []workflow.StepDef{
		{
			ID:    "orient",
			Title: "Orient in the change",
			Phase: "survey",
			Actions: []string{
				"read the diff end to end",
				"list the packages it touches",
			},
			Handler: orientHandler,
			Next:    map[workflow.Outcome]string{workflow.OutcomeOK: "collect"},
		},
		{
			ID:    "collect",
			Title: "Collect evidence",
			Phase: "survey",
			Actions: []string{
				"trace each changed call site",
				"note anything that smells off",
			},
			Params: []workflow.ParamSpec{
				{Name: "iteration", Domain: domain.MustBoundedInt(1, 3)},
				{Name: "confidence", Domain: domain.NewChoiceSet("low", "medium", "high")},
			},
			Handler: collectHandler,
			Next: map[workflow.Outcome]string{
				workflow.OutcomeIterate: "collect",
				workflow.OutcomeOK:      "assess",
				workflow.OutcomeSkip:    "assess",
			},
		},
		{
			ID:    "assess",
			Title: "Assess the findings",
			Phase: "judge",
			Actions: []string{
				"weigh each finding against the change's intent",
			},
			Params: []workflow.ParamSpec{
				{Name: "strictness", Default: "normal"},
			},
			Handler: assessHandler,
			OnError: "recover",
			Next: map[workflow.Outcome]string{
				workflow.OutcomeOK:      "summary",
				workflow.OutcomeFail:    "deep-dive",
				workflow.OutcomeDefault: "summary",
			},
		},
		{
			ID:    "deep-dive",
			Title: "Delegate deep investigation",
			Phase: "judge",
			Dispatch: &workflow.DispatchSpec{
				Agent:  "investigator",
				Prompt: "walk the suspicious call paths and report concrete defects",
			},
			Next: map[workflow.Outcome]string{workflow.OutcomeDefault: "summary"},
		},
		{
			ID:      "recover",
			Title:   "Recover from a failed assessment",
			Phase:   "judge",
			Actions: []string{"restate what is known; drop the failed line of inquiry"},
			Handler: recoverHandler,
			Next:    map[workflow.Outcome]string{workflow.OutcomeDefault: "summary"},
		},
		{
			ID:    "summary",
			Title: "Write the review summary",
			Phase: "report",
			Actions: []string{
				"group findings by severity",
				"state an overall verdict",
			},
			Next: map[workflow.Outcome]string{workflow.OutcomeDefault: workflow.Terminal},
		},
	}

	w, err := workflow.New("codereview", steps, "orient")
	if err != nil {
		return nil, err
	}
	return &Skill{
		Name:        "codereview",
		Description: "step-by-step change review with bounded evidence collection",
		Workflow:    w,
	}, nil
}

func orientHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	return workflow.OutcomeOK, map[string]any{"oriented": true}, nil
}

// collectHandler loops until confidence leaves "low" or the pass budget
// runs out. The pass count lives in accumulated state so repeat visits
// advance it; the iteration parameter seeds the count when the driver
// resumes mid-loop.
func collectHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	passes := 1
	if v, ok := ctx.Params["iteration"].(int); ok {
		passes = v
	}
	if v, ok := ctx.State["collect_passes"].(int); ok && v+1 > passes {
		passes = v + 1
	}
	confidence, _ := ctx.ParamOr("confidence", "medium").(string)

	delta := map[string]any{"collect_passes": passes}
	if confidence == "low" && passes < 3 {
		return workflow.OutcomeIterate, delta, nil
	}
	if confidence == "high" {
		return workflow.OutcomeSkip, delta, nil
	}
	return workflow.OutcomeOK, delta, nil
}

func assessHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	strictness, _ := ctx.ParamOr("strictness", "normal").(string)
	switch strictness {
	case "normal", "lenient":
		return workflow.OutcomeOK, map[string]any{"verdict": "acceptable"}, nil
	case "strict":
		return workflow.OutcomeFail, map[string]any{"verdict": "needs-investigation"}, nil
	default:
		return "", nil, fmt.Errorf("unknown strictness %q", strictness)
	}
}

func recoverHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	return workflow.OutcomeOK, map[string]any{
		"recovered_from": ctx.State[workflow.StateErrorKey],
	}, nil
}
