package skill

import (
	"fmt"

	"playbook/pkg/domain"
	"playbook/pkg/workflow"
)

// CommitMsg builds the commit-message skill. It runs in two modes: quick
// skips the per-package inspection step, full visits it. Drafting loops
// on itself until the draft passes the self-check, then the skill ends on
// an output-only step that shows the final message.
func CommitMsg() (*Skill, error) {
	steps := []workflow.StepDef{
		{
			ID:    "scan",
			Title: "Scan the staged changes",
			Phase: "gather",
			Actions: []string{
				"run git diff --staged --stat",
				"identify the dominant change",
			},
			Params: []workflow.ParamSpec{
				{Name: "mode", Domain: domain.NewChoiceSet("quick", "full"), Required: true},
			},
			Handler: scanHandler,
			Next: map[workflow.Outcome]string{
				workflow.OutcomeOK:   "inspect",
				workflow.OutcomeSkip: "draft",
			},
		},
		{
			ID:    "inspect",
			Title: "Inspect each changed package",
			Phase: "gather",
			Modes: []string{"full"},
			Actions: []string{
				"read the full diff per package",
				"note behavior changes vs refactors",
			},
			Handler: inspectHandler,
			Next: map[workflow.Outcome]string{
				workflow.OutcomeDefault: "draft",
			},
		},
		{
			ID:    "draft",
			Title: "Draft the message",
			Phase: "write",
			Actions: []string{
				"subject line under 72 characters",
				"body explains why, not what",
			},
			Params: []workflow.ParamSpec{
				{Name: "style", Default: "conventional"},
			},
			Handler: draftHandler,
			Next: map[workflow.Outcome]string{
				workflow.OutcomeFail: "draft",
				workflow.OutcomeOK:   "show",
			},
		},
		{
			ID:    "show",
			Title: "Present the final message",
			Phase: "write",
			Actions: []string{
				"print the message for the user to approve",
			},
			Next: map[workflow.Outcome]string{workflow.OutcomeDefault: workflow.Terminal},
		},
	}

	w, err := workflow.New("commitmsg", steps, "scan")
	if err != nil {
		return nil, err
	}
	return &Skill{
		Name:        "commitmsg",
		Description: "drafts a commit message in quick or full mode",
		Workflow:    w,
	}, nil
}

func scanHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	mode, _ := ctx.ParamOr("mode", "quick").(string)
	switch mode {
	case "full":
		return workflow.OutcomeOK, map[string]any{"mode": mode}, nil
	case "quick":
		return workflow.OutcomeSkip, map[string]any{"mode": mode}, nil
	default:
		return "", nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func inspectHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	return workflow.OutcomeOK, map[string]any{"inspected": true}, nil
}

// draftHandler redrafts once, then accepts. The attempt count rides in
// accumulated state, so the self-loop terminates without external input.
func draftHandler(ctx *workflow.StepContext) (workflow.Outcome, map[string]any, error) {
	attempt := 1
	if v, ok := ctx.State["draft_attempts"].(int); ok {
		attempt = v + 1
	}
	delta := map[string]any{"draft_attempts": attempt}
	if attempt < 2 {
		return workflow.OutcomeFail, delta, nil
	}
	return workflow.OutcomeOK, delta, nil
}
