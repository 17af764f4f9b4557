// Package skill hosts the built-in skill workflows: small, fully wired
// step graphs that drive an external agent through a task one step at a
// time. Each skill is a pure factory so no lookup table is ever observed
// half-built.
package skill

import (
	"fmt"
	"sort"

	"playbook/pkg/markup"
	"playbook/pkg/workflow"
)

// Skill couples a validated workflow with its display metadata.
type Skill struct {
	Name        string
	Description string
	Workflow    *workflow.Workflow
}

// All returns every built-in skill, constructed fresh on each call.
func All() ([]*Skill, error) {
	review, err := CodeReview()
	if err != nil {
		return nil, fmt.Errorf("build codereview: %w", err)
	}
	commit, err := CommitMsg()
	if err != nil {
		return nil, fmt.Errorf("build commitmsg: %w", err)
	}
	return []*Skill{review, commit}, nil
}

// Lookup returns the built-in skill with the given name.
func Lookup(name string) (*Skill, error) {
	skills, err := All()
	if err != nil {
		return nil, err
	}
	for _, s := range skills {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown skill %q", name)
}

// StepDocument assembles the structured output an agent sees for a step:
// header, guidance, actions, dispatch instructions, and an outcome branch
// derived from the transition table.
func StepDocument(w *workflow.Workflow, id string) (markup.Document, error) {
	step, ok := w.Step(id)
	if !ok {
		return markup.Document{}, fmt.Errorf("%w: %q", workflow.ErrStepNotFound, id)
	}
	idx, _ := w.StepIndex(id)

	b := markup.NewBuilder().Header(idx+1, w.Len(), step.Title)
	if step.Phase != "" {
		b = b.Guidance("phase: " + step.Phase)
	}
	if len(step.Actions) > 0 {
		b = b.Actions(step.Actions...)
	}
	if step.Dispatch != nil {
		b = b.Dispatch(step.Dispatch.Agent, step.Dispatch.Prompt)
	}

	if opts := branchOptions(step); len(opts) > 0 {
		b = b.Branch("Which outcome applies?", opts...)
	}
	return b.Build(), nil
}

// RenderStep renders a step's document with the reference tag renderer.
func RenderStep(w *workflow.Workflow, id string) (string, error) {
	doc, err := StepDocument(w, id)
	if err != nil {
		return "", err
	}
	return markup.Render(markup.TagRenderer{}, doc), nil
}

func branchOptions(step workflow.StepDef) []markup.BranchOption {
	outcomes := make([]string, 0, len(step.Next))
	for out := range step.Next {
		outcomes = append(outcomes, string(out))
	}
	sort.Strings(outcomes)

	opts := make([]markup.BranchOption, 0, len(outcomes))
	for _, out := range outcomes {
		target := step.Next[workflow.Outcome(out)]
		if target == workflow.Terminal {
			target = "done"
		}
		opts = append(opts, markup.BranchOption{When: out, Target: target})
	}
	return opts
}
