package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playbook/internal/format"
	"playbook/internal/skill"
	"playbook/pkg/workflow"
)

var runFlags struct {
	params   []string
	from     string
	maxSteps int
	showStep bool
}

var runCmd = &cobra.Command{
	Use:   "run <skill>",
	Short: "Run a skill's step graph in-process and print the trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringArrayVarP(&runFlags.params, "param", "p", nil, "Parameter as key=value (repeatable)")
	f.StringVar(&runFlags.from, "from", "", "Start from this step instead of the entry")
	f.IntVar(&runFlags.maxSteps, "max-steps", 0, "Abort after this many steps (0 = no limit)")
	f.BoolVar(&runFlags.showStep, "show-step", false, "Print the document of the step the run stopped on")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := resolveSkill(args[0])
	if err != nil {
		return err
	}
	params, err := parseParams(runFlags.params)
	if err != nil {
		return err
	}

	opts := []workflow.RunOption{workflow.WithParams(params)}
	if runFlags.from != "" {
		opts = append(opts, workflow.From(runFlags.from))
	}
	if runFlags.maxSteps > 0 {
		opts = append(opts, workflow.WithMaxSteps(runFlags.maxSteps))
	}

	res, err := s.Workflow.Run(opts...)
	if err != nil {
		return fmt.Errorf("run %s: %w", s.Name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, format.TraceTable(format.ASCII, res.Trace))

	fmt.Fprintf(out, "Status: %s (stopped at %s)\n", res.Status, res.Step)
	if res.Dispatch != nil {
		fmt.Fprintf(out, "Dispatch: agent=%s prompt=%q\n", res.Dispatch.Agent, res.Dispatch.Prompt)
	}
	if len(res.State) > 0 {
		fmt.Fprintf(out, "State: %s\n", format.FmtParams(res.State))
	}

	if runFlags.showStep {
		doc, err := skill.RenderStep(s.Workflow, res.Step)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s", doc)
	}
	return nil
}
