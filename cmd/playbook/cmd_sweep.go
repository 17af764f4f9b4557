package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"playbook/internal/format"
	"playbook/internal/logging"
	"playbook/pkg/sweep"
	"playbook/pkg/workflow"
)

var sweepFlags struct {
	iterationBound int
	workers        int
	maxSteps       int
	markdown       bool
	dryRun         bool
}

var sweepCmd = &cobra.Command{
	Use:   "sweep <skill>",
	Short: "Generate every parameter combination for a skill and run them all",
	Args:  cobra.ExactArgs(1),
	RunE:  runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.IntVar(&sweepFlags.iterationBound, "iteration-bound", sweep.DefaultIterationBound, "Upper bound for undeclared iteration domains")
	f.IntVar(&sweepFlags.workers, "workers", 4, "Parallel case runners")
	f.IntVar(&sweepFlags.maxSteps, "max-steps", 64, "Per-case step limit")
	f.BoolVar(&sweepFlags.markdown, "markdown", false, "Emit a Markdown table")
	f.BoolVar(&sweepFlags.dryRun, "dry-run", false, "List the cases without running them")
}

func runSweep(cmd *cobra.Command, args []string) error {
	s, err := resolveSkill(args[0])
	if err != nil {
		return err
	}
	cases := sweep.Generate(s.Workflow, sweep.Options{
		IterationBound: sweepFlags.iterationBound,
	})

	mode := format.ASCII
	if sweepFlags.markdown {
		mode = format.Markdown
	}
	out := cmd.OutOrStdout()

	if sweepFlags.dryRun {
		tb := format.NewTable(mode)
		tb.Header("Case", "Step", "Mode", "Params")
		for _, c := range cases {
			tb.Row(c.String(), c.Step, c.Mode, format.FmtParams(c.Params))
		}
		tb.Footer("TOTAL", "", "", len(cases))
		fmt.Fprintln(out, tb.String())
		return nil
	}

	logger := logging.New("sweep")
	logger.Info("sweep start", "skill", s.Name, "cases", len(cases), "workers", sweepFlags.workers)

	type result struct {
		stop   string
		status workflow.RunStatus
		err    error
	}
	var mu sync.Mutex
	results := make(map[string]result, len(cases))

	runErr := sweep.RunAll(cmd.Context(), cases, sweepFlags.workers,
		func(ctx context.Context, c sweep.Case) error {
			res, err := s.Workflow.Run(
				workflow.From(c.Step),
				workflow.WithParams(c.Params),
				workflow.WithMaxSteps(sweepFlags.maxSteps),
			)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[c.String()] = result{err: err}
				return fmt.Errorf("%s: %w", c, err)
			}
			results[c.String()] = result{stop: res.Step, status: res.Status}
			return nil
		})

	tb := format.NewTable(mode)
	tb.Header("Case", "Stopped at", "Status", "OK")
	failed := 0
	for _, c := range cases {
		r, ran := results[c.String()]
		if !ran {
			tb.Row(c.String(), "-", "skipped", "")
			continue
		}
		if r.err != nil {
			tb.Row(c.String(), format.Truncate(r.err.Error(), 40), "", format.BoolMark(false))
			failed++
			continue
		}
		tb.Row(c.String(), r.stop, string(r.status), format.BoolMark(true))
	}
	tb.Footer("TOTAL", "", fmt.Sprintf("%d failed", failed), len(cases))
	fmt.Fprintln(out, tb.String())

	if runErr != nil {
		return fmt.Errorf("sweep %s: %w", s.Name, runErr)
	}
	return nil
}
