package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"playbook/pkg/workflow"
)

var graphFlags struct {
	output string
}

var graphCmd = &cobra.Command{
	Use:   "graph <skill>",
	Short: "Emit a Mermaid diagram of a skill's step graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVarP(&graphFlags.output, "output", "o", "", "Write to a file instead of stdout")
}

func runGraph(cmd *cobra.Command, args []string) error {
	s, err := resolveSkill(args[0])
	if err != nil {
		return err
	}
	diagram := workflow.Mermaid(s.Workflow)

	if graphFlags.output != "" {
		if err := os.WriteFile(graphFlags.output, []byte(diagram), 0o644); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", graphFlags.output)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), diagram)
	return nil
}
