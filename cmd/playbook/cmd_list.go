package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playbook/internal/format"
	"playbook/internal/skill"
)

var listFlags struct {
	markdown bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in skills",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listFlags.markdown, "markdown", false, "Emit a Markdown table")
}

func runList(cmd *cobra.Command, _ []string) error {
	skills, err := skill.All()
	if err != nil {
		return err
	}

	mode := format.ASCII
	if listFlags.markdown {
		mode = format.Markdown
	}
	tb := format.NewTable(mode)
	tb.Header("Skill", "Steps", "Entry", "Description")
	for _, s := range skills {
		tb.Row(s.Name, s.Workflow.Len(), s.Workflow.Entry(), s.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
	return nil
}
