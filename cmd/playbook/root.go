// playbook is the skill-engine CLI: list the built-in skills, run one
// in-process, draw its graph, sweep its parameter space, or serve it to
// an agent over MCP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"playbook/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Step-graph skills for driving coding agents",
	Long: "Playbook runs skills: validated step graphs that walk an external\n" +
		"agent through a task one step at a time, with explicit outcomes\n" +
		"deciding every transition.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

var rootFlags struct {
	logLevel  string
	logFormat string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
