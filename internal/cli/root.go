// Package cli defines the Cobra command tree for the buildmind CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "buildmind",
	Short: "Context-aware AI app builder with persistent project memory",
	Long: `Buildmind keeps a persistent, structured memory of your app project:
conversation history, code structure, key decisions, error patterns, and
applied optimizations.

Every chat message is answered with the full project context assembled
into the prompt, so the AI keeps building the same app instead of
starting over each session.

Run 'buildmind init' in any project directory to get started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newInitCmd(),
		newChatCmd(),
		newTemplatesCmd(),
		newIndexCmd(),
		newWatchCmd(),
		newStatusCmd(),
		newExportCmd(),
		newImportCmd(),
		newClearCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("buildmind %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
