package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored context for the project",
		Long: `Remove every context document (conversation memory, code structure,
decisions, error patterns, optimizations) for the current project.
The next chat session starts from defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			projectID := projectIDFor(root)

			if !force {
				fmt.Printf("Delete all stored context for %q? [y/N] ", projectID)
				reader := bufio.NewReader(os.Stdin)
				line, _ := reader.ReadString('\n')
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			log := newLogger(false)
			defer func() { _ = log.Sync() }()

			database, contextStore, err := openStore(root, log)
			if err != nil {
				return err
			}
			defer database.Close()

			contextStore.Clear(projectID)

			fmt.Printf("Cleared context for %s.\n", projectID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}
