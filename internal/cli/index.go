package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/scanner"
)

func newIndexCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rescan the project and refresh the code structure index",
		Long: `Walk the project tree, extract declarations and imports from every
recognised source file, and merge the result into the stored code
structure. Symbols indexed from generated responses are preserved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			log := newLogger(verbose)
			defer func() { _ = log.Sync() }()

			database, contextStore, err := openStore(root, log)
			if err != nil {
				return err
			}
			defer database.Close()

			projectID := projectIDFor(root)

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("  Indexing files"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)

			result := scanner.Scan(scanner.ScanOptions{
				Root:     root,
				Base:     contextStore.CodeStructure(projectID),
				Progress: func(string) { _ = bar.Add(1) },
			})
			_ = bar.Finish()

			if len(result.Errors) > 0 {
				fmt.Fprintf(os.Stderr, "  Warning: %d file(s) could not be read\n", len(result.Errors))
			}

			contextStore.SetCodeStructure(projectID, result.Structure)

			state := contextStore.ProjectState(projectID)
			state.CodebaseFingerprint = result.Fingerprint()
			contextStore.SetProjectState(projectID, state)

			fmt.Printf("%d files indexed (%s)\n", len(result.Files), result.Structure.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	return cmd
}
