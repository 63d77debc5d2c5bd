package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/config"
	"github.com/buildmind/buildmind/internal/db"
	"github.com/buildmind/buildmind/internal/scanner"
	"github.com/buildmind/buildmind/internal/store"
)

func newInitCmd() *cobra.Command {
	var projectRoot string
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize buildmind in the current project",
		Long: `Scan the project directory, index the code structure, and set up the
.buildmind/ directory with a SQLite database and config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root, err = scanner.FindProjectRoot(cwd)
				if err != nil {
					return err
				}
			}
			root, _ = filepath.Abs(root)

			if name == "" {
				name = filepath.Base(root)
			}

			fmt.Println("Scanning project...")

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("  Indexing files"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)

			result := scanner.Scan(scanner.ScanOptions{
				Root:     root,
				Progress: func(string) { _ = bar.Add(1) },
			})
			_ = bar.Finish()

			if len(result.Errors) > 0 {
				fmt.Fprintf(os.Stderr, "  Warning: %d file(s) could not be read\n", len(result.Errors))
			}

			dbPath := config.ProjectDBPath(root)
			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			contextStore := store.New(database, newLogger(false))

			contextStore.SetCodeStructure(name, result.Structure)

			state := contextStore.ProjectState(name)
			state.ProjectID = name
			state.CodebaseFingerprint = result.Fingerprint()
			contextStore.SetProjectState(name, state)

			pcfg := config.ProjectConfig{Project: config.Meta{Name: name}}
			if err := config.SaveProject(root, pcfg); err != nil {
				fmt.Fprintf(os.Stderr, "  Warning: could not write project config: %v\n", err)
			}

			ensureGitignore(root)

			fmt.Printf("%d files indexed (%s)\n", len(result.Files), result.Structure.Summary())
			fmt.Println()
			fmt.Println("Buildmind initialized. Project context saved to .buildmind/")
			fmt.Println(`Tip: Run "buildmind chat" to start building.`)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRoot, "root", "r", "", "Project root directory (default: auto-detect from cwd)")
	cmd.Flags().StringVar(&name, "name", "", "Project name (default: directory name)")

	return cmd
}
