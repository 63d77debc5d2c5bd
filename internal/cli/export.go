package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the project context",
		Long: `Render the stored context documents in a chosen format.

Formats:
  markdown  human-readable context report (default)
  json      structured context report
  bundle    full document bundle for backup or transfer (restorable
            with 'buildmind import')`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			log := newLogger(false)
			defer func() { _ = log.Sync() }()

			database, contextStore, err := openStore(root, log)
			if err != nil {
				return err
			}
			defer database.Close()

			projectID := projectIDFor(root)

			var out string
			switch format {
			case "bundle":
				bundle := contextStore.ExportAll(projectID)
				data, err := json.MarshalIndent(bundle, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal bundle: %w", err)
				}
				out = string(data) + "\n"
			default:
				exporter, ok := export.Get(format)
				if !ok {
					return fmt.Errorf("unknown format %q (valid: bundle, %v)", format, export.ValidFormats())
				}
				out, err = exporter.Export(export.ExportData{
					ProjectName: projectID,
					Documents:   contextStore.Documents(projectID),
				})
				if err != nil {
					return err
				}
			}

			if output == "" {
				fmt.Print(out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("Exported %s context to %s.\n", format, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Export format (markdown, json, bundle)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.json>",
		Short: "Import a context bundle exported with 'buildmind export --format bundle'",
		Long: `Validate and restore a full context bundle. The bundle must contain all
seven context documents; a partial or malformed bundle is rejected
without touching the stored state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read bundle: %w", err)
			}

			log := newLogger(false)
			defer func() { _ = log.Sync() }()

			database, contextStore, err := openStore(root, log)
			if err != nil {
				return err
			}
			defer database.Close()

			projectID := projectIDFor(root)
			if err := contextStore.ImportAll(projectID, raw); err != nil {
				return err
			}

			fmt.Printf("Imported context bundle into project %s.\n", projectID)
			return nil
		},
	}
}
