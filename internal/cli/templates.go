package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/buildmind/buildmind/internal/prompt"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage prompt templates",
		Long: `List, inspect, and modify the prompt templates used to assemble
AI requests. Changes are stored in .buildmind/templates.yaml and merged
over the built-in catalog.`,
	}

	cmd.AddCommand(
		newTemplatesListCmd(),
		newTemplatesShowCmd(),
		newTemplatesAddCmd(),
		newTemplatesUpdateCmd(),
		newTemplatesDeleteCmd(),
	)
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			registry, err := newRegistry(root)
			if err != nil {
				return err
			}

			fmt.Printf("%-20s %-12s %-8s %-6s %s\n", "ID", "CATEGORY", "VERSION", "USAGE", "EFFECTIVENESS")
			for _, t := range registry.List() {
				fmt.Printf("%-20s %-12s %-8s %-6d %.2f\n",
					t.ID, t.Category, t.Version, t.Metadata.Usage, t.Metadata.Effectiveness)
			}
			return nil
		},
	}
}

func newTemplatesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template's full definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			registry, err := newRegistry(root)
			if err != nil {
				return err
			}

			t, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(t)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func newTemplatesAddCmd() *cobra.Command {
	var (
		name     string
		category string
		text     string
		vars     []string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a new template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			registry, err := newRegistry(root)
			if err != nil {
				return err
			}

			t := prompt.Template{
				ID:        args[0],
				Name:      name,
				Version:   "1.0",
				Category:  category,
				Text:      text,
				Variables: vars,
			}
			if t.Name == "" {
				t.Name = t.ID
			}
			if err := registry.Add(t); err != nil {
				return err
			}
			if err := saveUserTemplates(root, registry); err != nil {
				return err
			}
			fmt.Printf("Added template %s.\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable template name")
	cmd.Flags().StringVar(&category, "category", "custom", "Template category")
	cmd.Flags().StringVar(&text, "text", "", "Template text with {variable} placeholders")
	cmd.Flags().StringSliceVar(&vars, "var", nil, "Declared variable (repeatable)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newTemplatesUpdateCmd() *cobra.Command {
	var (
		text string
		vars []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing template's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			registry, err := newRegistry(root)
			if err != nil {
				return err
			}

			existing, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			updated := *existing
			updated.Text = text
			if len(vars) > 0 {
				updated.Variables = vars
			}
			if err := registry.Update(updated); err != nil {
				return err
			}
			if err := saveUserTemplates(root, registry); err != nil {
				return err
			}
			fmt.Printf("Updated template %s.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New template text")
	cmd.Flags().StringSliceVar(&vars, "var", nil, "Declared variable (repeatable)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newTemplatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			registry, err := newRegistry(root)
			if err != nil {
				return err
			}

			if err := registry.Delete(args[0]); err != nil {
				return err
			}
			if err := saveUserTemplates(root, registry); err != nil {
				return err
			}
			fmt.Printf("Deleted template %s.\n", args[0])
			return nil
		},
	}
}

// saveUserTemplates persists the whole registry to the project catalog,
// so user edits survive restarts.
func saveUserTemplates(root string, registry *prompt.Registry) error {
	out := struct {
		Templates []*prompt.Template `yaml:"templates"`
	}{Templates: registry.List()}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal templates: %w", err)
	}

	path := templatesPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
