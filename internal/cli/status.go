package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/config"
	"github.com/buildmind/buildmind/internal/prompt"
	"github.com/buildmind/buildmind/internal/store"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the project's stored context",
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
			docs := contextStore.Documents(projectID)

			gcfg, _ := config.Load(root)

			fmt.Printf("\nProject:       %s\n", projectID)
			if !docs.ProjectState.LastInteraction.IsZero() {
				fmt.Printf("Last activity: %s\n", docs.ProjectState.LastInteraction.Format("2006-01-02 15:04"))
			}
			if docs.ProjectState.CodebaseFingerprint != "" {
				fmt.Printf("Fingerprint:   %s\n", docs.ProjectState.CodebaseFingerprint)
			}
			fmt.Printf("Code index:    %s\n", docs.CodeStructure.Summary())
			fmt.Printf("Conversation:  %d messages, ~%d tokens estimated\n",
				len(docs.Conversation.Messages), docs.Conversation.TokenCount)

			success := 0
			for _, a := range docs.History.Attempts {
				if a.Success {
					success++
				}
			}
			fmt.Printf("Generations:   %d attempts, %d succeeded\n", len(docs.History.Attempts), success)
			fmt.Printf("Errors known:  %d patterns\n", len(docs.ErrorPatterns.Patterns))
			fmt.Printf("Optimizations: %d applied\n", len(docs.OptimizationMap.Applied))
			fmt.Printf("Provider:      %s (default)\n", gcfg.DefaultProvider)

			// Exact token count of the assembled system prompt, so users
			// can see what a request actually costs.
			if n, err := systemPromptTokens(root, contextStore, projectID); err == nil {
				fmt.Printf("System prompt: %d tokens\n", n)
			}

			// DB file size.
			if fi, err := os.Stat(config.ProjectDBPath(root)); err == nil {
				fmt.Printf("DB size:       %s\n", formatBytes(fi.Size()))
			}

			if intent := docs.ProjectState.AIMemory.UserIntent; intent != "" {
				fmt.Printf("\nCurrent intent: %s\n", intent)
			}
			if len(docs.ProjectState.ActiveContext.PendingTasks) > 0 {
				fmt.Println("\nPending tasks:")
				for _, task := range docs.ProjectState.ActiveContext.PendingTasks {
					fmt.Printf("  - %s\n", task)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

// systemPromptTokens renders the system template against the stored
// context and counts its tokens.
func systemPromptTokens(root string, contextStore *store.ContextStore, projectID string) (int, error) {
	registry, err := newRegistry(root)
	if err != nil {
		return 0, err
	}

	rendered, err := prompt.NewEngine(registry, contextStore).Generate(projectID, "unified-system", nil)
	if err != nil {
		return 0, err
	}

	tokenizer, err := prompt.NewTokenizer()
	if err != nil {
		return 0, err
	}
	return tokenizer.Count(rendered), nil
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
