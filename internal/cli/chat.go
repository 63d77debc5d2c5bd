package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/adapter"
	"github.com/buildmind/buildmind/internal/chat"
	"github.com/buildmind/buildmind/internal/config"
	"github.com/buildmind/buildmind/internal/prompt"
)

func newChatCmd() *cobra.Command {
	var (
		toolFlag    string
		provider    string
		dryRun      bool
		verbose     bool
		maxTokens   int
		temperature float64
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the app builder using full project context",
		Long: `Send a message to the AI app builder. The stored project context
(conversation memory, code structure, decisions, error patterns) is
assembled into the prompt automatically.

Slash commands switch the active tool: /debug, /optimize, /generate,
/analyze, /refactor. Without a message argument an interactive session
starts.

Examples:
  buildmind chat "add a dark mode toggle"
  buildmind chat "/debug the cart total is wrong"
  buildmind chat --tool optimize "the product grid"
  buildmind chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			gcfg, err := config.Load(root)
			if err != nil {
				gcfg = config.DefaultGlobal()
			}

			providerName := gcfg.DefaultProvider
			if provider != "" {
				providerName = provider
			}

			log := newLogger(verbose)
			defer func() { _ = log.Sync() }()

			database, contextStore, err := openStore(root, log)
			if err != nil {
				return err
			}
			defer database.Close()

			registry, err := newRegistry(root)
			if err != nil {
				return err
			}
			engine := prompt.NewEngine(registry, contextStore)

			var generator adapter.Generator
			if dryRun {
				generator = adapter.NewMock()
			} else {
				generator, err = adapter.New(providerName, apiKey(gcfg, providerName), gcfg.Ollama.Host)
				if err != nil {
					return err
				}
			}

			orchestrator := chat.NewOrchestrator(contextStore, engine, generator, log)
			if gcfg.Chat.OptimizationCap > 0 {
				orchestrator.OptimizationCap = gcfg.Chat.OptimizationCap
			}
			orchestrator.Init(projectIDFor(root))

			// Surface any recovery recap injected during Init.
			for _, m := range orchestrator.History() {
				if m.Role == chat.RoleSystem {
					fmt.Println(m.Content)
					fmt.Println()
				}
			}

			var forced chat.Tool
			if toolFlag != "" {
				forced = chat.Tool(toolFlag)
				if !chat.ValidTool(forced) {
					return fmt.Errorf("invalid tool %q (valid: debug, optimize, generate, analyze, refactor)", toolFlag)
				}
			}

			opts := chat.SendOptions{
				ForceTool: forced,
				Options: adapter.Options{
					MaxTokens:   firstNonZero(maxTokens, gcfg.Chat.MaxTokens),
					Temperature: firstNonZeroF(temperature, gcfg.Chat.Temperature),
				},
			}

			if len(args) > 0 {
				return sendOne(cmd.Context(), orchestrator, strings.Join(args, " "), opts)
			}
			return runInteractive(cmd.Context(), orchestrator, opts)
		},
	}

	cmd.Flags().StringVarP(&toolFlag, "tool", "t", "", "Force a specific tool for this message")
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "AI provider (claude, openai, ollama)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use a canned generator instead of calling an API")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Max response tokens (default from config)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature (default from config)")

	return cmd
}

func sendOne(ctx context.Context, orchestrator *chat.Orchestrator, text string, opts chat.SendOptions) error {
	before := orchestrator.CurrentTool()
	reply, err := orchestrator.Send(ctx, text, opts)
	if err != nil {
		return err
	}

	if after := orchestrator.CurrentTool(); after != before {
		fmt.Printf("Switched to %s tool\n\n", after)
	}
	fmt.Println(reply.Content)
	return nil
}

func runInteractive(ctx context.Context, orchestrator *chat.Orchestrator, opts chat.SendOptions) error {
	fmt.Println("Interactive session. Type a message, /<tool> to switch tools, or /quit to exit.")

	reader := bufio.NewReader(os.Stdin)
	for {
		if tool := orchestrator.CurrentTool(); tool != chat.ToolNone {
			fmt.Printf("[%s] > ", tool)
		} else {
			fmt.Print("> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		reply, sendErr := orchestrator.Send(ctx, line, opts)
		if sendErr != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", sendErr)
			continue
		}
		fmt.Println(reply.Content)
		fmt.Println()

		// Forced tool applies to the first message only.
		opts.ForceTool = chat.ToolNone
	}
}

func apiKey(gcfg config.GlobalConfig, providerName string) string {
	switch providerName {
	case adapter.ProviderClaude:
		return gcfg.Keys.Anthropic
	case adapter.ProviderOpenAI:
		return gcfg.Keys.OpenAI
	}
	return ""
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonZeroF(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
