package cli

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/adapter"
	"github.com/buildmind/buildmind/internal/chat"
	"github.com/buildmind/buildmind/internal/config"
	"github.com/buildmind/buildmind/internal/mcp"
	"github.com/buildmind/buildmind/internal/prompt"
)

func newMCPCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run buildmind as an MCP server over stdio",
		Long: `Expose the project's context and chat operations as MCP tools, so
LLM agents can send messages, render prompts, and export context.

Configure in an MCP client config, e.g.:
  {
    "mcpServers": {
      "buildmind": {
        "command": "buildmind",
        "args": ["mcp"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			gcfg, err := config.Load(root)
			if err != nil {
				gcfg = config.DefaultGlobal()
			}

			log := newLogger(false)
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
				generator, err = adapter.New(gcfg.DefaultProvider, apiKey(gcfg, gcfg.DefaultProvider), gcfg.Ollama.Host)
				if err != nil {
					return err
				}
			}

			projectID := projectIDFor(root)
			orchestrator := chat.NewOrchestrator(contextStore, engine, generator, log)
			if gcfg.Chat.OptimizationCap > 0 {
				orchestrator.OptimizationCap = gcfg.Chat.OptimizationCap
			}
			orchestrator.Init(projectID)

			srv := mcpserver.NewMCPServer("buildmind", version)
			mcp.NewServer(contextStore, engine, orchestrator, projectID, log).Register(srv)

			fmt.Fprintln(os.Stderr, "buildmind MCP server starting on stdio...")
			return mcpserver.ServeStdio(srv)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use a canned generator instead of calling an API")
	return cmd
}
