// Package mcp exposes the app builder's context and chat operations as
// MCP tools over stdio.
package mcp

import (
	"go.uber.org/zap"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/buildmind/buildmind/internal/chat"
	"github.com/buildmind/buildmind/internal/prompt"
	"github.com/buildmind/buildmind/internal/store"
)

// Server holds the dependencies shared by all tool handlers.
type Server struct {
	store        *store.ContextStore
	engine       *prompt.Engine
	orchestrator *chat.Orchestrator
	projectID    string
	log          *zap.Logger
}

// NewServer creates the handler set for one project.
func NewServer(contextStore *store.ContextStore, engine *prompt.Engine, orchestrator *chat.Orchestrator, projectID string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:        contextStore,
		engine:       engine,
		orchestrator: orchestrator,
		projectID:    projectID,
		log:          log,
	}
}

// Register adds every tool to the MCP server.
func (s *Server) Register(srv *mcpserver.MCPServer) {
	srv.AddTool(mcp.Tool{
		Name:        "chat_send",
		Description: "Send a message to the app builder chat. Slash commands (/debug, /optimize, /generate, /analyze, /refactor) switch the active tool.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "User message or slash command",
				},
				"tool": map[string]interface{}{
					"type":        "string",
					"description": "Optional tool override (debug, optimize, generate, analyze, refactor)",
				},
			},
			Required: []string{"message"},
		},
	}, s.handleChatSend)

	srv.AddTool(mcp.Tool{
		Name:        "project_status",
		Description: "Summarize the project's stored context: intent, decisions, pending tasks, code index, and generation stats.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleProjectStatus)

	srv.AddTool(mcp.Tool{
		Name:        "render_prompt",
		Description: "Render a prompt template with the project's stored context substituted in.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template_id": map[string]interface{}{
					"type":        "string",
					"description": "Template ID (e.g. unified-system, debug-mode)",
				},
			},
			Required: []string{"template_id"},
		},
	}, s.handleRenderPrompt)

	srv.AddTool(mcp.Tool{
		Name:        "export_context",
		Description: "Export the project's context documents as a markdown or JSON report.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Report format: markdown or json (default: markdown)",
				},
			},
		},
	}, s.handleExportContext)

	srv.AddTool(mcp.Tool{
		Name:        "record_effectiveness",
		Description: "Record an effectiveness rating (0 to 1) for a prompt template.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template_id": map[string]interface{}{
					"type":        "string",
					"description": "Template ID to rate",
				},
				"rating": map[string]interface{}{
					"type":        "number",
					"description": "Rating between 0 and 1",
				},
			},
			Required: []string{"template_id", "rating"},
		},
	}, s.handleRecordEffectiveness)
}
