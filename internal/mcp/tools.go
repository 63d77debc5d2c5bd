package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/buildmind/buildmind/internal/chat"
	"github.com/buildmind/buildmind/internal/export"
	"github.com/buildmind/buildmind/internal/memory"
)

func (s *Server) handleChatSend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	var forced chat.Tool
	if toolStr := req.GetString("tool", ""); toolStr != "" {
		forced = chat.Tool(toolStr)
		if !chat.ValidTool(forced) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid tool %q (valid: debug, optimize, generate, analyze, refactor)", toolStr)), nil
		}
	}

	reply, sendErr := s.orchestrator.Send(ctx, message, chat.SendOptions{ForceTool: forced})
	if sendErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("send failed: %v", sendErr)), nil
	}

	out := reply.Content
	if reply.Tool != chat.ToolNone {
		out = fmt.Sprintf("[%s] %s", reply.Tool, out)
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleProjectStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := s.store.Documents(s.projectID)
	return mcp.NewToolResultText(memory.Summarize(docs)), nil
}

func (s *Server) handleRenderPrompt(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: template_id"), nil
	}

	rendered, genErr := s.engine.Generate(s.projectID, templateID, nil)
	if genErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", genErr)), nil
	}
	if rendered == "" {
		return mcp.NewToolResultText("Template conditions not met; nothing rendered."), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

func (s *Server) handleExportContext(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "markdown")

	exporter, ok := export.Get(format)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (valid: %v)", format, export.ValidFormats())), nil
	}

	out, expErr := exporter.Export(export.ExportData{
		ProjectName: s.projectID,
		Documents:   s.store.Documents(s.projectID),
	})
	if expErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", expErr)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleRecordEffectiveness(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: template_id"), nil
	}
	rating := req.GetFloat("rating", -1)
	if rating < 0 || rating > 1 {
		return mcp.NewToolResultError("rating must be between 0 and 1"), nil
	}

	if recErr := s.engine.RecordEffectiveness(templateID, rating); recErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record failed: %v", recErr)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Recorded %.2f for %s.", rating, templateID)), nil
}
