package chat

import "strings"

// Tool is one of the fixed AI operating modes. The zero value means no
// tool is active.
type Tool string

const (
	ToolNone     Tool = ""
	ToolDebug    Tool = "debug"
	ToolOptimize Tool = "optimize"
	ToolGenerate Tool = "generate"
	ToolAnalyze  Tool = "analyze"
	ToolRefactor Tool = "refactor"
)

// AllTools lists the selectable tools.
var AllTools = []Tool{ToolDebug, ToolOptimize, ToolGenerate, ToolAnalyze, ToolRefactor}

// ValidTool reports whether t names a selectable tool.
func ValidTool(t Tool) bool {
	for _, known := range AllTools {
		if t == known {
			return true
		}
	}
	return false
}

// keywordFamilies is the ordered heuristic for free-text tool detection.
// The first family with a match wins, so order is part of the contract.
var keywordFamilies = []struct {
	tool     Tool
	keywords []string
}{
	{ToolDebug, []string{"error", "bug", "fix", "broken", "crash", "exception", "not working", "doesn't work"}},
	{ToolOptimize, []string{"slow", "optimize", "optimise", "performance", "speed up", "faster", "laggy"}},
	{ToolGenerate, []string{"full project", "entire system", "whole app", "complete app", "from scratch", "entire app"}},
	{ToolRefactor, []string{"refactor", "restructure", "reorganize", "clean up", "rework"}},
	{ToolAnalyze, []string{"analyze", "analyse", "review", "audit", "explain the code"}},
}

// DetectTool resolves which tool a user turn implies. Precedence:
// explicit slash command, then a caller-forced override, then the
// keyword heuristic; with no match the current tool is kept. The second
// return value is the message body with any slash command stripped.
func DetectTool(text string, current, forced Tool) (Tool, string) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "/") {
		cmd, rest, _ := strings.Cut(trimmed[1:], " ")
		if t := Tool(strings.ToLower(cmd)); ValidTool(t) {
			return t, strings.TrimSpace(rest)
		}
	}

	if forced != ToolNone && ValidTool(forced) {
		return forced, trimmed
	}

	lower := strings.ToLower(trimmed)
	for _, family := range keywordFamilies {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				return family.tool, trimmed
			}
		}
	}

	return current, trimmed
}
