package memory

import (
	"fmt"
	"strings"
)

// Documents bundles one project's full context for callers that need
// all seven documents at once (prompt building, recovery, export).
type Documents struct {
	ProjectState    ProjectState
	CodeStructure   CodeStructure
	Conversation    ConversationMemory
	History         GenerationHistory
	Preferences     UserPreferences
	ErrorPatterns   ErrorPatterns
	OptimizationMap OptimizationMap
}

// Summarize renders a textual overview of the whole project context.
// Used by the context-recovery prompt after a long idle gap, standing in
// for a real long-context model window.
func Summarize(d Documents) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Project %s.\n", d.ProjectState.ProjectID)
	if !d.ProjectState.LastInteraction.IsZero() {
		fmt.Fprintf(&b, "Last interaction: %s.\n", d.ProjectState.LastInteraction.Format("2006-01-02 15:04"))
	}
	if intent := d.ProjectState.AIMemory.UserIntent; intent != "" {
		fmt.Fprintf(&b, "Current intent: %s\n", intent)
	}
	if summary := d.Conversation.Context; summary != "" {
		fmt.Fprintf(&b, "Conversation so far: %s\n", summary)
	}
	fmt.Fprintf(&b, "Messages in memory: %d (~%d tokens estimated).\n",
		len(d.Conversation.Messages), d.Conversation.TokenCount)
	fmt.Fprintf(&b, "Code index: %s.\n", d.CodeStructure.Summary())

	if n := len(d.ProjectState.AIMemory.KeyDecisions); n > 0 {
		fmt.Fprintf(&b, "Key decisions:\n")
		for _, dec := range d.ProjectState.AIMemory.KeyDecisions {
			fmt.Fprintf(&b, "- %s\n", dec)
		}
	}
	if n := len(d.ProjectState.ActiveContext.PendingTasks); n > 0 {
		fmt.Fprintf(&b, "Pending tasks:\n")
		for _, t := range d.ProjectState.ActiveContext.PendingTasks {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	success := 0
	for _, a := range d.History.Attempts {
		if a.Success {
			success++
		}
	}
	if len(d.History.Attempts) > 0 {
		fmt.Fprintf(&b, "Generation attempts: %d (%d succeeded).\n", len(d.History.Attempts), success)
	}
	if len(d.ErrorPatterns.Patterns) > 0 {
		fmt.Fprintf(&b, "Known error patterns: %d.\n", len(d.ErrorPatterns.Patterns))
	}
	if len(d.OptimizationMap.Applied) > 0 {
		fmt.Fprintf(&b, "Optimizations applied: %d.\n", len(d.OptimizationMap.Applied))
	}

	return b.String()
}
