package export

import (
	"fmt"
	"sort"
	"strings"
)

// MarkdownExporter renders the context documents as a readable report.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(data ExportData) (string, error) {
	d := data.Documents
	name := data.ProjectName
	if name == "" {
		name = d.ProjectState.ProjectID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s — Project Context\n\n", name)

	fmt.Fprintf(&b, "## Status\n\n")
	if !d.ProjectState.LastInteraction.IsZero() {
		fmt.Fprintf(&b, "| Last interaction | %s |\n", d.ProjectState.LastInteraction.Format("2006-01-02 15:04"))
	}
	if d.ProjectState.CodebaseFingerprint != "" {
		fmt.Fprintf(&b, "| Fingerprint | %s |\n", d.ProjectState.CodebaseFingerprint)
	}
	fmt.Fprintf(&b, "| Code index | %s |\n", d.CodeStructure.Summary())
	fmt.Fprintf(&b, "| Conversation | %d messages, ~%d tokens |\n",
		len(d.Conversation.Messages), d.Conversation.TokenCount)
	b.WriteString("\n")

	if intent := d.ProjectState.AIMemory.UserIntent; intent != "" {
		fmt.Fprintf(&b, "## Current Intent\n\n%s\n\n", intent)
	}

	b.WriteString(listSection("Key Decisions", d.ProjectState.AIMemory.KeyDecisions))
	b.WriteString(listSection("Pending Tasks", d.ProjectState.ActiveContext.PendingTasks))

	if summary := d.Conversation.Context; summary != "" {
		fmt.Fprintf(&b, "## Conversation Summary\n\n%s\n\n", summary)
	}

	if len(d.Preferences.NamingConventions) > 0 {
		fmt.Fprintf(&b, "## Conventions\n\n")
		for _, k := range sortedKeys(d.Preferences.NamingConventions) {
			fmt.Fprintf(&b, "- %s: %s\n", k, d.Preferences.NamingConventions[k])
		}
		for _, k := range sortedKeys(d.Preferences.CodingPatterns) {
			fmt.Fprintf(&b, "- %s: %s\n", k, d.Preferences.CodingPatterns[k])
		}
		b.WriteString("\n")
	}

	if len(d.ErrorPatterns.Patterns) > 0 {
		fmt.Fprintf(&b, "## Recurring Errors\n\n")
		for _, p := range d.ErrorPatterns.Patterns {
			fmt.Fprintf(&b, "- %s (seen %dx)\n", p.Pattern, p.Frequency)
		}
		b.WriteString("\n")
	}

	if n := len(d.OptimizationMap.Applied); n > 0 {
		fmt.Fprintf(&b, "## Optimizations\n\n")
		for _, o := range d.OptimizationMap.Applied {
			fmt.Fprintf(&b, "- %s\n", o.Optimization)
		}
		b.WriteString("\n")
	}

	if n := len(d.History.Attempts); n > 0 {
		success := 0
		for _, a := range d.History.Attempts {
			if a.Success {
				success++
			}
		}
		fmt.Fprintf(&b, "## Generation History\n\n%d attempts, %d succeeded.\n", n, success)
	}

	return b.String(), nil
}

func listSection(heading string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	out := fmt.Sprintf("## %s\n\n", heading)
	for _, item := range items {
		out += fmt.Sprintf("- %s\n", item)
	}
	return out + "\n"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
