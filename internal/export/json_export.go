package export

import "encoding/json"

// JSONExporter renders the context documents as structured JSON.
type JSONExporter struct{}

type jsonOutput struct {
	Project       jsonProject `json:"project"`
	Decisions     []string    `json:"decisions"`
	PendingTasks  []string    `json:"pendingTasks"`
	Errors        []jsonError `json:"errors"`
	Optimizations []string    `json:"optimizations"`
	Attempts      int         `json:"generationAttempts"`
	Succeeded     int         `json:"generationsSucceeded"`
}

type jsonProject struct {
	Name        string `json:"name"`
	Intent      string `json:"intent,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	CodeSummary string `json:"codeSummary"`
	Messages    int    `json:"messages"`
	TokenCount  int    `json:"tokenCount"`
}

type jsonError struct {
	Pattern   string `json:"pattern"`
	Frequency int    `json:"frequency"`
}

func (e *JSONExporter) Export(data ExportData) (string, error) {
	d := data.Documents
	name := data.ProjectName
	if name == "" {
		name = d.ProjectState.ProjectID
	}

	out := jsonOutput{
		Project: jsonProject{
			Name:        name,
			Intent:      d.ProjectState.AIMemory.UserIntent,
			Fingerprint: d.ProjectState.CodebaseFingerprint,
			CodeSummary: d.CodeStructure.Summary(),
			Messages:    len(d.Conversation.Messages),
			TokenCount:  d.Conversation.TokenCount,
		},
		Decisions:     emptyNotNil(d.ProjectState.AIMemory.KeyDecisions),
		PendingTasks:  emptyNotNil(d.ProjectState.ActiveContext.PendingTasks),
		Errors:        []jsonError{},
		Optimizations: []string{},
	}

	for _, p := range d.ErrorPatterns.Patterns {
		out.Errors = append(out.Errors, jsonError{Pattern: p.Pattern, Frequency: p.Frequency})
	}
	for _, o := range d.OptimizationMap.Applied {
		out.Optimizations = append(out.Optimizations, o.Optimization)
	}
	out.Attempts = len(d.History.Attempts)
	for _, a := range d.History.Attempts {
		if a.Success {
			out.Succeeded++
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
