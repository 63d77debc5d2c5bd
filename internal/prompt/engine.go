package prompt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/buildmind/buildmind/internal/memory"
	"github.com/buildmind/buildmind/internal/store"
)

// Engine renders templates against live project context read from the
// context store.
type Engine struct {
	registry *Registry
	store    *store.ContextStore
}

// NewEngine creates an Engine over the given registry and store.
func NewEngine(registry *Registry, contextStore *store.ContextStore) *Engine {
	return &Engine{registry: registry, store: contextStore}
}

// Registry exposes the underlying registry for admin operations.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Generate renders the template for a project. Caller-supplied overrides
// win over values derived from the stored documents. If any template
// condition fails the prompt is suppressed and "" is returned without
// error. Unresolvable variables substitute to the empty string. The
// template's usage counter is incremented once per successful render.
func (e *Engine) Generate(projectID, templateID string, overrides map[string]any) (string, error) {
	t, err := e.registry.Get(templateID)
	if err != nil {
		return "", err
	}

	ctx := e.buildContext(projectID)
	for k, v := range overrides {
		ctx[k] = v
	}

	for _, c := range t.Conditions {
		if !evalCondition(c, ctx) {
			return "", nil
		}
	}

	rendered := t.Text
	for _, name := range t.Variables {
		value := formatValue(ctx[name])
		rendered = strings.ReplaceAll(rendered, "{"+name+"}", value)
	}

	t.Metadata.Usage++
	return rendered, nil
}

// RecordEffectiveness folds a rating into the template's running
// average. When paired with a Generate call, record effectiveness
// first: the average must use the usage count from before that call's
// increment to stay reproducible.
func (e *Engine) RecordEffectiveness(templateID string, rating float64) error {
	t, err := e.registry.Get(templateID)
	if err != nil {
		return err
	}
	usage := t.Metadata.Usage
	t.Metadata.Effectiveness = (t.Metadata.Effectiveness*float64(usage) + rating) / float64(usage+1)
	return nil
}

// buildContext derives the variable context from all seven documents.
func (e *Engine) buildContext(projectID string) map[string]any {
	d := e.store.Documents(projectID)

	ctx := map[string]any{
		"project_id":             projectID,
		"user_intent":            d.ProjectState.AIMemory.UserIntent,
		"conversation_summary":   d.Conversation.Context,
		"context_summary":        "",
		"naming_conventions":     formatStringMap(d.Preferences.NamingConventions),
		"coding_patterns":        formatStringMap(d.Preferences.CodingPatterns),
		"code_structure_summary": d.CodeStructure.Summary(),
		"recent_decisions":       d.ProjectState.AIMemory.KeyDecisions,
		"pending_tasks":          d.ProjectState.ActiveContext.PendingTasks,
		"error_patterns":         formatErrorPatterns(d.ErrorPatterns),
		"prevention_rules":       formatPreventionRules(d.ErrorPatterns),
		"recent_optimizations":   formatOptimizations(d.OptimizationMap),
		"generation_stats":       formatHistory(d.History),
		"message_count":          len(d.Conversation.Messages),
		"token_count":            d.Conversation.TokenCount,
	}
	return ctx
}

func formatStringMap(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func formatErrorPatterns(e memory.ErrorPatterns) string {
	if len(e.Patterns) == 0 {
		return "none recorded"
	}
	parts := make([]string, 0, len(e.Patterns))
	for _, p := range e.Patterns {
		parts = append(parts, fmt.Sprintf("%s (seen %dx)", p.Pattern, p.Frequency))
	}
	return strings.Join(parts, "; ")
}

func formatPreventionRules(e memory.ErrorPatterns) string {
	var parts []string
	for _, r := range e.PreventionRules {
		if r.Enabled {
			parts = append(parts, r.Rule)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}

func formatOptimizations(o memory.OptimizationMap) string {
	if len(o.Applied) == 0 {
		return "none applied"
	}
	// Show the most recent few only.
	start := 0
	if len(o.Applied) > 5 {
		start = len(o.Applied) - 5
	}
	parts := make([]string, 0, 5)
	for _, a := range o.Applied[start:] {
		parts = append(parts, fmt.Sprintf("%s at %s", a.Optimization, a.CodeLocation))
	}
	return strings.Join(parts, "; ")
}

func formatHistory(h memory.GenerationHistory) string {
	success := 0
	for _, a := range h.Attempts {
		if a.Success {
			success++
		}
	}
	return fmt.Sprintf("%d attempts, %d succeeded", len(h.Attempts), success)
}

// formatValue renders a context value as prompt text.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, "; ")
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// evalCondition checks one condition against the context.
func evalCondition(c Condition, ctx map[string]any) bool {
	v, present := ctx[c.Variable]

	switch c.Operator {
	case OpExists:
		return present && !isEmpty(v)
	case OpEquals:
		if !present {
			return false
		}
		return looseEqual(v, c.Value)
	case OpContains:
		if !present {
			return false
		}
		switch x := v.(type) {
		case string:
			return strings.Contains(x, formatValue(c.Value))
		case []string:
			want := formatValue(c.Value)
			for _, item := range x {
				if item == want {
					return true
				}
			}
			return false
		}
		return false
	case OpGreater:
		a, aok := toFloat(v)
		b, bok := toFloat(c.Value)
		return aok && bok && a > b
	case OpLess:
		a, aok := toFloat(v)
		b, bok := toFloat(c.Value)
		return aok && bok && a < b
	}
	return false
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	}
	return false
}

func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return formatValue(a) == formatValue(b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}
