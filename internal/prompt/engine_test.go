package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/buildmind/buildmind/internal/memory"
	"github.com/buildmind/buildmind/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.ContextStore) {
	t.Helper()
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	s := store.New(store.NewMapMedium(), nil)
	return NewEngine(reg, s), s
}

func TestRegistry_SeededFromCatalog(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	for _, id := range []string{
		"unified-system", "context-recovery",
		"debug-mode", "optimize-mode", "generate-mode", "analyze-mode", "refactor-mode",
	} {
		if _, err := reg.Get(id); err != nil {
			t.Errorf("catalog template %q missing: %v", id, err)
		}
	}
}

func TestRegistry_AddUpdateDelete(t *testing.T) {
	reg, _ := NewRegistry()

	tmpl := Template{ID: "custom", Name: "Custom", Version: "1.0", Text: "hi {project_id}", Variables: []string{"project_id"}}
	if err := reg.Add(tmpl); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := reg.Add(tmpl); err == nil {
		t.Error("duplicate Add should fail")
	}

	added, _ := reg.Get("custom")
	if added.Metadata.LastModified.IsZero() {
		t.Error("Add should stamp LastModified")
	}

	added.Metadata.Usage = 3
	tmpl.Text = "hello {project_id}"
	if err := reg.Update(tmpl); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, _ := reg.Get("custom")
	if updated.Metadata.Usage != 3 {
		t.Error("Update must preserve usage counters")
	}
	if updated.Text != "hello {project_id}" {
		t.Error("Update should replace template text")
	}

	if err := reg.Delete("custom"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := reg.Get("custom"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound after delete, got %v", err)
	}
	if err := reg.Delete("custom"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("double delete: expected ErrTemplateNotFound, got %v", err)
	}
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Generate("proj-1", "no-such-template", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestGenerate_SubstitutesContext(t *testing.T) {
	e, s := newTestEngine(t)

	state := memory.DefaultProjectState("proj-1")
	state.SetUserIntent("build a booking app")
	s.SetProjectState("proj-1", state)

	out, err := e.Generate("proj-1", "unified-system", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "proj-1") {
		t.Error("rendered prompt should contain the project id")
	}
	if !strings.Contains(out, "build a booking app") {
		t.Error("rendered prompt should contain the user intent")
	}
	if !strings.Contains(out, "components: 0, functions: 0, files: 0") {
		t.Errorf("rendered prompt should contain the structure summary:\n%s", out)
	}
	if strings.Contains(out, "{") {
		t.Errorf("no literal placeholders may survive rendering:\n%s", out)
	}
}

func TestGenerate_OverridesWin(t *testing.T) {
	e, s := newTestEngine(t)

	state := memory.DefaultProjectState("proj-1")
	state.SetUserIntent("stored intent")
	s.SetProjectState("proj-1", state)

	out, err := e.Generate("proj-1", "unified-system", map[string]any{"user_intent": "override intent"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "override intent") || strings.Contains(out, "stored intent") {
		t.Errorf("override should win over stored context:\n%s", out)
	}
}

func TestGenerate_ConditionSuppressesPrompt(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Registry().Add(Template{
		ID:   "gated",
		Text: "secret",
		Conditions: []Condition{
			{Variable: "x", Operator: OpEquals, Value: true},
		},
	})

	out, err := e.Generate("proj-1", "gated", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "" {
		t.Errorf("missing condition variable should suppress the prompt, got %q", out)
	}

	out, err = e.Generate("proj-1", "gated", map[string]any{"x": true})
	if err != nil {
		t.Fatalf("Generate with override: %v", err)
	}
	if out != "secret" {
		t.Errorf("satisfied condition should render, got %q", out)
	}
}

func TestGenerate_ContextRecoveryGatedOnSummary(t *testing.T) {
	e, _ := newTestEngine(t)

	// No summary: suppressed.
	out, err := e.Generate("proj-1", "context-recovery", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "" {
		t.Errorf("recovery prompt without a summary should be suppressed, got %q", out)
	}

	out, err = e.Generate("proj-1", "context-recovery", map[string]any{"context_summary": "Project proj-1. 3 decisions."})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "3 decisions") {
		t.Errorf("recovery prompt should embed the summary:\n%s", out)
	}
}

func TestGenerate_IncrementsUsage(t *testing.T) {
	e, _ := newTestEngine(t)

	tmpl, _ := e.Registry().Get("unified-system")
	before := tmpl.Metadata.Usage

	if _, err := e.Generate("proj-1", "unified-system", nil); err != nil {
		t.Fatal(err)
	}
	if tmpl.Metadata.Usage != before+1 {
		t.Errorf("usage: got %d, want %d", tmpl.Metadata.Usage, before+1)
	}
}

func TestRecordEffectiveness_RunningAverage(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.RecordEffectiveness("unified-system", 0.8); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := e.Registry().Get("unified-system")
	if tmpl.Metadata.Effectiveness != 0.8 {
		t.Errorf("first rating: got %v, want 0.8", tmpl.Metadata.Effectiveness)
	}

	// One generation bumps usage to 1; the next rating averages over it.
	if _, err := e.Generate("proj-1", "unified-system", nil); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordEffectiveness("unified-system", 0.4); err != nil {
		t.Fatal(err)
	}
	want := (0.8*1 + 0.4) / 2
	if tmpl.Metadata.Effectiveness != want {
		t.Errorf("running average: got %v, want %v", tmpl.Metadata.Effectiveness, want)
	}

	if err := e.RecordEffectiveness("missing", 1); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestEvalCondition_Operators(t *testing.T) {
	ctx := map[string]any{
		"framework": "react",
		"tools":     []string{"debug", "optimize"},
		"count":     7,
		"empty":     "",
	}

	cases := []struct {
		name string
		c    Condition
		want bool
	}{
		{"equals string", Condition{Variable: "framework", Operator: OpEquals, Value: "react"}, true},
		{"equals mismatch", Condition{Variable: "framework", Operator: OpEquals, Value: "vue"}, false},
		{"equals numeric", Condition{Variable: "count", Operator: OpEquals, Value: 7.0}, true},
		{"contains string", Condition{Variable: "framework", Operator: OpContains, Value: "act"}, true},
		{"contains slice", Condition{Variable: "tools", Operator: OpContains, Value: "debug"}, true},
		{"contains slice miss", Condition{Variable: "tools", Operator: OpContains, Value: "generate"}, false},
		{"exists", Condition{Variable: "framework", Operator: OpExists}, true},
		{"exists empty string", Condition{Variable: "empty", Operator: OpExists}, false},
		{"exists missing", Condition{Variable: "nope", Operator: OpExists}, false},
		{"greater", Condition{Variable: "count", Operator: OpGreater, Value: 5}, true},
		{"greater false", Condition{Variable: "count", Operator: OpGreater, Value: 9}, false},
		{"less", Condition{Variable: "count", Operator: OpLess, Value: 9}, true},
		{"unknown operator", Condition{Variable: "count", Operator: "matches"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalCondition(tc.c, ctx); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTokenizer_CountsRenderedPrompt(t *testing.T) {
	tok, err := NewTokenizer()
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	if n := tok.Count("Generate a responsive navbar component."); n <= 0 {
		t.Errorf("expected positive token count, got %d", n)
	}
	if n := tok.Count(""); n != 0 {
		t.Errorf("empty string should count 0 tokens, got %d", n)
	}
}
