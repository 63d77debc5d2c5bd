package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/buildmind/buildmind/internal/memory"
)

func sampleExportData() ExportData {
	docs := memory.Documents{
		ProjectState:    memory.DefaultProjectState("shop-1"),
		CodeStructure:   memory.DefaultCodeStructure(),
		Conversation:    memory.DefaultConversationMemory(),
		History:         memory.DefaultGenerationHistory(),
		Preferences:     memory.DefaultUserPreferences(),
		ErrorPatterns:   memory.DefaultErrorPatterns(),
		OptimizationMap: memory.DefaultOptimizationMap(),
	}

	docs.ProjectState.LastInteraction = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	docs.ProjectState.CodebaseFingerprint = "abc123"
	docs.ProjectState.AIMemory.UserIntent = "building a storefront"
	docs.ProjectState.AppendKeyDecision("Use tailwind for styling")
	docs.ProjectState.AppendPendingTask("generate: product grid")

	docs.CodeStructure.MergeFile("src/App.jsx", "function App() {}")
	docs.Conversation.Append("user", "add a cart page", docs.ProjectState.LastInteraction)
	docs.ErrorPatterns.Record("undefined cart state", "guard the selector", docs.ProjectState.LastInteraction)
	docs.OptimizationMap.Record(memory.AppliedOptimization{Optimization: "memoize product list"}, 0)
	docs.History.Add(memory.GenerationAttempt{ID: "a1", Success: true})
	docs.History.Add(memory.GenerationAttempt{ID: "a2", Success: false})

	return ExportData{ProjectName: "shopfront", Documents: docs}
}

func TestGet_ValidFormats(t *testing.T) {
	for _, name := range ValidFormats() {
		if _, ok := Get(name); !ok {
			t.Errorf("Get(%q) not found but listed as valid", name)
		}
	}
	if _, ok := Get("pdf"); ok {
		t.Error("unknown format should not resolve")
	}
}

func TestMarkdownExport(t *testing.T) {
	e, _ := Get("markdown")
	out, err := e.Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, want := range []string{
		"# shopfront — Project Context",
		"building a storefront",
		"Use tailwind for styling",
		"generate: product grid",
		"undefined cart state (seen 1x)",
		"memoize product list",
		"2 attempts, 1 succeeded",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownExport_FallsBackToProjectID(t *testing.T) {
	data := sampleExportData()
	data.ProjectName = ""

	e, _ := Get("markdown")
	out, err := e.Export(data)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, "# shop-1 — Project Context") {
		t.Errorf("expected project ID heading:\n%s", out)
	}
}

func TestJSONExport(t *testing.T) {
	e, _ := Get("json")
	out, err := e.Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var parsed jsonOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if parsed.Project.Name != "shopfront" {
		t.Errorf("name = %q", parsed.Project.Name)
	}
	if parsed.Project.Intent != "building a storefront" {
		t.Errorf("intent = %q", parsed.Project.Intent)
	}
	if len(parsed.Decisions) != 1 || len(parsed.PendingTasks) != 1 {
		t.Errorf("decisions = %v, tasks = %v", parsed.Decisions, parsed.PendingTasks)
	}
	if len(parsed.Errors) != 1 || parsed.Errors[0].Frequency != 1 {
		t.Errorf("errors = %+v", parsed.Errors)
	}
	if parsed.Attempts != 2 || parsed.Succeeded != 1 {
		t.Errorf("attempts = %d, succeeded = %d", parsed.Attempts, parsed.Succeeded)
	}
}

func TestJSONExport_EmptyDocuments(t *testing.T) {
	data := ExportData{
		ProjectName: "empty",
		Documents: memory.Documents{
			ProjectState: memory.DefaultProjectState("empty"),
		},
	}

	e, _ := Get("json")
	out, err := e.Export(data)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(out, "null") {
		t.Errorf("empty collections should serialize as [], got:\n%s", out)
	}
}
