package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildmind/buildmind/internal/adapter"
	"github.com/buildmind/buildmind/internal/memory"
	"github.com/buildmind/buildmind/internal/prompt"
	"github.com/buildmind/buildmind/internal/store"
)

// ErrBusy is returned when a send is attempted while another is in
// flight. The single-in-flight invariant is what keeps conversation
// writes ordered; there is no lock beyond this flag.
var ErrBusy = errors.New("chat: a message is already in flight")

// FallbackMessage is surfaced when the external AI call fails. The
// failure is not retried.
const FallbackMessage = "I encountered an error while processing your request. Please try again."

// SendOptions tunes one send call.
type SendOptions struct {
	ForceTool Tool
	Options   adapter.Options
}

// Orchestrator owns the per-session message list and the active tool,
// assembles prompts from project context, and invokes the external
// generator. All conversation state flows through the context store;
// the orchestrator holds only transient, derived views.
type Orchestrator struct {
	store     *store.ContextStore
	engine    *prompt.Engine
	generator adapter.Generator
	log       *zap.Logger

	projectID   string
	currentTool Tool
	history     []Message
	inFlight    bool

	// OptimizationCap bounds the applied-optimization log.
	OptimizationCap int

	now   func() time.Time
	newID func() string
}

// NewOrchestrator creates an orchestrator for one project session.
func NewOrchestrator(contextStore *store.ContextStore, engine *prompt.Engine, generator adapter.Generator, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		store:           contextStore,
		engine:          engine,
		generator:       generator,
		log:             log,
		OptimizationCap: memory.DefaultOptimizationCap,
		now:             time.Now,
		newID:           func() string { return uuid.NewString() },
	}
}

// CurrentTool returns the active tool, or ToolNone.
func (o *Orchestrator) CurrentTool() Tool {
	return o.currentTool
}

// History returns the in-memory message list for the session.
func (o *Orchestrator) History() []Message {
	return o.history
}

// Init binds the orchestrator to a project, rehydrating the session
// history from ConversationMemory. If the project has been idle longer
// than the recovery gap, a summarized recap of all context documents is
// injected as a system message before normal interaction resumes.
func (o *Orchestrator) Init(projectID string) {
	o.projectID = projectID
	o.currentTool = ToolNone
	o.history = nil

	docs := o.store.Documents(projectID)

	idleFor := o.now().Sub(docs.ProjectState.LastInteraction)
	if !docs.ProjectState.LastInteraction.IsZero() && idleFor > memory.RecoveryGap {
		summary := memory.Summarize(docs)
		recap, err := o.engine.Generate(projectID, "context-recovery", map[string]any{
			"context_summary": summary,
		})
		if err != nil {
			o.log.Warn("context recovery prompt failed", zap.Error(err))
		} else if recap != "" {
			o.appendHistory(Message{Role: RoleSystem, Content: recap})
			o.log.Info("context recovered after idle gap",
				zap.String("project", projectID),
				zap.Duration("idle", idleFor))
		}
	}

	for _, m := range docs.Conversation.Messages {
		o.history = append(o.history, Message{
			ID:        o.newID(),
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
}

// Send processes one user turn: resolves the tool, assembles the
// prompt, calls the external generator, and records everything back
// into the context store. On generator failure the returned assistant
// message is the fixed fallback with empty metadata; the appended user
// message and all stored documents are left intact.
func (o *Orchestrator) Send(ctx context.Context, text string, opts SendOptions) (Message, error) {
	if o.inFlight {
		return Message{}, ErrBusy
	}
	o.inFlight = true
	defer func() { o.inFlight = false }()

	now := o.now()

	// Tool resolution happens first so the switch announcement precedes
	// the user message in history order.
	tool, body := DetectTool(text, o.currentTool, opts.ForceTool)
	if tool != o.currentTool && tool != ToolNone {
		o.switchTool(tool)
	}

	userMsg := Message{
		ID:        o.newID(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: now,
	}
	o.appendHistory(userMsg)

	conv := o.store.Conversation(o.projectID)
	conv.Append(RoleUser, text, now)
	o.store.SetConversation(o.projectID, conv)

	request := o.assemblePrompt(body)

	result, genErr := o.generator.Generate(ctx, adapter.Request{
		Prompt:    request,
		Options:   opts.Options,
		ProjectID: o.projectID,
	})

	history := o.store.History(o.projectID)
	history.Add(memory.GenerationAttempt{
		ID:          o.newID(),
		Timestamp:   now,
		Prompt:      request,
		Result:      result,
		Success:     genErr == nil,
		Framework:   opts.Options.Framework,
		ProjectType: opts.Options.ProjectType,
	})
	o.store.SetHistory(o.projectID, history)

	if genErr != nil {
		o.log.Warn("generation failed", zap.String("project", o.projectID), zap.Error(genErr))
		fallback := Message{
			ID:        o.newID(),
			Role:      RoleAssistant,
			Content:   FallbackMessage,
			Timestamp: o.now(),
			Metadata:  &Metadata{},
		}
		o.appendHistory(fallback)
		return fallback, nil
	}

	meta := o.metadataFor(o.currentTool)
	assistantMsg := Message{
		ID:        o.newID(),
		Role:      RoleAssistant,
		Content:   result,
		Timestamp: o.now(),
		Tool:      o.currentTool,
		Metadata:  meta,
	}
	o.appendHistory(assistantMsg)

	conv = o.store.Conversation(o.projectID)
	conv.Append(RoleAssistant, result, o.now())
	o.store.SetConversation(o.projectID, conv)

	o.recordOutcome(body, result, meta, now)

	return assistantMsg, nil
}

// appendHistory adds a message to the session list, filling in the ID
// and timestamp when the caller left them zero.
func (o *Orchestrator) appendHistory(m Message) {
	if m.ID == "" {
		m.ID = o.newID()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = o.now()
	}
	o.history = append(o.history, m)
}

// switchTool activates a tool, announcing the switch as a system
// message and persisting the intent.
func (o *Orchestrator) switchTool(tool Tool) {
	o.currentTool = tool
	o.appendHistory(Message{
		Role:    RoleSystem,
		Content: fmt.Sprintf("Switched to %s tool", tool),
		Tool:    tool,
	})

	state := o.store.ProjectState(o.projectID)
	state.AIMemory.UserIntent = fmt.Sprintf("Using %s tool", tool)
	o.store.SetProjectState(o.projectID, state)
}

// assemblePrompt builds the generation request. With a tool active, the
// system prompt and the tool-specific prompt are concatenated ahead of
// the user request; with none, the raw user text is the request.
func (o *Orchestrator) assemblePrompt(body string) string {
	if o.currentTool == ToolNone {
		return body
	}

	systemPrompt, err := o.engine.Generate(o.projectID, "unified-system", nil)
	if err != nil {
		o.log.Warn("system prompt failed", zap.Error(err))
	}

	toolPrompt, err := o.engine.Generate(o.projectID, string(o.currentTool)+"-mode", nil)
	if err != nil {
		o.log.Warn("tool prompt failed", zap.String("tool", string(o.currentTool)), zap.Error(err))
	}

	var b strings.Builder
	if systemPrompt != "" {
		b.WriteString(systemPrompt)
		b.WriteString("\n\n")
	}
	if toolPrompt != "" {
		b.WriteString(toolPrompt)
		b.WriteString("\n\n")
	}
	b.WriteString("User Request: ")
	b.WriteString(body)
	return b.String()
}

// metadataFor derives the response-shaping flags for the active tool.
func (o *Orchestrator) metadataFor(tool Tool) *Metadata {
	meta := &Metadata{}
	switch tool {
	case ToolDebug, ToolOptimize, ToolGenerate, ToolRefactor:
		meta.CodeGenerated = true
	}
	meta.ErrorFixed = tool == ToolDebug
	meta.OptimizationApplied = tool == ToolOptimize
	if tool != ToolNone {
		meta.ToolsUsed = []string{string(tool)}
	}
	return meta
}

// recordOutcome updates ProjectState bookkeeping and the pattern
// documents after a successful generation.
func (o *Orchestrator) recordOutcome(body, result string, meta *Metadata, now time.Time) {
	intent := memory.TruncateIntent(body)

	state := o.store.ProjectState(o.projectID)
	state.AIMemory.UserIntent = intent
	if meta.CodeGenerated {
		state.AppendKeyDecision("Generated code for: " + intent)
	}
	if o.currentTool != ToolNone {
		state.AppendPendingTask(fmt.Sprintf("%s: %s", o.currentTool, intent))
	}
	o.store.SetProjectState(o.projectID, state)

	// Best-effort structure indexing over the generated response.
	if meta.CodeGenerated && strings.Contains(result, "```") {
		cs := o.store.CodeStructure(o.projectID)
		cs.MergeFile("generated/"+o.newID(), result)
		o.store.SetCodeStructure(o.projectID, cs)
	}

	switch o.currentTool {
	case ToolDebug:
		patterns := o.store.ErrorPatterns(o.projectID)
		patterns.Record(intent, memory.TruncateIntent(result), now)
		o.store.SetErrorPatterns(o.projectID, patterns)
	case ToolOptimize:
		opts := o.store.Optimizations(o.projectID)
		opts.Record(memory.AppliedOptimization{
			Optimization: intent,
			Timestamp:    now,
			Impact:       "unmeasured",
			CodeLocation: "unknown",
		}, o.OptimizationCap)
		o.store.SetOptimizations(o.projectID, opts)
	}
}
