// Package memory defines the per-project context documents buildmind
// persists, plus the conversation compressor and code-structure extractor
// that maintain them.
package memory

import "time"

// DocKey names one of the seven persisted context documents.
type DocKey string

const (
	DocProjectState    DocKey = "projectState"
	DocCodeStructure   DocKey = "codeStructure"
	DocConversation    DocKey = "conversationMemory"
	DocHistory         DocKey = "generationHistory"
	DocPreferences     DocKey = "userPreferences"
	DocErrorPatterns   DocKey = "errorPatterns"
	DocOptimizationMap DocKey = "optimizationMap"
)

// AllDocKeys lists every document key in bundle order.
var AllDocKeys = []DocKey{
	DocProjectState,
	DocCodeStructure,
	DocConversation,
	DocHistory,
	DocPreferences,
	DocErrorPatterns,
	DocOptimizationMap,
}

// Retention limits. The compression threshold and recent-message count
// come straight from the conversation pacing design; the rest bound the
// ring-buffer style lists inside ProjectState and the history documents.
const (
	MaxPendingTasks      = 5
	MaxKeyDecisions      = 10
	MaxHistoryEntries    = 50
	RecentMessageKeep    = 10
	CompressionThreshold = 15000
	MaxIntentLength      = 100

	// DefaultOptimizationCap bounds OptimizationMap.Applied. The source
	// behaviour left this list unbounded; it is capped here and made
	// configurable so long-lived projects do not grow without limit.
	DefaultOptimizationCap = 200
)

// RecoveryGap is the idle period after which context recovery kicks in.
const RecoveryGap = time.Hour

// ActiveContext tracks what the builder is currently working on.
type ActiveContext struct {
	CurrentFiles     []string `json:"currentFiles"`
	ActiveComponents []string `json:"activeComponents"`
	PendingTasks     []string `json:"pendingTasks"`
	GenerationQueue  []string `json:"generationQueue"`
}

// AIMemory holds the distilled knowledge the assistant carries between turns.
type AIMemory struct {
	ConversationSummary string   `json:"conversationSummary"`
	KeyDecisions        []string `json:"keyDecisions"`
	CodingPatterns      []string `json:"codingPatterns"`
	UserIntent          string   `json:"userIntent"`
}

// ProjectState is the top-level per-project document, mutated after
// every chat turn.
type ProjectState struct {
	ProjectID           string        `json:"projectId"`
	LastInteraction     time.Time     `json:"lastInteractionTimestamp"`
	CodebaseFingerprint string        `json:"codebaseFingerprint"`
	ActiveContext       ActiveContext `json:"activeContext"`
	AIMemory            AIMemory      `json:"aiMemory"`
}

// DefaultProjectState returns the document used for never-written projects.
func DefaultProjectState(projectID string) ProjectState {
	return ProjectState{
		ProjectID: projectID,
		ActiveContext: ActiveContext{
			CurrentFiles:     []string{},
			ActiveComponents: []string{},
			PendingTasks:     []string{},
			GenerationQueue:  []string{},
		},
		AIMemory: AIMemory{
			KeyDecisions:   []string{},
			CodingPatterns: []string{},
		},
	}
}

// AppendPendingTask records a task, keeping only the most recent entries.
func (p *ProjectState) AppendPendingTask(task string) {
	p.ActiveContext.PendingTasks = appendBounded(p.ActiveContext.PendingTasks, task, MaxPendingTasks)
}

// AppendKeyDecision records a decision, keeping only the most recent entries.
func (p *ProjectState) AppendKeyDecision(decision string) {
	p.AIMemory.KeyDecisions = appendBounded(p.AIMemory.KeyDecisions, decision, MaxKeyDecisions)
}

// SetUserIntent stores a truncated summary of the latest user input.
func (p *ProjectState) SetUserIntent(text string) {
	p.AIMemory.UserIntent = TruncateIntent(text)
}

// TruncateIntent shortens text to the intent length cap, appending an
// ellipsis when anything was cut.
func TruncateIntent(text string) string {
	if len(text) <= MaxIntentLength {
		return text
	}
	return text[:MaxIntentLength] + "..."
}

func appendBounded(list []string, item string, max int) []string {
	list = append(list, item)
	if len(list) > max {
		list = list[len(list)-max:]
	}
	return list
}

// FunctionInfo describes a heuristically detected function declaration.
type FunctionInfo struct {
	ReturnType string `json:"returnType"`
	File       string `json:"file"`
}

// VariableInfo describes a heuristically detected variable declaration.
type VariableInfo struct {
	Kind string `json:"kind"` // const, let, var
	File string `json:"file"`
}

// ComponentInfo describes a capitalized declaration assumed to be a UI
// component.
type ComponentInfo struct {
	File string `json:"file"`
}

// CodeStructure is the merge-only symbol index built from generated
// source text. Symbols are added, never removed; it represents eventual
// rather than precise knowledge of the codebase.
type CodeStructure struct {
	Functions  map[string]FunctionInfo  `json:"functions"`
	Variables  map[string]VariableInfo  `json:"variables"`
	Components map[string]ComponentInfo `json:"components"`
	Imports    map[string][]string      `json:"imports"`
	Exports    map[string][]string      `json:"exports"`
}

// DefaultCodeStructure returns an empty symbol index.
func DefaultCodeStructure() CodeStructure {
	return CodeStructure{
		Functions:  map[string]FunctionInfo{},
		Variables:  map[string]VariableInfo{},
		Components: map[string]ComponentInfo{},
		Imports:    map[string][]string{},
		Exports:    map[string][]string{},
	}
}

// MemoryMessage is one stored conversation turn.
type MemoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationMemory holds the bounded message history plus the rolling
// summary of everything compressed away.
type ConversationMemory struct {
	Messages        []MemoryMessage `json:"messages"`
	Context         string          `json:"context"`
	TokenCount      int             `json:"tokenCount"`
	LastCompression time.Time       `json:"lastCompression,omitempty"`
}

// DefaultConversationMemory returns an empty conversation.
func DefaultConversationMemory() ConversationMemory {
	return ConversationMemory{Messages: []MemoryMessage{}}
}

// GenerationAttempt records one call to the external generator.
type GenerationAttempt struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Prompt      string    `json:"prompt"`
	Result      string    `json:"result"`
	Success     bool      `json:"success"`
	Framework   string    `json:"framework"`
	ProjectType string    `json:"projectType"`
}

// GenerationHistory is the FIFO-capped log of generation attempts.
type GenerationHistory struct {
	Attempts []GenerationAttempt `json:"attempts"`
}

// DefaultGenerationHistory returns an empty history.
func DefaultGenerationHistory() GenerationHistory {
	return GenerationHistory{Attempts: []GenerationAttempt{}}
}

// Add appends an attempt, evicting the oldest entries beyond the cap.
func (h *GenerationHistory) Add(a GenerationAttempt) {
	h.Attempts = append(h.Attempts, a)
	if len(h.Attempts) > MaxHistoryEntries {
		h.Attempts = h.Attempts[len(h.Attempts)-MaxHistoryEntries:]
	}
}

// UserPreferences is the nested builder configuration. Partial updates
// merge key-wise over the defaults rather than replacing whole sections.
type UserPreferences struct {
	NamingConventions    map[string]string            `json:"namingConventions"`
	CodingPatterns       map[string]string            `json:"codingPatterns"`
	FrameworkPreferences map[string]map[string]string `json:"frameworkPreferences"`
}

// DefaultUserPreferences returns the builder's baseline conventions.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		NamingConventions: map[string]string{
			"components": "PascalCase",
			"functions":  "camelCase",
			"variables":  "camelCase",
			"files":      "kebab-case",
		},
		CodingPatterns: map[string]string{
			"stateManagement": "hooks",
			"styling":         "tailwind",
			"errorHandling":   "try-catch",
		},
		FrameworkPreferences: map[string]map[string]string{
			"react": {
				"componentStyle": "functional",
				"propsTyping":    "typescript",
			},
		},
	}
}

// Merge applies partial preferences over p. Only keys present in other
// are overwritten; sections other leaves nil are untouched.
func (p *UserPreferences) Merge(other UserPreferences) {
	if p.NamingConventions == nil {
		p.NamingConventions = map[string]string{}
	}
	for k, v := range other.NamingConventions {
		p.NamingConventions[k] = v
	}
	if p.CodingPatterns == nil {
		p.CodingPatterns = map[string]string{}
	}
	for k, v := range other.CodingPatterns {
		p.CodingPatterns[k] = v
	}
	if p.FrameworkPreferences == nil {
		p.FrameworkPreferences = map[string]map[string]string{}
	}
	for fw, prefs := range other.FrameworkPreferences {
		if p.FrameworkPreferences[fw] == nil {
			p.FrameworkPreferences[fw] = map[string]string{}
		}
		for k, v := range prefs {
			p.FrameworkPreferences[fw][k] = v
		}
	}
}

// ErrorPattern tracks one distinct error text and how it was fixed.
type ErrorPattern struct {
	Pattern        string    `json:"pattern"`
	Frequency      int       `json:"frequency"`
	Fixes          []string  `json:"fixes"`
	LastOccurrence time.Time `json:"lastOccurrence"`
}

// PreventionRule is a static, toggleable rule surfaced in prompts.
type PreventionRule struct {
	Rule    string `json:"rule"`
	Enabled bool   `json:"enabled"`
}

// ErrorPatterns is the per-project error memory document.
type ErrorPatterns struct {
	Patterns        []ErrorPattern   `json:"patterns"`
	PreventionRules []PreventionRule `json:"preventionRules"`
}

// DefaultErrorPatterns seeds the static prevention rules.
func DefaultErrorPatterns() ErrorPatterns {
	return ErrorPatterns{
		Patterns: []ErrorPattern{},
		PreventionRules: []PreventionRule{
			{Rule: "Always validate props before rendering", Enabled: true},
			{Rule: "Guard against undefined state in effects", Enabled: true},
			{Rule: "Wrap async calls in error boundaries", Enabled: true},
		},
	}
}

// Record increments the frequency for a known error text or registers a
// new pattern, stamping the occurrence time either way.
func (e *ErrorPatterns) Record(pattern, fix string, now time.Time) {
	for i := range e.Patterns {
		if e.Patterns[i].Pattern == pattern {
			e.Patterns[i].Frequency++
			e.Patterns[i].LastOccurrence = now
			if fix != "" {
				e.Patterns[i].Fixes = append(e.Patterns[i].Fixes, fix)
			}
			return
		}
	}
	p := ErrorPattern{Pattern: pattern, Frequency: 1, LastOccurrence: now, Fixes: []string{}}
	if fix != "" {
		p.Fixes = append(p.Fixes, fix)
	}
	e.Patterns = append(e.Patterns, p)
}

// AppliedOptimization records one optimization the builder applied.
type AppliedOptimization struct {
	Optimization string    `json:"optimization"`
	Timestamp    time.Time `json:"timestamp"`
	Impact       string    `json:"impact"`
	CodeLocation string    `json:"codeLocation"`
}

// OptimizationMap is the per-project optimization log.
type OptimizationMap struct {
	Applied []AppliedOptimization `json:"appliedOptimizations"`
}

// DefaultOptimizationMap returns an empty log.
func DefaultOptimizationMap() OptimizationMap {
	return OptimizationMap{Applied: []AppliedOptimization{}}
}

// Record appends an optimization, evicting the oldest beyond cap.
// A cap <= 0 means unbounded.
func (o *OptimizationMap) Record(a AppliedOptimization, cap int) {
	o.Applied = append(o.Applied, a)
	if cap > 0 && len(o.Applied) > cap {
		o.Applied = o.Applied[len(o.Applied)-cap:]
	}
}
