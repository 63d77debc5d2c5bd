// Package chat implements the tool-aware conversation orchestrator that
// mediates between user text, prompt assembly, the external AI call,
// and the context store.
package chat

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Metadata carries response-shaping flags alongside an assistant message.
type Metadata struct {
	CodeGenerated       bool     `json:"codeGenerated"`
	FilesAffected       []string `json:"filesAffected,omitempty"`
	ToolsUsed           []string `json:"toolsUsed,omitempty"`
	ErrorFixed          bool     `json:"errorFixed"`
	OptimizationApplied bool     `json:"optimizationApplied"`
}

// Message is one chat turn held in the per-session history.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Tool      Tool      `json:"tool,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}
