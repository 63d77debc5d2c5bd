package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buildmind/buildmind/internal/memory"
)

// ErrBadBundle marks an import payload that is not a complete context
// bundle. Nothing is written when it is returned.
var ErrBadBundle = errors.New("store: malformed context bundle")

// Bundle is the serialized snapshot of all seven documents. Field names
// are part of the export format and must not change.
type Bundle struct {
	ProjectState    memory.ProjectState       `json:"projectState"`
	CodeStructure   memory.CodeStructure      `json:"codeStructure"`
	Conversation    memory.ConversationMemory `json:"conversationMemory"`
	History         memory.GenerationHistory  `json:"generationHistory"`
	Preferences     memory.UserPreferences    `json:"userPreferences"`
	ErrorPatterns   memory.ErrorPatterns      `json:"errorPatterns"`
	OptimizationMap memory.OptimizationMap    `json:"optimizationMap"`
}

// ExportAll snapshots every document for a project into one bundle.
func (s *ContextStore) ExportAll(projectID string) Bundle {
	d := s.Documents(projectID)
	return Bundle{
		ProjectState:    d.ProjectState,
		CodeStructure:   d.CodeStructure,
		Conversation:    d.Conversation,
		History:         d.History,
		Preferences:     d.Preferences,
		ErrorPatterns:   d.ErrorPatterns,
		OptimizationMap: d.OptimizationMap,
	}
}

// bundleKeys is the set of required top-level fields in an exported
// bundle, matching the document keys.
var bundleKeys = []string{
	"projectState", "codeStructure", "conversationMemory",
	"generationHistory", "userPreferences", "errorPatterns",
	"optimizationMap",
}

// ParseBundle decodes and validates an exported bundle. All seven
// top-level keys must be present; anything else is ErrBadBundle.
func ParseBundle(raw []byte) (Bundle, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	for _, k := range bundleKeys {
		if _, ok := shape[k]; !ok {
			return Bundle{}, fmt.Errorf("%w: missing %q", ErrBadBundle, k)
		}
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	return b, nil
}

// ImportAll overwrites all seven documents from an exported bundle.
// Validation happens up front: a malformed payload leaves the store
// untouched (all-or-nothing intent, no persisted rollback needed).
func (s *ContextStore) ImportAll(projectID string, raw []byte) error {
	b, err := ParseBundle(raw)
	if err != nil {
		return err
	}

	s.writeDoc(projectID, memory.DocProjectState, b.ProjectState)
	s.writeDoc(projectID, memory.DocCodeStructure, b.CodeStructure)
	s.writeDoc(projectID, memory.DocConversation, b.Conversation)
	s.writeDoc(projectID, memory.DocHistory, b.History)
	s.writeDoc(projectID, memory.DocPreferences, b.Preferences)
	s.writeDoc(projectID, memory.DocErrorPatterns, b.ErrorPatterns)
	s.writeDoc(projectID, memory.DocOptimizationMap, b.OptimizationMap)
	return nil
}
