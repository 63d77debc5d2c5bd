package store

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/buildmind/buildmind/internal/memory"
)

// ContextStore owns persistence of the seven context documents. Reads
// are served from a process-local cache after the first load; writes
// update the cache first and then persist through the medium. A failed
// persist is logged and the cache keeps the attempted value, so the
// process keeps operating against memory until the next successful
// write.
type ContextStore struct {
	medium Medium
	cache  map[string]string
	log    *zap.Logger
	now    func() time.Time
}

// New creates a ContextStore over the given medium. A nil logger is
// replaced with a no-op logger.
func New(medium Medium, log *zap.Logger) *ContextStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContextStore{
		medium: medium,
		cache:  map[string]string{},
		log:    log,
		now:    time.Now,
	}
}

// readDoc loads a document into out (a pointer to the declared default).
// Missing or corrupt data leaves out untouched; the caller never sees an
// error from a read.
func (s *ContextStore) readDoc(projectID string, doc memory.DocKey, out any) {
	key := Key(projectID, doc)

	raw, ok := s.cache[key]
	if !ok {
		stored, found, err := s.medium.Get(key)
		if err != nil {
			s.log.Warn("context store read failed", zap.String("key", key), zap.Error(err))
			return
		}
		if !found {
			return
		}
		raw = stored
		s.cache[key] = raw
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// Corrupt data is treated as absent.
		s.log.Warn("context store document corrupt", zap.String("key", key), zap.Error(err))
	}
}

// writeDoc caches and persists a document.
func (s *ContextStore) writeDoc(projectID string, doc memory.DocKey, v any) {
	key := Key(projectID, doc)

	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("context store marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.cache[key] = string(b)

	if err := s.medium.Set(key, string(b)); err != nil {
		// Best-effort: the cache already reflects the attempted value.
		s.log.Warn("context store persist failed", zap.String("key", key), zap.Error(err))
	}
}

// ProjectState returns the project state document, or its default.
func (s *ContextStore) ProjectState(projectID string) memory.ProjectState {
	v := memory.DefaultProjectState(projectID)
	s.readDoc(projectID, memory.DocProjectState, &v)
	return v
}

// SetProjectState persists the project state, stamping the interaction
// time. ProjectState is the only document with write-time bookkeeping.
func (s *ContextStore) SetProjectState(projectID string, v memory.ProjectState) {
	v.LastInteraction = s.now()
	s.writeDoc(projectID, memory.DocProjectState, v)
}

// CodeStructure returns the symbol index document, or its default.
func (s *ContextStore) CodeStructure(projectID string) memory.CodeStructure {
	v := memory.DefaultCodeStructure()
	s.readDoc(projectID, memory.DocCodeStructure, &v)
	return v
}

// SetCodeStructure persists the symbol index.
func (s *ContextStore) SetCodeStructure(projectID string, v memory.CodeStructure) {
	s.writeDoc(projectID, memory.DocCodeStructure, v)
}

// Conversation returns the conversation memory document, or its default.
func (s *ContextStore) Conversation(projectID string) memory.ConversationMemory {
	v := memory.DefaultConversationMemory()
	s.readDoc(projectID, memory.DocConversation, &v)
	return v
}

// SetConversation persists the conversation memory.
func (s *ContextStore) SetConversation(projectID string, v memory.ConversationMemory) {
	s.writeDoc(projectID, memory.DocConversation, v)
}

// History returns the generation history document, or its default.
func (s *ContextStore) History(projectID string) memory.GenerationHistory {
	v := memory.DefaultGenerationHistory()
	s.readDoc(projectID, memory.DocHistory, &v)
	return v
}

// SetHistory persists the generation history.
func (s *ContextStore) SetHistory(projectID string, v memory.GenerationHistory) {
	s.writeDoc(projectID, memory.DocHistory, v)
}

// Preferences returns the user preferences document, or its default.
func (s *ContextStore) Preferences(projectID string) memory.UserPreferences {
	v := memory.DefaultUserPreferences()
	s.readDoc(projectID, memory.DocPreferences, &v)
	return v
}

// SetPreferences persists the user preferences.
func (s *ContextStore) SetPreferences(projectID string, v memory.UserPreferences) {
	s.writeDoc(projectID, memory.DocPreferences, v)
}

// ErrorPatterns returns the error patterns document, or its default.
func (s *ContextStore) ErrorPatterns(projectID string) memory.ErrorPatterns {
	v := memory.DefaultErrorPatterns()
	s.readDoc(projectID, memory.DocErrorPatterns, &v)
	return v
}

// SetErrorPatterns persists the error patterns.
func (s *ContextStore) SetErrorPatterns(projectID string, v memory.ErrorPatterns) {
	s.writeDoc(projectID, memory.DocErrorPatterns, v)
}

// Optimizations returns the optimization map document, or its default.
func (s *ContextStore) Optimizations(projectID string) memory.OptimizationMap {
	v := memory.DefaultOptimizationMap()
	s.readDoc(projectID, memory.DocOptimizationMap, &v)
	return v
}

// SetOptimizations persists the optimization map.
func (s *ContextStore) SetOptimizations(projectID string, v memory.OptimizationMap) {
	s.writeDoc(projectID, memory.DocOptimizationMap, v)
}

// Documents reads all seven documents for a project.
func (s *ContextStore) Documents(projectID string) memory.Documents {
	return memory.Documents{
		ProjectState:    s.ProjectState(projectID),
		CodeStructure:   s.CodeStructure(projectID),
		Conversation:    s.Conversation(projectID),
		History:         s.History(projectID),
		Preferences:     s.Preferences(projectID),
		ErrorPatterns:   s.ErrorPatterns(projectID),
		OptimizationMap: s.Optimizations(projectID),
	}
}

// Clear removes every document for a project from cache and medium.
func (s *ContextStore) Clear(projectID string) {
	for _, doc := range memory.AllDocKeys {
		key := Key(projectID, doc)
		delete(s.cache, key)
		if err := s.medium.Remove(key); err != nil {
			s.log.Warn("context store clear failed", zap.String("key", key), zap.Error(err))
		}
	}
}
