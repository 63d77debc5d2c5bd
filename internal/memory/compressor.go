package memory

import (
	"fmt"
	"strings"
	"time"
)

// EstimateTokens returns a coarse token estimate of roughly four
// characters per token. It paces compression only and must never be
// shown to the user as an exact count.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// techVocabulary is the fixed keyword list scanned when summarizing
// compressed-away messages.
var techVocabulary = []string{
	"react", "vue", "svelte", "angular", "next.js", "nextjs",
	"node", "express", "typescript", "javascript", "tailwind",
	"supabase", "firebase", "postgres", "sqlite", "mongodb",
	"stripe", "graphql", "rest", "redux", "zustand", "vite", "docker",
}

// decisionPhrases marks messages worth quoting in the rolling summary.
var decisionPhrases = []string{"decided", "chosen", "will use"}

const decisionQuoteLimit = 200

// Append adds a message and recomputes the estimated token count,
// compressing if the conversation crossed the threshold.
func (c *ConversationMemory) Append(role, content string, now time.Time) {
	c.Messages = append(c.Messages, MemoryMessage{Role: role, Content: content, Timestamp: now})
	c.recount()
	c.Compress(now)
}

// Compress folds everything but the most recent messages into the
// rolling summary once the token estimate crosses the threshold. The
// fold is lossy and one-way: exact older message text is gone after
// compression. Running Compress on an already-compressed memory that is
// under threshold is a no-op.
func (c *ConversationMemory) Compress(now time.Time) {
	if c.TokenCount <= CompressionThreshold || len(c.Messages) <= RecentMessageKeep {
		return
	}
	cut := len(c.Messages) - RecentMessageKeep
	older := c.Messages[:cut]
	recent := c.Messages[cut:]

	c.Context = summarizeMessages(older)
	c.Messages = append([]MemoryMessage{}, recent...)
	c.recount()
	c.LastCompression = now
}

func (c *ConversationMemory) recount() {
	total := 0
	for _, m := range c.Messages {
		total += EstimateTokens(m.Content)
	}
	c.TokenCount = total
}

// summarizeMessages produces the rolling context summary for a batch of
// compressed-away messages: distinct technology keywords, quoted
// decision statements, and a count of fenced code blocks.
func summarizeMessages(older []MemoryMessage) string {
	seen := map[string]bool{}
	var techs []string
	var decisions []string
	codeBlocks := 0

	for _, m := range older {
		lower := strings.ToLower(m.Content)
		for _, kw := range techVocabulary {
			if !seen[kw] && strings.Contains(lower, kw) {
				seen[kw] = true
				techs = append(techs, kw)
			}
		}
		for _, phrase := range decisionPhrases {
			if strings.Contains(lower, phrase) {
				quote := m.Content
				if len(quote) > decisionQuoteLimit {
					quote = quote[:decisionQuoteLimit]
				}
				decisions = append(decisions, quote)
				break
			}
		}
		codeBlocks += strings.Count(m.Content, "```") / 2
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Earlier conversation (%d messages compressed).", len(older))
	if len(techs) > 0 {
		fmt.Fprintf(&b, " Technologies discussed: %s.", strings.Join(techs, ", "))
	}
	if len(decisions) > 0 {
		b.WriteString(" Decisions: ")
		for i, d := range decisions {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(d)
		}
		b.WriteString(".")
	}
	if codeBlocks > 0 {
		fmt.Fprintf(&b, " Code blocks generated: %d.", codeBlocks)
	}
	return b.String()
}
