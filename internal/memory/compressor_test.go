package memory

import (
	"strings"
	"testing"
	"time"
)

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, c := range cases {
		if got := EstimateTokens(c.in); got != c.want {
			t.Errorf("EstimateTokens(%d chars): got %d, want %d", len(c.in), got, c.want)
		}
	}
}

func TestAppend_UnderThreshold_NoCompression(t *testing.T) {
	var c ConversationMemory
	now := time.Now()

	c.Append("user", "build me a todo app with react", now)
	c.Append("assistant", "sure, starting with the component tree", now)

	if len(c.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(c.Messages))
	}
	if c.Context != "" {
		t.Errorf("context should be empty before compression, got %q", c.Context)
	}
	if !c.LastCompression.IsZero() {
		t.Error("LastCompression should not be stamped under threshold")
	}
}

func overThresholdConversation(now time.Time) ConversationMemory {
	var c ConversationMemory
	// 30 messages of ~600 estimated tokens each puts the conversation
	// well past the threshold.
	body := strings.Repeat("we decided to use react and supabase ", 60)
	for i := 0; i < 30; i++ {
		c.Messages = append(c.Messages, MemoryMessage{Role: "user", Content: body, Timestamp: now})
	}
	c.recount()
	return c
}

func TestCompress_KeepsRecentAndSummarizes(t *testing.T) {
	now := time.Now()
	c := overThresholdConversation(now)

	c.Compress(now)

	if len(c.Messages) != RecentMessageKeep {
		t.Fatalf("expected %d messages after compression, got %d", RecentMessageKeep, len(c.Messages))
	}
	if c.Context == "" {
		t.Fatal("expected non-empty summary context after compression")
	}
	if !strings.Contains(c.Context, "react") || !strings.Contains(c.Context, "supabase") {
		t.Errorf("summary should mention detected technologies, got %q", c.Context)
	}
	if !strings.Contains(c.Context, "Decisions:") {
		t.Errorf("summary should quote decision messages, got %q", c.Context)
	}
	if c.LastCompression != now {
		t.Error("LastCompression not stamped")
	}
}

func TestCompress_IdempotentOnceUnderThreshold(t *testing.T) {
	now := time.Now()
	c := overThresholdConversation(now)
	c.Compress(now)

	first := c.LastCompression
	snapshot := len(c.Messages)

	later := now.Add(time.Minute)
	c.Compress(later)

	if c.LastCompression != first {
		t.Error("re-running compression under threshold must not restamp LastCompression")
	}
	if len(c.Messages) != snapshot {
		t.Errorf("message count changed on no-op compression: %d -> %d", snapshot, len(c.Messages))
	}
}

func TestCompress_SmallConversationUntouched(t *testing.T) {
	var c ConversationMemory
	// Few messages, each huge: over the token threshold but not over
	// the recent-keep count, so nothing can be folded.
	big := strings.Repeat("x", CompressionThreshold*4)
	for i := 0; i < 3; i++ {
		c.Messages = append(c.Messages, MemoryMessage{Role: "user", Content: big})
	}
	c.recount()

	c.Compress(time.Now())

	if len(c.Messages) != 3 {
		t.Errorf("expected 3 messages, got %d", len(c.Messages))
	}
}

func TestSummarizeMessages_CountsCodeBlocks(t *testing.T) {
	msgs := []MemoryMessage{
		{Role: "assistant", Content: "```js\nconst a = 1\n```\nand\n```js\nconst b = 2\n```"},
	}
	got := summarizeMessages(msgs)
	if !strings.Contains(got, "Code blocks generated: 2") {
		t.Errorf("expected code block count in summary, got %q", got)
	}
}

func TestSummarizeMessages_TruncatesDecisionQuotes(t *testing.T) {
	long := "we decided " + strings.Repeat("y", 400)
	got := summarizeMessages([]MemoryMessage{{Role: "user", Content: long}})
	if strings.Contains(got, strings.Repeat("y", 201)) {
		t.Error("decision quote was not truncated to the limit")
	}
}
