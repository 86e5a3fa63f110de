package decomposer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWellFormedArray(t *testing.T) {
	reply := `["First message", "Second message", "Third message"]`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Equal(t, []string{"First message", "Second message", "Third message"}, messages)
}

func TestExtractArraySurroundedByProse(t *testing.T) {
	reply := `Here are the messages you asked for:
["I hear you.", "That sounds really hard."]
Let me know if you need anything else.`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Equal(t, []string{"I hear you.", "That sounds really hard."}, messages)
}

func TestExtractArrayWithEscapedQuotes(t *testing.T) {
	reply := `["She said \"hello\" to me.", "And then left."]`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Equal(t, []string{`She said "hello" to me.`, "And then left."}, messages)
}

// A well-formed quoted array wins even when the reply also contains a
// fenced code block with different content.
func TestExtractQuotedArrayBeatsCodeFence(t *testing.T) {
	reply := "```json\n[\"fence content\", 42]\n```\n" +
		`The real answer: ["winner one", "winner two"]`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Equal(t, []string{"winner one", "winner two"}, messages)
}

func TestExtractCodeFenceDirectly(t *testing.T) {
	reply := "Here you go:\n```json\n[\"ok one\", \"ok two\"]\n```"

	messages, ok := extractCodeFence(reply)

	require.True(t, ok)
	assert.Equal(t, []string{"ok one", "ok two"}, messages)
}

func TestExtractCodeFenceRejectsNonArrayContent(t *testing.T) {
	reply := "```json\n{\"not\": \"an array\"}\n```"

	_, ok := extractCodeFence(reply)

	assert.False(t, ok)
}

func TestExtractRepairsUnescapedQuotes(t *testing.T) {
	reply := `["He told me "you matter" today", "That helped"]`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, `He told me "you matter" today`, messages[0])
	assert.Equal(t, "That helped", messages[1])
}

func TestExtractNumberedMessages(t *testing.T) {
	reply := `Message 1: It makes sense that you feel overwhelmed.
Message 2: Try taking a short walk today.
Message 3: Would you like to talk about what triggered this?`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Equal(t, []string{
		"It makes sense that you feel overwhelmed.",
		"Try taking a short walk today.",
		"Would you like to talk about what triggered this?",
	}, messages)
}

func TestExtractNumberedDotStyle(t *testing.T) {
	reply := `1. First part of the reply
2. Second part of the reply`

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Equal(t, []string{"First part of the reply", "Second part of the reply"}, messages)
}

func TestExtractSingleNumberedEntryNotEnough(t *testing.T) {
	reply := "1. Only one message here, and no quotes either, message."

	_, ok := extractNumbered(reply)

	assert.False(t, ok)
}

func TestExtractParagraphsAsLastPattern(t *testing.T) {
	reply := "The word message appears here but nothing else matches.\n\nSo paragraph splitting takes over instead."

	messages, ok := ExtractMessages(reply)

	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestExtractNothingUsable(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain refusal", "I cannot split this response for you."},
		{"empty reply", ""},
		{"empty array", "[]"},
		{"array of blanks", `["", "  "]` + " with no other content or the m-word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractMessages(tt.reply)
			assert.False(t, ok)
		})
	}
}

func TestRepairQuotesPreservesEscaped(t *testing.T) {
	in := `["already \"escaped\" stays", "plain"]`

	assert.Equal(t, in, repairQuotes(in))
}

func TestRepairQuotesEscapesInternal(t *testing.T) {
	in := `["has "internal" quotes"]`

	assert.Equal(t, `["has \"internal\" quotes"]`, repairQuotes(in))
}
