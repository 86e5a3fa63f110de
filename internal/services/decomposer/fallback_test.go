package decomposer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFallbackShortTextReturnedWhole(t *testing.T) {
	raw := "Short and sweet."

	assert.Equal(t, []string{raw}, SplitFallback(raw))
}

func TestSplitFallbackEmptyText(t *testing.T) {
	assert.Equal(t, []string{""}, SplitFallback(""))
}

func TestSplitFallbackUsesParagraphsDirectly(t *testing.T) {
	p1 := strings.Repeat("First paragraph. ", 10)
	p2 := strings.Repeat("Second paragraph. ", 10)
	p3 := strings.Repeat("Third paragraph. ", 10)
	raw := p1 + "\n\n" + p2 + "\n\n" + p3

	batches := SplitFallback(raw)

	require.Len(t, batches, 3)
	assert.Equal(t, strings.TrimSpace(p1), batches[0])
	assert.Equal(t, strings.TrimSpace(p2), batches[1])
	assert.Equal(t, strings.TrimSpace(p3), batches[2])
}

func TestSplitFallbackMergesManyParagraphs(t *testing.T) {
	var paragraphs []string
	for i := 1; i <= 6; i++ {
		paragraphs = append(paragraphs, fmt.Sprintf("Paragraph number %d with enough words to matter.", i))
	}
	raw := strings.Join(paragraphs, "\n\n")

	batches := SplitFallback(raw)

	require.LessOrEqual(t, len(batches), 4)
	require.GreaterOrEqual(t, len(batches), 2)

	// Every paragraph appears exactly once and in the original order.
	joined := strings.Join(batches, "\n\n")
	for i, p := range paragraphs {
		assert.Equal(t, 1, strings.Count(joined, p), "paragraph %d", i+1)
	}
	lastIdx := -1
	for _, p := range paragraphs {
		idx := strings.Index(joined, p)
		assert.Greater(t, idx, lastIdx)
		lastIdx = idx
	}
}

func TestSplitFallbackSingleParagraphSplitsSentences(t *testing.T) {
	raw := strings.TrimSpace(strings.Repeat("This is a fairly long sentence that carries on for a while. ", 6))
	require.GreaterOrEqual(t, len(raw), shortMessageThreshold)

	batches := SplitFallback(raw)

	require.GreaterOrEqual(t, len(batches), 1)
	require.LessOrEqual(t, len(batches), 3)
	for _, batch := range batches {
		assert.NotEmpty(t, strings.TrimSpace(batch))
	}
}

func TestSplitFallbackIsDeterministic(t *testing.T) {
	inputs := []string{
		"Short.",
		strings.Repeat("One long paragraph with sentences. More of them! And questions? ", 5),
		strings.Repeat("Para.\n\n", 10),
		strings.Repeat("x", 10000),
	}

	for _, raw := range inputs {
		first := SplitFallback(raw)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, SplitFallback(raw))
		}
	}
}

func TestSplitFallbackNeverEmpty(t *testing.T) {
	inputs := []string{
		"",
		"a",
		strings.Repeat("b", 10000),
		"\n\n\n\n",
		strings.Repeat("no sentence boundaries here ", 20),
	}

	for _, raw := range inputs {
		batches := SplitFallback(raw)
		assert.NotEmpty(t, batches, "input %q", raw)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third one? Fourth")

	assert.Equal(t, []string{"First one.", "Second one!", "Third one?", "Fourth"}, sentences)
}

func TestSplitSentencesKeepsDecimalsTogether(t *testing.T) {
	sentences := splitSentences("Version 2.5 is out. It works well.")

	assert.Equal(t, []string{"Version 2.5 is out.", "It works well."}, sentences)
}

func TestCombineIntoBatches(t *testing.T) {
	segments := []string{"a", "b", "c", "d", "e"}

	batches := combineIntoBatches(segments, 2)

	require.Len(t, batches, 2)
	assert.Equal(t, "a\n\nb\n\nc", batches[0])
	assert.Equal(t, "d\n\ne", batches[1])
}

func TestCombineIntoBatchesSingle(t *testing.T) {
	assert.Equal(t, []string{"a\n\nb"}, combineIntoBatches([]string{"a", "b"}, 1))
}

func TestCombineIntoBatchesEmpty(t *testing.T) {
	assert.Nil(t, combineIntoBatches(nil, 3))
	assert.Nil(t, combineIntoBatches([]string{"a"}, 0))
}
