package decomposer

import (
	"strings"
	"unicode"
)

// shortMessageThreshold is the length below which a raw reply is never
// split by the fallback path.
const shortMessageThreshold = 200

// SplitFallback is the local heuristic splitter applied to the
// original raw text when no processing-model output is usable. It is a
// pure function of the text's length and paragraph/sentence
// boundaries: it never fails and never returns an empty list - worst
// case it returns the raw text whole.
func SplitFallback(raw string) []string {
	if raw == "" {
		return []string{raw}
	}

	if len(raw) < shortMessageThreshold {
		return []string{raw}
	}

	paragraphs := splitParagraphs(raw)

	if len(paragraphs) >= 2 && len(paragraphs) <= 4 {
		return paragraphs
	}

	if len(paragraphs) > 4 {
		return combineIntoBatches(paragraphs, minInt(4, len(paragraphs)/2))
	}

	// A single long paragraph: split at sentence boundaries and merge
	// into balanced batches.
	sentences := splitSentences(raw)
	if len(sentences) >= 3 {
		return combineIntoBatches(sentences, minInt(3, len(sentences)/3))
	}

	return []string{raw}
}

// splitSentences cuts after sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		// Consume any run of closing punctuation.
		end := i
		for end+1 < len(runes) && (runes[end+1] == '.' || runes[end+1] == '!' || runes[end+1] == '?') {
			end++
		}
		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			i = end
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : end+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}

		// Skip the whitespace run.
		i = end
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		start = i + 1
	}

	if start < len(runes) {
		if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
			sentences = append(sentences, rest)
		}
	}

	return sentences
}

// combineIntoBatches merges ordered segments into at most numBatches
// batches, joining merged segments with a blank line. Order is
// preserved and no segment is duplicated or dropped.
func combineIntoBatches(segments []string, numBatches int) []string {
	if len(segments) == 0 || numBatches <= 0 {
		return nil
	}

	if numBatches == 1 || len(segments) == 1 {
		return []string{strings.Join(segments, "\n\n")}
	}

	perBatch := (len(segments) + numBatches - 1) / numBatches

	var result []string
	for start := 0; start < len(segments); start += perBatch {
		end := start + perBatch
		if end > len(segments) {
			end = len(segments)
		}
		batch := strings.Join(segments[start:end], "\n\n")
		if strings.TrimSpace(batch) != "" {
			result = append(result, batch)
		}
	}

	return result
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
