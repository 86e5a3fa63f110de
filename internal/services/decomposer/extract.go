package decomposer

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The extraction cascade. Each strategy is a pure function returning
// (batch, ok); they are tried in order and the first success wins.
// The absence of a match is a normal return value, not an error.

var extractors = []func(string) ([]string, bool){
	extractQuotedArray,
	extractBracketed,
	extractBracketedRepaired,
	extractCodeFence,
	extractByPattern,
}

// ExtractMessages runs the cascade over a processing-model reply.
func ExtractMessages(reply string) ([]string, bool) {
	for _, extract := range extractors {
		if messages, ok := extract(reply); ok {
			return messages, true
		}
	}
	return nil, false
}

var (
	quotedArrayRe = regexp.MustCompile(`\[\s*"[^"\\]*(?:\\.[^"\\]*)*"(?:\s*,\s*"[^"\\]*(?:\\.[^"\\]*)*")*\s*\]`)
	codeFenceRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	numberedRe    = regexp.MustCompile(`(?i)^(?:message\s*)?\d+[:.]\s*`)
	quotedRe      = regexp.MustCompile(`"([^"\\]*(?:\\.[^"\\]*)*)"`)
	paragraphRe   = regexp.MustCompile(`\n\s*\n`)
)

// parseStringArray decodes a JSON array of strings, dropping blank
// elements.
func parseStringArray(s string) ([]string, bool) {
	var raw []string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}

	messages := make([]string, 0, len(raw))
	for _, msg := range raw {
		if strings.TrimSpace(msg) != "" {
			messages = append(messages, msg)
		}
	}
	return messages, len(messages) > 0
}

// extractQuotedArray matches a well-formed quoted-string array
// anywhere in the reply.
func extractQuotedArray(reply string) ([]string, bool) {
	match := quotedArrayRe.FindString(reply)
	if match == "" {
		return nil, false
	}
	return parseStringArray(match)
}

func bracketedSubstring(reply string) (string, bool) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}

// extractBracketed parses the substring from the first '[' to the
// last ']' directly.
func extractBracketed(reply string) ([]string, bool) {
	substr, ok := bracketedSubstring(reply)
	if !ok {
		return nil, false
	}
	return parseStringArray(substr)
}

// extractBracketedRepaired retries the bracket-matched substring after
// the quote-repair pass.
func extractBracketedRepaired(reply string) ([]string, bool) {
	substr, ok := bracketedSubstring(reply)
	if !ok {
		return nil, false
	}
	return parseStringArray(repairQuotes(substr))
}

// extractCodeFence looks for a fenced code block wrapping the array,
// parsing it directly and then quote-repaired.
func extractCodeFence(reply string) ([]string, bool) {
	match := codeFenceRe.FindStringSubmatch(reply)
	if match == nil {
		return nil, false
	}

	content := strings.TrimSpace(match[1])
	if !strings.HasPrefix(content, "[") || !strings.HasSuffix(content, "]") {
		return nil, false
	}

	if messages, ok := parseStringArray(content); ok {
		return messages, true
	}
	return parseStringArray(repairQuotes(content))
}

// repairQuotes escapes unescaped quotes inside array elements while
// preserving already-escaped ones. A quote is treated as a delimiter
// when its nearest non-space neighbour is '[' or ',' on the left, or
// ',' or ']' on the right; every other quote is internal.
func repairQuotes(s string) string {
	const marker = "\x00Q\x00"
	protected := strings.ReplaceAll(s, `\"`, marker)

	runes := []rune(protected)
	var b strings.Builder
	for i, r := range runes {
		if r != '"' {
			b.WriteRune(r)
			continue
		}

		if prev, ok := nearestLeft(runes, i); ok && (prev == '[' || prev == ',') {
			b.WriteRune(r)
			continue
		}
		if next, ok := nearestRight(runes, i); ok && (next == ',' || next == ']') {
			b.WriteRune(r)
			continue
		}
		b.WriteString(`\"`)
	}

	return strings.ReplaceAll(b.String(), marker, `\"`)
}

func nearestLeft(runes []rune, i int) (rune, bool) {
	for j := i - 1; j >= 0; j-- {
		if runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r' {
			continue
		}
		return runes[j], true
	}
	return 0, false
}

func nearestRight(runes []rune, i int) (rune, bool) {
	for j := i + 1; j < len(runes); j++ {
		if runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r' {
			continue
		}
		return runes[j], true
	}
	return 0, false
}

// extractByPattern falls back to message-shaped text patterns:
// numbered messages, quoted substrings, then paragraph splitting.
func extractByPattern(reply string) ([]string, bool) {
	// Nothing message-shaped to find.
	if !strings.Contains(reply, `"`) && !strings.Contains(strings.ToLower(reply), "message") {
		return nil, false
	}

	if messages, ok := extractNumbered(reply); ok {
		return messages, true
	}

	if messages, ok := extractQuotedSubstrings(reply); ok {
		return messages, true
	}

	paragraphs := splitParagraphs(reply)
	if len(paragraphs) >= 2 && len(paragraphs) <= 4 {
		return paragraphs, true
	}

	return nil, false
}

// extractNumbered collects segments introduced by "1." / "Message 2:"
// style markers, requiring at least two of them.
func extractNumbered(reply string) ([]string, bool) {
	lines := strings.Split(reply, "\n")

	var messages []string
	var current []string
	inMessage := false

	flush := func() {
		if !inMessage {
			return
		}
		content := strings.TrimSpace(strings.Join(current, "\n"))
		if content != "" {
			messages = append(messages, content)
		}
		current = nil
	}

	for _, line := range lines {
		if loc := numberedRe.FindStringIndex(line); loc != nil {
			flush()
			inMessage = true
			current = append(current, line[loc[1]:])
			continue
		}
		if inMessage {
			current = append(current, line)
		}
	}
	flush()

	if len(messages) < 2 {
		return nil, false
	}
	return messages, true
}

// extractQuotedSubstrings collects quoted spans, requiring at least
// two non-empty matches.
func extractQuotedSubstrings(reply string) ([]string, bool) {
	matches := quotedRe.FindAllStringSubmatch(reply, -1)
	if len(matches) < 2 {
		return nil, false
	}

	var messages []string
	for _, match := range matches {
		if content := strings.TrimSpace(match[1]); content != "" {
			messages = append(messages, content)
		}
	}

	if len(messages) < 2 {
		return nil, false
	}
	return messages, true
}

// splitParagraphs splits on blank lines, dropping empty segments.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphRe.Split(text, -1) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}
