// Package jsonextract pulls a JSON payload out of free-form LLM text: a
// ```json fenced block, a plain fenced block, or the outermost {...}/[...]
// span. Callers fall back to this when StructuredChat's JSON-mode response
// still arrives wrapped in prose.
package jsonextract

import "strings"

// Extract returns the JSON substring of text, or "" if none is found.
func Extract(text string) string {
	if block, ok := fenced(text, "```json"); ok {
		return block
	}
	if block, ok := fenced(text, "```"); ok {
		return block
	}

	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
	}
	if start := strings.Index(text, "["); start != -1 {
		if end := strings.LastIndex(text, "]"); end > start {
			return text[start : end+1]
		}
	}
	return ""
}

func fenced(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return "", false
	}
	start := idx + len(marker)
	end := strings.Index(text[start:], "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(text[start : start+end]), true
}
