// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// ExtractJSONObject returns the substring from the first '{' to the last '}' of text.
// Models often wrap JSON in prose or markdown fences even when told not to.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
