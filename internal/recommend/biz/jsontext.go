package biz

import (
	"strings"

	"github.com/tidwall/gjson"
)

// firstJSONValue locates the first JSON object or array inside a model
// response. Models wrap structured output in markdown fences or prose
// often enough that decoding the raw text directly is not reliable.
// Returns "" when no candidate value is found.
func firstJSONValue(text string) string {
	text = strings.TrimSpace(text)

	// Strip a markdown code fence if the whole reply is fenced.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	if gjson.Valid(text) {
		return text
	}

	// Fall back to the first balanced object or array in the text.
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		if candidate := balancedFrom(text, i); candidate != "" && gjson.Valid(candidate) {
			return candidate
		}
	}

	return ""
}

// balancedFrom returns the shortest balanced JSON-looking span starting
// at position i, honoring string literals and escapes.
func balancedFrom(text string, i int) string {
	depth := 0
	inString := false
	escaped := false

	for j := i; j < len(text); j++ {
		ch := text[j]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[i : j+1]
			}
		}
	}

	return ""
}
