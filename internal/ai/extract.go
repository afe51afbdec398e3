package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse signals that the model returned no usable text.
var ErrEmptyResponse = errors.New("empty response from LLM")

// ExtractJSON recovers a JSON object from a raw model reply. Markdown code
// fences are stripped (with or without a json tag) and the reply may be
// surrounded by explanatory prose.
//
// The candidate span runs from the first '{' to the last '}'. It is greedy,
// not balance-aware: a stray closing brace in trailing prose over-extends
// the span. Kept as-is for compatibility with existing replies.
func ExtractJSON(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if start := strings.Index(cleaned, "{"); start != -1 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON in LLM response: %w", err)
	}

	return data, nil
}
