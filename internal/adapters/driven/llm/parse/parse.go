// Package parse extracts structured results from raw LLM output. All
// LLM adapters share it so provider-specific code stays focused on
// transport.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// Rewordings splits an LLM response into one rephrased question per
// line. Models are asked for plain lines but sometimes number or bullet
// them anyway, so leading list markers are stripped.
func Rewordings(raw string) []string {
	var rewordings []string
	for _, line := range strings.Split(raw, "\n") {
		line = stripListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		rewordings = append(rewordings, line)
	}
	return rewordings
}

// stripListMarker removes a leading "1.", "2)", "-" or "*" marker.
func stripListMarker(line string) string {
	trimmed := strings.TrimLeft(line, "0123456789")
	if trimmed != line {
		if rest, ok := strings.CutPrefix(trimmed, "."); ok {
			return strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutPrefix(trimmed, ")"); ok {
			return strings.TrimSpace(rest)
		}
		return line
	}
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(line, "* "); ok {
		return strings.TrimSpace(rest)
	}
	return line
}

// QAPairs extracts question-answer pairs from an LLM response. The
// prompt asks for a JSON array of {"q": ..., "a": ...} objects, but
// models routinely wrap the array in an object ({"pairs": [...]}) or in
// a markdown code fence; all three shapes are accepted.
func QAPairs(raw string) ([]domain.QAPair, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	// Plain array first.
	var pairs []domain.QAPair
	if err := json.Unmarshal([]byte(text), &pairs); err == nil {
		return validatePairs(pairs)
	}

	// Object wrapping a single array value.
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		return nil, fmt.Errorf("response is neither a JSON array nor object: %w", err)
	}
	for _, value := range wrapper {
		if err := json.Unmarshal(value, &pairs); err == nil {
			return validatePairs(pairs)
		}
	}

	// Object that is itself a single pair.
	var single domain.QAPair
	if err := json.Unmarshal([]byte(text), &single); err == nil && single.Question != "" {
		return validatePairs([]domain.QAPair{single})
	}

	return nil, fmt.Errorf("no question-answer array found in response")
}

func validatePairs(pairs []domain.QAPair) ([]domain.QAPair, error) {
	valid := make([]domain.QAPair, 0, len(pairs))
	for _, pair := range pairs {
		if strings.TrimSpace(pair.Question) == "" || strings.TrimSpace(pair.Answer) == "" {
			continue
		}
		valid = append(valid, pair)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no complete question-answer pairs in response")
	}
	return valid, nil
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop the language tag line ("json" etc).
		if first := strings.TrimSpace(text[:idx]); first == "" || !strings.ContainsAny(first, "[{") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
