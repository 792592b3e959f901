package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// decodeReply turns raw model output into exactly expected results.
func decodeReply(provider Provider, reply string, expected int) ([]TranslationResult, error) {
	if reply == "" {
		return nil, fmt.Errorf("no text in %s response", provider)
	}

	reply = cleanJSONResponse(reply)

	results, err := extractTranslationResults(reply)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(reply, 200),
		)
	}

	if len(results) != expected {
		return nil, fmt.Errorf("expected %d results, got %d", expected, len(results))
	}

	return results, nil
}

func cleanJSONResponse(s string) string {
	s = codeFenceRegex.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// escapes backslashes that do not start a valid JSON escape, such as the
// \N line break models copy from ASS-style text, so the literal survives
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			result.WriteByte(s[i])
			continue
		}

		next := s[i+1]
		switch next {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
			result.WriteByte('\\')
		default:
			result.WriteString("\\\\")
		}
		result.WriteByte(next)
		i++
	}

	return result.String()
}

// finds the first JSON value in text that holds usable results, either a
// bare array or an object wrapping one
func extractTranslationResults(text string) ([]TranslationResult, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractResults(raw); ok {
			return results, nil
		}
	}
	return nil, fmt.Errorf("no valid translation JSON found in response")
}

var wrapperKeys = []string{"results", "translations", "data", "items"}

func tryExtractResults(raw json.RawMessage) ([]TranslationResult, bool) {
	if results, ok := decodeResults(raw); ok {
		return results, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}

	for _, key := range wrapperKeys {
		if field, exists := wrapper[key]; exists {
			if results, ok := decodeResults(field); ok {
				return results, true
			}
		}
	}
	for _, field := range wrapper {
		if results, ok := decodeResults(field); ok {
			return results, true
		}
	}

	return nil, false
}

// accepts an array with at least one non-empty text
func decodeResults(raw json.RawMessage) ([]TranslationResult, bool) {
	var results []TranslationResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	for _, r := range results {
		if r.Text != "" {
			return results, true
		}
	}
	return nil, false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
