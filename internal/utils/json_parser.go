package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotJSONObject is returned when model output holds no JSON object
var ErrNotJSONObject = errors.New("no JSON object found")

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAnyRe     = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON extracts and parses a JSON object from model output that may be:
// - a bare JSON object
// - wrapped in a markdown code fence (```json ... ```)
// - embedded in surrounding prose
// - slightly malformed (trailing commas, unquoted keys, single quotes)
//
// Anything other than a JSON object (arrays, scalars, plain text) is rejected
// with ErrNotJSONObject so callers can treat the output as plain text.
func ParseAIJSON(input string, target interface{}) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty input: %w", ErrNotJSONObject)
	}

	for _, candidate := range objectCandidates(input) {
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
		if fixed := cleanAndFixJSON(candidate); fixed != candidate {
			if err := json.Unmarshal([]byte(fixed), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("%w in: %s", ErrNotJSONObject, truncateString(input, 100))
}

// objectCandidates lists the substrings of input that may hold the JSON object,
// most likely first.
func objectCandidates(input string) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
		if strings.HasPrefix(s, "{") {
			out = append(out, s)
		}
	}

	add(input)
	if fenced := extractFromMarkdown(input); fenced != "" {
		add(fenced)
	}
	if start := strings.Index(input, "{"); start >= 0 {
		add(extractBalancedBraces(input[start:], '{', '}'))
	}
	return out
}

// extractFromMarkdown returns the body of the first code fence, preferring ```json blocks
func extractFromMarkdown(input string) string {
	if m := fencedJSONRe.FindStringSubmatch(input); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAnyRe.FindStringSubmatch(input); len(m) > 1 {
		content := strings.TrimSpace(m[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}
	return ""
}

// extractBalancedBraces extracts content with balanced braces
func extractBalancedBraces(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanAndFixJSON attempts to fix common JSON formatting issues
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	s = fixSingleQuotes(s)
	return controlCharRe.ReplaceAllString(s, "")
}

// fixSingleQuotes converts single quotes used as string delimiters to double quotes
func fixSingleQuotes(input string) string {
	var result strings.Builder
	inDoubleQuote := false
	inSingleQuote := false
	escape := false
	var prev rune

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
		case ch == '\'' && !inDoubleQuote:
			if inSingleQuote {
				inSingleQuote = false
				ch = '"'
			} else if strings.ContainsRune(":,[{ ", prev) || prev == 0 {
				inSingleQuote = true
				ch = '"'
			}
		}
		result.WriteRune(ch)
		if ch != ' ' {
			prev = ch
		}
	}

	return result.String()
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
