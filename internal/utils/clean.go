package utils

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CleanCurrency converts a display amount such as "HK$12,345.60" to a number.
// Numbers pass through. Empty, unparsable or unsupported values yield 0.
func CleanCurrency(v any) float64 {
	if f, ok := numeric(v); ok {
		return f
	}
	s, ok := v.(string)
	if !ok {
		return 0
	}
	return parseDigits(strings.ReplaceAll(s, ",", ""))
}

// CleanScore converts a display score such as "9.9 / 10" to a number by
// keeping the part before the first "/". Numbers pass through.
// Empty, unparsable or unsupported values yield 0.
func CleanScore(v any) float64 {
	if f, ok := numeric(v); ok {
		return f
	}
	s, ok := v.(string)
	if !ok {
		return 0
	}
	if before, _, found := strings.Cut(s, "/"); found {
		s = before
	}
	return parseDigits(s)
}

// parseDigits keeps only digits and dots, then parses what is left
func parseDigits(s string) float64 {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return f
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, true
		}
		return f, true
	}
	return 0, false
}
