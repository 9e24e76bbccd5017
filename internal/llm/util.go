package llm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis is appended when SmartTruncate cuts without a sentence boundary.
const Ellipsis = "..."

// sentenceEnds are tried in order when looking for a clean cut point.
var sentenceEnds = []string{". ", ".\n", "! ", "?\n"}

// CleanJSONBlock removes a markdown code fence wrapping a model response: an
// optional leading fence, an optional language tag right after it, and the
// closing fence. A closing fence without an opening one is removed too.
// Cleaning twice is the same as cleaning once.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		for strings.HasSuffix(text, "```") {
			text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
		}
		return text
	}

	body := text[3:]
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}

	// Skip a language identifier such as "json" or "JSON"
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isLanguageTag(strings.TrimSpace(body[:nl])) {
		body = body[nl+1:]
	} else if open := strings.IndexAny(body, "{["); open > 0 && isLanguageTag(body[:open]) {
		body = body[open:]
	}

	return strings.TrimSpace(body)
}

func isLanguageTag(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '+' {
			return false
		}
	}
	return true
}

// SmartTruncate limits text to maxChars runes. A cut prefers the last sentence
// end past 70% of the budget, then the last word boundary (with Ellipsis),
// then a hard cut (with Ellipsis). Text within the budget is returned unchanged.
func SmartTruncate(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	if maxChars <= 0 {
		return Ellipsis
	}

	truncated := string([]rune(text)[:maxChars])
	threshold := float64(maxChars) * 0.7

	for _, end := range sentenceEnds {
		idx := strings.LastIndex(truncated, end)
		if idx >= 0 && float64(utf8.RuneCountInString(truncated[:idx])) > threshold {
			return truncated[:idx+1]
		}
	}

	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		return truncated[:idx] + Ellipsis
	}

	return truncated + Ellipsis
}
