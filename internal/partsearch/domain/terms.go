package domain

import (
	"sort"
	"strings"
	"unicode"
)

// CompactText lowercases value and drops every rune that is not a letter
// or digit.
func CompactText(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Trigrams returns every three-rune window of compact. Text shorter than
// three runes is its own single token.
func Trigrams(compact string) []string {
	if compact == "" {
		return nil
	}
	runes := []rune(compact)
	if len(runes) < 3 {
		return []string{compact}
	}
	out := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		out = append(out, string(runes[i:i+3]))
	}
	return out
}

// BuildTerms returns the sorted, de-duplicated search terms of a part.
func BuildTerms(partNumber, description, reference string) []string {
	set := make(map[string]struct{})
	for _, raw := range []string{partNumber, description, reference} {
		for _, token := range Trigrams(CompactText(raw)) {
			set[token] = struct{}{}
		}
	}
	terms := make([]string, 0, len(set))
	for token := range set {
		terms = append(terms, token)
	}
	sort.Strings(terms)
	return terms
}

// QueryTokens normalizes query and returns its distinct trigrams.
func QueryTokens(query string) (string, []string) {
	normalized := CompactText(query)
	if normalized == "" {
		return "", nil
	}
	seen := make(map[string]struct{})
	tokens := make([]string, 0)
	for _, token := range Trigrams(normalized) {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return normalized, tokens
}

// IsShortQuery reports whether the normalized query is too short to have
// trigrams.
func IsShortQuery(normalized string) bool {
	n := len([]rune(normalized))
	return n > 0 && n < 3
}

// Matches is the verification step: the normalized query must be a
// contiguous substring of at least one normalized field.
func Matches(query string, fields ...string) bool {
	normalized := CompactText(query)
	if normalized == "" {
		return false
	}
	for _, field := range fields {
		if strings.Contains(CompactText(field), normalized) {
			return true
		}
	}
	return false
}
