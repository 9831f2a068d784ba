// Package utils provides shared helpers for retries, formatting and symbol
// handling.
package utils

import (
	"regexp"
	"strings"
)

var symbolTokenRe = regexp.MustCompile(`[A-Za-z0-9.\-]{1,15}`)

// ExtractSymbolCandidates tokenizes a free-text query and returns candidate
// ticker symbols in order of appearance: uppercase tokens of up to 15
// characters that contain at least one letter.
func ExtractSymbolCandidates(query string) []string {
	tokens := symbolTokenRe.FindAllString(strings.ToUpper(query), -1)
	var candidates []string
	for _, token := range tokens {
		if strings.ContainsFunc(token, func(r rune) bool {
			return r >= 'A' && r <= 'Z'
		}) {
			candidates = append(candidates, token)
		}
	}
	return candidates
}

// PickSymbol selects the first candidate that passes validate; when none
// validates it falls back to the first candidate, and when the query holds
// no candidates it returns the trimmed uppercased query itself.
func PickSymbol(query string, validate func(symbol string) bool) string {
	candidates := ExtractSymbolCandidates(query)
	if len(candidates) == 0 {
		return strings.ToUpper(strings.TrimSpace(query))
	}
	if validate != nil {
		for _, candidate := range candidates {
			if validate(candidate) {
				return candidate
			}
		}
	}
	return candidates[0]
}
