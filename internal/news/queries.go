// Package news fetches, scores and aggregates company news headlines into a
// time-decayed sentiment signal.
package news

import (
	"fmt"
	"regexp"
	"strings"
)

var corpSuffixRe = regexp.MustCompile(
	`(?i)\b(Inc\.?|Incorporated|Corp\.?|Corporation|Co\.?|Ltd\.?|Limited|PLC|S\.?A\.?|N\.?V\.?|SE|AG|KK|GmbH|LLC|LP|Holdings?|Group|Company)\b\.?`)

var parensRe = regexp.MustCompile(`[()（）]`)
var spacesRe = regexp.MustCompile(`\s{2,}`)

// CleanCompanyName strips legal-entity suffixes and parentheses from a
// company name; returns the original when stripping would leave nothing.
func CleanCompanyName(name string) string {
	s := parensRe.ReplaceAllString(name, " ")
	s = corpSuffixRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
	if s == "" {
		return name
	}
	return s
}

// BuildQueries returns the prioritized search-query escalation ladder:
// quoted exact name, quoted cleaned name, each with a language-specific
// topic-expansion clause, and finally the bare symbol as last resort.
// Duplicates (case-insensitive) are removed preserving priority order.
func BuildQueries(companyName, symbol, language string) []string {
	var queries []string
	base := strings.TrimSpace(companyName)
	clean := CleanCompanyName(base)
	topics := topicClause(language)

	if base != "" {
		queries = append(queries, fmt.Sprintf("%q", base))
	}
	if clean != "" && !strings.EqualFold(clean, base) {
		queries = append(queries, fmt.Sprintf("%q", clean))
	}
	if base != "" {
		queries = append(queries, fmt.Sprintf("%q (%s)", base, topics))
	}
	if clean != "" && !strings.EqualFold(clean, base) {
		queries = append(queries, fmt.Sprintf("%q (%s)", clean, topics))
	}
	if symbol != "" {
		queries = append(queries, symbol)
	}

	seen := make(map[string]bool, len(queries))
	uniq := queries[:0]
	for _, q := range queries {
		key := strings.ToLower(q)
		if !seen[key] {
			seen[key] = true
			uniq = append(uniq, q)
		}
	}
	return uniq
}

func topicClause(language string) string {
	if IsKorean(language) {
		return "발표 OR 출시 OR 인수 OR 합병 OR 제휴 OR 투자 OR 규제 OR 소송 OR 공급망 OR 실적발표"
	}
	return "announcement OR launch OR acquisition OR merger OR partnership OR investment OR regulatory OR lawsuit OR supply chain OR earnings call"
}

// IsKorean reports whether a language tag selects the Korean lexicons.
func IsKorean(language string) bool {
	return strings.HasPrefix(strings.ToLower(language), "ko")
}
