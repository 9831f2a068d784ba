package news

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"finsight/internal/models"
)

// labelThreshold separates pos/neg from neutral for both per-item and
// aggregate labels.
const labelThreshold = 0.15

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// ScoreTitle sums matched lexicon weights found in the title and compresses
// the sum through tanh(sum/3) into [-1, 1]. Terms are scanned in sorted
// order so the float sum is bit-identical across calls.
func ScoreTitle(title, language string) float64 {
	lower := strings.ToLower(title)
	var sum float64
	for _, entry := range sentimentTermList(language) {
		if strings.Contains(lower, entry.term) {
			sum += entry.weight
		}
	}
	return math.Tanh(sum / 3.0)
}

// LabelFor classifies a sentiment score with the fixed +/-0.15 thresholds.
func LabelFor(score float64) models.SentimentLabel {
	switch {
	case score > labelThreshold:
		return models.SentimentPositive
	case score < -labelThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ImpactTags returns the deduplicated impact categories matched by the
// title and their summed weight. A category's weight counts once no matter
// how many of its patterns match.
func ImpactTags(title, language string) ([]string, float64) {
	lower := strings.ToLower(title)
	matched := make(map[string]float64)
	for _, rule := range impactRules(language) {
		if strings.Contains(lower, rule.pattern) {
			matched[rule.category] = rule.weight
		}
	}

	tags := make([]string, 0, len(matched))
	for category := range matched {
		tags = append(tags, category)
	}
	sort.Strings(tags)

	// Sum in sorted-tag order so the total is bit-identical across calls.
	var weight float64
	for _, category := range tags {
		weight += matched[category]
	}
	return tags, weight
}

// Keywords tokenizes the title (script-aware letter/digit runs), drops
// stopwords and single-character tokens, and returns the topN most frequent
// tokens. Ties break on first appearance for determinism.
func Keywords(title, language string, topN int) []string {
	stop := stopwords(language)
	counts := make(map[string]int)
	var order []string

	for _, token := range tokenRe.FindAllString(strings.ToLower(title), -1) {
		if len([]rune(token)) < 2 || stop[token] {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// topKeywords merges per-item keyword lists into a global ranking.
func topKeywords(items []models.ItemScore, topN int) []string {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		for _, kw := range item.Keywords {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}
	return order
}
