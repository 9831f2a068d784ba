package news

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"finsight/internal/models"
)

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		language string
		want     float64
	}{
		{"single positive term", "Acme shares surge", "en", math.Tanh(1.0 / 3)},
		{"single negative term", "Acme shares plunge", "en", math.Tanh(-1.0 / 3)},
		{"no lexicon terms", "Acme schedules annual meeting", "en", 0},
		{"mixed terms", "Acme profit warning", "en", math.Tanh((0.6 - 0.7) / 3)},
		{"case insensitive", "ACME SHARES SURGE", "en", math.Tanh(1.0 / 3)},
		{"korean positive", "에이크미 주가 급등", "ko", math.Tanh(1.0 / 3)},
		{"korean negative", "에이크미 소송 제기", "ko", math.Tanh(-0.8 / 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreTitle(tt.title, tt.language), 1e-9)
		})
	}
}

func TestScoreTitle_Bounded(t *testing.T) {
	// Stacking every strong term still cannot escape [-1, 1].
	got := ScoreTitle("beat surge soar jump rally record upgrade profit growth", "en")
	assert.Less(t, got, 1.0)
	assert.Greater(t, got, 0.9)
}

func TestScoreTitle_BitReproducible(t *testing.T) {
	// Many matched terms mean many float additions; the sum must come out
	// bit-identical on every call, not just within a tolerance.
	title := "Acme beats forecasts as shares surge and rally to record, " +
		"profit growth strong despite lawsuit warning and layoffs"

	first := ScoreTitle(title, "en")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ScoreTitle(title, "en"), "call %d diverged", i)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  models.SentimentLabel
	}{
		{0.5, models.SentimentPositive},
		{0.1501, models.SentimentPositive},
		{0.15, models.SentimentNeutral},
		{0, models.SentimentNeutral},
		{-0.15, models.SentimentNeutral},
		{-0.1501, models.SentimentNegative},
		{-0.5, models.SentimentNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.score), "score %v", tt.score)
	}
}

func TestImpactTags(t *testing.T) {
	tags, weight := ImpactTags("Acme beats earnings, announces acquisition of Widget Co", "en")

	assert.Equal(t, []string{ImpactEarnings, ImpactMA}, tags)
	assert.InDelta(t, 1.9, weight, 1e-9)
}

func TestImpactTags_CategoryCountedOnce(t *testing.T) {
	// Two Earnings patterns in one title still weigh as one category.
	tags, weight := ImpactTags("Earnings guidance raised on strong revenue", "en")

	assert.Equal(t, []string{ImpactEarnings}, tags)
	assert.InDelta(t, 1.0, weight, 1e-9)
}

func TestImpactTags_NoMatch(t *testing.T) {
	tags, weight := ImpactTags("Acme opens new headquarters", "en")

	assert.Empty(t, tags)
	assert.Zero(t, weight)
}

func TestImpactTags_Korean(t *testing.T) {
	tags, _ := ImpactTags("에이크미 실적 발표 후 인수 추진", "ko")

	assert.Equal(t, []string{ImpactEarnings, ImpactMA}, tags)
}

func TestImpactTags_BitReproducible(t *testing.T) {
	// Hits across several categories; the summed weight must be
	// bit-identical on every call.
	title := "Earnings miss triggers layoffs, regulator opens investigation " +
		"into merger amid supply chain shortage and lawsuit"

	firstTags, firstWeight := ImpactTags(title, "en")
	assert.NotEmpty(t, firstTags)
	for i := 0; i < 100; i++ {
		tags, weight := ImpactTags(title, "en")
		assert.Equal(t, firstTags, tags, "call %d diverged", i)
		assert.Equal(t, firstWeight, weight, "call %d diverged", i)
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("Acme Acme beats the market with record chip sales", "en", 5)

	// "acme" appears twice and ranks first; stopwords and short tokens drop.
	assert.Equal(t, "acme", got[0])
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "with")
	assert.LessOrEqual(t, len(got), 5)
}

func TestKeywords_TieBreaksOnFirstAppearance(t *testing.T) {
	got := Keywords("alpha beta gamma", "en", 3)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestKeywords_Korean(t *testing.T) {
	got := Keywords("삼성전자 반도체 수출 확대", "ko", 5)

	assert.Contains(t, got, "삼성전자")
	assert.Contains(t, got, "반도체")
}
