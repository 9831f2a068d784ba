// Package models provides domain models for financial signal extraction.
package models

import (
	"time"
)

// Band represents a coarse quality label for a financial ratio.
type Band string

const (
	BandStrong Band = "Strong"
	BandFair   Band = "Fair"
	BandWeak   Band = "Weak"
	BandNA     Band = "N/A"
)

// Rank returns the ordering of a band for comparisons (Weak < Fair < Strong).
// N/A ranks below Weak.
func (b Band) Rank() int {
	switch b {
	case BandStrong:
		return 3
	case BandFair:
		return 2
	case BandWeak:
		return 1
	default:
		return 0
	}
}

// StatementTable holds one financial statement: period label -> line-item
// label -> value. Line-item labels are free text and inconsistent across
// providers; values may be absent for any (period, label) pair.
type StatementTable struct {
	// Periods are ordered most recent first.
	Periods []string
	// Rows maps a raw line-item label to its per-period values. A missing
	// period key means the value is unreported for that period.
	Rows map[string]map[string]float64
}

// Empty reports whether the table carries no usable data.
func (t *StatementTable) Empty() bool {
	return t == nil || len(t.Rows) == 0 || len(t.Periods) == 0
}

// StatementSnapshot bundles the statement tables for one company, quarterly
// and annual variants of balance sheet, income statement and cash flow.
// Any table may be nil or empty.
type StatementSnapshot struct {
	Symbol string

	QuarterlyBalanceSheet *StatementTable
	AnnualBalanceSheet    *StatementTable

	QuarterlyIncome *StatementTable
	AnnualIncome    *StatementTable

	QuarterlyCashFlow *StatementTable
	AnnualCashFlow    *StatementTable
}

// RatioValue is a single banded ratio. Value is nil exactly when Band is N/A.
type RatioValue struct {
	Value *float64 `json:"value"`
	Band  Band     `json:"band"`
}

// RatioAssessment is the output of the ratio extractor, grouped the way the
// original analysis presents them.
type RatioAssessment struct {
	Symbol    string                `json:"symbol"`
	Liquidity map[string]RatioValue `json:"liquidity"`
	Solvency  map[string]RatioValue `json:"solvency"`
	Notes     string                `json:"notes,omitempty"`
}

// AllNA reports whether every ratio in the assessment is N/A.
func (a *RatioAssessment) AllNA() bool {
	for _, group := range []map[string]RatioValue{a.Liquidity, a.Solvency} {
		for _, rv := range group {
			if rv.Band != BandNA {
				return false
			}
		}
	}
	return true
}

// PricePoint is one closing price observation.
type PricePoint struct {
	Timestamp time.Time
	Close     float64
}

// TradeSignal is the discrete action derived from a predicted return.
type TradeSignal string

const (
	SignalBuy  TradeSignal = "BUY"
	SignalSell TradeSignal = "SELL"
	SignalHold TradeSignal = "HOLD"
)

// PredictionResult is a one-day-ahead return forecast for a symbol.
type PredictionResult struct {
	Symbol     string      `json:"symbol"`
	LastClose  float64     `json:"last_close"`
	PredRet1D  float64     `json:"pred_ret_1d"`
	PredClose1 float64     `json:"pred_close_1d"`
	Signal     TradeSignal `json:"signal"`
	Model      string      `json:"model"`
	ComputedAt time.Time   `json:"computed_at"`
	LivePrice  *float64    `json:"live_price,omitempty"`
}

// NewsItem is a raw fetched headline. PublishedAt is nil when the source
// did not carry a usable timestamp.
type NewsItem struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SentimentLabel classifies a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "pos"
	SentimentNegative SentimentLabel = "neg"
	SentimentNeutral  SentimentLabel = "neu"
)

// ItemScore is the per-headline analysis result.
type ItemScore struct {
	Title      string         `json:"title"`
	Link       string         `json:"link"`
	Timestamp  *time.Time     `json:"timestamp,omitempty"`
	Sentiment  float64        `json:"sentiment"`
	Label      SentimentLabel `json:"label"`
	ImpactTags []string       `json:"impact_tags"`
	Keywords   []string       `json:"keywords"`
}

// OverallSentiment aggregates item scores with time decay.
type OverallSentiment struct {
	Score        float64        `json:"score"`
	Label        SentimentLabel `json:"label"`
	PosCount     int            `json:"pos_count"`
	NegCount     int            `json:"neg_count"`
	NeuCount     int            `json:"neu_count"`
	ImpactScore  float64        `json:"impact_score"`
	TopKeywords  []string       `json:"top_keywords"`
	UndatedCount int            `json:"undated_count"`
}

// NewsAnalysis is the output of the news signal engine.
type NewsAnalysis struct {
	Symbol  string           `json:"symbol"`
	Overall OverallSentiment `json:"overall"`
	Items   []ItemScore      `json:"items"`
}
