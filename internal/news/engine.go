package news

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"finsight/internal/config"
	"finsight/internal/logging"
	"finsight/internal/models"
)

// impactBlend is the weight of a headline's impact score in the
// impact-adjusted aggregate.
const impactBlend = 0.2

// keywordsPerItem is how many keywords each headline contributes.
const keywordsPerItem = 5

// Engine turns fetched headlines into a weighted sentiment/impact signal.
// It never fails: fetch and parse errors degrade to fewer items, and an
// empty item set yields a neutral zero-score aggregate.
type Engine struct {
	cfg    config.NewsConfig
	search SearchSource
	ticker TickerSource
	logger zerolog.Logger

	now func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a news signal engine over the given sources. Either
// source may be nil; a nil source simply contributes no items.
func NewEngine(cfg config.NewsConfig, search SearchSource, ticker TickerSource, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:    cfg,
		search: search,
		ticker: ticker,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze fetches headlines for the symbol and aggregates them into a
// NewsAnalysis. limit <= 0 selects the configured default.
func (e *Engine) Analyze(ctx context.Context, symbol, language, companyName string, limit int) *models.NewsAnalysis {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	items := e.fetch(ctx, symbol, language, companyName, limit)
	return e.Score(symbol, language, items, limit)
}

// fetch walks the query escalation ladder until enough items are collected,
// then always merges the ticker-indexed feed as a secondary source.
func (e *Engine) fetch(ctx context.Context, symbol, language, companyName string, limit int) []models.NewsItem {
	var items []models.NewsItem

	if e.search != nil {
		queries := BuildQueries(companyName, symbol, language)
		for _, query := range queries {
			start := time.Now()
			fetched, err := e.search.Search(ctx, query, language, e.cfg.MaxPerQuery)
			logging.LogFetch(e.logger.With().Str("query", query).Logger(),
				"news-search", symbol, len(fetched), time.Since(start), err)
			if err != nil {
				continue
			}
			items = append(items, fetched...)
			if len(items) >= limit {
				break
			}
		}
	}

	if e.ticker != nil {
		start := time.Now()
		fetched, err := e.ticker.TickerNews(ctx, symbol, e.cfg.MaxPerQuery)
		logging.LogFetch(e.logger, "ticker-feed", symbol, len(fetched), time.Since(start), err)
		if err == nil {
			items = append(items, fetched...)
		}
	}

	return items
}

// Score deduplicates, scores and aggregates raw items. Exposed separately
// from Analyze so pre-fetched item sets can be analyzed offline.
func (e *Engine) Score(symbol, language string, items []models.NewsItem, limit int) *models.NewsAnalysis {
	items = Dedup(items)

	// Most recent first; undated items sort last.
	sort.SliceStable(items, func(i, j int) bool {
		return itemEpoch(items[i]) > itemEpoch(items[j])
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	analysis := &models.NewsAnalysis{
		Symbol: symbol,
		Items:  make([]models.ItemScore, 0, len(items)),
	}

	now := e.now()
	var weightSum, scoreSum, impactSum float64

	for _, item := range items {
		sentiment := ScoreTitle(item.Title, language)
		tags, impactWeight := ImpactTags(item.Title, language)

		scored := models.ItemScore{
			Title:      item.Title,
			Link:       item.Link,
			Timestamp:  item.PublishedAt,
			Sentiment:  sentiment,
			Label:      LabelFor(sentiment),
			ImpactTags: tags,
			Keywords:   Keywords(item.Title, language, keywordsPerItem),
		}
		analysis.Items = append(analysis.Items, scored)

		switch scored.Label {
		case models.SentimentPositive:
			analysis.Overall.PosCount++
		case models.SentimentNegative:
			analysis.Overall.NegCount++
		default:
			analysis.Overall.NeuCount++
		}

		// Undated items get age 0, i.e. full recency weight. This biases
		// the aggregate toward undated sources; UndatedCount surfaces how
		// much of the score rests on them.
		age := 0.0
		if item.PublishedAt == nil {
			analysis.Overall.UndatedCount++
		} else {
			age = now.Sub(*item.PublishedAt).Hours() / 24.0
			if age < 0 {
				age = 0
			}
		}

		weight := DecayWeight(age, e.cfg.DecayDays)
		weightSum += weight
		scoreSum += weight * sentiment
		impactSum += weight * (sentiment + impactBlend*impactWeight)
	}

	if weightSum > 0 {
		analysis.Overall.Score = scoreSum / weightSum
		analysis.Overall.ImpactScore = impactSum / weightSum
	}
	analysis.Overall.Label = LabelFor(analysis.Overall.Score)
	analysis.Overall.TopKeywords = topKeywords(analysis.Items, 10)

	e.logger.Debug().
		Str("symbol", symbol).
		Int("items", len(analysis.Items)).
		Float64("score", analysis.Overall.Score).
		Str("label", string(analysis.Overall.Label)).
		Msg("News analysis aggregated")

	return analysis
}

// DecayWeight is the recency weight exp(-ageDays/decayDays); weight(0) == 1
// and the weight strictly decreases with age.
func DecayWeight(ageDays, decayDays float64) float64 {
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays / decayDays)
}

func itemEpoch(item models.NewsItem) int64 {
	if item.PublishedAt == nil {
		return 0
	}
	return item.PublishedAt.Unix()
}
