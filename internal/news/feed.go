package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finsight/internal/errors"
	"finsight/internal/models"
)

// SearchSource returns headlines matching a free-text query.
type SearchSource interface {
	Search(ctx context.Context, query, language string, limit int) ([]models.NewsItem, error)
}

// TickerSource returns headlines indexed by ticker symbol.
type TickerSource interface {
	TickerNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// rssFeed is the subset of RSS 2.0 the news sources emit.
type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// GoogleNewsSource fetches headlines from the Google News RSS search feed.
type GoogleNewsSource struct {
	httpClient *http.Client
	baseURL    string
}

// NewGoogleNewsSource creates a Google News search source.
func NewGoogleNewsSource(timeout time.Duration) *GoogleNewsSource {
	return &GoogleNewsSource{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://news.google.com/rss/search",
	}
}

// Search queries the RSS search feed with locale parameters derived from
// the requested language.
func (s *GoogleNewsSource) Search(ctx context.Context, query, language string, limit int) ([]models.NewsItem, error) {
	hl, gl := "en-US", "US"
	if IsKorean(language) {
		hl, gl = "ko", "KR"
	}

	feedURL := fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		s.baseURL, url.QueryEscape(query), hl, gl, gl, hl)

	items, err := fetchRSS(ctx, s.httpClient, feedURL)
	if err != nil {
		return nil, errors.NewFetchError("google-news", query, err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// YahooFeedSource fetches the ticker-indexed Yahoo Finance headline feed.
type YahooFeedSource struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooFeedSource creates a Yahoo ticker feed source.
func NewYahooFeedSource(timeout time.Duration) *YahooFeedSource {
	return &YahooFeedSource{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://feeds.finance.yahoo.com/rss/2.0/headline",
	}
}

// TickerNews returns recent headlines for the symbol.
func (s *YahooFeedSource) TickerNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	feedURL := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", s.baseURL, url.QueryEscape(symbol))

	items, err := fetchRSS(ctx, s.httpClient, feedURL)
	if err != nil {
		return nil, errors.NewFetchError("yahoo-feed", symbol, err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func fetchRSS(ctx context.Context, client *http.Client, feedURL string) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing RSS: %w", err)
	}

	items := make([]models.NewsItem, 0, len(feed.Channel.Items))
	for _, entry := range feed.Channel.Items {
		title := strings.TrimSpace(entry.Title)
		link := CanonicalLink(strings.TrimSpace(entry.Link))
		if title == "" || link == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:       title,
			Link:        link,
			PublishedAt: parsePubDate(entry.PubDate),
		})
	}
	return items, nil
}

// pubDate formats seen across RSS feeds.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

func parsePubDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// CanonicalLink unwraps Google News redirect links to their destination URL;
// all other links pass through unchanged.
func CanonicalLink(link string) string {
	if link == "" || !strings.Contains(link, "news.google.com") {
		return link
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	query := parsed.Query()
	for _, key := range []string{"url", "u"} {
		if target := query.Get(key); target != "" {
			return target
		}
	}
	return link
}

// Dedup removes duplicate headlines by composite identity key (lowercased
// trimmed title, canonicalized link), preserving first occurrence. Items
// without both a non-empty title and a resolvable link are discarded.
// Idempotent: Dedup(Dedup(x)) == Dedup(x).
func Dedup(items []models.NewsItem) []models.NewsItem {
	type identity struct {
		title string
		link  string
	}

	seen := make(map[identity]bool, len(items))
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := CanonicalLink(strings.TrimSpace(item.Link))
		if title == "" || link == "" {
			continue
		}
		key := identity{title: strings.ToLower(title), link: link}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.NewsItem{
			Title:       title,
			Link:        link,
			PublishedAt: item.PublishedAt,
		})
	}
	return out
}
