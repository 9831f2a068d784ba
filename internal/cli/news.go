package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newNewsCmd(app *App) *cobra.Command {
	var (
		language string
		company  string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "news SYMBOL",
		Short: "Time-decayed news sentiment signal for a symbol",
		Long: `Fetch recent headlines for a symbol from search and ticker feeds,
deduplicate them, score each with a lexicon sentiment model and impact
tags, and aggregate into a recency-weighted sentiment score (half-life
governed by an exponential decay over headline age).

Examples:
  finsight news AAPL --company "Apple Inc."
  finsight news 005930.KS --lang ko --company "삼성전자" --limit 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNews(app, cmd, args[0], language, company, limit)
		},
	}

	cmd.Flags().StringVarP(&language, "lang", "l", "en", "headline language (en or ko)")
	cmd.Flags().StringVarP(&company, "company", "c", "", "company name for query building (defaults to the symbol)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum headlines to analyze (0 = configured default)")
	return cmd
}

func runNews(app *App, cmd *cobra.Command, symbol, language, company string, limit int) error {
	out := NewOutput(cmd)
	ctx := cmd.Context()

	if company == "" {
		company = symbol
	}

	analysis := app.NewsEngine.Analyze(ctx, symbol, language, company, limit)

	if out.IsJSON() {
		return out.JSON(analysis)
	}

	out.Header("News Sentiment: %s", analysis.Symbol)
	out.Println()
	out.Printf("  %-14s %+.4f (%s)\n", "Score:", analysis.Overall.Score, formatSentimentLabel(analysis.Overall.Label))
	out.Printf("  %-14s %+.4f\n", "Impact score:", analysis.Overall.ImpactScore)
	out.Printf("  %-14s %d pos / %d neg / %d neu\n", "Counts:",
		analysis.Overall.PosCount, analysis.Overall.NegCount, analysis.Overall.NeuCount)
	if analysis.Overall.UndatedCount > 0 {
		out.Warn("  %d headline(s) carried no timestamp and were weighted as current", analysis.Overall.UndatedCount)
	}
	if len(analysis.Overall.TopKeywords) > 0 {
		out.Printf("  %-14s %s\n", "Keywords:", strings.Join(analysis.Overall.TopKeywords, ", "))
	}

	if len(analysis.Items) == 0 {
		out.Println()
		out.Warn("No headlines found")
		return nil
	}

	out.Println()
	out.Info("Headlines (%d)", len(analysis.Items))
	for _, item := range analysis.Items {
		ts := "          "
		if item.Timestamp != nil {
			ts = item.Timestamp.Format("2006-01-02")
		}
		line := item.Title
		if len(item.ImpactTags) > 0 {
			line += " [" + strings.Join(item.ImpactTags, ", ") + "]"
		}
		out.Printf("  %s  %s  %+.2f  %s\n", ts, formatSentimentLabel(item.Label), item.Sentiment, line)
	}

	return nil
}
