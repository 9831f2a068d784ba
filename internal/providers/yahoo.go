package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"

	"finsight/internal/errors"
	"finsight/internal/logging"
	"finsight/internal/models"
	"finsight/pkg/utils"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

// YahooClient fetches price history, quotes and statement snapshots from
// the Yahoo Finance JSON endpoints.
type YahooClient struct {
	httpClient *http.Client
	retry      utils.RetryConfig
}

// NewYahooClient creates a Yahoo Finance client.
func NewYahooClient(timeout time.Duration, retry utils.RetryConfig) *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// History returns the daily close series covering roughly the requested
// number of calendar days, chronologically ordered with null closes
// dropped.
func (c *YahooClient) History(ctx context.Context, symbol string, days int) ([]models.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=%s", yahooChartURL, url.PathEscape(symbol), rangeFor(days))

	logger := logging.FromContext(ctx)
	start := time.Now()

	parsed, err := utils.RetryWithResult(ctx, c.retry, func() (*chartResponse, error) {
		var out chartResponse
		if err := c.getJSON(ctx, endpoint, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		logging.LogFetch(logger, "yahoo-chart", symbol, 0, time.Since(start), err)
		return nil, errors.NewFetchError("yahoo-chart", symbol, err)
	}

	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		logging.LogFetch(logger, "yahoo-chart", symbol, 0, time.Since(start), errors.ErrDataUnavailable)
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "no chart data for %s", symbol)
	}

	result := parsed.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, models.PricePoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *closes[i],
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	logging.LogFetch(logger, "yahoo-chart", symbol, len(points), time.Since(start), nil)
	return points, nil
}

// LastPrice returns the regular market price from the 1-day chart metadata.
func (c *YahooClient) LastPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=1d", yahooChartURL, url.PathEscape(symbol))

	var parsed chartResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return 0, errors.NewFetchError("yahoo-quote", symbol, err)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, errors.Wrapf(errors.ErrSymbolNotFound, "quote for %s", symbol)
	}
	price := parsed.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, errors.Wrapf(errors.ErrDataUnavailable, "quote for %s", symbol)
	}
	return price, nil
}

// quoteSummary statement modules, quarterly and annual.
var summaryModules = []string{
	"balanceSheetHistoryQuarterly",
	"balanceSheetHistory",
	"incomeStatementHistoryQuarterly",
	"incomeStatementHistory",
	"cashflowStatementHistoryQuarterly",
	"cashflowStatementHistory",
}

// statement list keys inside each module payload.
var statementListKeys = []string{
	"balanceSheetStatements",
	"incomeStatementHistory",
	"cashflowStatements",
}

// Statements fetches the quoteSummary statement modules and maps them into
// a snapshot with free-text row labels. Missing modules yield nil tables,
// never an error, as long as the response itself parses.
func (c *YahooClient) Statements(ctx context.Context, symbol string) (*models.StatementSnapshot, error) {
	endpoint := fmt.Sprintf("%s/%s?modules=%s",
		yahooSummaryURL, url.PathEscape(symbol), strings.Join(summaryModules, ","))

	var parsed struct {
		QuoteSummary struct {
			Result []map[string]json.RawMessage `json:"result"`
		} `json:"quoteSummary"`
	}
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, errors.NewFetchError("yahoo-fundamentals", symbol, err)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "no statements for %s", symbol)
	}

	modules := parsed.QuoteSummary.Result[0]
	return &models.StatementSnapshot{
		Symbol:                strings.ToUpper(symbol),
		QuarterlyBalanceSheet: parseStatementModule(modules["balanceSheetHistoryQuarterly"]),
		AnnualBalanceSheet:    parseStatementModule(modules["balanceSheetHistory"]),
		QuarterlyIncome:       parseStatementModule(modules["incomeStatementHistoryQuarterly"]),
		AnnualIncome:          parseStatementModule(modules["incomeStatementHistory"]),
		QuarterlyCashFlow:     parseStatementModule(modules["cashflowStatementHistoryQuarterly"]),
		AnnualCashFlow:        parseStatementModule(modules["cashflowStatementHistory"]),
	}, nil
}

// parseStatementModule converts one quoteSummary module into a statement
// table. Field names are decamelized into the free-text labels the alias
// resolver matches against ("totalCurrentAssets" -> "total current assets").
func parseStatementModule(raw json.RawMessage) *models.StatementTable {
	if len(raw) == 0 {
		return nil
	}

	var module map[string]json.RawMessage
	if err := json.Unmarshal(raw, &module); err != nil {
		return nil
	}

	var statements []map[string]json.RawMessage
	for _, key := range statementListKeys {
		if list, ok := module[key]; ok {
			if err := json.Unmarshal(list, &statements); err == nil && len(statements) > 0 {
				break
			}
		}
	}
	if len(statements) == 0 {
		return nil
	}

	table := &models.StatementTable{Rows: make(map[string]map[string]float64)}
	for _, stmt := range statements {
		period := periodLabel(stmt["endDate"], len(table.Periods))
		table.Periods = append(table.Periods, period)

		for field, value := range stmt {
			if field == "endDate" || field == "maxAge" {
				continue
			}
			raw, ok := rawNumber(value)
			if !ok {
				continue
			}
			label := decamel(field)
			if table.Rows[label] == nil {
				table.Rows[label] = make(map[string]float64)
			}
			table.Rows[label][period] = raw
		}
	}

	// Yahoo orders statements most recent first already; keep that order.
	return table
}

func periodLabel(raw json.RawMessage, index int) string {
	var endDate struct {
		Fmt string `json:"fmt"`
	}
	if err := json.Unmarshal(raw, &endDate); err == nil && endDate.Fmt != "" {
		return endDate.Fmt
	}
	return fmt.Sprintf("period_%d", index)
}

func rawNumber(value json.RawMessage) (float64, bool) {
	var wrapped struct {
		Raw *float64 `json:"raw"`
	}
	if err := json.Unmarshal(value, &wrapped); err != nil || wrapped.Raw == nil {
		return 0, false
	}
	return *wrapped.Raw, true
}

// decamel converts a camelCase field name into lowercase words.
func decamel(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func rangeFor(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 95:
		return "3mo"
	case days <= 190:
		return "6mo"
	case days <= 366:
		return "1y"
	case days <= 731:
		return "2y"
	default:
		return "5y"
	}
}

func (c *YahooClient) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "finsight/0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}
