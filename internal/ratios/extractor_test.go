package ratios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/models"
)

func balanceSheet(rows map[string]float64) *models.StatementTable {
	table := &models.StatementTable{
		Periods: []string{"2024-06-30"},
		Rows:    make(map[string]map[string]float64),
	}
	for label, value := range rows {
		table.Rows[label] = map[string]float64{"2024-06-30": value}
	}
	return table
}

func TestExtract_HealthyBalanceSheet(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "ACME",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"total current assets":      150,
			"total current liabilities": 100,
			"inventory":                 30,
			"cash":                      40,
			"total assets":              500,
			"total liabilities":         200,
			"total stockholder equity":  300,
			"total debt":                120,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	require.NotNil(t, got)
	assert.Equal(t, "ACME", got.Symbol)

	current := got.Liquidity["current_ratio"]
	require.NotNil(t, current.Value)
	assert.InDelta(t, 1.5, *current.Value, 1e-9)
	assert.Equal(t, models.BandStrong, current.Band)

	quick := got.Liquidity["quick_ratio"]
	require.NotNil(t, quick.Value)
	assert.InDelta(t, 1.2, *quick.Value, 1e-9)
	assert.Equal(t, models.BandStrong, quick.Band)

	cash := got.Liquidity["cash_ratio"]
	require.NotNil(t, cash.Value)
	assert.InDelta(t, 0.4, *cash.Value, 1e-9)
	assert.Equal(t, models.BandFair, cash.Band)

	d2e := got.Solvency["debt_to_equity"]
	require.NotNil(t, d2e.Value)
	assert.InDelta(t, 0.4, *d2e.Value, 1e-9)
	assert.Equal(t, models.BandStrong, d2e.Band)

	debtRatio := got.Solvency["debt_ratio"]
	require.NotNil(t, debtRatio.Value)
	assert.InDelta(t, 0.4, *debtRatio.Value, 1e-9)
	assert.Equal(t, models.BandStrong, debtRatio.Band)

	// No income statement: interest coverage degrades to N/A, not an error.
	assert.Equal(t, models.BandNA, got.Solvency["interest_coverage"].Band)
}

func TestExtract_MissingBalanceSheet(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *models.StatementSnapshot
	}{
		{"nil snapshot", nil},
		{"empty snapshot", &models.StatementSnapshot{Symbol: "GHOST"}},
		{"empty tables", &models.StatementSnapshot{
			Symbol:                "GHOST",
			QuarterlyBalanceSheet: &models.StatementTable{},
			AnnualBalanceSheet:    &models.StatementTable{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExtractor().Extract(tt.snapshot)

			require.NotNil(t, got)
			assert.True(t, got.AllNA())
			assert.Contains(t, got.Notes, "balance sheet not found")
			assert.Contains(t, got.Notes, ".KS")
			assert.Len(t, got.Liquidity, 3)
			assert.Len(t, got.Solvency, 3)
		})
	}
}

func TestExtract_AnnualFallback(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "ANNL",
		AnnualBalanceSheet: balanceSheet(map[string]float64{
			"total current assets":      90,
			"total current liabilities": 100,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	current := got.Liquidity["current_ratio"]
	require.NotNil(t, current.Value)
	assert.InDelta(t, 0.9, *current.Value, 1e-9)
	assert.Equal(t, models.BandWeak, current.Band)
}

func TestExtract_ZeroInterestExpense(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "NODBT",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"total current assets":      150,
			"total current liabilities": 100,
		}),
		QuarterlyIncome: balanceSheet(map[string]float64{
			"ebit":             50,
			"interest expense": 0,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	// Zero interest: coverage is undefined, never infinite.
	coverage := got.Solvency["interest_coverage"]
	assert.Nil(t, coverage.Value)
	assert.Equal(t, models.BandNA, coverage.Band)
}

func TestExtract_NegativeInterestConvention(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "NEGI",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"total current assets":      150,
			"total current liabilities": 100,
		}),
		QuarterlyIncome: balanceSheet(map[string]float64{
			"ebit":             60,
			"interest expense": -10,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	coverage := got.Solvency["interest_coverage"]
	require.NotNil(t, coverage.Value)
	assert.InDelta(t, 6.0, *coverage.Value, 1e-9)
	assert.Equal(t, models.BandStrong, coverage.Band)
}

func TestExtract_InterestPaidFallback(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "CFINT",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"total current assets":      150,
			"total current liabilities": 100,
		}),
		QuarterlyIncome: balanceSheet(map[string]float64{
			"ebit": 30,
		}),
		QuarterlyCashFlow: balanceSheet(map[string]float64{
			"interest paid": -10,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	coverage := got.Solvency["interest_coverage"]
	require.NotNil(t, coverage.Value)
	assert.InDelta(t, 3.0, *coverage.Value, 1e-9)
	assert.Equal(t, models.BandFair, coverage.Band)
}

func TestExtract_DebtComposedFromComponents(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "COMP",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"total current assets":      150,
			"total current liabilities": 100,
			"short-term debt":           40,
			"long term debt":            60,
			"total stockholder equity":  40,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	d2e := got.Solvency["debt_to_equity"]
	require.NotNil(t, d2e.Value)
	assert.InDelta(t, 2.5, *d2e.Value, 1e-9)
	assert.Equal(t, models.BandWeak, d2e.Band)
}

func TestExtract_AliasSubstringMatching(t *testing.T) {
	// Provider labels rarely equal alias text exactly; substring match must
	// bridge the gap.
	snapshot := &models.StatementSnapshot{
		Symbol: "ALIAS",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"Total Current Assets (Consolidated)": 200,
			"TOTAL CURRENT LIABILITIES":           100,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	current := got.Liquidity["current_ratio"]
	require.NotNil(t, current.Value)
	assert.InDelta(t, 2.0, *current.Value, 1e-9)
}

func TestExtract_UnrecognizableLineItems(t *testing.T) {
	snapshot := &models.StatementSnapshot{
		Symbol: "ODD",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"mystery line one": 1,
			"mystery line two": 2,
		}),
	}

	got := NewExtractor().Extract(snapshot)

	assert.True(t, got.AllNA())
	assert.Contains(t, got.Notes, "no recognizable line items")
}

func TestExtract_CollidingLabelsResolveStably(t *testing.T) {
	// Two labels both substring-match the "current assets" alias; resolution
	// must not depend on map iteration order.
	snapshot := &models.StatementSnapshot{
		Symbol: "COLL",
		QuarterlyBalanceSheet: balanceSheet(map[string]float64{
			"misc current assets":       50,
			"other current assets":      200,
			"total current liabilities": 100,
		}),
	}

	extractor := NewExtractor()
	first := extractor.Extract(snapshot)
	current := first.Liquidity["current_ratio"]
	require.NotNil(t, current.Value)
	// Sorted label order picks "misc current assets".
	assert.InDelta(t, 0.5, *current.Value, 1e-9)

	for i := 0; i < 200; i++ {
		again := extractor.Extract(snapshot)
		rv := again.Liquidity["current_ratio"]
		require.NotNil(t, rv.Value, "run %d lost the value", i)
		assert.Equal(t, *current.Value, *rv.Value, "run %d diverged", i)
	}
}

func TestSafeDiv(t *testing.T) {
	ten, zero := 10.0, 0.0

	assert.Nil(t, safeDiv(nil, &ten))
	assert.Nil(t, safeDiv(&ten, nil))
	assert.Nil(t, safeDiv(&ten, &zero))

	got := safeDiv(&ten, &ten)
	require.NotNil(t, got)
	assert.InDelta(t, 1.0, *got, 1e-12)
}
