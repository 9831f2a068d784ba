// Package ratios extracts banded liquidity and solvency ratios from raw
// financial statement snapshots.
package ratios

// Canonical balance-sheet, income-statement and cash-flow fields are resolved
// against free-text row labels through ordered alias lists. Matching is
// case-insensitive substring, first alias wins, most recent period wins.
var (
	aliasCurrentAssets = []string{
		"total current assets",
		"current assets",
	}

	aliasCurrentLiabilities = []string{
		"total current liabilities",
		"current liabilities",
	}

	aliasInventory = []string{
		"inventory",
	}

	aliasCash = []string{
		"cash and cash equivalents",
		"cash and cash equivalents including short-term investments",
		"cash and short term investments",
		"cash and short-term investments",
		"cash",
	}

	aliasShortTermInvestments = []string{
		"short term investments",
		"short-term investments",
	}

	aliasTotalAssets = []string{
		"total assets",
	}

	aliasTotalLiabilities = []string{
		"total liabilities",
	}

	aliasEquity = []string{
		"total stockholder equity",
		"total shareholders equity",
		"total equity",
	}

	aliasShortLongTermDebt = []string{
		"short long term debt",
		"current portion of long term debt",
		"short-term debt",
	}

	aliasLongTermDebt = []string{
		"long term debt",
	}

	aliasTotalDebt = []string{
		"total debt",
	}

	aliasEBIT = []string{
		"ebit",
		"operating income",
		"earnings before interest and taxes",
	}

	aliasInterestExpense = []string{
		"interest expense",
		"interest expense non operating",
	}

	aliasInterestPaid = []string{
		"interest paid",
	}
)

// ratioSpec holds the fixed banding thresholds for one ratio.
type ratioSpec struct {
	good         float64
	fair         float64
	higherBetter bool
}

var ratioSpecs = map[string]ratioSpec{
	"current_ratio":     {good: 1.5, fair: 1.0, higherBetter: true},
	"quick_ratio":       {good: 1.0, fair: 0.8, higherBetter: true},
	"cash_ratio":        {good: 0.5, fair: 0.2, higherBetter: true},
	"debt_to_equity":    {good: 1.0, fair: 2.0, higherBetter: false},
	"debt_ratio":        {good: 0.5, fair: 0.7, higherBetter: false},
	"interest_coverage": {good: 5.0, fair: 2.0, higherBetter: true},
}
