package ratios

import (
	"math"
	"sort"
	"strings"

	"finsight/internal/models"
)

// Extractor converts statement snapshots into banded ratio assessments.
// The zero value is ready to use.
type Extractor struct{}

// NewExtractor creates a new ratio extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract computes the liquidity/solvency assessment for a snapshot. It
// never fails: missing statements or line items degrade to N/A entries and
// a diagnostic note.
func (e *Extractor) Extract(snapshot *models.StatementSnapshot) *models.RatioAssessment {
	symbol := ""
	if snapshot != nil {
		symbol = strings.ToUpper(snapshot.Symbol)
	}

	assessment := &models.RatioAssessment{
		Symbol:    symbol,
		Liquidity: make(map[string]models.RatioValue),
		Solvency:  make(map[string]models.RatioValue),
	}

	if snapshot == nil || (snapshot.QuarterlyBalanceSheet.Empty() && snapshot.AnnualBalanceSheet.Empty()) {
		fillNA(assessment)
		assessment.Notes = "balance sheet not found; check exchange suffix (.KS, .T, .HK, ...)"
		return assessment
	}

	bs := firstNonEmpty(snapshot.QuarterlyBalanceSheet, snapshot.AnnualBalanceSheet)

	currentAssets := lookup(bs, aliasCurrentAssets)
	currentLiabilities := lookup(bs, aliasCurrentLiabilities)
	inventory := lookup(bs, aliasInventory)
	cash := lookup(bs, aliasCash)
	shortTermInvest := lookup(bs, aliasShortTermInvestments)
	cashLike := sumIfPresent(cash, shortTermInvest)

	totalAssets := lookup(bs, aliasTotalAssets)
	totalLiabilities := lookup(bs, aliasTotalLiabilities)
	equity := lookup(bs, aliasEquity)

	totalDebt := lookup(bs, aliasTotalDebt)
	if totalDebt == nil {
		totalDebt = sumIfPresent(lookup(bs, aliasShortLongTermDebt), lookup(bs, aliasLongTermDebt))
	}

	ebit := lookupAcross(aliasEBIT, snapshot.QuarterlyIncome, snapshot.AnnualIncome)
	interest := lookupAcross(aliasInterestExpense, snapshot.QuarterlyIncome, snapshot.AnnualIncome)
	if interest == nil {
		// Income statement silent on interest: fall back to cash-flow interest paid.
		interest = lookupAcross(aliasInterestPaid, snapshot.QuarterlyCashFlow, snapshot.AnnualCashFlow)
	}

	var quickNumerator *float64
	if currentAssets != nil && inventory != nil {
		v := *currentAssets - *inventory
		quickNumerator = &v
	}

	var interestCoverage *float64
	if ebit != nil && interest != nil {
		denom := math.Abs(*interest)
		interestCoverage = safeDiv(ebit, &denom)
	}

	assessment.Liquidity["current_ratio"] = banded("current_ratio", safeDiv(currentAssets, currentLiabilities))
	assessment.Liquidity["quick_ratio"] = banded("quick_ratio", safeDiv(quickNumerator, currentLiabilities))
	assessment.Liquidity["cash_ratio"] = banded("cash_ratio", safeDiv(cashLike, currentLiabilities))
	assessment.Solvency["debt_to_equity"] = banded("debt_to_equity", safeDiv(totalDebt, equity))
	assessment.Solvency["debt_ratio"] = banded("debt_ratio", safeDiv(totalLiabilities, totalAssets))
	assessment.Solvency["interest_coverage"] = banded("interest_coverage", interestCoverage)

	if assessment.AllNA() {
		assessment.Notes = "statements found but no recognizable line items"
	} else {
		assessment.Notes = "latest quarterly (fallback to annual) statements; ratios are approximations"
	}

	return assessment
}

// lookup resolves an alias list against a statement table: case-insensitive
// substring match over row labels, scanning periods most recent first, and
// returns the first finite value found. Labels are scanned in sorted order
// so that two labels matching the same alias always resolve the same way.
func lookup(table *models.StatementTable, aliases []string) *float64 {
	if table.Empty() {
		return nil
	}

	labels := make([]string, 0, len(table.Rows))
	for label := range table.Rows {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, alias := range aliases {
		aliasLower := strings.ToLower(strings.TrimSpace(alias))
		for _, label := range labels {
			if !strings.Contains(strings.ToLower(strings.TrimSpace(label)), aliasLower) {
				continue
			}
			byPeriod := table.Rows[label]
			for _, period := range table.Periods {
				v, ok := byPeriod[period]
				if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				value := v
				return &value
			}
		}
	}
	return nil
}

// lookupAcross consults tables in priority order until one yields a value.
func lookupAcross(aliases []string, tables ...*models.StatementTable) *float64 {
	for _, t := range tables {
		if v := lookup(t, aliases); v != nil {
			return v
		}
	}
	return nil
}

func firstNonEmpty(tables ...*models.StatementTable) *models.StatementTable {
	for _, t := range tables {
		if !t.Empty() {
			return t
		}
	}
	return nil
}

// safeDiv divides a by b with null propagation: nil or zero denominator and
// nil numerator all yield nil.
func safeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	v := *a / *b
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// sumIfPresent sums the non-nil operands; all-nil yields nil.
func sumIfPresent(vals ...*float64) *float64 {
	var sum float64
	present := false
	for _, v := range vals {
		if v != nil {
			sum += *v
			present = true
		}
	}
	if !present {
		return nil
	}
	return &sum
}

// banded attaches the threshold band for the named ratio.
func banded(name string, value *float64) models.RatioValue {
	return models.RatioValue{Value: value, Band: bandFor(name, value)}
}

func bandFor(name string, value *float64) models.Band {
	if value == nil {
		return models.BandNA
	}
	spec, ok := ratioSpecs[name]
	if !ok {
		return models.BandNA
	}
	v := *value
	if spec.higherBetter {
		switch {
		case v >= spec.good:
			return models.BandStrong
		case v >= spec.fair:
			return models.BandFair
		default:
			return models.BandWeak
		}
	}
	switch {
	case v <= spec.good:
		return models.BandStrong
	case v <= spec.fair:
		return models.BandFair
	default:
		return models.BandWeak
	}
}

func fillNA(a *models.RatioAssessment) {
	for _, name := range []string{"current_ratio", "quick_ratio", "cash_ratio"} {
		a.Liquidity[name] = models.RatioValue{Band: models.BandNA}
	}
	for _, name := range []string{"debt_to_equity", "debt_ratio", "interest_coverage"} {
		a.Solvency[name] = models.RatioValue{Band: models.BandNA}
	}
}
