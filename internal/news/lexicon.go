package news

import "sort"

// Signed sentiment lexicons, stopword sets and impact tables, kept separate
// per supported language. Matching is lowercase substring against the title.

var sentimentTermsEN = map[string]float64{
	"beat":       1.0,
	"beats":      1.0,
	"surge":      1.0,
	"surges":     1.0,
	"soar":       1.0,
	"soars":      1.0,
	"jump":       0.9,
	"jumps":      0.9,
	"rally":      0.8,
	"record":     0.8,
	"upgrade":    0.8,
	"upgraded":   0.8,
	"outperform": 0.7,
	"profit":     0.6,
	"growth":     0.6,
	"wins":       0.6,
	"approval":   0.6,
	"expands":    0.5,
	"strong":     0.5,
	"buyback":    0.5,
	"dividend":   0.3,

	"miss":          -1.0,
	"misses":        -1.0,
	"plunge":        -1.0,
	"plunges":       -1.0,
	"fraud":         -1.0,
	"bankruptcy":    -1.0,
	"downgrade":     -0.8,
	"downgraded":    -0.8,
	"lawsuit":       -0.8,
	"layoff":        -0.8,
	"layoffs":       -0.8,
	"slump":         -0.8,
	"fall":          -0.7,
	"falls":         -0.7,
	"drop":          -0.7,
	"drops":         -0.7,
	"probe":         -0.7,
	"recall":        -0.7,
	"warns":         -0.7,
	"warning":       -0.7,
	"investigation": -0.7,
	"weak":          -0.6,
	"loss":          -0.6,
	"fine":          -0.6,
	"cuts":          -0.6,
	"strike":        -0.6,
	"halts":         -0.6,
	"delay":         -0.5,
}

var sentimentTermsKO = map[string]float64{
	"급등":   1.0,
	"호실적":  0.9,
	"신기록":  0.8,
	"상승":   0.7,
	"흑자":   0.7,
	"수주":   0.6,
	"승인":   0.6,
	"최대":   0.6,
	"성장":   0.6,
	"제휴":   0.4,
	"배당":   0.3,

	"급락":   -1.0,
	"파산":   -1.0,
	"적자":   -0.8,
	"소송":   -0.8,
	"감원":   -0.8,
	"하락":   -0.7,
	"리콜":   -0.7,
	"부진":   -0.7,
	"벌금":   -0.6,
	"조사":   -0.6,
	"경고":   -0.6,
	"파업":   -0.6,
	"연기":   -0.5,
}

var stopwordsEN = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"for": true, "of": true, "to": true, "in": true, "on": true,
	"with": true, "at": true, "by": true, "from": true, "as": true,
	"is": true, "its": true, "it": true, "after": true, "amid": true,
	"company": true, "inc": true, "corp": true, "co": true, "ltd": true,
	"plc": true, "group": true, "shares": true, "stock": true,
	"reports": true, "earnings": true, "news": true, "today": true,
	"update": true, "says": true, "new": true,
}

var stopwordsKO = map[string]bool{
	"및": true, "그리고": true, "또": true, "더": true, "관련": true,
	"회사": true, "기업": true, "주가": true, "증권": true, "속보": true,
	"뉴스": true, "발표": true, "오늘": true, "보고": true, "종목": true,
	"시장": true,
}

// Impact tag category names.
const (
	ImpactEarnings    = "Earnings/Guidance"
	ImpactMA          = "M&A"
	ImpactPartnership = "Partnership"
	ImpactLegal       = "Legal"
	ImpactRegulatory  = "Regulatory"
	ImpactWorkforce   = "Workforce"
	ImpactSupplyChain = "Supply chain"
)

// impactRule maps a lowercase title pattern to a category and weight.
type impactRule struct {
	pattern  string
	category string
	weight   float64
}

var impactRulesEN = []impactRule{
	{"earnings", ImpactEarnings, 1.0},
	{"guidance", ImpactEarnings, 1.0},
	{"outlook", ImpactEarnings, 1.0},
	{"results", ImpactEarnings, 1.0},
	{"revenue", ImpactEarnings, 1.0},
	{"forecast", ImpactEarnings, 1.0},
	{"acquisition", ImpactMA, 0.9},
	{"acquire", ImpactMA, 0.9},
	{"merger", ImpactMA, 0.9},
	{"takeover", ImpactMA, 0.9},
	{"buyout", ImpactMA, 0.9},
	{"partnership", ImpactPartnership, 0.5},
	{"alliance", ImpactPartnership, 0.5},
	{"collaboration", ImpactPartnership, 0.5},
	{"lawsuit", ImpactLegal, 0.7},
	{"litigation", ImpactLegal, 0.7},
	{"settlement", ImpactLegal, 0.7},
	{"court", ImpactLegal, 0.7},
	{"regulator", ImpactRegulatory, 0.7},
	{"regulatory", ImpactRegulatory, 0.7},
	{"antitrust", ImpactRegulatory, 0.7},
	{"probe", ImpactRegulatory, 0.7},
	{"investigation", ImpactRegulatory, 0.7},
	{"approval", ImpactRegulatory, 0.7},
	{"layoff", ImpactWorkforce, 0.5},
	{"job cuts", ImpactWorkforce, 0.5},
	{"hiring", ImpactWorkforce, 0.5},
	{"strike", ImpactWorkforce, 0.5},
	{"union", ImpactWorkforce, 0.5},
	{"supply chain", ImpactSupplyChain, 0.5},
	{"shortage", ImpactSupplyChain, 0.5},
	{"production", ImpactSupplyChain, 0.5},
	{"factory", ImpactSupplyChain, 0.5},
	{"plant", ImpactSupplyChain, 0.5},
}

var impactRulesKO = []impactRule{
	{"실적", ImpactEarnings, 1.0},
	{"가이던스", ImpactEarnings, 1.0},
	{"전망", ImpactEarnings, 1.0},
	{"매출", ImpactEarnings, 1.0},
	{"인수", ImpactMA, 0.9},
	{"합병", ImpactMA, 0.9},
	{"제휴", ImpactPartnership, 0.5},
	{"협력", ImpactPartnership, 0.5},
	{"계약", ImpactPartnership, 0.5},
	{"소송", ImpactLegal, 0.7},
	{"판결", ImpactLegal, 0.7},
	{"합의", ImpactLegal, 0.7},
	{"규제", ImpactRegulatory, 0.7},
	{"조사", ImpactRegulatory, 0.7},
	{"승인", ImpactRegulatory, 0.7},
	{"벌금", ImpactRegulatory, 0.7},
	{"감원", ImpactWorkforce, 0.5},
	{"구조조정", ImpactWorkforce, 0.5},
	{"파업", ImpactWorkforce, 0.5},
	{"채용", ImpactWorkforce, 0.5},
	{"공급망", ImpactSupplyChain, 0.5},
	{"생산", ImpactSupplyChain, 0.5},
	{"공장", ImpactSupplyChain, 0.5},
	{"부족", ImpactSupplyChain, 0.5},
}

// weightedTerm is a lexicon entry in a fixed scan order.
type weightedTerm struct {
	term   string
	weight float64
}

// sortTerms flattens a lexicon map into a term-sorted slice so scoring sums
// weights in a fixed order regardless of map iteration.
func sortTerms(m map[string]float64) []weightedTerm {
	terms := make([]weightedTerm, 0, len(m))
	for term, weight := range m {
		terms = append(terms, weightedTerm{term: term, weight: weight})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].term < terms[j].term })
	return terms
}

var (
	sentimentTermListEN = sortTerms(sentimentTermsEN)
	sentimentTermListKO = sortTerms(sentimentTermsKO)
)

func sentimentTermList(language string) []weightedTerm {
	if IsKorean(language) {
		return sentimentTermListKO
	}
	return sentimentTermListEN
}

func stopwords(language string) map[string]bool {
	if IsKorean(language) {
		return stopwordsKO
	}
	return stopwordsEN
}

func impactRules(language string) []impactRule {
	if IsKorean(language) {
		return impactRulesKO
	}
	return impactRulesEN
}
