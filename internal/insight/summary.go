package insight

import (
	"fmt"
	"regexp"
	"strconv"

	"SEOScanner/internal/domain"
)

var costRangeExpr = regexp.MustCompile(`^\$(\d+)-(\d+)$`)

// Summarize derives the executive-summary statistics for a bundle: insight
// counts, the high/critical tally among priority actions, per-category
// scores, and the aggregated cost range when records carry estimates.
func Summarize(bundle *domain.InsightBundle) domain.Summary {
	summary := domain.Summary{
		TotalInsights:  len(bundle.Technical) + len(bundle.Content) + len(bundle.Backlink) + len(bundle.Strategic),
		TechnicalScore: categoryScore(bundle.Technical),
		ContentScore:   categoryScore(bundle.Content),
		BacklinkScore:  categoryScore(bundle.Backlink),
	}

	for _, action := range bundle.PriorityActions {
		if action.Priority == domain.PriorityHigh || action.Priority == domain.PriorityCritical {
			summary.CriticalIssues++
		}
	}

	summary.EstimatedCost = rollupCost(bundle)
	return summary
}

// categoryScore is the mean impact×confidence over a list, on a 0-100
// scale. An empty list scores zero.
func categoryScore(records []domain.InsightRecord) int {
	if len(records) == 0 {
		return 0
	}

	total := 0.0
	for _, record := range records {
		total += CoerceUnit(record.Impact, neutralScore) * CoerceUnit(record.Confidence, neutralScore)
	}
	return int(total / float64(len(records)) * 100)
}

// rollupCost sums the per-record "$lo-hi" cost ranges across all
// categories. Records without a parseable range contribute nothing; when
// none carry one the rollup is empty.
func rollupCost(bundle *domain.InsightBundle) string {
	var lo, hi int
	found := false
	for _, records := range bundle.ByCategory() {
		for _, record := range records {
			m := costRangeExpr.FindStringSubmatch(record.CostEstimate)
			if m == nil {
				continue
			}
			low, err1 := strconv.Atoi(m[1])
			high, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			lo += low
			hi += high
			found = true
		}
	}

	if !found {
		return ""
	}
	return fmt.Sprintf("$%d-%d", lo, hi)
}
