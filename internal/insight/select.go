package insight

import (
	"sort"

	"SEOScanner/internal/domain"
)

const (
	maxPriorityActions = 5
	maxFallbackActions = 3
	priorityImpactBar  = 0.7
)

// SelectActions extracts the high-impact records across all categories and
// returns a bounded, ranked top-N action list. Records with impact above
// 0.7 are ranked by impact×confidence. When nothing qualifies the selector
// falls back to deterministic rules over the raw collected data, so the
// result is never empty even if every upstream source failed.
func SelectActions(categorized map[domain.Category][]domain.InsightRecord, data domain.CollectedData) []domain.InsightRecord {
	var candidates []domain.InsightRecord
	for _, category := range domain.Categories() {
		for _, record := range categorized[category] {
			if CoerceUnit(record.Impact, neutralScore) > priorityImpactBar {
				candidates = append(candidates, record)
			}
		}
	}

	if len(candidates) == 0 {
		return FallbackActions(data)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return actionRank(candidates[i]) > actionRank(candidates[j])
	})

	if len(candidates) > maxPriorityActions {
		candidates = candidates[:maxPriorityActions]
	}
	return candidates
}

// actionRank always blends confidence in, independent of the merge-ranking
// policy, and is total over malformed numerics.
func actionRank(r domain.InsightRecord) float64 {
	return CoerceUnit(r.Impact, neutralScore) * CoerceUnit(r.Confidence, neutralScore)
}

// FallbackActions builds the rule-based action list used when no insight
// clears the priority bar. The rules read the collected SEO data
// defensively and the last rule is unconditional, guaranteeing at least
// one action.
func FallbackActions(data domain.CollectedData) []domain.InsightRecord {
	var actions []domain.InsightRecord

	if !data.HasKey("scraped_data", "meta_tags", "meta_description") {
		actions = append(actions, domain.InsightRecord{
			Category:       domain.CategoryTechnical,
			Metric:         "meta_description",
			Recommendation: "Add a meta description summarizing the page in 150-160 characters",
			Priority:       domain.PriorityHigh,
			Impact:         0.9,
			Confidence:     0.9,
			Source:         domain.SourceRuleEngine,
		})
	}

	if wc := data.IntAt("scraped_data", "content", "word_count"); wc < 300 {
		actions = append(actions, domain.InsightRecord{
			Category:       domain.CategoryContent,
			Metric:         "word_count",
			Recommendation: "Expand the page content beyond 300 words to give search engines enough context",
			Priority:       domain.PriorityHigh,
			Impact:         0.8,
			Confidence:     0.9,
			Source:         domain.SourceRuleEngine,
		})
	}

	if links := data.IntAt("moz_data", "metrics", "total_links"); links < 5 {
		actions = append(actions, domain.InsightRecord{
			Category:       domain.CategoryBacklink,
			Metric:         "total_links",
			Recommendation: "Acquire backlinks from relevant, authoritative sites to build link equity",
			Priority:       domain.PriorityHigh,
			Impact:         0.7,
			Confidence:     0.8,
			Source:         domain.SourceRuleEngine,
		})
	}

	if len(actions) == 0 {
		actions = append(actions, domain.InsightRecord{
			Category:       domain.CategoryStrategic,
			Metric:         "general",
			Recommendation: "Grow quality backlinks and refresh key landing pages on a regular cadence",
			Priority:       domain.PriorityMedium,
			Impact:         0.7,
			Confidence:     0.7,
			Source:         domain.SourceRuleEngine,
		})
	}

	if len(actions) > maxFallbackActions {
		actions = actions[:maxFallbackActions]
	}
	for i := range actions {
		actions[i].Score = Score(actions[i])
	}
	return actions
}
