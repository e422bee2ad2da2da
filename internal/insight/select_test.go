package insight

import (
	"testing"

	"SEOScanner/internal/domain"
)

func categorized(records ...domain.InsightRecord) map[domain.Category][]domain.InsightRecord {
	out := map[domain.Category][]domain.InsightRecord{}
	for _, record := range records {
		out[record.Category] = append(out[record.Category], record)
	}
	return out
}

func TestSelectActionsRanksByImpactConfidence(t *testing.T) {
	t.Parallel()

	lower := domain.InsightRecord{Category: domain.CategoryTechnical, Metric: "a", Recommendation: "a", Impact: 0.8, Confidence: 0.5}
	higher := domain.InsightRecord{Category: domain.CategoryContent, Metric: "b", Recommendation: "b", Impact: 0.8, Confidence: 0.9}
	skipped := domain.InsightRecord{Category: domain.CategoryBacklink, Metric: "c", Recommendation: "c", Impact: 0.6, Confidence: 1}

	actions := SelectActions(categorized(lower, higher, skipped), domain.CollectedData{})
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions above the impact bar, got %d", len(actions))
	}
	if actions[0].Metric != "b" {
		t.Fatalf("expected highest impact*confidence first, got %s", actions[0].Metric)
	}
}

func TestSelectActionsCapsAtFive(t *testing.T) {
	t.Parallel()

	var records []domain.InsightRecord
	for _, metric := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		records = append(records, domain.InsightRecord{
			Category:       domain.CategoryTechnical,
			Metric:         metric,
			Recommendation: metric,
			Impact:         0.9,
			Confidence:     0.9,
		})
	}

	actions := SelectActions(categorized(records...), domain.CollectedData{})
	if len(actions) != 5 {
		t.Fatalf("expected top 5 actions, got %d", len(actions))
	}
}

func TestSelectActionsNeverEmpty(t *testing.T) {
	t.Parallel()

	actions := SelectActions(map[domain.Category][]domain.InsightRecord{}, domain.CollectedData{})
	if len(actions) < 1 || len(actions) > 5 {
		t.Fatalf("expected between 1 and 5 fallback actions, got %d", len(actions))
	}
}

func TestSelectActionsToleratesBadNumerics(t *testing.T) {
	t.Parallel()

	bad := domain.InsightRecord{Category: domain.CategoryTechnical, Metric: "x", Recommendation: "x", Impact: -3, Confidence: 99}
	good := domain.InsightRecord{Category: domain.CategoryContent, Metric: "y", Recommendation: "y", Impact: 0.9, Confidence: 0.9}

	actions := SelectActions(categorized(bad, good), domain.CollectedData{})
	if len(actions) != 1 || actions[0].Metric != "y" {
		t.Fatalf("unexpected actions: %v", actions)
	}
}

func TestFallbackRulesFromCollectedData(t *testing.T) {
	t.Parallel()

	data := domain.CollectedData{
		"scraped_data": map[string]any{
			"meta_tags": map[string]any{"title": "Has a title"},
			"content":   map[string]any{"word_count": 120},
		},
		"moz_data": map[string]any{
			"metrics": map[string]any{"total_links": 2},
		},
	}

	actions := FallbackActions(data)
	if len(actions) != 3 {
		t.Fatalf("expected all three rules to fire, got %d", len(actions))
	}

	metrics := map[string]bool{}
	for _, action := range actions {
		metrics[action.Metric] = true
		if action.Impact < 0.7 || action.Impact > 0.9 {
			t.Fatalf("fallback impact %f outside fixed range", action.Impact)
		}
	}
	for _, want := range []string{"meta_description", "word_count", "total_links"} {
		if !metrics[want] {
			t.Fatalf("missing fallback rule %s in %v", want, actions)
		}
	}
}

func TestFallbackAlwaysProducesSomething(t *testing.T) {
	t.Parallel()

	healthy := domain.CollectedData{
		"scraped_data": map[string]any{
			"meta_tags": map[string]any{"meta_description": "present"},
			"content":   map[string]any{"word_count": 2000},
		},
		"moz_data": map[string]any{
			"metrics": map[string]any{"total_links": 900},
		},
	}

	actions := FallbackActions(healthy)
	if len(actions) != 1 {
		t.Fatalf("expected the unconditional default action, got %d", len(actions))
	}
	if actions[0].Category != domain.CategoryStrategic {
		t.Fatalf("unexpected default action: %+v", actions[0])
	}
}
