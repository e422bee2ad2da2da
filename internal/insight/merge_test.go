package insight

import (
	"testing"

	"SEOScanner/internal/domain"
)

func rec(metric, recommendation string, impact float64) domain.InsightRecord {
	return domain.InsightRecord{
		Category:       domain.CategoryTechnical,
		Metric:         metric,
		Recommendation: recommendation,
		Impact:         impact,
		Confidence:     0.7,
	}
}

func TestMergeDeduplicates(t *testing.T) {
	t.Parallel()

	a := []domain.InsightRecord{rec("meta_description", "Add a description", 0.8)}
	b := []domain.InsightRecord{
		rec("meta_description", "Add a description", 0.3),
		rec("title", "Shorten the title", 0.6),
	}

	merged := Merge(a, b)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(merged))
	}

	seen := map[string]struct{}{}
	for _, record := range merged {
		key := record.DedupKey()
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate dedup key survived merge: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestMergeFirstListWins(t *testing.T) {
	t.Parallel()

	fromRules := rec("meta_description", "Add a description", 0.8)
	fromRules.Source = domain.SourceRuleEngine
	fromLLM := rec("meta_description", "Add a description", 0.9)
	fromLLM.Source = domain.SourceLLM

	merged := Merge([]domain.InsightRecord{fromRules}, []domain.InsightRecord{fromLLM})
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	if merged[0].Source != domain.SourceRuleEngine {
		t.Fatalf("kept record should come from the earlier list, got %s", merged[0].Source)
	}
	if merged[0].Impact != 0.8 {
		t.Fatalf("fields must not be merged across duplicates, got impact %f", merged[0].Impact)
	}
}

func TestMergeSortsByScoreDescendingStable(t *testing.T) {
	t.Parallel()

	a := []domain.InsightRecord{rec("a", "first with same score", 0.8)}
	b := []domain.InsightRecord{
		rec("b", "second with same score", 0.8),
		rec("c", "top score", 0.9),
	}

	merged := Merge(a, b)
	if merged[0].Metric != "c" {
		t.Fatalf("expected highest score first, got %s", merged[0].Metric)
	}
	if merged[1].Metric != "a" || merged[2].Metric != "b" {
		t.Fatalf("ties must keep input order, got %s then %s", merged[1].Metric, merged[2].Metric)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	input := []domain.InsightRecord{rec("a", "only record", 0.8)}
	_ = Merge(input)
	if input[0].Score != 0 {
		t.Fatalf("merge mutated its input: score %f", input[0].Score)
	}
}

func TestMergeScoresMissingNumerics(t *testing.T) {
	t.Parallel()

	merged := Merge([]domain.InsightRecord{{
		Category:       domain.CategoryContent,
		Metric:         "word_count",
		Recommendation: "Write more",
	}})
	if merged[0].Score != 0.5 {
		t.Fatalf("missing impact should score 0.5, got %f", merged[0].Score)
	}
}

func TestMergeDedupKeyPrefix(t *testing.T) {
	t.Parallel()

	long := "this recommendation is carefully padded to be well over fifty characters long in total"
	a := []domain.InsightRecord{rec("m", long+" variant one", 0.8)}
	b := []domain.InsightRecord{rec("m", long+" variant two", 0.8)}

	merged := Merge(a, b)
	if len(merged) != 1 {
		t.Fatalf("records sharing the 50-char prefix should dedup, got %d", len(merged))
	}
}
