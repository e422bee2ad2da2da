package insight

import (
	"testing"

	"SEOScanner/internal/domain"
)

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		impact     any
		confidence any
	}{
		{"missing both", nil, nil},
		{"string garbage", "abc", "xyz"},
		{"negative", -0.4, -2.0},
		{"above one", 3.5, 12},
		{"numeric strings", "0.8", "0.6"},
		{"mixed types", 1, "not a number"},
	}

	for _, tc := range cases {
		score := ScoreFields(tc.impact, tc.confidence)
		if score < 0 || score > 1 {
			t.Fatalf("%s: score %f out of bounds", tc.name, score)
		}
	}
}

func TestScoreDefaults(t *testing.T) {
	t.Parallel()

	if got := ScoreFields(nil, nil); got != 0.5 {
		t.Fatalf("expected default 0.5, got %f", got)
	}
	if got := ScoreFields("abc", 0.9); got != 0.5 {
		t.Fatalf("unparseable impact should default to 0.5, got %f", got)
	}
}

func TestScoreUsesImpactOnlyByDefault(t *testing.T) {
	t.Parallel()

	record := domain.InsightRecord{Impact: 0.8, Confidence: 0.1}
	if got := Score(record); got != 0.8 {
		t.Fatalf("default policy should rank by impact alone, got %f", got)
	}
}

func TestRankByImpactConfidence(t *testing.T) {
	t.Parallel()

	if got := RankByImpactConfidence(0.8, 0.5); got != 0.4 {
		t.Fatalf("expected 0.4, got %f", got)
	}
}

func TestCoerceUnitClamps(t *testing.T) {
	t.Parallel()

	if got := CoerceUnit(-1.0, 0.5); got != 0 {
		t.Fatalf("negative should clamp to 0, got %f", got)
	}
	if got := CoerceUnit(42.0, 0.5); got != 1 {
		t.Fatalf("large value should clamp to 1, got %f", got)
	}
	if got := CoerceUnit("0.75", 0.5); got != 0.75 {
		t.Fatalf("numeric string should parse, got %f", got)
	}
}
