package insight

import (
	"reflect"
	"testing"

	"SEOScanner/internal/domain"
)

func TestNormalizeNil(t *testing.T) {
	t.Parallel()

	items := Normalize(nil)
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %v", items)
	}
}

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	items := Normalize("Improve title tag")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Recommendation != "Improve title tag" {
		t.Fatalf("unexpected recommendation: %q", items[0].Recommendation)
	}
	if items[0].Metric != "" {
		t.Fatalf("expected empty metric, got %q", items[0].Metric)
	}
}

func TestNormalizeFlatMapping(t *testing.T) {
	t.Parallel()

	items := Normalize(map[string]any{
		"meta_description": "Add a description",
		"title":            "Shorten the title",
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// sorted key order
	if items[0].Metric != "meta_description" || items[1].Metric != "title" {
		t.Fatalf("unexpected metrics: %v", items)
	}
}

func TestNormalizeNestedMapping(t *testing.T) {
	t.Parallel()

	items := Normalize(map[string]any{
		"meta_tags": map[string]any{
			"description": "Add a meta description",
			"keywords":    "Add focused keywords",
		},
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Metric != "description" || items[0].Recommendation != "Add a meta description" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Metric != "keywords" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestNormalizeSequenceOfMappings(t *testing.T) {
	t.Parallel()

	items := Normalize([]any{
		map[string]any{"metric": "h1", "recommendation": "Use a single H1"},
		map[string]any{"recommendation": []any{"Fix", "broken", "links"}},
		"bare string entry",
		42,
	})
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].Metric != "h1" || items[0].Recommendation != "Use a single H1" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Recommendation != "Fix broken links" {
		t.Fatalf("nested recommendation not flattened: %q", items[1].Recommendation)
	}
	if items[2].Recommendation != "bare string entry" {
		t.Fatalf("unexpected third item: %+v", items[2])
	}
	if items[3].Recommendation != "42" {
		t.Fatalf("scalar not coerced: %+v", items[3])
	}
}

func TestNormalizeUnsupportedType(t *testing.T) {
	t.Parallel()

	if items := Normalize(3.14); len(items) != 0 {
		t.Fatalf("expected empty list for scalar input, got %v", items)
	}
	if items := Normalize(struct{ X int }{1}); len(items) != 0 {
		t.Fatalf("expected empty list for struct input, got %v", items)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	first := Normalize(map[string]any{
		"meta_tags": map[string]any{"description": "Add one"},
		"title":     "Trim it",
	})

	asRaw := make([]any, 0, len(first))
	for _, item := range first {
		asRaw = append(asRaw, map[string]any{
			"metric":         item.Metric,
			"recommendation": item.Recommendation,
		})
	}

	second := Normalize(asRaw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}

	third := Normalize(first)
	if !reflect.DeepEqual(first, third) {
		t.Fatalf("normalize over FlatItem list changed output:\nfirst: %v\nthird: %v", first, third)
	}
}

func TestNormalizeDoesNotAliasFlatItemInput(t *testing.T) {
	t.Parallel()

	input := []domain.FlatItem{{Metric: "a", Recommendation: "b"}}
	out := Normalize(input)
	out[0].Recommendation = "changed"
	if input[0].Recommendation != "b" {
		t.Fatalf("input mutated through output alias")
	}
}
