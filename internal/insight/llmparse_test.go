package insight

import (
	"testing"

	"SEOScanner/internal/domain"
)

func TestParseLLMResponseNeverRaises(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"not json at all",
		`["array", "instead", "of", "object"]`,
		`{"unknown_key": "value"}`,
		`{"recommendations": 42}`,
		"```json\n{broken",
	}

	for _, input := range inputs {
		shape := ParseLLMResponse(input)
		total := len(shape.Technical) + len(shape.Content) + len(shape.Backlink) + len(shape.Strategic)
		if total != 0 {
			t.Fatalf("input %q: expected empty shape, got %d records", input, total)
		}
	}
}

func TestParseRecommendationsList(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"recommendations": ["Improve title tag"]}`)
	if len(shape.Technical) != 1 {
		t.Fatalf("expected 1 technical record, got %d", len(shape.Technical))
	}

	record := shape.Technical[0]
	if record.Recommendation != "Improve title tag" {
		t.Fatalf("unexpected recommendation: %q", record.Recommendation)
	}
	if record.Category != domain.CategoryTechnical || record.Source != domain.SourceLLM {
		t.Fatalf("unexpected routing: %+v", record)
	}
	if record.Impact != 0.8 || record.Confidence != 0.7 {
		t.Fatalf("unexpected defaults: impact %f confidence %f", record.Impact, record.Confidence)
	}
	if record.Priority != domain.PriorityHigh {
		t.Fatalf("expected default high priority, got %s", record.Priority)
	}
	if record.Metric != "general" {
		t.Fatalf("expected general metric, got %q", record.Metric)
	}
}

func TestParseImprovementsNestedMapping(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"improvements": {"readability": {"sentences": "Shorten sentences"}}}`)
	if len(shape.Content) != 1 {
		t.Fatalf("expected 1 content record, got %d", len(shape.Content))
	}
	if shape.Content[0].Metric != "sentences" || shape.Content[0].Impact != 0.7 {
		t.Fatalf("unexpected record: %+v", shape.Content[0])
	}
}

func TestParseActionableStepsClassification(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"actionable_steps": {"1": "Build more backlinks from relevant sites", "2": "Improve internal linking structure"}}`)

	if len(shape.Backlink) != 2 {
		t.Fatalf("both steps mention links and should classify as backlink, got %d backlink / %d strategic",
			len(shape.Backlink), len(shape.Strategic))
	}
	for _, record := range shape.Backlink {
		if record.Impact < 0.7 || record.Impact > 0.9 {
			t.Fatalf("impact %f outside [0.7,0.9]", record.Impact)
		}
		if record.Confidence != 0.7 {
			t.Fatalf("expected default confidence 0.7, got %f", record.Confidence)
		}
	}
}

func TestParseActionableStepsStrategicRoute(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"actionable_steps": ["Publish a quarterly content calendar"]}`)
	if len(shape.Strategic) != 1 || len(shape.Backlink) != 0 {
		t.Fatalf("expected strategic routing, got %d strategic / %d backlink",
			len(shape.Strategic), len(shape.Backlink))
	}
}

func TestParseUnwrapsWrapperKey(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"analysis": {"recommendations": ["Add canonical tags"]}}`)
	if len(shape.Technical) != 1 {
		t.Fatalf("wrapper key not unwrapped: %+v", shape)
	}
}

func TestParsePreservesCarriedNumerics(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"recommendations": [{"metric": "meta_description", "recommendation": "Add one", "impact": 0.95, "confidence": 3}]}`)
	if len(shape.Technical) != 1 {
		t.Fatalf("expected 1 record, got %d", len(shape.Technical))
	}
	record := shape.Technical[0]
	if record.Impact != 0.95 {
		t.Fatalf("carried impact not preserved: %f", record.Impact)
	}
	if record.Confidence != 1 {
		t.Fatalf("out-of-range confidence should clamp to 1, got %f", record.Confidence)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse("```json\n{\"recommendations\": [\"Fix redirect chains\"]}\n```")
	if len(shape.Technical) != 1 {
		t.Fatalf("fenced JSON not parsed: %+v", shape)
	}
}

func TestParseDropsEmptyRecommendations(t *testing.T) {
	t.Parallel()

	shape := ParseLLMResponse(`{"recommendations": ["", "   ", "Real one"]}`)
	if len(shape.Technical) != 1 {
		t.Fatalf("blank recommendations should drop, got %d", len(shape.Technical))
	}
}
