package insight

import (
	"encoding/json"
	"strings"

	"SEOScanner/internal/domain"
)

// CanonicalShape is the single normalization contract every historically
// seen LLM response schema is mapped into before merging.
type CanonicalShape struct {
	Technical []domain.InsightRecord
	Content   []domain.InsightRecord
	Backlink  []domain.InsightRecord
	Strategic []domain.InsightRecord
}

// wrapperKeys are single-level envelope keys some model versions put
// around the payload; unwrapped before schema detection.
var wrapperKeys = []string{"analysis", "result", "response", "insights"}

// backlinkMarkers route ambiguous actionable steps into the backlink
// bucket when the recommendation text mentions link building.
var backlinkMarkers = []string{"backlink", "link", "authority"}

// sourceKeyRoute maps each recognized top-level key to its category and
// the default impact assigned to items arriving under it. Schema detection
// is an explicit, enumerated case list: new model formats get a new entry
// here, never deeper branching.
type sourceRoute struct {
	key      string
	category domain.Category
	impact   float64
}

var sourceRoutes = []sourceRoute{
	{key: "recommendations", category: domain.CategoryTechnical, impact: 0.8},
	{key: "improvements", category: domain.CategoryContent, impact: 0.7},
	{key: "technical_insights", category: domain.CategoryTechnical, impact: 0.8},
	{key: "content_insights", category: domain.CategoryContent, impact: 0.7},
	{key: "backlink_insights", category: domain.CategoryBacklink, impact: 0.8},
	{key: "strategic_recommendations", category: domain.CategoryStrategic, impact: 0.8},
}

const ambiguousStepsKey = "actionable_steps"

// ParseLLMResponse parses a raw completion into the canonical shape. The
// model's output schema is not contractually stable, so every failure mode
// degrades to an empty (but valid) shape; the function never returns an
// error and never panics.
func ParseLLMResponse(raw string) CanonicalShape {
	payload := decodePayload(raw)
	if payload == nil {
		return CanonicalShape{}
	}

	for _, wrapper := range wrapperKeys {
		if inner, ok := payload[wrapper].(map[string]any); ok {
			payload = inner
			break
		}
	}

	var shape CanonicalShape
	for _, route := range sourceRoutes {
		value, ok := payload[route.key]
		if !ok {
			continue
		}
		records := buildRecords(Normalize(value), value, route.category, route.impact)
		switch route.category {
		case domain.CategoryTechnical:
			shape.Technical = append(shape.Technical, records...)
		case domain.CategoryContent:
			shape.Content = append(shape.Content, records...)
		case domain.CategoryBacklink:
			shape.Backlink = append(shape.Backlink, records...)
		case domain.CategoryStrategic:
			shape.Strategic = append(shape.Strategic, records...)
		}
	}

	if value, ok := payload[ambiguousStepsKey]; ok {
		for _, record := range buildRecords(Normalize(value), value, domain.CategoryStrategic, 0.8) {
			if mentionsBacklinks(record.Recommendation) {
				record.Category = domain.CategoryBacklink
				shape.Backlink = append(shape.Backlink, record)
			} else {
				shape.Strategic = append(shape.Strategic, record)
			}
		}
	}

	return shape
}

// decodePayload strictly JSON-decodes the raw text after stripping the
// markdown code fences some models wrap around their output. Anything that
// is not a JSON object yields nil.
func decodePayload(raw string) map[string]any {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil
	}
	return payload
}

// buildRecords turns flattened items into validated records, preserving
// any numeric impact/confidence the source items already carried. Records
// without recommendation text are dropped, not fatal.
func buildRecords(items []domain.FlatItem, rawValue any, category domain.Category, defaultImpact float64) []domain.InsightRecord {
	carried := carriedNumerics(rawValue)

	records := make([]domain.InsightRecord, 0, len(items))
	for i, item := range items {
		rec := strings.TrimSpace(item.Recommendation)
		if rec == "" {
			continue
		}

		metric := item.Metric
		if metric == "" {
			metric = "general"
		}

		record := domain.InsightRecord{
			Category:       category,
			Metric:         metric,
			Recommendation: rec,
			Priority:       domain.PriorityHigh,
			Impact:         defaultImpact,
			Confidence:     0.7,
			Source:         domain.SourceLLM,
		}
		if i < len(carried) {
			if carried[i].impact != nil {
				record.Impact = CoerceUnit(*carried[i].impact, defaultImpact)
			}
			if carried[i].confidence != nil {
				record.Confidence = CoerceUnit(*carried[i].confidence, 0.7)
			}
		}
		records = append(records, record)
	}
	return records
}

type numericCarry struct {
	impact     *float64
	confidence *float64
}

// carriedNumerics extracts per-item impact/confidence values when the raw
// source value was a sequence of mappings, aligned by index with the
// normalizer's output for sequences.
func carriedNumerics(rawValue any) []numericCarry {
	seq, ok := rawValue.([]any)
	if !ok {
		return nil
	}

	carries := make([]numericCarry, len(seq))
	for i, element := range seq {
		mapping, ok := element.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := toFloat(mapping["impact"]); ok {
			carries[i].impact = &v
		}
		if v, ok := toFloat(mapping["confidence"]); ok {
			carries[i].confidence = &v
		}
	}
	return carries
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}

func mentionsBacklinks(recommendation string) bool {
	lowered := strings.ToLower(recommendation)
	for _, marker := range backlinkMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
