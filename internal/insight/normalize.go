package insight

import (
	"fmt"
	"sort"
	"strings"

	"SEOScanner/internal/domain"
)

// Normalize converts an arbitrary nested value coming from any source into
// a flat list of {metric, recommendation} items. The function is total: it
// never panics and maps unsupported input to an empty list. It is also
// idempotent on its own output shape, so already-normalized lists pass
// through unchanged.
func Normalize(raw any) []domain.FlatItem {
	switch v := raw.(type) {
	case nil:
		return []domain.FlatItem{}
	case string:
		return []domain.FlatItem{{Recommendation: v}}
	case map[string]any:
		return normalizeMapping(v)
	case []any:
		return normalizeSequence(v)
	case []domain.FlatItem:
		out := make([]domain.FlatItem, len(v))
		copy(out, v)
		return out
	case []string:
		items := make([]domain.FlatItem, 0, len(v))
		for _, s := range v {
			items = append(items, domain.FlatItem{Recommendation: s})
		}
		return items
	case []map[string]any:
		seq := make([]any, len(v))
		for i := range v {
			seq[i] = v[i]
		}
		return normalizeSequence(seq)
	default:
		return []domain.FlatItem{}
	}
}

// normalizeMapping emits one item per key. A nested mapping value is
// recursed exactly one level: each leaf key becomes the metric, each leaf
// value is coerced to a string recommendation. Keys are visited in sorted
// order so the output is deterministic.
func normalizeMapping(m map[string]any) []domain.FlatItem {
	items := make([]domain.FlatItem, 0, len(m))
	for _, key := range sortedKeys(m) {
		value := m[key]
		if nested, ok := value.(map[string]any); ok {
			for _, leaf := range sortedKeys(nested) {
				items = append(items, domain.FlatItem{
					Metric:         leaf,
					Recommendation: coerceString(nested[leaf]),
				})
			}
			continue
		}
		items = append(items, domain.FlatItem{
			Metric:         key,
			Recommendation: coerceString(value),
		})
	}
	return items
}

func normalizeSequence(seq []any) []domain.FlatItem {
	items := make([]domain.FlatItem, 0, len(seq))
	for _, element := range seq {
		mapping, ok := element.(map[string]any)
		if !ok {
			items = append(items, domain.FlatItem{Recommendation: coerceString(element)})
			continue
		}

		metric, _ := mapping["metric"].(string)
		items = append(items, domain.FlatItem{
			Metric:         metric,
			Recommendation: coerceString(mapping["recommendation"]),
		})
	}
	return items
}

// coerceString flattens any value into a single string. Nested mappings
// and sequences are joined with spaces so the recommendation field never
// carries structure.
func coerceString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case map[string]any:
		parts := make([]string, 0, len(value))
		for _, key := range sortedKeys(value) {
			parts = append(parts, coerceString(value[key]))
		}
		return strings.Join(parts, " ")
	case []any:
		parts := make([]string, 0, len(value))
		for _, element := range value {
			parts = append(parts, coerceString(element))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
