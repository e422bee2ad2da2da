package insight

import (
	"strconv"

	"SEOScanner/internal/domain"
)

// RankingPolicy computes the merge-ranking score for a record from its
// clamped impact and confidence. The policy is a swappable strategy so
// callers never hardcode which blend is "correct".
type RankingPolicy func(impact, confidence float64) float64

// RankByImpact ranks purely by impact. Confidence is read and clamped but
// intentionally left out of the key; tune via RankByImpactConfidence.
func RankByImpact(impact, _ float64) float64 { return impact }

// RankByImpactConfidence blends both fields into the ranking key.
func RankByImpactConfidence(impact, confidence float64) float64 {
	return impact * confidence
}

// DefaultRanking is the policy applied by Merge when none is supplied.
var DefaultRanking RankingPolicy = RankByImpact

const neutralScore = 0.5

// Score computes the bounded ranking score for a record using the default
// policy. Missing or malformed numeric fields fall back to 0.5 each; the
// result is always within [0,1].
func Score(r domain.InsightRecord) float64 {
	return DefaultRanking(clamp01(r.Impact, neutralScore), clamp01(r.Confidence, neutralScore))
}

// ScoreFields computes the score from raw, possibly malformed field values
// such as the loosely-typed maps upstream sources emit.
func ScoreFields(impact, confidence any) float64 {
	return DefaultRanking(CoerceUnit(impact, neutralScore), CoerceUnit(confidence, neutralScore))
}

// CoerceUnit converts an arbitrary value into a float in [0,1], returning
// the fallback when the value is absent or not coercible. Out-of-range
// numbers are clamped rather than rejected.
func CoerceUnit(v any, fallback float64) float64 {
	switch value := v.(type) {
	case nil:
		return fallback
	case float64:
		return clamp01(value, fallback)
	case float32:
		return clamp01(float64(value), fallback)
	case int:
		return clamp01(float64(value), fallback)
	case int64:
		return clamp01(float64(value), fallback)
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fallback
		}
		return clamp01(parsed, fallback)
	default:
		return fallback
	}
}

// clamp01 bounds v into [0,1]. A zero value is treated as "unset" and maps
// to the fallback, matching the upstream convention that a record without
// an impact carries 0.5, not 0.
func clamp01(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
