package kb

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"SEOScanner/internal/ports"
)

// Threshold is one comparison a metric value is checked against.
type Threshold struct {
	Operator string  `yaml:"operator"`
	Value    float64 `yaml:"value"`
}

// Guideline ties a metric to leveled thresholds and the recommendation
// text emitted when a level fires.
type Guideline struct {
	Metric          string               `yaml:"metric"`
	Path            []string             `yaml:"path"`
	Thresholds      map[string]Threshold `yaml:"thresholds"`
	Recommendations map[string]string    `yaml:"recommendations"`
	Impact          map[string]float64   `yaml:"impact"`
	EstimatedCost   string               `yaml:"estimatedCost"`
	AbsentLevel     string               `yaml:"absentLevel"`
}

// KnowledgeBase is the deterministic rule engine: static guideline tables
// keyed by category, evaluated against collected metrics.
type KnowledgeBase struct {
	guidelines map[string][]Guideline
}

var _ ports.RecommendationEngine = (*KnowledgeBase)(nil)

// NewKnowledgeBase returns the engine with the compiled-in guideline
// tables.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{guidelines: defaultGuidelines()}
}

// LoadKnowledgeBase reads guideline tables from a YAML file, merged over
// the compiled-in defaults per category.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guidelines: %w", err)
	}

	var loaded map[string][]Guideline
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("parse guidelines: %w", err)
	}

	guidelines := defaultGuidelines()
	for category, rules := range loaded {
		guidelines[category] = rules
	}
	return &KnowledgeBase{guidelines: guidelines}, nil
}

// Recommendations evaluates every guideline of the category against the
// metrics mapping and returns the loosely-shaped recommendation records
// the insight pipeline expects. Missing metrics fire only guidelines that
// declare an absent level.
func (kb *KnowledgeBase) Recommendations(_ context.Context, category string, metrics map[string]any) ([]map[string]any, error) {
	rules, ok := kb.guidelines[category]
	if !ok {
		return nil, nil
	}

	var out []map[string]any
	for _, rule := range rules {
		value, present := lookup(metrics, rule.Path)

		if !present {
			if rule.AbsentLevel == "" {
				continue
			}
			out = append(out, rule.record(rule.AbsentLevel, nil))
			continue
		}

		number, numeric := toNumber(value)
		for level, threshold := range rule.Thresholds {
			if !numeric {
				continue
			}
			if meets(number, threshold) {
				out = append(out, rule.record(level, value))
			}
		}
	}
	return out, nil
}

func (g Guideline) record(level string, current any) map[string]any {
	impact := g.Impact[level]
	if impact == 0 {
		impact = 0.5
	}

	rec := map[string]any{
		"metric":         g.Metric,
		"recommendation": g.Recommendations[level],
		"priority":       level,
		"impact":         impact,
		"confidence":     0.9, // rule hits are deterministic
	}
	if current != nil {
		rec["description"] = fmt.Sprintf("Current %s: %v", g.Metric, current)
	}
	if g.EstimatedCost != "" {
		rec["estimated_cost"] = g.EstimatedCost
	}
	return rec
}

func lookup(metrics map[string]any, path []string) (any, bool) {
	current := any(metrics)
	for _, key := range path {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = mapping[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func toNumber(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func meets(value float64, t Threshold) bool {
	switch t.Operator {
	case ">":
		return value > t.Value
	case "<":
		return value < t.Value
	case ">=":
		return value >= t.Value
	case "<=":
		return value <= t.Value
	case "==", "":
		return value == t.Value
	default:
		return false
	}
}

// defaultGuidelines are the compiled-in SEO guideline tables. The YAML
// override uses the same shape.
func defaultGuidelines() map[string][]Guideline {
	return map[string][]Guideline{
		"technical": {
			{
				Metric:      "meta_description",
				Path:        []string{"meta_tags", "meta_description"},
				AbsentLevel: "high",
				Recommendations: map[string]string{
					"high": "Add a meta description summarizing the page in 150-160 characters",
				},
				Impact:        map[string]float64{"high": 0.9},
				EstimatedCost: "$100-200",
			},
			{
				Metric:      "title",
				Path:        []string{"meta_tags", "title"},
				AbsentLevel: "high",
				Recommendations: map[string]string{
					"high": "Add a descriptive title tag under 60 characters",
				},
				Impact:        map[string]float64{"high": 0.9},
				EstimatedCost: "$100-200",
			},
			{
				Metric: "h1",
				Path:   []string{"headings", "h1"},
				Thresholds: map[string]Threshold{
					"medium": {Operator: "<", Value: 1},
				},
				Recommendations: map[string]string{
					"medium": "Add exactly one H1 heading describing the page topic",
				},
				Impact:        map[string]float64{"medium": 0.6},
				EstimatedCost: "$100-200",
			},
			{
				Metric: "has_canonical",
				Path:   []string{"technical", "has_canonical"},
				Thresholds: map[string]Threshold{
					"medium": {Operator: "==", Value: 0},
				},
				Recommendations: map[string]string{
					"medium": "Add a canonical link element to avoid duplicate-content dilution",
				},
				Impact:        map[string]float64{"medium": 0.6},
				EstimatedCost: "$100-200",
			},
		},
		"content": {
			{
				Metric: "word_count",
				Path:   []string{"content", "word_count"},
				Thresholds: map[string]Threshold{
					"high": {Operator: "<", Value: 300},
				},
				Recommendations: map[string]string{
					"high": "Expand the page content beyond 300 words to give search engines enough context",
				},
				Impact:        map[string]float64{"high": 0.8},
				EstimatedCost: "$150-300",
			},
			{
				Metric: "missing_alt",
				Path:   []string{"images", "missing_alt"},
				Thresholds: map[string]Threshold{
					"medium": {Operator: ">", Value: 0},
				},
				Recommendations: map[string]string{
					"medium": "Add alt text to all images for accessibility and image search",
				},
				Impact:        map[string]float64{"medium": 0.5},
				EstimatedCost: "$150-300",
			},
			{
				Metric: "paragraphs",
				Path:   []string{"content", "paragraphs"},
				Thresholds: map[string]Threshold{
					"low": {Operator: "<", Value: 3},
				},
				Recommendations: map[string]string{
					"low": "Break the copy into more paragraphs to improve readability",
				},
				Impact:        map[string]float64{"low": 0.4},
				EstimatedCost: "$150-300",
			},
		},
		"backlink": {
			{
				Metric: "total_links",
				Path:   []string{"metrics", "total_links"},
				Thresholds: map[string]Threshold{
					"high": {Operator: "<", Value: 5},
				},
				Recommendations: map[string]string{
					"high": "Acquire backlinks from relevant, authoritative sites to build link equity",
				},
				Impact:        map[string]float64{"high": 0.7},
				EstimatedCost: "$200-400",
			},
			{
				Metric: "domain_authority",
				Path:   []string{"metrics", "domain_authority"},
				Thresholds: map[string]Threshold{
					"medium": {Operator: "<", Value: 30},
				},
				Recommendations: map[string]string{
					"medium": "Grow domain authority through consistent, high-quality link acquisition",
				},
				Impact:        map[string]float64{"medium": 0.6},
				EstimatedCost: "$200-400",
			},
			{
				Metric: "spam_score",
				Path:   []string{"metrics", "spam_score"},
				Thresholds: map[string]Threshold{
					"high": {Operator: ">", Value: 30},
				},
				Recommendations: map[string]string{
					"high": "Audit the link profile and disavow spammy referring domains",
				},
				Impact:        map[string]float64{"high": 0.8},
				EstimatedCost: "$200-400",
			},
		},
	}
}
