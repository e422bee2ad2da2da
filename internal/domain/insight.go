package domain

import "time"

// Category buckets an insight into one of the four report sections.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryContent   Category = "content"
	CategoryBacklink  Category = "backlink"
	CategoryStrategic Category = "strategic"
)

// Categories lists all buckets in report order.
func Categories() []Category {
	return []Category{CategoryTechnical, CategoryContent, CategoryBacklink, CategoryStrategic}
}

// Priority labels how urgent an insight is.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Source records which subsystem produced an insight; diagnostics only,
// never consulted for scoring.
type Source string

const (
	SourceRuleEngine Source = "rule_engine"
	SourceSimilarity Source = "similarity"
	SourceLLM        Source = "llm"
)

const dedupKeyPrefixLen = 50

// InsightRecord is the canonical unit of output. Every upstream shape is
// normalized into this form before merging.
type InsightRecord struct {
	Category       Category `json:"category"`
	Metric         string   `json:"metric"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
	Impact         float64  `json:"impact"`
	Confidence     float64  `json:"confidence"`
	Source         Source   `json:"source"`
	Description    string   `json:"description,omitempty"`
	CostEstimate   string   `json:"cost_estimate,omitempty"`

	// Score is attached by the merger; zero means "not scored yet".
	Score float64 `json:"score"`
}

// DedupKey derives the duplicate-detection key: metric plus the first 50
// bytes of the recommendation. A heuristic carried over as-is.
func (r InsightRecord) DedupKey() string {
	rec := r.Recommendation
	if len(rec) > dedupKeyPrefixLen {
		rec = rec[:dedupKeyPrefixLen]
	}
	return r.Metric + "|" + rec
}

// FlatItem is the normalizer's output contract: a metric label (may be
// empty) and a non-nested recommendation string.
type FlatItem struct {
	Metric         string
	Recommendation string
}

// SimilarCase is a prior analysis returned by the similarity search.
type SimilarCase struct {
	Content         string  `json:"content"`
	Category        string  `json:"category"`
	SimilarityScore float64 `json:"similarity_score"`
	Rank            int     `json:"rank"`
}

// Summary carries derived executive-summary statistics for a bundle.
type Summary struct {
	TotalInsights  int    `json:"total_insights"`
	CriticalIssues int    `json:"critical_issues"`
	TechnicalScore int    `json:"technical_score"`
	ContentScore   int    `json:"content_score"`
	BacklinkScore  int    `json:"backlink_score"`
	EstimatedCost  string `json:"estimated_cost,omitempty"`
}

// InsightBundle is the per-analysis aggregate handed to report consumers.
// It is a pure function of the three source outputs for one request.
type InsightBundle struct {
	Technical       []InsightRecord `json:"technical_insights"`
	Content         []InsightRecord `json:"content_insights"`
	Backlink        []InsightRecord `json:"backlink_insights"`
	Strategic       []InsightRecord `json:"strategic_recommendations"`
	PriorityActions []InsightRecord `json:"priority_actions"`
	SimilarCases    []SimilarCase   `json:"similar_cases,omitempty"`
	Summary         Summary         `json:"summary"`
	Error           string          `json:"error,omitempty"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// ByCategory returns the bundle's categorized lists keyed by Category.
func (b *InsightBundle) ByCategory() map[Category][]InsightRecord {
	return map[Category][]InsightRecord{
		CategoryTechnical: b.Technical,
		CategoryContent:   b.Content,
		CategoryBacklink:  b.Backlink,
		CategoryStrategic: b.Strategic,
	}
}

// AnalysisReport is the full result of one URL analysis.
type AnalysisReport struct {
	URL         string         `json:"url"`
	Collected   CollectedData  `json:"collected_data"`
	Overview    map[string]any `json:"overview"`
	SEOScore    int            `json:"seo_score"`
	Insights    *InsightBundle `json:"insights"`
	CollectedAt time.Time      `json:"collected_at"`
}
