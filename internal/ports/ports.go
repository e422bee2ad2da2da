package ports

import (
	"context"
	"time"

	"SEOScanner/internal/domain"
)

// RecommendationEngine looks up deterministic recommendations from static
// guideline tables keyed by metric thresholds. May return an empty list.
type RecommendationEngine interface {
	Recommendations(ctx context.Context, category string, metrics map[string]any) ([]map[string]any, error)
}

// SimilaritySearch is the nearest-neighbor lookup over previously stored
// analyses. AddEmbeddings is fire-and-forget: callers log failures, never
// surface them.
type SimilaritySearch interface {
	FindSimilar(ctx context.Context, query map[string]any, n int) ([]domain.SimilarCase, error)
	AddEmbeddings(ctx context.Context, data map[string]any, category string) error
}

// CompletionClient invokes the external text-completion service. The raw
// return is expected, but not guaranteed, to be JSON.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MetricsProvider fetches backlink and authority metrics for a domain.
type MetricsProvider interface {
	DomainMetrics(ctx context.Context, domain string) (map[string]any, error)
}

// PageScraper collects on-page SEO signals for a URL.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (map[string]any, error)
}

// Notifier streams analysis digests to Telegram or other channels.
type Notifier interface {
	PublishSummary(ctx context.Context, digest string) error
}

// AnalysisCache stores collected analysis data keyed by URL with a TTL.
type AnalysisCache interface {
	Get(key string) (domain.CollectedData, bool)
	Set(key string, data domain.CollectedData)
}

// Scheduler controls when recurring analyses execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
