package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"SEOScanner/internal/domain"
	"SEOScanner/internal/insight"
	"SEOScanner/internal/ports"
)

// Category weights for the overall SEO score. Search-console data is not
// collected, so its share is folded into technical.
const (
	technicalWeight = 0.5
	contentWeight   = 0.3
	backlinkWeight  = 0.2
)

// PipelineDeps wires all driven adapters into the analysis pipeline.
type PipelineDeps struct {
	Metrics  ports.MetricsProvider
	Scraper  ports.PageScraper
	Insights *insight.Aggregator
	Cache    ports.AnalysisCache
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Pipeline implements the URL-analysis workflow: collect, aggregate,
// enrich, summarize.
type Pipeline struct {
	metrics  ports.MetricsProvider
	scraper  ports.PageScraper
	insights *insight.Aggregator
	cache    ports.AnalysisCache
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		metrics:  deps.Metrics,
		scraper:  deps.Scraper,
		insights: deps.Insights,
		cache:    deps.Cache,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
}

// Analyze runs the full pipeline for one URL. Collector failures degrade
// to empty data for that collector; the returned report always carries a
// structurally valid insight bundle.
func (p *Pipeline) Analyze(ctx context.Context, url string) (*domain.AnalysisReport, error) {
	if url == "" {
		return nil, fmt.Errorf("no url provided")
	}

	collected, fromCache := p.cachedData(url)
	if !fromCache {
		collected = p.collect(ctx, url)
		if p.cache != nil {
			p.cache.Set(cacheKey(url), collected)
		}
	} else {
		p.debug("serving collected data from cache", "url", url)
	}

	report := &domain.AnalysisReport{
		URL:         url,
		Collected:   collected,
		Overview:    overviewOf(collected),
		SEOScore:    seoScore(collected),
		CollectedAt: time.Now(),
	}

	if p.insights != nil {
		report.Insights = p.insights.GenerateInsights(ctx, collected)
	} else {
		report.Insights = &domain.InsightBundle{GeneratedAt: time.Now()}
	}

	p.publishDigest(ctx, report)
	return report, nil
}

func (p *Pipeline) cachedData(url string) (domain.CollectedData, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache.Get(cacheKey(url))
}

func cacheKey(url string) string {
	return "data_" + url
}

// collect fans out the two collectors. A failed collector contributes an
// empty mapping, never an error.
func (p *Pipeline) collect(ctx context.Context, url string) domain.CollectedData {
	var (
		wg      sync.WaitGroup
		mozData map[string]any
		scraped map[string]any
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if p.metrics == nil {
			return
		}
		data, err := p.metrics.DomainMetrics(ctx, url)
		if err != nil {
			p.warn("backlink metrics unavailable", "url", url, "error", err)
			return
		}
		mozData = data
	}()
	go func() {
		defer wg.Done()
		if p.scraper == nil {
			return
		}
		data, err := p.scraper.Scrape(ctx, url)
		if err != nil {
			p.warn("page scrape failed", "url", url, "error", err)
			return
		}
		scraped = data
	}()
	wg.Wait()

	if mozData == nil {
		mozData = map[string]any{}
	}
	if scraped == nil {
		scraped = map[string]any{}
	}

	return domain.CollectedData{
		"url":           url,
		"moz_data":      mozData,
		"scraped_data":  scraped,
		"technical_seo": technicalView(scraped),
	}
}

// technicalView is the scraped signal state the technical rules read.
// A shallow copy keeps the two top-level keys independent.
func technicalView(scraped map[string]any) map[string]any {
	view := make(map[string]any, len(scraped))
	for key, value := range scraped {
		view[key] = value
	}
	return view
}

func overviewOf(collected domain.CollectedData) map[string]any {
	return map[string]any{
		"domain_authority": collected.IntAt("moz_data", "metrics", "domain_authority"),
		"page_authority":   collected.IntAt("moz_data", "metrics", "page_authority"),
		"total_links":      collected.IntAt("moz_data", "metrics", "total_links"),
		"word_count":       collected.IntAt("scraped_data", "content", "word_count"),
	}
}

// seoScore is the weighted 0-100 blend of the three category scores.
func seoScore(collected domain.CollectedData) int {
	score := technicalScore(collected)*technicalWeight +
		contentScore(collected)*contentWeight +
		backlinkScore(collected)*backlinkWeight
	return int(score + 0.5)
}

func technicalScore(collected domain.CollectedData) float64 {
	score := 0.0
	if boolAt(collected, "scraped_data", "technical", "has_canonical") {
		score += 30
	}
	if boolAt(collected, "scraped_data", "technical", "has_viewport") {
		score += 30
	}
	if boolAt(collected, "scraped_data", "technical", "has_favicon") {
		score += 20
	}
	if collected.StringAt("scraped_data", "meta_tags", "title") != "" {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

func contentScore(collected domain.CollectedData) float64 {
	wordCount := collected.IntAt("scraped_data", "content", "word_count")
	switch {
	case wordCount >= 1000:
		return 100
	case wordCount >= 500:
		return 70
	case wordCount >= 200:
		return 40
	default:
		return 20
	}
}

func backlinkScore(collected domain.CollectedData) float64 {
	authority := collected.IntAt("moz_data", "metrics", "domain_authority")
	if authority > 100 {
		authority = 100
	}
	return float64(authority)
}

func boolAt(collected domain.CollectedData, path ...string) bool {
	parent := collected.MapAt(path[:len(path)-1]...)
	b, _ := parent[path[len(path)-1]].(bool)
	return b
}

func (p *Pipeline) publishDigest(ctx context.Context, report *domain.AnalysisReport) {
	if p.notifier == nil || report.Insights == nil {
		return
	}

	digest := fmt.Sprintf("SEO analysis for %s\nScore: %d/100\nInsights: %d (critical: %d)",
		report.URL,
		report.SEOScore,
		report.Insights.Summary.TotalInsights,
		report.Insights.Summary.CriticalIssues,
	)
	if err := p.notifier.PublishSummary(ctx, digest); err != nil {
		p.warn("publishing digest failed", "url", report.URL, "error", err)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
