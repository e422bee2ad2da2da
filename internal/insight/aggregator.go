package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"SEOScanner/internal/domain"
	"SEOScanner/internal/ports"
)

const (
	sourceCallTimeout   = 30 * time.Second
	similarCaseBar      = 0.5
	similarCaseFetchMax = 5
)

// Aggregator orchestrates the rule engine, the similarity search, and the
// completion client into one InsightBundle per analysis. All three
// collaborators are injected; any of them may be nil, in which case that
// source simply contributes nothing.
type Aggregator struct {
	rules      ports.RecommendationEngine
	similarity ports.SimilaritySearch
	completion ports.CompletionClient
	logger     *slog.Logger
}

// NewAggregator wires the three insight sources.
func NewAggregator(rules ports.RecommendationEngine, similarity ports.SimilaritySearch, completion ports.CompletionClient, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		rules:      rules,
		similarity: similarity,
		completion: completion,
		logger:     logger,
	}
}

// sourceResults joins the fan-out: results are stored per source so merge
// order is fixed (rule engine before LLM before similarity) no matter
// which call completes first.
type sourceResults struct {
	rules    map[domain.Category][]domain.InsightRecord
	llm      CanonicalShape
	similar  []domain.SimilarCase
	failures []string
}

// GenerateInsights builds the bundle for one analysis. It never returns
// an error and never panics: source failures degrade that source to empty,
// and when every source fails the bundle is built purely from the
// deterministic fallback rules with a non-fatal Error string.
func (a *Aggregator) GenerateInsights(ctx context.Context, collected domain.CollectedData) *domain.InsightBundle {
	results := a.collectSources(ctx, collected)

	bundle := &domain.InsightBundle{GeneratedAt: time.Now()}

	if len(results.failures) == 3 {
		a.warn("all insight sources failed, serving rule-based fallback only")
		a.fallbackBundle(bundle, collected)
		bundle.Error = strings.Join(results.failures, "; ")
		return bundle
	}

	ruleRecords := results.rules
	bundle.Technical = Merge(ruleRecords[domain.CategoryTechnical], results.llm.Technical)
	bundle.Content = Merge(ruleRecords[domain.CategoryContent], results.llm.Content)

	caseRecords := similarCaseRecords(results.similar)
	bundle.Backlink = Merge(ruleRecords[domain.CategoryBacklink], results.llm.Backlink, caseRecords[domain.CategoryBacklink])
	bundle.Strategic = Merge(results.llm.Strategic, caseRecords[domain.CategoryStrategic])
	bundle.SimilarCases = results.similar

	bundle.PriorityActions = SelectActions(bundle.ByCategory(), collected)
	bundle.Summary = Summarize(bundle)

	a.storeEmbeddings(ctx, collected)
	return bundle
}

// collectSources fans out the three independent source calls and joins
// them. Each call gets its own timeout; a timed-out or failed source is
// recorded and treated as empty.
func (a *Aggregator) collectSources(ctx context.Context, collected domain.CollectedData) sourceResults {
	results := sourceResults{rules: map[domain.Category][]domain.InsightRecord{}}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	fail := func(source string, err error) {
		mu.Lock()
		results.failures = append(results.failures, fmt.Sprintf("%s: %v", source, err))
		mu.Unlock()
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		records, err := a.ruleEngineRecords(ctx, collected)
		if err != nil {
			a.warn("rule engine failed", "error", err)
			fail("rule_engine", err)
			return
		}
		mu.Lock()
		results.rules = records
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		shape, err := a.llmShape(ctx, collected)
		if err != nil {
			a.warn("llm analysis failed", "error", err)
			fail("llm", err)
			return
		}
		mu.Lock()
		results.llm = shape
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		cases, err := a.similarCases(ctx, collected)
		if err != nil {
			a.warn("similarity search failed", "error", err)
			fail("similarity", err)
			return
		}
		mu.Lock()
		results.similar = cases
		mu.Unlock()
	}()

	wg.Wait()
	return results
}

// ruleEngineRecords queries the rule engine for the three data-backed
// categories and normalizes its loosely shaped output.
func (a *Aggregator) ruleEngineRecords(ctx context.Context, collected domain.CollectedData) (map[domain.Category][]domain.InsightRecord, error) {
	records := map[domain.Category][]domain.InsightRecord{}
	if a.rules == nil {
		return records, fmt.Errorf("rule engine not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, sourceCallTimeout)
	defer cancel()

	queries := []struct {
		category domain.Category
		metrics  map[string]any
	}{
		{domain.CategoryTechnical, collected.MapAt("technical_seo")},
		{domain.CategoryContent, contentMetrics(collected)},
		{domain.CategoryBacklink, backlinkMetrics(collected)},
	}

	var lastErr error
	succeeded := false
	for _, q := range queries {
		raw, err := a.rules.Recommendations(callCtx, string(q.category), q.metrics)
		if err != nil {
			lastErr = err
			continue
		}
		succeeded = true
		records[q.category] = ruleRecordsFromMaps(raw, q.category)
	}

	if !succeeded && lastErr != nil {
		return records, lastErr
	}
	return records, nil
}

// contentMetrics prefers scraped_data but falls back to the legacy
// content_data key older collectors emitted.
func contentMetrics(collected domain.CollectedData) map[string]any {
	if m := collected.MapAt("scraped_data"); len(m) > 0 {
		return m
	}
	return collected.MapAt("content_data")
}

func backlinkMetrics(collected domain.CollectedData) map[string]any {
	if m := collected.MapAt("moz_data"); len(m) > 0 {
		return m
	}
	return collected.MapAt("backlink_data")
}

// ruleRecordsFromMaps converts the loosely-shaped engine output into
// validated records. Items without recommendation text are dropped.
func ruleRecordsFromMaps(raw []map[string]any, category domain.Category) []domain.InsightRecord {
	records := make([]domain.InsightRecord, 0, len(raw))
	for _, item := range raw {
		rec := strings.TrimSpace(coerceString(item["recommendation"]))
		if rec == "" {
			continue
		}

		metric, _ := item["metric"].(string)
		if metric == "" {
			metric = "general"
		}
		priority := domain.PriorityMedium
		if p, ok := item["priority"].(string); ok && p != "" {
			priority = domain.Priority(strings.ToLower(p))
		}
		description, _ := item["description"].(string)
		cost, _ := item["estimated_cost"].(string)

		records = append(records, domain.InsightRecord{
			Category:       category,
			Metric:         metric,
			Recommendation: rec,
			Priority:       priority,
			Impact:         CoerceUnit(item["impact"], neutralScore),
			Confidence:     CoerceUnit(item["confidence"], neutralScore),
			Source:         domain.SourceRuleEngine,
			Description:    description,
			CostEstimate:   cost,
		})
	}
	return records
}

// llmShape prompts the completion client and parses whatever comes back.
// A non-JSON or empty completion is "no insights", not an error.
func (a *Aggregator) llmShape(ctx context.Context, collected domain.CollectedData) (CanonicalShape, error) {
	if a.completion == nil {
		return CanonicalShape{}, fmt.Errorf("completion client not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, sourceCallTimeout)
	defer cancel()

	raw, err := a.completion.Complete(callCtx, analysisPrompt(collected))
	if err != nil {
		return CanonicalShape{}, err
	}
	return ParseLLMResponse(raw), nil
}

// similarCases queries the vector index for prior analyses.
func (a *Aggregator) similarCases(ctx context.Context, collected domain.CollectedData) ([]domain.SimilarCase, error) {
	if a.similarity == nil {
		return nil, fmt.Errorf("similarity search not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, sourceCallTimeout)
	defer cancel()

	return a.similarity.FindSimilar(callCtx, collected, similarCaseFetchMax)
}

// similarCaseRecords converts cases above the similarity bar into
// insight records, split between the backlink and strategic buckets by
// the category tag stored with the case.
func similarCaseRecords(cases []domain.SimilarCase) map[domain.Category][]domain.InsightRecord {
	records := map[domain.Category][]domain.InsightRecord{}
	for _, c := range cases {
		if c.SimilarityScore <= similarCaseBar {
			continue
		}
		content := strings.TrimSpace(c.Content)
		if content == "" {
			continue
		}

		category := domain.CategoryStrategic
		if strings.EqualFold(c.Category, string(domain.CategoryBacklink)) {
			category = domain.CategoryBacklink
		}

		records[category] = append(records[category], domain.InsightRecord{
			Category:       category,
			Metric:         "similar_case",
			Recommendation: content,
			Priority:       domain.PriorityMedium,
			Impact:         CoerceUnit(c.SimilarityScore, neutralScore),
			Confidence:     CoerceUnit(c.SimilarityScore, neutralScore),
			Source:         domain.SourceSimilarity,
		})
	}
	return records
}

// fallbackBundle fills every category from the deterministic rules.
func (a *Aggregator) fallbackBundle(bundle *domain.InsightBundle, collected domain.CollectedData) {
	fallback := FallbackActions(collected)
	for _, record := range fallback {
		switch record.Category {
		case domain.CategoryTechnical:
			bundle.Technical = append(bundle.Technical, record)
		case domain.CategoryContent:
			bundle.Content = append(bundle.Content, record)
		case domain.CategoryBacklink:
			bundle.Backlink = append(bundle.Backlink, record)
		case domain.CategoryStrategic:
			bundle.Strategic = append(bundle.Strategic, record)
		}
	}
	bundle.PriorityActions = fallback
	bundle.Summary = Summarize(bundle)
}

// storeEmbeddings appends this analysis to the vector index.
// Fire-and-forget: failures are logged, never raised.
func (a *Aggregator) storeEmbeddings(ctx context.Context, collected domain.CollectedData) {
	if a.similarity == nil {
		return
	}
	if err := a.similarity.AddEmbeddings(ctx, collected, "analysis"); err != nil {
		a.warn("storing analysis embeddings failed", "error", err)
	}
}

// analysisPrompt builds the structured completion prompt from the leaf
// fields the model needs, keeping the payload small.
func analysisPrompt(collected domain.CollectedData) string {
	var sb strings.Builder
	sb.WriteString("You are an expert SEO analyst. Analyze the following site signals ")
	sb.WriteString("and respond with a single JSON object using the keys ")
	sb.WriteString(`"recommendations" (technical fixes), "improvements" (content changes) `)
	sb.WriteString(`and "actionable_steps" (strategic moves), each a list of short strings. `)
	sb.WriteString("Return JSON only, no markdown fences.\n\n")

	fmt.Fprintf(&sb, "meta description: %q\n", collected.StringAt("scraped_data", "meta_tags", "meta_description"))
	fmt.Fprintf(&sb, "title: %q\n", collected.StringAt("scraped_data", "meta_tags", "title"))
	fmt.Fprintf(&sb, "word count: %s\n", strconv.Itoa(collected.IntAt("scraped_data", "content", "word_count")))
	fmt.Fprintf(&sb, "total links: %s\n", strconv.Itoa(collected.IntAt("moz_data", "metrics", "total_links")))
	fmt.Fprintf(&sb, "domain authority: %s\n", strconv.Itoa(collected.IntAt("moz_data", "metrics", "domain_authority")))
	fmt.Fprintf(&sb, "linking domains: %s\n", strconv.Itoa(collected.IntAt("moz_data", "metrics", "linking_domains")))
	return sb.String()
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
