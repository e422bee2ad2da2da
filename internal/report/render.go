// Package report renders analysis results as plain text for terminals
// and chat notifications.
package report

import (
	"fmt"
	"strings"

	"SEOScanner/internal/domain"
)

// Render produces the full text report for one analyzed URL.
func Render(r *domain.AnalysisReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "SEO Analysis: %s\n", r.URL)
	fmt.Fprintf(&sb, "Generated: %s\n", r.CollectedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Overall score: %d/100\n\n", r.SEOScore)

	if len(r.Overview) > 0 {
		sb.WriteString("Overview\n")
		fmt.Fprintf(&sb, "  domain authority: %v\n", r.Overview["domain_authority"])
		fmt.Fprintf(&sb, "  page authority:   %v\n", r.Overview["page_authority"])
		fmt.Fprintf(&sb, "  total links:      %v\n", r.Overview["total_links"])
		fmt.Fprintf(&sb, "  word count:       %v\n", r.Overview["word_count"])
		sb.WriteString("\n")
	}

	if r.Insights == nil {
		return sb.String()
	}

	writeSummary(&sb, r.Insights.Summary)
	writeActions(&sb, r.Insights.PriorityActions)

	for _, category := range domain.Categories() {
		writeSection(&sb, sectionTitle(category), r.Insights.ByCategory()[category])
	}

	if r.Insights.Error != "" {
		fmt.Fprintf(&sb, "Note: %s\n", r.Insights.Error)
	}
	return sb.String()
}

func writeSummary(sb *strings.Builder, s domain.Summary) {
	sb.WriteString("Summary\n")
	fmt.Fprintf(sb, "  insights:        %d\n", s.TotalInsights)
	fmt.Fprintf(sb, "  critical issues: %d\n", s.CriticalIssues)
	fmt.Fprintf(sb, "  technical score: %d\n", s.TechnicalScore)
	fmt.Fprintf(sb, "  content score:   %d\n", s.ContentScore)
	fmt.Fprintf(sb, "  backlink score:  %d\n", s.BacklinkScore)
	if s.EstimatedCost != "" {
		fmt.Fprintf(sb, "  estimated cost:  %s\n", s.EstimatedCost)
	}
	sb.WriteString("\n")
}

func writeActions(sb *strings.Builder, actions []domain.InsightRecord) {
	if len(actions) == 0 {
		return
	}
	sb.WriteString("Priority actions\n")
	for i, a := range actions {
		fmt.Fprintf(sb, "  %d. [%s] %s\n", i+1, a.Priority, a.Recommendation)
	}
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string, records []domain.InsightRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s\n", title)
	for _, r := range records {
		fmt.Fprintf(sb, "  - %s", r.Recommendation)
		if r.CostEstimate != "" {
			fmt.Fprintf(sb, " (est. %s)", r.CostEstimate)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func sectionTitle(c domain.Category) string {
	switch c {
	case domain.CategoryTechnical:
		return "Technical"
	case domain.CategoryContent:
		return "Content"
	case domain.CategoryBacklink:
		return "Backlinks"
	default:
		return "Strategy"
	}
}
