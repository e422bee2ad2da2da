package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SEOScanner/internal/config"
	"SEOScanner/internal/ports"
)

// Scraper collects on-page SEO signals: meta tags, heading structure,
// image and link counts, content volume, and technical markers.
type Scraper struct {
	client    *http.Client
	userAgent string
}

var _ ports.PageScraper = (*Scraper)(nil)

// NewScraper wires an HTTP client; timeout defaults to 20s.
func NewScraper(cfg config.ScraperConfig, client *http.Client) *Scraper {
	if client == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; SEOScanner/1.0)"
	}
	return &Scraper{client: client, userAgent: userAgent}
}

// Scrape fetches the page and extracts every signal group. The result is
// the loosely-shaped mapping the insight pipeline reads defensively.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (map[string]any, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", pageURL)
	}

	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"meta_tags": extractMetaTags(doc),
		"headings":  extractHeadings(doc),
		"images":    extractImages(doc),
		"links":     extractLinks(doc, parsed),
		"content":   extractContent(doc),
		"technical": extractTechnical(doc),
	}, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func extractMetaTags(doc *goquery.Document) map[string]any {
	tags := map[string]any{}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		tags["title"] = title
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		tags["meta_description"] = desc
	}
	if keywords, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		tags["meta_keywords"] = keywords
	}
	if viewport, ok := doc.Find(`meta[name="viewport"]`).Attr("content"); ok {
		tags["viewport"] = viewport
	}
	if charset, ok := doc.Find("meta[charset]").Attr("charset"); ok {
		tags["charset"] = charset
	}
	return tags
}

func extractHeadings(doc *goquery.Document) map[string]any {
	headings := map[string]any{}
	for level := 1; level <= 6; level++ {
		selector := fmt.Sprintf("h%d", level)
		headings[selector] = doc.Find(selector).Length()
	}
	return headings
}

func extractImages(doc *goquery.Document) map[string]any {
	images := doc.Find("img")
	missingAlt := 0
	missingSrc := 0
	images.Each(func(_ int, img *goquery.Selection) {
		if alt, ok := img.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			missingAlt++
		}
		if src, ok := img.Attr("src"); !ok || strings.TrimSpace(src) == "" {
			missingSrc++
		}
	})
	return map[string]any{
		"total_images": images.Length(),
		"missing_alt":  missingAlt,
		"missing_src":  missingSrc,
	}
}

func extractLinks(doc *goquery.Document, base *url.URL) map[string]any {
	internal := 0
	external := 0
	total := 0
	doc.Find("a").Each(func(_ int, link *goquery.Selection) {
		total++
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") || strings.Contains(href, base.Host) {
			internal++
		} else {
			external++
		}
	})
	return map[string]any{
		"internal_links": internal,
		"external_links": external,
		"total_links":    total,
	}
}

func extractContent(doc *goquery.Document) map[string]any {
	text := doc.Find("body").Text()
	return map[string]any{
		"word_count":          len(strings.Fields(text)),
		"paragraphs":          doc.Find("p").Length(),
		"has_structured_data": doc.Find(`script[type="application/ld+json"]`).Length() > 0,
	}
}

func extractTechnical(doc *goquery.Document) map[string]any {
	return map[string]any{
		"has_canonical": doc.Find(`link[rel="canonical"]`).Length() > 0,
		"has_favicon":   doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).Length() > 0,
		"has_viewport":  doc.Find(`meta[name="viewport"]`).Length() > 0,
	}
}
