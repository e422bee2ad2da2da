package moz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"SEOScanner/internal/config"
	"SEOScanner/internal/ports"
)

// Client fetches domain authority and backlink metrics from the Moz
// JSON-RPC API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
}

var _ ports.MetricsProvider = (*Client)(nil)

// NewClient creates a reusable, throttled HTTP client.
func NewClient(cfg config.MozConfig) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 2
	}

	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(rpm/60.0), 1),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result struct {
		SiteMetrics map[string]any `json:"site_metrics"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// DomainMetrics fetches and reshapes site metrics for the domain of the
// given URL. The returned map is loosely shaped on purpose: downstream
// consumers read it defensively.
func (c *Client) DomainMetrics(ctx context.Context, target string) (map[string]any, error) {
	if c.token == "" {
		return nil, fmt.Errorf("moz client misconfigured: missing token")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      fmt.Sprintf("seoscanner-%d", time.Now().UnixNano()),
		Method:  "data.site.metrics.fetch",
		Params: map[string]any{
			"data": map[string]any{
				"site_query": map[string]any{
					"query": domainOf(target),
					"scope": "domain",
				},
			},
		},
	}

	var resp rpcResponse
	if err := c.post(ctx, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("moz API error: %s", resp.Error.Message)
	}

	return reshapeMetrics(resp.Result.SiteMetrics), nil
}

func (c *Client) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-moz-token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// reshapeMetrics maps the raw RPC field names onto the names the rest of
// the pipeline reads.
func reshapeMetrics(site map[string]any) map[string]any {
	metrics := map[string]any{
		"domain_authority": site["domain_authority"],
		"page_authority":   site["page_authority"],
		"linking_domains":  site["root_domains_to_root_domain"],
		"total_links":      site["pages_to_root_domain"],
		"spam_score":       site["spam_score"],
		"last_crawled":     site["last_crawled"],
	}
	for key, value := range metrics {
		if value == nil {
			metrics[key] = 0
		}
	}
	if metrics["last_crawled"] == 0 {
		metrics["last_crawled"] = "N/A"
	}
	return map[string]any{"metrics": metrics}
}

// domainOf reduces a URL to its host; bare domains pass through.
func domainOf(target string) string {
	if !strings.Contains(target, "://") {
		return target
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return target
	}
	return parsed.Host
}
