package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/factlab/veracity/internal/cache"
	"github.com/factlab/veracity/internal/model"
	"github.com/factlab/veracity/internal/worker"
)

const (
	googleEndpoint = "https://www.googleapis.com/customsearch/v1"
	userAgent      = "veracity/1.0 (+https://github.com/factlab/veracity)"

	// maxQueryRunes bounds the query sent upstream; longer claims lose
	// nothing except search specificity.
	maxQueryRunes = 256
	maxBodyBytes  = 1 << 20
)

// Deps are the collaborators a GoogleClient uses. Every field is optional;
// nil disables the corresponding behavior, which keeps tests small.
type Deps struct {
	Transport http.RoundTripper // nil uses http.DefaultTransport
	Limiter   *worker.Limiter   // nil disables rate limiting
	Store     cache.Cache       // nil disables response caching
	Quota     *QuotaGuard       // nil disables the daily quota guard
	Logger    *slog.Logger      // nil uses slog.Default()
	Endpoint  string            // override for tests and mirrors
}

// GoogleClient implements Client against Google Programmable Search.
type GoogleClient struct {
	apiKey     string
	cx         string
	endpoint   string
	httpClient *http.Client
	limiter    *worker.Limiter
	quota      *QuotaGuard
	store      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewGoogleClient creates a search client for Google Programmable Search.
func NewGoogleClient(cfg model.SearchConfig, deps Deps) *GoogleClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	endpoint := deps.Endpoint
	if endpoint == "" {
		endpoint = googleEndpoint
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GoogleClient{
		apiKey: cfg.APIKey,
		cx:     cfg.CX,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: deps.Transport,
		},
		endpoint: endpoint,
		limiter:  deps.Limiter,
		quota:    deps.Quota,
		store:    deps.Store,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title       string `json:"title"`
	HTMLTitle   string `json:"htmlTitle"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	HTMLSnippet string `json:"htmlSnippet"`
	DisplayLink string `json:"displayLink"`
}

type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Search queries Google Programmable Search and maps the result items to
// documents. Responses are cached by query; real API calls draw from the
// shared rate limiter and the daily quota.
func (c *GoogleClient) Search(ctx context.Context, query string, numResults int) ([]model.Document, error) {
	query = truncateQuery(query)
	if numResults <= 0 || numResults > MaxResults {
		numResults = MaxResults
	}

	cacheKey := cache.QueryKey("google", query, strconv.Itoa(numResults))
	if c.store != nil {
		if data, found := c.store.Get(cacheKey); found {
			var docs []model.Document
			if err := json.Unmarshal(data, &docs); err == nil {
				c.logger.Debug("search cache hit", "query", query)
				return docs, nil
			}
		}
	}

	if err := c.quota.Reserve(); err != nil {
		return nil, &SearchError{Op: "google.search", Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, worker.ServiceSearch); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	docs, err := c.doSearch(ctx, query, numResults)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if data, err := json.Marshal(docs); err == nil {
			_ = c.store.Set(cacheKey, data, c.cacheTTL)
		}
	}

	return docs, nil
}

func (c *GoogleClient) doSearch(ctx context.Context, query string, numResults int) ([]model.Document, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Op: "google.search", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &SearchError{Op: "google.search", Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &SearchError{Op: "google.search", Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	docs := make([]model.Document, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		title := item.Title
		if title == "" {
			title = stripTags(item.HTMLTitle)
		}
		snippet := item.Snippet
		if snippet == "" {
			snippet = stripTags(item.HTMLSnippet)
		}
		docs = append(docs, model.Document{
			Title:       title,
			Link:        item.Link,
			Snippet:     snippet,
			DisplayLink: item.DisplayLink,
		})
	}

	c.logger.Debug("search completed", "query", query, "results", len(docs))
	return docs, nil
}

// statusError maps an API error response to the search error taxonomy.
func (c *GoogleClient) statusError(status int, body []byte) *SearchError {
	var apiErr googleError
	_ = json.Unmarshal(body, &apiErr)

	reason := apiErr.Error.Message
	for _, e := range apiErr.Error.Errors {
		reason += " " + e.Reason
	}
	reason = strings.ToLower(reason)

	se := &SearchError{Op: "google.search", Status: status}
	switch {
	case strings.Contains(reason, "daily") || strings.Contains(reason, "quota"):
		se.Err = ErrQuotaExhausted
	case status == http.StatusTooManyRequests:
		se.Err = ErrRateLimited
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		se.Err = ErrBadCredentials
	default:
		se.Err = fmt.Errorf("unexpected status %d: %s", status, apiErr.Error.Message)
	}
	return se
}

// truncateQuery bounds the query length, cutting at the last word boundary
// that fits.
func truncateQuery(query string) string {
	query = strings.TrimSpace(query)
	runes := []rune(query)
	if len(runes) <= maxQueryRunes {
		return query
	}
	cut := string(runes[:maxQueryRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// stripTags removes markup from html-decorated API fields (htmlTitle,
// htmlSnippet), keeping text content with entities decoded.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
