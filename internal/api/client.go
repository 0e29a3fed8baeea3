package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarsync/scholarsync/internal/domain"
)

const (
	// DefaultBaseURL is the default base URL for the backend API.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default client-side rate limit in requests per second.
	DefaultRateLimit = 10.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 10

	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "ScholarSync-Client/1.0"

	// maxResponseBody limits response body reads to prevent resource exhaustion.
	maxResponseBody = 10 << 20
)

// Config contains configuration options for the backend client.
type Config struct {
	// BaseURL is the base URL of the backend API.
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Timeout is the HTTP request timeout.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to DefaultRateLimit if zero.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to DefaultBurstSize if zero.
	BurstSize int

	// UserAgent is the User-Agent header sent with requests.
	// Defaults to DefaultUserAgent if empty.
	UserAgent string
}

// Client is the typed HTTP client for the ScholarSync backend. Requests pass
// through a client-side rate limiter; the client never retries on its own —
// retry is a user action surfaced by the views.
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
	config      Config
	logger      zerolog.Logger
}

// NewClient creates a new backend client with the given configuration.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.BurstSize),
		config:      cfg,
		logger:      logger.With().Str("component", "api-client").Logger(),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Search queries the backend for papers matching the query across the given
// databases. A blank query is rejected client-side without issuing a request.
func (c *Client) Search(ctx context.Context, query string, databases []string) ([]domain.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewValidationError("query", "Search query cannot be empty")
	}

	var resp searchResponse
	err := c.postJSON(ctx, "/api/search", searchRequest{
		Query:     query,
		Databases: databases,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("searching papers: %w", err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(resp.Results)).
		Msg("search completed")

	return resp.Results, nil
}

// ListPapers retrieves the saved papers, optionally restricted to one reading
// list.
func (c *Client) ListPapers(ctx context.Context, readingListID *int64) ([]domain.Paper, error) {
	path := "/api/papers"
	if readingListID != nil {
		q := url.Values{}
		q.Set("reading_list_id", strconv.FormatInt(*readingListID, 10))
		path += "?" + q.Encode()
	}

	var resp papersResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	return resp.Papers, nil
}

// GetPaper retrieves a single paper by ID. The ID is percent-encoded for the
// path segment; DOIs contain '/'.
func (c *Client) GetPaper(ctx context.Context, id string) (domain.Paper, error) {
	var resp paperEnvelope
	err := c.getJSON(ctx, "/api/papers/"+url.PathEscape(id), &resp)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.Paper{}, domain.NewNotFoundError("paper", id)
		}
		return domain.Paper{}, fmt.Errorf("fetching paper %s: %w", id, err)
	}
	return resp.Paper, nil
}

// SavePaper saves a paper, optionally into a reading list. A nil readingListID
// files the paper in the general collection (serialized as an explicit null).
func (c *Client) SavePaper(ctx context.Context, paper domain.Paper, readingListID *int64) error {
	err := c.postJSON(ctx, "/api/papers/save", savePaperRequest{
		Paper:         paper,
		ReadingListID: readingListID,
	}, nil)
	if err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	return nil
}

// DeletePaper removes a saved paper. The ID travels percent-encoded in the
// query string.
func (c *Client) DeletePaper(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("paper_id", id)

	if err := c.deleteRequest(ctx, "/api/papers?"+q.Encode()); err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	return nil
}

// DownloadURL builds the PDF passthrough link for a paper. The link is handed
// to the user, never fetched programmatically.
func (c *Client) DownloadURL(id string) string {
	return c.config.BaseURL + "/api/papers/download/" + url.PathEscape(id)
}

// Citation fetches the paper's citation rendered in the given format.
func (c *Client) Citation(ctx context.Context, id string, format domain.CitationFormat) (string, error) {
	if !domain.IsValidCitationFormat(format) {
		return "", domain.NewValidationError("format", fmt.Sprintf("unsupported citation format: %s", format))
	}

	q := url.Values{}
	q.Set("format", string(format))
	path := "/api/papers/" + url.PathEscape(id) + "/citation?" + q.Encode()

	var resp citationResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("fetching citation: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Failed to generate citation"
		}
		return "", domain.NewAPIError(http.StatusOK, msg, nil)
	}
	return resp.Citation, nil
}

// Related fetches the backend's AI-ranked related papers for the given paper.
func (c *Client) Related(ctx context.Context, id string) ([]domain.RelatedPaper, error) {
	var resp relatedResponse
	if err := c.getJSON(ctx, "/api/papers/"+url.PathEscape(id)+"/related", &resp); err != nil {
		return nil, fmt.Errorf("fetching related papers: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Invalid response"
		}
		return nil, domain.NewAPIError(http.StatusOK, msg, nil)
	}
	return resp.Related, nil
}

// ListReadingLists retrieves all reading lists.
func (c *Client) ListReadingLists(ctx context.Context) ([]domain.ReadingList, error) {
	var resp readingListsResponse
	if err := c.getJSON(ctx, "/api/reading-lists", &resp); err != nil {
		return nil, fmt.Errorf("listing reading lists: %w", err)
	}
	return resp.Lists, nil
}

// GetReadingList retrieves a single reading list by ID.
func (c *Client) GetReadingList(ctx context.Context, id int64) (domain.ReadingList, error) {
	var list domain.ReadingList
	err := c.getJSON(ctx, "/api/reading-lists/"+strconv.FormatInt(id, 10), &list)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.ReadingList{}, domain.NewNotFoundError("reading list", strconv.FormatInt(id, 10))
		}
		return domain.ReadingList{}, fmt.Errorf("fetching reading list %d: %w", id, err)
	}
	return list, nil
}

// CreateReadingList creates a reading list and returns the created entity.
func (c *Client) CreateReadingList(ctx context.Context, name, description string) (domain.ReadingList, error) {
	var list domain.ReadingList
	err := c.postJSON(ctx, "/api/reading-lists", createListRequest{
		Name:        name,
		Description: description,
	}, &list)
	if err != nil {
		return domain.ReadingList{}, fmt.Errorf("creating reading list: %w", err)
	}
	return list, nil
}

// DeleteReadingList deletes a reading list. Saved papers are unassigned, not
// removed.
func (c *Client) DeleteReadingList(ctx context.Context, id int64) error {
	if err := c.deleteRequest(ctx, "/api/reading-lists/"+strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("deleting reading list %d: %w", id, err)
	}
	return nil
}

// RandomQuote fetches the landing-screen quote.
func (c *Client) RandomQuote(ctx context.Context) (string, error) {
	var resp quoteResponse
	if err := c.getJSON(ctx, "/api/random-quote", &resp); err != nil {
		return "", fmt.Errorf("fetching quote: %w", err)
	}
	return resp.Data.Quote, nil
}

// Health checks backend availability.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.Status != "healthy" {
		return domain.ErrServiceUnavailable
	}
	return nil
}

// getJSON issues a GET request and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

// postJSON issues a POST request with a JSON body and decodes the response
// into out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// deleteRequest issues a DELETE request, discarding any response body.
func (c *Client) deleteRequest(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// do executes a request after waiting for the rate limiter, maps non-2xx
// responses to domain errors, and decodes the body into out when given.
func (c *Client) do(req *http.Request, out any) error {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorFromResponse builds a domain.APIError from a non-2xx response,
// preferring the server-supplied detail message.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var detail string
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body); err == nil {
		detail = body.Detail
	}

	var cause error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		cause = domain.ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		cause = domain.ErrForbidden
	case resp.StatusCode == http.StatusUnauthorized:
		cause = domain.ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		cause = domain.ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		cause = domain.ErrInvalidInput
	case resp.StatusCode >= 500:
		cause = domain.ErrServiceUnavailable
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("detail", detail).
		Str("url", resp.Request.URL.String()).
		Msg("backend request failed")

	return domain.NewAPIError(resp.StatusCode, detail, cause)
}

