// Package client is a typed Go client for the MasterSpeak analysis API.
// It validates inputs before issuing requests, classifies failures into a
// small error taxonomy, and never retries on its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"masterspeak/internal/model"
	"masterspeak/internal/redact"
	"masterspeak/internal/service"
)

const defaultTimeout = 30 * time.Second

// SearchQuery mirrors the server's search filters. Zero values mean "no
// constraint"; filters are AND-combined server-side.
type SearchQuery struct {
	Query        string
	MinClarity   *float64
	MaxClarity   *float64
	MinStructure *float64
	MaxStructure *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	Limit        int
}

// Client talks to one MasterSpeak API server on behalf of one user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout, traced
// transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API at baseURL authenticating with the given
// bearer token. Pass an empty token for anonymous share-view access only.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAnalysesPage fetches one page of the user's analyses, newest first.
func (c *Client) GetAnalysesPage(ctx context.Context, page, limit int) (*model.Page[model.AnalysisListItem], error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out model.Page[model.AnalysisListItem]
	if err := c.getJSON(ctx, "list_analyses", "/api/v1/analyses?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAnalysis fetches the full detail of one analysis owned by the caller.
func (c *Client) GetAnalysis(ctx context.Context, analysisID string) (*model.Analysis, error) {
	if analysisID == "" {
		return nil, &ValidationError{Field: "analysis_id", Reason: "must not be empty"}
	}

	var out model.Analysis
	if err := c.getJSON(ctx, "get_analysis", "/api/v1/analyses/"+url.PathEscape(analysisID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchAnalyses fetches one page of analyses matching the filters.
func (c *Client) SearchAnalyses(ctx context.Context, sq SearchQuery) (*model.Page[model.AnalysisListItem], error) {
	page, limit := sq.Page, sq.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = service.DefaultPageLimit
	}
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if sq.Query != "" {
		q.Set("q", sq.Query)
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	setFloat("min_clarity", sq.MinClarity)
	setFloat("max_clarity", sq.MaxClarity)
	setFloat("min_structure", sq.MinStructure)
	setFloat("max_structure", sq.MaxStructure)
	if sq.StartDate != nil {
		q.Set("start_date", sq.StartDate.Format(time.RFC3339))
	}
	if sq.EndDate != nil {
		q.Set("end_date", sq.EndDate.Format(time.RFC3339))
	}

	var out model.Page[model.AnalysisListItem]
	if err := c.getJSON(ctx, "search_analyses", "/api/v1/analyses/search?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateShareLink creates an anonymous share link for one of the caller's
// analyses. Pass expiresInDays 0 for the server default.
func (c *Client) CreateShareLink(ctx context.Context, analysisID string, expiresInDays int, includeTranscript bool) (*service.ShareLink, error) {
	if analysisID == "" {
		return nil, &ValidationError{Field: "analysis_id", Reason: "must not be empty"}
	}
	if expiresInDays < 0 || expiresInDays > service.MaxShareExpiryDays {
		return nil, &ValidationError{
			Field:  "expires_in_days",
			Reason: fmt.Sprintf("must be between 1 and %d", service.MaxShareExpiryDays),
		}
	}

	body, err := json.Marshal(map[string]any{
		"expires_in_days":    expiresInDays,
		"include_transcript": includeTranscript,
	})
	if err != nil {
		return nil, err
	}

	var out service.ShareLink
	path := "/api/v1/share/" + url.PathEscape(analysisID)
	if err := c.doJSON(ctx, "create_share_link", http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSharedAnalysis fetches the redacted shared view behind a share token.
// Works without a bearer token.
func (c *Client) GetSharedAnalysis(ctx context.Context, token string) (*model.SharedAnalysis, error) {
	if token == "" {
		return nil, &ValidationError{Field: "token", Reason: "must not be empty"}
	}

	var out model.SharedAnalysis
	if err := c.getJSON(ctx, "get_shared_analysis", "/api/v1/share/"+url.PathEscape(token), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportPDF downloads the PDF export of an analysis.
func (c *Client) ExportPDF(ctx context.Context, analysisID string, includeTranscript bool) ([]byte, error) {
	if analysisID == "" {
		return nil, &ValidationError{Field: "analysis_id", Reason: "must not be empty"}
	}

	q := url.Values{}
	q.Set("format", "pdf")
	q.Set("include_transcript", strconv.FormatBool(includeTranscript))
	path := "/api/v1/analyses/" + url.PathEscape(analysisID) + "/export?" + q.Encode()

	resp, err := c.do(ctx, "export_pdf", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp)
	}
	return io.ReadAll(resp.Body)
}

func validatePage(page, limit int) error {
	if page < 1 {
		return &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if limit < 1 || limit > service.MaxPageLimit {
		return &ValidationError{
			Field:  "limit",
			Reason: fmt.Sprintf("must be between 1 and %d", service.MaxPageLimit),
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	return c.doJSON(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body []byte, out any) error {
	resp, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// do issues one request. HTTP errors come back as a response; only
// transport failures return an error, wrapped as NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.String("url", redact.URL(c.baseURL+path)),
			zap.Duration("elapsed", elapsed),
			zap.String("error", redact.Error(err)),
		)
		return nil, &NetworkError{Op: op, Err: err}
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("url", redact.URL(c.baseURL+path)),
		zap.Duration("elapsed", elapsed),
		zap.Int("status", resp.StatusCode),
	)
	return resp, nil
}

type rateLimitBody struct {
	RetryAfter int `json:"retry_after"`
}

func (c *Client) responseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(0)
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		if retryAfter == 0 {
			var body rateLimitBody
			if json.NewDecoder(resp.Body).Decode(&body) == nil && body.RetryAfter > 0 {
				retryAfter = time.Duration(body.RetryAfter) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.NewDecoder(resp.Body).Decode(&payload) == nil {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
		apiErr.RequestID = payload.RequestID
	}
	return apiErr
}
