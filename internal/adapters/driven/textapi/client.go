package textapi

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

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/logger"
)

// Ensure Client implements the source interfaces.
var (
	_ driven.ContentSource = (*Client)(nil)
	_ driven.TOCSource     = (*Client)(nil)
)

const (
	// DefaultBaseURL is used when no API URL is configured.
	DefaultBaseURL = "https://api.lectern.app/api/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the backoff unit; attempt n waits n*RetryDelay.
	RetryDelay = 500 * time.Millisecond

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Client talks to the text API over HTTP.
type Client struct {
	baseURL     string
	http        *http.Client
	rateLimiter *RateLimiter
	retryDelay  time.Duration
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit sets the proactive request rate. Zero disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(perSecond, burst)
	}
}

// WithRetryDelay sets the linear backoff unit.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(DefaultRate, DefaultBurst),
		retryDelay:  RetryDelay,
		userAgent:   "lectern",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage returns the page anchored at req.Anchor in req.Direction.
func (c *Client) FetchPage(ctx context.Context, req domain.PageRequest) (*domain.ContentPage, error) {
	if req.TextID == "" {
		return nil, fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}
	dir := req.Direction
	if dir == "" {
		dir = domain.DirectionNext
	}

	body, err := json.Marshal(detailsRequest{
		ContentID: req.ContentID,
		SegmentID: req.Anchor,
		VersionID: req.VersionID,
		Direction: dir.String(),
		Size:      req.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("encode page request: %w", err)
	}

	endpoint := c.baseURL + "/texts/" + url.PathEscape(req.TextID) + "/details"
	var resp detailsResponse
	err = c.do(ctx, "fetch page", http.MethodPost, endpoint, body, &resp)
	if err != nil {
		return nil, c.notFound(err, req)
	}

	return &domain.ContentPage{
		Anchor:                 req.Anchor,
		Direction:              dir,
		Sections:               toSections(resp.Content.Sections),
		CurrentSegmentPosition: resp.CurrentSegmentPosition,
		TotalSegments:          resp.TotalSegments,
		TextDetail:             resp.TextDetail.toDomain(),
	}, nil
}

// FetchContents returns one limit/skip window of the table of contents.
func (c *Client) FetchContents(ctx context.Context, req domain.TOCRequest) (*domain.TOCPage, error) {
	if req.TextID == "" {
		return nil, fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}

	q := url.Values{}
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	q.Set("skip", strconv.Itoa(req.Skip))
	endpoint := c.baseURL + "/texts/" + url.PathEscape(req.TextID) + "/contents?" + q.Encode()

	var resp contentsResponse
	if err := c.do(ctx, "fetch contents", http.MethodGet, endpoint, nil, &resp); err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, &domain.NotFoundError{Anchor: req.TextID, Resource: "text"}
		}
		return nil, err
	}

	page := &domain.TOCPage{TextDetail: resp.TextDetail.toDomain()}
	for _, content := range resp.Contents {
		page.Contents = append(page.Contents, domain.TOCContent{
			ID:       content.ID,
			Sections: toSections(content.Sections),
		})
	}
	return page, nil
}

// notFound names the anchor that could not be resolved.
func (c *Client) notFound(err error, req domain.PageRequest) error {
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return err
	}
	if req.Anchor == "" {
		return &domain.NotFoundError{Anchor: req.TextID, Resource: "text"}
	}
	return &domain.NotFoundError{Anchor: req.Anchor, Resource: "segment"}
}

// do sends a request, retrying transient failures, and decodes a JSON
// response into out.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			var rl *RateLimitError
			if errors.As(lastErr, &rl) && rl.RetryAfter > delay {
				delay = rl.RetryAfter
			}
			logger.Debug("%s: retry %d/%d in %s: %v", op, attempt, MaxRetries, delay, lastErr)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		err := c.once(ctx, op, method, endpoint, body, out)
		if err == nil {
			return nil
		}
		if !domain.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: c.rateLimiter.CheckRateLimit(resp)}
	case retryableStatus(resp.StatusCode):
		return &domain.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(errorMessage(resp))}
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp), URL: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage extracts a readable message from an error response.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var e errorResponse
	if json.Unmarshal(data, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Detail != "" {
			return e.Detail
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
