package textapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// RateLimitError is the cause of a NetworkError when the API answered 429.
type RateLimitError struct {
	// RetryAfter is the server-requested delay, or 0 when absent.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("textapi: rate limited, retry after %s", e.RetryAfter)
	}
	return "textapi: rate limited"
}

// APIError represents a non-retryable error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("textapi: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsBadRequest checks if the error indicates the request was rejected.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusBadRequest
	}
	return false
}

// retryableStatus reports whether status is worth another attempt.
func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= 500
}
