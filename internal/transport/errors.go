package transport

import "fmt"

// NotFoundError reports a provisioning URL that resolved to HTTP 404,
// typically an asset that does not exist for the host platform.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found (404): %s", e.URL)
}

// RateLimitError reports an API rate limit whose reset lies outside the
// cumulative retry budget.
type RateLimitError struct {
	MinutesUntilReset int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("API rate limit has been exceeded, retry after %d minutes.", e.MinutesUntilReset)
}

// StatusError reports a terminal, non-retryable HTTP status.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP response %d from %s", e.StatusCode, e.URL)
}
