package errors

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultRetryAfter is used when a 429 response carries no usable wait hint
const DefaultRetryAfter = 20 * time.Second

// RateLimitError represents a throttled request. RetryAfter is the wait the provider asked for.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s, retry after %s", e.Provider, e.RetryAfter)
}

// "Please try again in 20s." / "try again in 1.5s" / "try again in 350ms" / "try again in 6m0s"
var retryHintPattern = regexp.MustCompile(`(?i)try again in ((?:\d+h)?(?:\d+m)?\d+(?:\.\d+)?(?:ms|s)|(?:\d+h)?\d+(?:\.\d+)?m)\b`)

// IsRateLimitError reports whether a response is a retryable throttle.
// Exhausted billing quota is reported with 429 too but never clears by waiting.
func IsRateLimitError(statusCode int, body []byte) bool {
	if statusCode != http.StatusTooManyRequests {
		return false
	}
	return !strings.Contains(strings.ToLower(string(body)), "insufficient_quota")
}

// NewRateLimitError builds a RateLimitError from the Retry-After header or the body hint
func NewRateLimitError(provider string, header http.Header, body []byte) *RateLimitError {
	return &RateLimitError{
		Provider:   provider,
		RetryAfter: ParseRetryAfter(header, string(body)),
		Message:    string(body),
	}
}

// ParseRetryAfter returns the wait requested by a throttled response, defaulting to DefaultRetryAfter
func ParseRetryAfter(header http.Header, message string) time.Duration {
	if header != nil {
		if v := strings.TrimSpace(header.Get("Retry-After")); v != "" {
			if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
				return time.Duration(secs * float64(time.Second))
			}
			if at, err := http.ParseTime(v); err == nil {
				if wait := time.Until(at); wait > 0 {
					return wait.Round(time.Second)
				}
				return 0
			}
		}
	}

	if m := retryHintPattern.FindStringSubmatch(message); m != nil {
		if d, err := time.ParseDuration(strings.ToLower(m[1])); err == nil {
			return d
		}
	}

	return DefaultRetryAfter
}
