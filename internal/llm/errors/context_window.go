package errors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ContextWindowError represents an error when the LLM's context window is exceeded.
// Limit and Actual are the token counts reported by the provider; either is 0 when
// the provider message did not carry it.
type ContextWindowError struct {
	StatusCode int
	Message    string
	Provider   string
	Limit      int
	Actual     int
}

func (e *ContextWindowError) Error() string {
	if e.Limit > 0 && e.Actual > 0 {
		return fmt.Sprintf("context window exceeded for %s (status %d): %d tokens requested, limit %d", e.Provider, e.StatusCode, e.Actual, e.Limit)
	}
	return fmt.Sprintf("context window exceeded for %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

var contextWindowIndicators = []string{
	"context length",
	"context window",
	"context_length_exceeded",
	"token limit",
	"maximum context",
	"input too large",
	"prompt is too long",
	"prompt too long",
	"maximum tokens",
	"maximum number of tokens",
	"exceeds maximum",
	"too many tokens",
}

// IsContextWindowError checks if an HTTP response indicates a context window error
func IsContextWindowError(statusCode int, body []byte) bool {
	if statusCode != 400 && statusCode != 413 {
		return false
	}

	bodyStr := strings.ToLower(string(body))
	for _, indicator := range contextWindowIndicators {
		if strings.Contains(bodyStr, indicator) {
			return true
		}
	}

	return false
}

var (
	// "maximum context length is 8192 tokens. However, your messages resulted in 9000 tokens"
	openAILimitPattern = regexp.MustCompile(`(?is)maximum context length is (\d+) tokens.*?(?:resulted in|requested) (\d+) tokens`)
	// "prompt is too long: 210000 tokens > 200000 maximum"
	claudeLimitPattern = regexp.MustCompile(`(?i)prompt is too long: (\d+) tokens > (\d+) maximum`)
	// "input token count (1200000) exceeds the maximum number of tokens allowed (1048576)"
	geminiLimitPattern = regexp.MustCompile(`(?i)input token count \((\d+)\) exceeds the maximum number of tokens allowed \((\d+)\)`)
)

// ParseTokenCounts extracts the (limit, actual) token counts from a provider error message.
// It returns zeros when the message does not carry them.
func ParseTokenCounts(message string) (limit, actual int) {
	if m := openAILimitPattern.FindStringSubmatch(message); m != nil {
		return atoi(m[1]), atoi(m[2])
	}
	if m := claudeLimitPattern.FindStringSubmatch(message); m != nil {
		return atoi(m[2]), atoi(m[1])
	}
	if m := geminiLimitPattern.FindStringSubmatch(message); m != nil {
		return atoi(m[2]), atoi(m[1])
	}
	return 0, 0
}

// NewContextWindowError builds a ContextWindowError from an error response body
func NewContextWindowError(provider string, statusCode int, body []byte) *ContextWindowError {
	message := string(body)
	limit, actual := ParseTokenCounts(message)
	return &ContextWindowError{
		StatusCode: statusCode,
		Message:    message,
		Provider:   provider,
		Limit:      limit,
		Actual:     actual,
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
