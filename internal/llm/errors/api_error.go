package errors

import (
	"fmt"
	"net/http"
)

// APIError is any non-success model response that is neither a context overflow nor a throttle
type APIError struct {
	StatusCode int
	Provider   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// FromResponse classifies a non-2xx model response into one of the typed errors
func FromResponse(provider string, statusCode int, header http.Header, body []byte) error {
	switch {
	case IsContextWindowError(statusCode, body):
		return NewContextWindowError(provider, statusCode, body)
	case IsRateLimitError(statusCode, body):
		return NewRateLimitError(provider, header, body)
	default:
		return &APIError{StatusCode: statusCode, Provider: provider, Message: string(body)}
	}
}
