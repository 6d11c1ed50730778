package truncation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"unicode/utf8"

	llmerrors "prassi/internal/llm/errors"
)

const (
	// SafetyFactor scales the limit/actual ratio so the retried body lands under the limit
	SafetyFactor = 0.8
	// FallbackRate is used when the provider did not report usable token counts
	FallbackRate = 0.5
)

// ErrShrinkExhausted is returned when a body cannot be shrunk any further
var ErrShrinkExhausted = errors.New("body could not be shrunk to fit the context window")

// ShrinkPolicy bounds the shrink-and-retry loop
type ShrinkPolicy struct {
	// MaxAttempts is the number of overflowing calls tolerated before giving up
	MaxAttempts int
	// MinLength is the smallest body, in characters, worth sending
	MinLength int
}

// DefaultShrinkPolicy returns the policy used when no configuration is supplied
func DefaultShrinkPolicy() ShrinkPolicy {
	return ShrinkPolicy{MaxAttempts: 8, MinLength: 1}
}

// ShrinkRate returns the fraction of a body to keep after an overflow of actual tokens against limit
func ShrinkRate(limit, actual int) float64 {
	if limit <= 0 || actual <= 0 || limit >= actual {
		return FallbackRate
	}
	return float64(limit) / float64(actual) * SafetyFactor
}

// Truncate keeps the first floor(len*rate) characters of body
func Truncate(body string, rate float64) string {
	if rate >= 1 {
		return body
	}
	if rate <= 0 {
		return ""
	}

	keep := int(math.Floor(float64(utf8.RuneCountInString(body)) * rate))
	for i := range body {
		if keep == 0 {
			return body[:i]
		}
		keep--
	}
	return body
}

// RetryWithShrink calls fn with body, truncating the body proportionally after every
// context window error and retrying. Any other error is returned unchanged.
func (p ShrinkPolicy) RetryWithShrink(ctx context.Context, body string, fn func(ctx context.Context, body string) (string, error)) (string, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultShrinkPolicy().MaxAttempts
	}
	minLength := max(p.MinLength, 1)

	for attempt := 1; ; attempt++ {
		result, err := fn(ctx, body)
		if err == nil {
			return result, nil
		}

		var cwErr *llmerrors.ContextWindowError
		if !errors.As(err, &cwErr) {
			return "", err
		}
		if attempt >= maxAttempts {
			return "", fmt.Errorf("%w after %d attempts: %w", ErrShrinkExhausted, attempt, err)
		}

		rate := ShrinkRate(cwErr.Limit, cwErr.Actual)
		before := utf8.RuneCountInString(body)
		shrunk := Truncate(body, rate)
		after := utf8.RuneCountInString(shrunk)
		if after < minLength || after >= before {
			return "", fmt.Errorf("%w at %d characters: %w", ErrShrinkExhausted, before, err)
		}

		slog.Warn("Context window exceeded, shrinking body",
			"attempt", attempt,
			"limit", cwErr.Limit,
			"actual", cwErr.Actual,
			"rate", rate,
			"from", before,
			"to", after)

		body = shrunk
	}
}
