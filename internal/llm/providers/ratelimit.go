package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	llmerrors "prassi/internal/llm/errors"
)

// RateLimitMargin is added to every provider-supplied wait
const RateLimitMargin = 5 * time.Second

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type rateLimitedClient struct {
	next  LLMClient
	sleep SleepFunc
}

// WithRateLimitBackoff wraps client so that throttled requests are reissued unchanged
// after RetryAfter plus RateLimitMargin, with no retry limit
func WithRateLimitBackoff(client LLMClient) LLMClient {
	return WithRateLimitBackoffSleep(client, sleepContext)
}

// WithRateLimitBackoffSleep is WithRateLimitBackoff with a custom sleep function
func WithRateLimitBackoffSleep(client LLMClient, sleep SleepFunc) LLMClient {
	return &rateLimitedClient{next: client, sleep: sleep}
}

func (c *rateLimitedClient) Name() string {
	return c.next.Name()
}

func (c *rateLimitedClient) Complete(ctx context.Context, messages []Message) (string, error) {
	for {
		result, err := c.next.Complete(ctx, messages)
		if !isRateLimited(err) {
			return result, err
		}
		if err := c.backoff(ctx, err); err != nil {
			return "", err
		}
	}
}

func (c *rateLimitedClient) ListModels(ctx context.Context) ([]string, error) {
	for {
		models, err := c.next.ListModels(ctx)
		if !isRateLimited(err) {
			return models, err
		}
		if err := c.backoff(ctx, err); err != nil {
			return nil, err
		}
	}
}

// backoff sleeps when err is a rate limit. It returns a non-nil error only when the wait was interrupted.
func (c *rateLimitedClient) backoff(ctx context.Context, err error) error {
	var rlErr *llmerrors.RateLimitError
	if !errors.As(err, &rlErr) {
		return nil
	}

	wait := rlErr.RetryAfter + RateLimitMargin
	slog.Warn("Rate limited by model provider, retrying", "provider", c.next.Name(), "retry_after", rlErr.RetryAfter, "wait", wait)
	return c.sleep(ctx, wait)
}

func isRateLimited(err error) bool {
	var rlErr *llmerrors.RateLimitError
	return errors.As(err, &rlErr)
}
