package search

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/factlab/veracity/internal/model"
)

// retrySleep allows tests to intercept backoff delays.
var retrySleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Retrier wraps a Client with bounded exponential backoff. Transient
// failures are retried with jitter; on exhaustion the last error is
// returned and the caller decides how to degrade.
type Retrier struct {
	client   Client
	attempts int
	base     time.Duration
	logger   *slog.Logger
}

// NewRetrier wraps client with a retry policy. attempts is the total number
// of tries (default 3); base is the first backoff delay (default 1s).
func NewRetrier(client Client, attempts int, base time.Duration, logger *slog.Logger) *Retrier {
	if attempts <= 0 {
		attempts = 3
	}
	if base <= 0 {
		base = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		client:   client,
		attempts: attempts,
		base:     base,
		logger:   logger,
	}
}

// Search calls the wrapped client, retrying transient failures.
func (r *Retrier) Search(ctx context.Context, query string, numResults int) ([]model.Document, error) {
	var lastErr error

	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			backoff := r.base * time.Duration(1<<uint(attempt-1))
			backoff += time.Duration(rand.Int63n(int64(r.base)))
			r.logger.Debug("retrying search",
				"attempt", attempt+1,
				"backoff", backoff,
				"error", lastErr)
			if err := retrySleep(ctx, backoff); err != nil {
				return nil, lastErr
			}
		}

		docs, err := r.client.Search(ctx, query, numResults)
		if err == nil {
			return docs, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// isRetryable decides whether another attempt can help.
func isRetryable(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}
